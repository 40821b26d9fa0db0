package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateEventInput struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Slug        string     `json:"slug" binding:"omitempty,max=200"`
	Type        string     `json:"type" binding:"omitempty,max=20"`
	Description *string    `json:"description"`
	Date        time.Time  `json:"date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`
	City        string     `json:"city" binding:"required,max=100"`
	Region      *string    `json:"region"`
	Venue       *string    `json:"venue"`
	Address     *string    `json:"address"`
	IsFree      bool       `json:"is_free"`
	TicketPrice *float64   `json:"ticket_price" binding:"omitempty,gte=0"`
	TicketURL   *string    `json:"ticket_url" binding:"omitempty,url"`
	ImageURL    *string    `json:"image_url" binding:"omitempty,url"`

	AssociationID *uuid.UUID `json:"association_id"`
}

// Summary is the compact shape for a user's own events.
type Summary struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	City     string    `json:"city"`
	Approved bool      `json:"approved"`
}

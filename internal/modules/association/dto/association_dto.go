package dto

import (
	"folklorika.bg/backend/internal/entity"
	"github.com/google/uuid"
)

type CreateAssociationInput struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Slug        string  `json:"slug" binding:"omitempty,max=200"`
	Description *string `json:"description"`
	City        string  `json:"city" binding:"required,max=100"`
	Region      *string `json:"region"`
	Address     *string `json:"address"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	Website     *string `json:"website" binding:"omitempty,url"`
	Facebook    *string `json:"facebook" binding:"omitempty,url"`
	Instagram   *string `json:"instagram" binding:"omitempty,url"`
	ImageURL    *string `json:"image_url" binding:"omitempty,url"`
}

type Counts struct {
	Events  int64 `json:"events"`
	Members int64 `json:"members"`
}

// ListItem is a public listing row: the association plus its counts.
type ListItem struct {
	entity.Association
	Counts Counts `json:"_count"`
}

// Summary is the compact shape for a user's own associations.
type Summary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	City     string    `json:"city"`
	Approved bool      `json:"approved"`
}

// Detail is the public detail page payload.
type Detail struct {
	entity.Association
	UpcomingEvents []entity.Event `json:"upcoming_events"`
}

// PendingItem enriches a pending association for the moderation queue.
type PendingItem struct {
	entity.Association
	EventCount int64 `json:"event_count"`
}

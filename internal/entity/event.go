package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventTypeConcert     = "CONCERT"
	EventTypeFestival    = "FESTIVAL"
	EventTypeWorkshop    = "WORKSHOP"
	EventTypeCompetition = "COMPETITION"
	EventTypeGathering   = "GATHERING"
	EventTypeOther       = "OTHER"
)

// Event is a scheduled happening, optionally organized by an association.
// Like associations, events require admin approval before they are listed.
type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Type        string    `gorm:"size:20;not null;default:OTHER" json:"type"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`

	Date    time.Time  `gorm:"not null;index" json:"date"`
	EndDate *time.Time `json:"end_date,omitempty"`

	City    string  `gorm:"size:100;not null" json:"city"`
	Region  *string `gorm:"size:100" json:"region,omitempty"`
	Venue   *string `gorm:"size:200" json:"venue,omitempty"`
	Address *string `gorm:"size:255" json:"address,omitempty"`

	IsFree      bool     `gorm:"not null;default:false" json:"is_free"`
	TicketPrice *float64 `json:"ticket_price,omitempty"`
	TicketURL   *string  `gorm:"size:255" json:"ticket_url,omitempty"`
	ImageURL    *string  `gorm:"type:text" json:"image_url,omitempty"`

	Approved bool `gorm:"not null;default:false;index" json:"approved"`
	Featured bool `gorm:"not null;default:false" json:"featured"`

	// An event may exist without an organizing association.
	AssociationID *uuid.UUID `gorm:"type:uuid;index" json:"association_id,omitempty"`
	CreatorID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"creator_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Association *Association `gorm:"foreignKey:AssociationID" json:"association,omitempty"`
	Creator     *User        `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Type == "" {
		e.Type = EventTypeOther
	}
	return nil
}

// ValidEventType reports whether t is one of the known event categories.
func ValidEventType(t string) bool {
	switch t {
	case EventTypeConcert, EventTypeFestival, EventTypeWorkshop,
		EventTypeCompetition, EventTypeGathering, EventTypeOther:
		return true
	}
	return false
}

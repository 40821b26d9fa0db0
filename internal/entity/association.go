package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberRoleOwner marks the member who submitted the association.
const MemberRoleOwner = "OWNER"

// Association is a folklore club. It stays invisible to the public until an
// administrator flips Approved.
type Association struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Slug        string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	City        string    `gorm:"size:100;not null" json:"city"`
	Region      *string   `gorm:"size:100" json:"region,omitempty"`
	Address     *string   `gorm:"size:255" json:"address,omitempty"`
	Email       *string   `gorm:"size:100" json:"email,omitempty"`
	Phone       *string   `gorm:"size:50" json:"phone,omitempty"`
	Website     *string   `gorm:"size:255" json:"website,omitempty"`
	Facebook    *string   `gorm:"size:255" json:"facebook,omitempty"`
	Instagram   *string   `gorm:"size:255" json:"instagram,omitempty"`
	ImageURL    *string   `gorm:"type:text" json:"image_url,omitempty"`

	Approved  bool      `gorm:"not null;default:false;index" json:"approved"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Members []AssociationMember `gorm:"foreignKey:AssociationID" json:"members,omitempty"`
	Events  []Event             `gorm:"foreignKey:AssociationID" json:"events,omitempty"`
}

func (a *Association) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AssociationMember joins a user to an association. The submitting user is
// created as OWNER in the same transaction as the association itself.
type AssociationMember struct {
	AssociationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"association_id"`
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role          string    `gorm:"size:20;not null;default:OWNER" json:"role"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

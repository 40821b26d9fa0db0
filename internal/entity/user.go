package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	PasswordHash *string   `gorm:"size:255" json:"-"`
	Provider     string    `gorm:"size:20;not null;default:credentials" json:"provider"`
	Role         string    `gorm:"size:20;not null;default:USER" json:"role"`

	EmailVerified bool `gorm:"not null;default:false" json:"email_verified"`

	// Tokens are handed to the user raw and stored hashed, so a leaked
	// database row is not directly usable.
	VerificationTokenHash *string    `gorm:"size:64;index" json:"-"`
	ResetTokenHash        *string    `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry      *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	CreatedEvents []Event             `gorm:"foreignKey:CreatorID" json:"-"`
	Memberships   []AssociationMember `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the user may access the moderation surface.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

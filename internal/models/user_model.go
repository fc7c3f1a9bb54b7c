package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User doubles as the credential record: Password holds the bcrypt hash and
// RefreshToken is the single session slot — at most one live refresh token per
// user, overwritten on login and cleared on logout. Both are excluded from
// every JSON projection.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"uniqueIndex;size:20;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	Image        string    `gorm:"size:500" json:"image"`
	Bio          string    `gorm:"size:500" json:"bio"`
	Role         string    `gorm:"size:20;default:'user'" json:"role"`
	RefreshToken string    `gorm:"size:512" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

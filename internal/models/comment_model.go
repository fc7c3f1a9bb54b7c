package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	UserID    string    `gorm:"size:36;index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	PostID    string    `gorm:"size:36;index;not null" json:"post_id"`
	Replies   []Reply   `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Reply struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	UserID    string    `gorm:"size:36;index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CommentID string    `gorm:"size:36;index;not null" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Reply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

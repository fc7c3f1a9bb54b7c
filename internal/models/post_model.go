package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Post struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	Title      string         `gorm:"size:100;not null" json:"title"`
	Subtitle   string         `gorm:"size:100;not null" json:"subtitle"`
	Content    datatypes.JSON `json:"content,omitempty"`
	Image      string         `gorm:"size:500;not null" json:"image"`
	Slug       string         `gorm:"uniqueIndex;size:120;not null" json:"slug"`
	AuthorID   string         `gorm:"size:36;index;not null" json:"author_id"`
	Author     *User          `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	CategoryID string         `gorm:"size:36;index;not null" json:"category_id"`
	Category   *Category      `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Views      int            `gorm:"default:0" json:"views"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

package post

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hasibdev/blog-api/internal/models"
	"github.com/hasibdev/blog-api/internal/utils"
)

// UniqueSlug derives a slug from the title and suffixes a counter until no
// other post claims it: "my-post", "my-post-2", "my-post-3", ...
func UniqueSlug(db *gorm.DB, title string) (string, error) {
	base := utils.Slugify(title)
	slug := base
	for counter := 2; ; counter++ {
		var count int64
		if err := db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

type listQuery struct {
	page     int
	limit    int
	search   string
	category string
}

func (q listQuery) apply(db *gorm.DB) *gorm.DB {
	tx := db.Model(&models.Post{})
	if q.search != "" {
		pattern := "%" + q.search + "%"
		tx = tx.Where("LOWER(title) LIKE LOWER(?) OR LOWER(subtitle) LIKE LOWER(?)", pattern, pattern)
	}
	if q.category != "" {
		tx = tx.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.name = ?", q.category)
	}
	return tx
}

func (q listQuery) pageURL(page int) string {
	return fmt.Sprintf("/?page=%d&limit=%d&search=%s&category=%s", page, q.limit, q.search, q.category)
}

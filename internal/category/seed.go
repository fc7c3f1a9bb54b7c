package category

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hasibdev/blog-api/internal/models"
)

var defaultCategories = []string{
	"technology",
	"programming",
	"lifestyle",
	"travel",
	"food",
	"health",
}

// SeedDefaults inserts the fixed category set, skipping names that already
// exist.
func SeedDefaults(db *gorm.DB) error {
	for _, name := range defaultCategories {
		c := models.Category{Name: name}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&c).Error; err != nil {
			return err
		}
	}
	return nil
}

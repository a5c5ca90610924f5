package database

import (
	"gorm.io/gorm"

	"github.com/ladleworks/spoonful/backend/internal/models"
)

// RunMigrations brings the schema up to date. The composite unique indexes
// on the relation tables are part of the migration; the toggle semantics
// depend on them.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

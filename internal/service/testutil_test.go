package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ladleworks/spoonful/backend/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema. A single
// connection keeps the in-memory database alive for the whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}

func createTag(t *testing.T, db *gorm.DB, name, color, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

// createRecipeAt inserts a bare recipe row with an explicit publication
// time, so ordering tests do not depend on clock resolution.
func createRecipeAt(t *testing.T, db *gorm.DB, authorID uuid.UUID, name string, at time.Time) models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Text:        "some text",
		CookingTime: 10,
		CreatedAt:   at,
	}
	require.NoError(t, db.Create(&recipe).Error)
	return recipe
}

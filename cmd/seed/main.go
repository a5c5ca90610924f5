package main

import (
	"encoding/json"
	"flag"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ladleworks/spoonful/backend/config"
	"github.com/ladleworks/spoonful/backend/internal/database"
	"github.com/ladleworks/spoonful/backend/internal/models"
)

// Loads reference data (ingredients and tags) from JSON files into the
// database. Existing rows are left untouched.
func main() {
	ingredientsPath := flag.String("ingredients", "", "path to an ingredients JSON file")
	tagsPath := flag.String("tags", "", "path to a tags JSON file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	if *ingredientsPath != "" {
		n, err := seedIngredients(db, *ingredientsPath)
		if err != nil {
			logger.Fatal("failed to seed ingredients", zap.Error(err))
		}
		logger.Info("ingredients loaded", zap.Int("count", n))
	}

	if *tagsPath != "" {
		n, err := seedTags(db, *tagsPath)
		if err != nil {
			logger.Fatal("failed to seed tags", zap.Error(err))
		}
		logger.Info("tags loaded", zap.Int("count", n))
	}
}

func seedIngredients(db *gorm.DB, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var ingredients []models.Ingredient
	if err := json.Unmarshal(data, &ingredients); err != nil {
		return 0, err
	}

	for i := range ingredients {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ingredients[i]).Error; err != nil {
			return 0, err
		}
	}
	return len(ingredients), nil
}

func seedTags(db *gorm.DB, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var tags []models.Tag
	if err := json.Unmarshal(data, &tags); err != nil {
		return 0, err
	}

	for i := range tags {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags[i]).Error; err != nil {
			return 0, err
		}
	}
	return len(tags), nil
}

package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ladleworks/spoonful/backend/config"
	"github.com/ladleworks/spoonful/backend/internal/database"
	"github.com/ladleworks/spoonful/backend/internal/server"
	"github.com/ladleworks/spoonful/backend/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	cache, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Warn("redis unavailable, tag cache disabled", zap.Error(err))
		cache = nil
	}

	var storage service.ImageStorage
	if cfg.S3Bucket != "" {
		s3cfg, err := config.NewS3Config(context.Background(), cfg.S3Bucket)
		if err != nil {
			logger.Warn("s3 unavailable, inline image upload disabled", zap.Error(err))
		} else {
			storage = service.NewS3ImageStorage(s3cfg.Client, s3cfg.BucketName)
		}
	}

	srv := server.New(cfg, db, cache, storage, logger)
	if err := srv.Start(cfg.ServerPort); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

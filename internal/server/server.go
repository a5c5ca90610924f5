package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ladleworks/spoonful/backend/config"
	"github.com/ladleworks/spoonful/backend/internal/api"
	"github.com/ladleworks/spoonful/backend/internal/router"
	"github.com/ladleworks/spoonful/backend/internal/service"
)

// Server wires the services and handlers together around one gin engine.
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	logger *zap.Logger
}

// New creates a new server instance. cache and storage may be nil; tag
// reads then skip the cache and inline images are rejected.
func New(cfg *config.Config, db *gorm.DB, cache *redis.Client, storage service.ImageStorage, logger *zap.Logger) *Server {
	authService := service.NewAuthService(db, cfg.JWTSecret)
	relationService := service.NewRelationService(db)
	recipeService := service.NewRecipeService(db)
	shoppingListService := service.NewShoppingListService(db)
	userService := service.NewUserService(db, relationService)
	tagService := service.NewTagService(db, cache)
	ingredientService := service.NewIngredientService(db)
	imageService := service.NewImageService(storage)

	engine := router.SetupRouter(
		db,
		authService,
		api.NewAuthHandler(authService),
		api.NewRecipeHandler(recipeService, relationService, shoppingListService, imageService),
		api.NewTagHandler(tagService),
		api.NewIngredientHandler(ingredientService),
		api.NewUserHandler(userService),
	)

	return &Server{
		router: engine,
		db:     db,
		logger: logger,
	}
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("port", port))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		s.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}

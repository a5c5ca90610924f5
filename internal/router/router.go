package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ladleworks/spoonful/backend/internal/api"
	"github.com/ladleworks/spoonful/backend/internal/middleware"
)

// SetupRouter configures the application routes.
func SetupRouter(
	db *gorm.DB,
	validator middleware.TokenValidator,
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	tagHandler *api.TagHandler,
	ingredientHandler *api.IngredientHandler,
	userHandler *api.UserHandler,
) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	optional := middleware.OptionalAuthMiddleware(validator)
	required := middleware.AuthMiddleware(validator)
	admin := middleware.AdminOnly(db)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
	}

	recipes := v1.Group("/recipes")
	{
		recipes.GET("", optional, recipeHandler.ListRecipes)
		recipes.GET("/download_shopping_cart", required, recipeHandler.DownloadShoppingCart)
		recipes.GET("/:id", optional, recipeHandler.GetRecipe)
		recipes.POST("", required, recipeHandler.CreateRecipe)
		recipes.PATCH("/:id", required, recipeHandler.UpdateRecipe)
		recipes.DELETE("/:id", required, recipeHandler.DeleteRecipe)
		recipes.POST("/:id/favorite", required, recipeHandler.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", required, recipeHandler.UnfavoriteRecipe)
		recipes.POST("/:id/shopping_cart", required, recipeHandler.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", required, recipeHandler.RemoveFromShoppingCart)
	}

	tags := v1.Group("/tags")
	{
		tags.GET("", tagHandler.ListTags)
		tags.GET("/:id", tagHandler.GetTag)
		tags.POST("", required, admin, tagHandler.CreateTag)
		tags.DELETE("/:slug", required, admin, tagHandler.DeleteTag)
	}

	ingredients := v1.Group("/ingredients")
	{
		ingredients.GET("", ingredientHandler.ListIngredients)
		ingredients.GET("/:id", ingredientHandler.GetIngredient)
	}

	users := v1.Group("/users")
	{
		users.GET("", optional, userHandler.ListUsers)
		users.POST("", authHandler.Register)
		users.GET("/me", required, userHandler.Me)
		users.GET("/subscriptions", required, userHandler.Subscriptions)
		users.GET("/:id", optional, userHandler.GetUser)
		users.POST("/:id/subscribe", required, userHandler.Subscribe)
		users.DELETE("/:id/subscribe", required, userHandler.Unsubscribe)
	}

	return router
}

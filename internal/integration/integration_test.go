package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ladleworks/spoonful/backend/internal/models"
	"github.com/ladleworks/spoonful/backend/internal/service"
	"github.com/ladleworks/spoonful/backend/internal/testhelpers"
)

// Exercises the full recipe flow against a real PostgreSQL instance, where
// the unique constraints and EXISTS filters behave exactly as in production.
func TestRecipeFlowOnPostgres(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	recipes := service.NewRecipeService(db)
	relations := service.NewRelationService(db)
	shoppingList := service.NewShoppingListService(db)

	author := models.User{
		Email:        "alice@example.com",
		Username:     "alice",
		FirstName:    "Alice",
		LastName:     "Baker",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.Create(&author).Error)
	viewer := models.User{
		Email:        "bob@example.com",
		Username:     "bob",
		FirstName:    "Bob",
		LastName:     "Cook",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.Create(&viewer).Error)

	flour := models.Ingredient{Name: "flour", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&flour).Error)
	breakfast := models.Tag{Name: "breakfast", Color: "#E26C2D", Slug: "breakfast"}
	require.NoError(t, db.Create(&breakfast).Error)

	created, err := recipes.Create(ctx, author.ID, service.RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		TagIDs:      []uuid.UUID{breakfast.ID},
		Ingredients: []service.IngredientLine{{IngredientID: flour.ID, Amount: 200}},
	})
	require.NoError(t, err)

	require.NoError(t, relations.Create(ctx, service.FavoriteKind, viewer.ID, created.ID))
	err = relations.Create(ctx, service.FavoriteKind, viewer.ID, created.ID)
	assert.True(t, service.IsValidation(err), "the unique constraint rejects the duplicate")

	yes := true
	listed, total, err := recipes.List(ctx, &viewer.ID, service.RecipeFilter{IsFavorited: &yes}, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].IsFavorited)

	require.NoError(t, relations.Create(ctx, service.ShoppingCartKind, viewer.ID, created.ID))
	items, err := shoppingList.Build(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, service.ShoppingListItem{Name: "flour", Amount: 200, Unit: "g"}, items[0])
}

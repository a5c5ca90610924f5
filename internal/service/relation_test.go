package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ladleworks/spoonful/backend/internal/models"
)

func TestFavoriteToggle(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationService(db)
	ctx := context.Background()

	author := createUser(t, db, "alice")
	user := createUser(t, db, "bob")
	recipe := createRecipeAt(t, db, author.ID, "soup", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, svc.Create(ctx, FavoriteKind, user.ID, recipe.ID))

	err := svc.Create(ctx, FavoriteKind, user.ID, recipe.ID)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "recipe is already in favorites")

	require.NoError(t, svc.Delete(ctx, FavoriteKind, user.ID, recipe.ID))

	err = svc.Delete(ctx, FavoriteKind, user.ID, recipe.ID)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "recipe is not in favorites")
}

func TestShoppingCartToggle(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationService(db)
	ctx := context.Background()

	author := createUser(t, db, "alice")
	user := createUser(t, db, "bob")
	recipe := createRecipeAt(t, db, author.ID, "soup", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, svc.Create(ctx, ShoppingCartKind, user.ID, recipe.ID))
	assert.EqualError(t, svc.Create(ctx, ShoppingCartKind, user.ID, recipe.ID), "recipe is already in the shopping cart")

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "the duplicate insert must not add a row")

	require.NoError(t, svc.Delete(ctx, ShoppingCartKind, user.ID, recipe.ID))
	assert.EqualError(t, svc.Delete(ctx, ShoppingCartKind, user.ID, recipe.ID), "recipe is not in the shopping cart")
}

func TestRelationMissingTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationService(db)
	ctx := context.Background()

	user := createUser(t, db, "bob")

	assert.ErrorIs(t, svc.Create(ctx, FavoriteKind, user.ID, uuid.New()), ErrNotFound)
	assert.ErrorIs(t, svc.Create(ctx, ShoppingCartKind, user.ID, uuid.New()), ErrNotFound)
	assert.ErrorIs(t, svc.Create(ctx, FollowKind, user.ID, uuid.New()), ErrNotFound)
}

func TestRelationsAreIndependentPerUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationService(db)
	ctx := context.Background()

	author := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	recipe := createRecipeAt(t, db, author.ID, "soup", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, svc.Create(ctx, FavoriteKind, bob.ID, recipe.ID))
	require.NoError(t, svc.Create(ctx, FavoriteKind, carol.ID, recipe.ID))

	require.NoError(t, svc.Delete(ctx, FavoriteKind, bob.ID, recipe.ID))

	var count int64
	require.NoError(t, db.Model(&models.Favorite{}).Where("user_id = ?", carol.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

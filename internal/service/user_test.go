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

func TestSubscribeAndSubscriptions(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewRelationService(db))
	ctx := context.Background()

	reader := createUser(t, db, "bob")
	author := createUser(t, db, "alice")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"r1", "r2", "r3", "r4"} {
		createRecipeAt(t, db, author.ID, name, base.Add(time.Duration(i)*time.Minute))
	}

	extended, err := svc.Subscribe(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", extended.Username)
	assert.True(t, extended.IsSubscribed)
	assert.EqualValues(t, 4, extended.RecipesCount)
	require.Len(t, extended.Recipes, 3, "the preview is capped")
	assert.Equal(t, "r1", extended.Recipes[0].Name)

	subs, total, err := svc.Subscriptions(ctx, reader.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, subs, 1)
	assert.Equal(t, author.ID, subs[0].ID)
	assert.EqualValues(t, 4, subs[0].RecipesCount)
}

func TestSubscribeRejectsSelf(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewRelationService(db))

	user := createUser(t, db, "bob")
	_, err := svc.Subscribe(context.Background(), user.ID, user.ID)
	assert.True(t, IsValidation(err), "expected validation error, got %v", err)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubscribeTwiceFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewRelationService(db))
	ctx := context.Background()

	reader := createUser(t, db, "bob")
	author := createUser(t, db, "alice")

	_, err := svc.Subscribe(ctx, reader.ID, author.ID)
	require.NoError(t, err)

	_, err = svc.Subscribe(ctx, reader.ID, author.ID)
	assert.True(t, IsValidation(err), "expected validation error, got %v", err)
}

func TestUnsubscribe(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewRelationService(db))
	ctx := context.Background()

	reader := createUser(t, db, "bob")
	author := createUser(t, db, "alice")

	err := svc.Unsubscribe(ctx, reader.ID, author.ID)
	assert.True(t, IsValidation(err), "unsubscribing without a subscription must fail")

	_, err = svc.Subscribe(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Unsubscribe(ctx, reader.ID, author.ID))

	_, total, err := svc.Subscriptions(ctx, reader.ID, 1)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGetUserSubscriptionFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewRelationService(db))
	ctx := context.Background()

	reader := createUser(t, db, "bob")
	author := createUser(t, db, "alice")
	require.NoError(t, db.Create(&models.Follow{UserID: reader.ID, AuthorID: author.ID}).Error)

	profile, err := svc.Get(ctx, &reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsSubscribed)

	profile, err = svc.Get(ctx, nil, author.ID)
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	_, err = svc.Get(ctx, nil, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewRelationService(db))
	ctx := context.Background()

	bob := createUser(t, db, "bob")
	alice := createUser(t, db, "alice")
	require.NoError(t, db.Create(&models.Follow{UserID: bob.ID, AuthorID: alice.ID}).Error)

	users, total, err := svc.List(ctx, &bob.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, users, 2)

	flags := make(map[string]bool, len(users))
	for _, u := range users {
		flags[u.Username] = u.IsSubscribed
	}
	assert.True(t, flags["alice"])
	assert.False(t, flags["bob"])
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ladleworks/spoonful/backend/internal/models"
)

// RelationKind describes one of the user↔target relation tables so a single
// toggle implementation serves favorites, the shopping cart and follows.
type RelationKind struct {
	// targetColumn is the back-reference column of the relation row
	// ("recipe_id" or "author_id").
	targetColumn string

	// row builds the join row to insert.
	row func(userID, targetID uuid.UUID) interface{}

	// model returns an empty row for delete queries.
	model func() interface{}

	// targetExists verifies the target entity itself before touching the
	// relation table, so a toggle on a missing recipe/user is NotFound.
	targetExists func(tx *gorm.DB, id uuid.UUID) (bool, error)

	createFailedMessage string
	deleteFailedMessage string
}

var FavoriteKind = RelationKind{
	targetColumn: "recipe_id",
	row: func(userID, targetID uuid.UUID) interface{} {
		return &models.Favorite{UserID: userID, RecipeID: targetID}
	},
	model:               func() interface{} { return &models.Favorite{} },
	targetExists:        recipeExists,
	createFailedMessage: "recipe is already in favorites",
	deleteFailedMessage: "recipe is not in favorites",
}

var ShoppingCartKind = RelationKind{
	targetColumn: "recipe_id",
	row: func(userID, targetID uuid.UUID) interface{} {
		return &models.CartItem{UserID: userID, RecipeID: targetID}
	},
	model:               func() interface{} { return &models.CartItem{} },
	targetExists:        recipeExists,
	createFailedMessage: "recipe is already in the shopping cart",
	deleteFailedMessage: "recipe is not in the shopping cart",
}

var FollowKind = RelationKind{
	targetColumn: "author_id",
	row: func(userID, targetID uuid.UUID) interface{} {
		return &models.Follow{UserID: userID, AuthorID: targetID}
	},
	model:               func() interface{} { return &models.Follow{} },
	targetExists:        userExists,
	createFailedMessage: "already subscribed to this author",
	deleteFailedMessage: "no such subscription exists",
}

func recipeExists(tx *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func userExists(tx *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// RelationService implements the create-or-delete toggle shared by all
// three relation kinds.
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

// Create inserts the (user, target) row for kind. A duplicate insert loses
// the race on the unique constraint and comes back as a ValidationError,
// never as a server fault.
func (s *RelationService) Create(ctx context.Context, kind RelationKind, userID, targetID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	exists, err := kind.targetExists(db, targetID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	if err := db.Create(kind.row(userID, targetID)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return NewValidationError(kind.createFailedMessage)
		}
		return err
	}
	return nil
}

// Delete removes the (user, target) row for kind. Deleting an absent
// relation fails with a ValidationError; the operation is intentionally not
// idempotent.
func (s *RelationService) Delete(ctx context.Context, kind RelationKind, userID, targetID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND "+kind.targetColumn+" = ?", userID, targetID).
		Delete(kind.model())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NewValidationError(kind.deleteFailedMessage)
	}
	return nil
}

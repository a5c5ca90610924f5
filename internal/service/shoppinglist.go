package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ladleworks/spoonful/backend/internal/models"
)

// ShoppingListItem is one consolidated line of the downloadable list.
type ShoppingListItem struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	Unit   string `json:"measurement_unit"`
}

// ShoppingListService aggregates ingredient amounts across every recipe in
// a user's shopping cart.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Build returns one entry per distinct ingredient name with amounts summed.
// Entries keep the order of first encounter, walking cart items oldest
// first; the unit comes from the ingredient definition.
func (s *ShoppingListService) Build(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var rows []struct {
		Name   string
		Amount int
		Unit   string
	}
	err := s.db.WithContext(ctx).
		Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, recipe_ingredients.amount AS amount, ingredients.measurement_unit AS unit").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Order("shopping_cart_items.created_at, recipe_ingredients.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(rows))
	items := make([]ShoppingListItem, 0, len(rows))
	for _, row := range rows {
		if i, ok := index[row.Name]; ok {
			items[i].Amount += row.Amount
			continue
		}
		index[row.Name] = len(items)
		items = append(items, ShoppingListItem{Name: row.Name, Amount: row.Amount, Unit: row.Unit})
	}
	return items, nil
}

// RenderShoppingList produces the plain-text download document. Anything
// beyond numbered "name - amount unit" lines is a rendering concern that
// lives outside this service.
func RenderShoppingList(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list\n\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s - %d %s\n", i+1, item.Name, item.Amount, item.Unit)
	}
	return b.String()
}

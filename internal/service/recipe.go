package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ladleworks/spoonful/backend/internal/models"
)

// RecipePageSize is the recipe listing page size. Other list types carry
// their own constants; they are deliberately not shared.
const RecipePageSize = 6

// RecipeService owns the recipe entity, its ingredient lines and tag
// associations, and the per-viewer annotated listing query.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// RecipeFilter narrows the recipe listing. The boolean filters only apply
// for authenticated viewers; for anonymous viewers they are ignored.
type RecipeFilter struct {
	AuthorID         *uuid.UUID
	TagSlugs         []string
	IsFavorited      *bool
	IsInShoppingCart *bool
}

// IngredientLine is one (ingredient, amount) entry of a create/update payload.
type IngredientLine struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeInput carries the full create/update payload. Updates replace the
// whole tag and ingredient set rather than diffing it.
type RecipeInput struct {
	Name        string
	Text        string
	ImageURL    string
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []IngredientLine
}

// RecipeIngredientLine is an ingredient line resolved against the
// ingredient catalog for representation.
type RecipeIngredientLine struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// AnnotatedRecipe is a recipe augmented with viewer-relative flags computed
// at query time. Both flags are always false for anonymous viewers.
type AnnotatedRecipe struct {
	ID               uuid.UUID              `json:"id"`
	Name             string                 `json:"name"`
	Text             string                 `json:"text"`
	Image            string                 `json:"image"`
	CookingTime      int                    `json:"cooking_time"`
	PubDate          time.Time              `json:"pub_date"`
	Author           UserProfile            `json:"author"`
	Tags             []models.Tag           `json:"tags"`
	Ingredients      []RecipeIngredientLine `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
}

// RecipeMinified is the short representation returned by the relation
// toggles and embedded in subscription previews.
type RecipeMinified struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// filtered builds the listing query. Tag filtering goes through an IN
// subquery so a recipe with several matching tags still appears once.
func (s *RecipeService) filtered(ctx context.Context, viewerID *uuid.UUID, filter RecipeFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Recipe{})
	if filter.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		q = q.Where("recipes.id IN (?)",
			s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
	}
	if viewerID != nil {
		if filter.IsFavorited != nil {
			q = q.Where(existsClause("favorites", *filter.IsFavorited), *viewerID)
		}
		if filter.IsInShoppingCart != nil {
			q = q.Where(existsClause("shopping_cart_items", *filter.IsInShoppingCart), *viewerID)
		}
	}
	return q
}

func existsClause(table string, want bool) string {
	op := "EXISTS"
	if !want {
		op = "NOT EXISTS"
	}
	return fmt.Sprintf("%s (SELECT 1 FROM %s WHERE %s.user_id = ? AND %s.recipe_id = recipes.id)", op, table, table, table)
}

// List returns one page of annotated recipes plus the total match count.
// Ordering is publication ascending, oldest first, as in the original feed.
func (s *RecipeService) List(ctx context.Context, viewerID *uuid.UUID, filter RecipeFilter, page int) ([]AnnotatedRecipe, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := s.filtered(ctx, viewerID, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := s.filtered(ctx, viewerID, filter).
		Preload("Author").
		Preload("Tags").
		Preload("IngredientLines.Ingredient").
		Order("recipes.created_at").
		Offset((page - 1) * RecipePageSize).
		Limit(RecipePageSize).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	annotated, err := s.annotate(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return annotated, total, nil
}

// Get returns a single annotated recipe.
func (s *RecipeService) Get(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*AnnotatedRecipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("IngredientLines.Ingredient").
		First(&recipe, "recipes.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	annotated, err := s.annotate(ctx, viewerID, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &annotated[0], nil
}

// Minified returns the short toggle representation of a recipe.
func (s *RecipeService) Minified(ctx context.Context, id uuid.UUID) (*RecipeMinified, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &RecipeMinified{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

// annotate resolves the viewer-relative flags with batched existence
// lookups against the relation tables. The flags are never stored on the
// recipe row, so they cannot go stale.
func (s *RecipeService) annotate(ctx context.Context, viewerID *uuid.UUID, recipes []models.Recipe) ([]AnnotatedRecipe, error) {
	favorited := make(map[uuid.UUID]bool)
	inCart := make(map[uuid.UUID]bool)
	following := make(map[uuid.UUID]bool)

	if viewerID != nil && len(recipes) > 0 {
		ids := make([]uuid.UUID, len(recipes))
		for i, r := range recipes {
			ids[i] = r.ID
		}

		var recipeIDs []uuid.UUID
		if err := s.db.WithContext(ctx).Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id IN ?", *viewerID, ids).
			Pluck("recipe_id", &recipeIDs).Error; err != nil {
			return nil, err
		}
		for _, id := range recipeIDs {
			favorited[id] = true
		}

		var cartIDs []uuid.UUID
		if err := s.db.WithContext(ctx).Model(&models.CartItem{}).
			Where("user_id = ? AND recipe_id IN ?", *viewerID, ids).
			Pluck("recipe_id", &cartIDs).Error; err != nil {
			return nil, err
		}
		for _, id := range cartIDs {
			inCart[id] = true
		}

		var authorIDs []uuid.UUID
		if err := s.db.WithContext(ctx).Model(&models.Follow{}).
			Where("user_id = ?", *viewerID).
			Pluck("author_id", &authorIDs).Error; err != nil {
			return nil, err
		}
		for _, id := range authorIDs {
			following[id] = true
		}
	}

	annotated := make([]AnnotatedRecipe, len(recipes))
	for i, r := range recipes {
		lines := make([]RecipeIngredientLine, len(r.IngredientLines))
		for j, line := range r.IngredientLines {
			lines[j] = RecipeIngredientLine{
				ID:     line.IngredientID,
				Amount: line.Amount,
			}
			if line.Ingredient != nil {
				lines[j].Name = line.Ingredient.Name
				lines[j].MeasurementUnit = line.Ingredient.MeasurementUnit
			}
		}

		var author UserProfile
		if r.Author != nil {
			author = UserProfile{
				ID:           r.Author.ID,
				Email:        r.Author.Email,
				Username:     r.Author.Username,
				FirstName:    r.Author.FirstName,
				LastName:     r.Author.LastName,
				IsSubscribed: following[r.AuthorID],
			}
		}

		tags := r.Tags
		if tags == nil {
			tags = []models.Tag{}
		}

		annotated[i] = AnnotatedRecipe{
			ID:               r.ID,
			Name:             r.Name,
			Text:             r.Text,
			Image:            r.ImageURL,
			CookingTime:      r.CookingTime,
			PubDate:          r.CreatedAt,
			Author:           author,
			Tags:             tags,
			Ingredients:      lines,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
		}
	}
	return annotated, nil
}

// Create stores the recipe row, its tag associations and all ingredient
// lines as one transaction; a failed step persists nothing.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, input RecipeInput) (*AnnotatedRecipe, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}

	var recipeID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, input.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, input.Ingredients); err != nil {
			return err
		}

		recipe := models.Recipe{
			AuthorID:    authorID,
			Name:        input.Name,
			Text:        input.Text,
			ImageURL:    input.ImageURL,
			CookingTime: input.CookingTime,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&recipe).Association("Tags").Append(&tags); err != nil {
				return err
			}
		}
		if err := createIngredientLines(tx, recipe.ID, input.Ingredients); err != nil {
			return err
		}
		recipeID = recipe.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, &authorID, recipeID)
}

// Update replaces the recipe fields and re-creates the full tag and
// ingredient set from the payload inside a single transaction.
func (s *RecipeService) Update(ctx context.Context, viewerID, id uuid.UUID, input RecipeInput) (*AnnotatedRecipe, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		tags, err := resolveTags(tx, input.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, input.Ingredients); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         input.Name,
			"text":         input.Text,
			"cooking_time": input.CookingTime,
		}
		if input.ImageURL != "" {
			updates["image_url"] = input.ImageURL
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}

		if len(tags) > 0 {
			if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
				return err
			}
		} else {
			if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
				return err
			}
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return createIngredientLines(tx, recipe.ID, input.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, &viewerID, id)
}

// Delete removes the recipe together with its ingredient lines, tag
// associations and any relation rows referencing it.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

func validateRecipeInput(input RecipeInput) error {
	if input.CookingTime < models.MinCookingTime || input.CookingTime > models.MaxCookingTime {
		return NewValidationError(fmt.Sprintf("cooking_time must be between %d and %d", models.MinCookingTime, models.MaxCookingTime))
	}
	if len(input.Ingredients) == 0 {
		return NewValidationError("add at least one ingredient")
	}
	seen := make(map[uuid.UUID]bool, len(input.Ingredients))
	for _, line := range input.Ingredients {
		if line.Amount < models.MinAmount || line.Amount > models.MaxAmount {
			return NewValidationError(fmt.Sprintf("ingredient amount must be between %d and %d", models.MinAmount, models.MaxAmount))
		}
		if seen[line.IngredientID] {
			return NewValidationError("recipe contains the same ingredient twice")
		}
		seen[line.IngredientID] = true
	}
	return nil
}

// resolveTags loads the requested tags and fails with NotFound when any id
// does not exist.
func resolveTags(tx *gorm.DB, tagIDs []uuid.UUID) ([]models.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, err
	}
	unique := make(map[uuid.UUID]bool, len(tagIDs))
	for _, id := range tagIDs {
		unique[id] = true
	}
	if len(tags) != len(unique) {
		return nil, ErrNotFound
	}
	return tags, nil
}

func checkIngredientsExist(tx *gorm.DB, lines []IngredientLine) error {
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.IngredientID
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrNotFound
	}
	return nil
}

func createIngredientLines(tx *gorm.DB, recipeID uuid.UUID, lines []IngredientLine) error {
	rows := make([]models.RecipeIngredient, len(lines))
	for i, line := range lines {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		}
	}
	return tx.Create(&rows).Error
}

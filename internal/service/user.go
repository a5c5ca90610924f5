package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ladleworks/spoonful/backend/internal/models"
)

// Per-list page sizes. The recipe listing has its own constant; these are
// intentionally not shared across list types.
const (
	userPageSize         = 10
	subscriptionPageSize = 10

	// subscriptionRecipesLimit bounds the recipe preview embedded in
	// subscription entries.
	subscriptionRecipesLimit = 3
)

// UserProfile is the viewer-relative user representation.
type UserProfile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// UserWithRecipes extends the profile with a recipe preview and total
// count, used by the subscription endpoints.
type UserWithRecipes struct {
	UserProfile
	Recipes      []RecipeMinified `json:"recipes"`
	RecipesCount int64            `json:"recipes_count"`
}

type UserService struct {
	db        *gorm.DB
	relations *RelationService
}

func NewUserService(db *gorm.DB, relations *RelationService) *UserService {
	return &UserService{db: db, relations: relations}
}

// Get returns one user with is_subscribed computed for the viewer.
func (s *UserService) Get(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*UserProfile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	subscribed, err := s.isSubscribed(ctx, viewerID, user.ID)
	if err != nil {
		return nil, err
	}
	profile := profileOf(user, subscribed)
	return &profile, nil
}

// List returns one page of users ordered by registration time.
func (s *UserService) List(ctx context.Context, viewerID *uuid.UUID, page int) ([]UserProfile, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("created_at").
		Offset((page - 1) * userPageSize).
		Limit(userPageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	followed, err := s.followedSet(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}

	profiles := make([]UserProfile, len(users))
	for i, u := range users {
		profiles[i] = profileOf(u, followed[u.ID])
	}
	return profiles, total, nil
}

// Subscribe follows an author on behalf of userID and returns the extended
// author representation. Following yourself is rejected before the relation
// store is touched.
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*UserWithRecipes, error) {
	if userID == authorID {
		return nil, NewValidationError("cannot subscribe to yourself")
	}
	if err := s.relations.Create(ctx, FollowKind, userID, authorID); err != nil {
		return nil, err
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		return nil, err
	}
	extended, err := s.withRecipes(ctx, []models.User{author}, map[uuid.UUID]bool{authorID: true})
	if err != nil {
		return nil, err
	}
	return &extended[0], nil
}

func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	return s.relations.Delete(ctx, FollowKind, userID, authorID)
}

// Subscriptions lists the authors the user follows, oldest follow first,
// each with a recipe preview and recipe count.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, page int) ([]UserWithRecipes, int64, error) {
	if page < 1 {
		page = 1
	}

	base := s.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("follows.created_at").
		Offset((page - 1) * subscriptionPageSize).
		Limit(subscriptionPageSize).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}

	followed := make(map[uuid.UUID]bool, len(authors))
	for _, a := range authors {
		followed[a.ID] = true
	}
	extended, err := s.withRecipes(ctx, authors, followed)
	if err != nil {
		return nil, 0, err
	}
	return extended, total, nil
}

func (s *UserService) withRecipes(ctx context.Context, users []models.User, followed map[uuid.UUID]bool) ([]UserWithRecipes, error) {
	extended := make([]UserWithRecipes, len(users))
	for i, u := range users {
		var recipes []models.Recipe
		err := s.db.WithContext(ctx).
			Where("author_id = ?", u.ID).
			Order("created_at").
			Limit(subscriptionRecipesLimit).
			Find(&recipes).Error
		if err != nil {
			return nil, err
		}

		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", u.ID).Count(&count).Error; err != nil {
			return nil, err
		}

		preview := make([]RecipeMinified, len(recipes))
		for j, r := range recipes {
			preview[j] = RecipeMinified{
				ID:          r.ID,
				Name:        r.Name,
				Image:       r.ImageURL,
				CookingTime: r.CookingTime,
			}
		}
		extended[i] = UserWithRecipes{
			UserProfile:  profileOf(u, followed[u.ID]),
			Recipes:      preview,
			RecipesCount: count,
		}
	}
	return extended, nil
}

func (s *UserService) isSubscribed(ctx context.Context, viewerID *uuid.UUID, authorID uuid.UUID) (bool, error) {
	if viewerID == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", *viewerID, authorID).
		Count(&count).Error
	return count > 0, err
}

func (s *UserService) followedSet(ctx context.Context, viewerID *uuid.UUID) (map[uuid.UUID]bool, error) {
	followed := make(map[uuid.UUID]bool)
	if viewerID == nil {
		return followed, nil
	}
	var authorIDs []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ?", *viewerID).
		Pluck("author_id", &authorIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range authorIDs {
		followed[id] = true
	}
	return followed, nil
}

func profileOf(u models.User, subscribed bool) UserProfile {
	return UserProfile{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

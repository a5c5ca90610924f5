package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ladleworks/spoonful/backend/internal/models"
)

const (
	tagCacheKey = "tags:all"
	tagCacheTTL = time.Hour
)

// TagService serves the tag catalog. Tags change rarely, so reads go
// through Redis when a client is configured; cache trouble degrades to a
// database read.
type TagService struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewTagService(db *gorm.DB, cache *redis.Client) *TagService {
	return &TagService{db: db, cache: cache}
}

type TagInput struct {
	Name  string
	Color string
	Slug  string
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, tagCacheKey).Bytes(); err == nil {
			var tags []models.Tag
			if err := json.Unmarshal(payload, &tags); err == nil {
				return tags, nil
			}
		}
	}

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(tags); err == nil {
			s.cache.Set(ctx, tagCacheKey, payload, tagCacheTTL)
		}
	}
	return tags, nil
}

func (s *TagService) Get(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

func (s *TagService) Create(ctx context.Context, input TagInput) (*models.Tag, error) {
	tag := models.Tag{
		Name:  input.Name,
		Color: input.Color,
		Slug:  input.Slug,
	}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("tag with the same name, color or slug already exists")
		}
		return nil, err
	}
	s.invalidate(ctx)
	return &tag, nil
}

func (s *TagService) DeleteBySlug(ctx context.Context, slug string) error {
	res := s.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Tag{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *TagService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Del(ctx, tagCacheKey)
	}
}

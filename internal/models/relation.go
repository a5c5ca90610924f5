package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The three relation kinds are plain (user, target) edges. De-duplication is
// enforced by composite unique indexes so concurrent toggles race on the
// database constraint, not on application-level checks.

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_favorite"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_favorite;index"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_cart_item"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_cart_item;index"`
}

func (CartItem) TableName() string {
	return "shopping_cart_items"
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}

// Follow links a follower (UserID) to a followed author (AuthorID).
// Self-follow is rejected at the service boundary, not here.
type Follow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_follow"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_follow;index"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

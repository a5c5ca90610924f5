package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bounds shared by cooking time and ingredient amounts. Both columns were
// small positive integers in the original schema.
const (
	MinCookingTime = 1
	MaxCookingTime = 32767
	MinAmount      = 1
	MaxAmount      = 32767
)

// Recipe is the central entity. CreatedAt doubles as the publication
// timestamp; listings are ordered by it.
type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"pub_date"`
	UpdatedAt   time.Time `json:"-"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Author      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	ImageURL    string    `gorm:"size:255" json:"image"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`

	Tags            []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"-"`
	IngredientLines []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient is the ingredient-amount join line. A recipe may
// reference an ingredient at most once.
type RecipeIngredient struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"-"`
	CreatedAt    time.Time   `json:"-"`
	RecipeID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uniq_recipe_ingredient" json:"-"`
	IngredientID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uniq_recipe_ingredient" json:"id"`
	Ingredient   *Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount       int         `gorm:"not null" json:"amount"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

package api

import "github.com/google/uuid"

type RecipeIngredientInput struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required"`
}

type RecipeRequest struct {
	Name        string                  `json:"name" binding:"required"`
	Text        string                  `json:"text" binding:"required"`
	Image       string                  `json:"image"`
	CookingTime int                     `json:"cooking_time" binding:"required"`
	Tags        []uuid.UUID             `json:"tags"`
	Ingredients []RecipeIngredientInput `json:"ingredients"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TagRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
	Slug  string `json:"slug" binding:"required"`
}

// pagedResponse is the envelope of every paginated listing.
type pagedResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}

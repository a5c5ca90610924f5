package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ladleworks/spoonful/backend/internal/service"
)

type RecipeHandler struct {
	recipes      *service.RecipeService
	relations    *service.RelationService
	shoppingList *service.ShoppingListService
	images       *service.ImageService
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	relations *service.RelationService,
	shoppingList *service.ShoppingListService,
	images *service.ImageService,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		relations:    relations,
		shoppingList: shoppingList,
		images:       images,
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := service.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      boolFlag(c.Query("is_favorited")),
		IsInShoppingCart: boolFlag(c.Query("is_in_shopping_cart")),
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}

	recipes, total, err := h.recipes.List(c.Request.Context(), viewerID(c), filter, pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse{Count: total, Results: recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), viewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := h.recipeInput(c, req)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, *input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := h.recipeInput(c, req)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, *input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recipeInput converts the request payload, pushing any inline image
// through the storage collaborator first.
func (h *RecipeHandler) recipeInput(c *gin.Context, req RecipeRequest) (*service.RecipeInput, error) {
	imageURL := req.Image
	if h.images != nil {
		stored, err := h.images.StoreBase64(c.Request.Context(), req.Image)
		if err != nil {
			return nil, err
		}
		imageURL = stored
	}

	lines := make([]service.IngredientLine, len(req.Ingredients))
	for i, line := range req.Ingredients {
		lines[i] = service.IngredientLine{IngredientID: line.ID, Amount: line.Amount}
	}
	return &service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: lines,
	}, nil
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.createRelation(c, service.FavoriteKind)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.deleteRelation(c, service.FavoriteKind)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.createRelation(c, service.ShoppingCartKind)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.deleteRelation(c, service.ShoppingCartKind)
}

// createRelation handles the POST side of both recipe toggles and answers
// with the minified recipe representation.
func (h *RecipeHandler) createRelation(c *gin.Context, kind service.RelationKind) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.relations.Create(c.Request.Context(), kind, userID, recipeID); err != nil {
		respondError(c, err)
		return
	}

	minified, err := h.recipes.Minified(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, minified)
}

func (h *RecipeHandler) deleteRelation(c *gin.Context, kind service.RelationKind) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.relations.Delete(c.Request.Context(), kind, userID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart renders the consolidated shopping list as a text
// attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	items, err := h.shoppingList.Build(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	doc := service.RenderShoppingList(items)
	c.Header("Content-Disposition", `attachment; filename="shopping_cart.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
}

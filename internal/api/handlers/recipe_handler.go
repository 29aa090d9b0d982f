package handlers

import (
	"errors"
	"strconv"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/middleware"
	"foodgram/pkg/recipe"
	"foodgram/pkg/shoppinglist"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipe(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToShoppingCart(c *fiber.Ctx) error
		RemoveFromShoppingCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
		SendShoppingCart(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService       recipe.RecipeService
		shoppingListService shoppinglist.ShoppingListService
		validator           *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, shoppingListService shoppinglist.ShoppingListService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService:       recipeService,
		shoppingListService: shoppingListService,
		validator:           validator,
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	filter, err := parseRecipeFilter(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, err)
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(domain.DefaultRecipesPageSize)))
	if err != nil || limit < 1 {
		limit = domain.DefaultRecipesPageSize
	}

	recipes, count, err := h.recipeService.GetRecipes(c.Context(), middleware.Requester(c), filter, page, limit)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"recipes": recipes,
		"count":   count,
		"page":    page,
		"limit":   limit,
	}, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

// parseRecipeFilter reads tags (repeatable), author, is_favorited and is_in_shopping_cart.
func parseRecipeFilter(c *fiber.Ctx) (domain.RecipeFilter, error) {
	filter := domain.RecipeFilter{AuthorID: c.Query("author")}

	for _, slug := range c.Context().QueryArgs().PeekMulti("tags") {
		filter.Tags = append(filter.Tags, string(slug))
	}

	var err error
	if filter.IsFavorited, err = queryBool(c, "is_favorited"); err != nil {
		return filter, err
	}
	if filter.IsInShoppingCart, err = queryBool(c, "is_in_shopping_cart"); err != nil {
		return filter, err
	}
	return filter, nil
}

func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.ErrInvalidFilterValue
	}
	return &value, nil
}

func (h *recipeHandler) GetRecipe(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipe(c.Context(), middleware.Requester(c), c.Params("id"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	req := new(domain.RecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), middleware.Requester(c), *req)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	req := new(domain.RecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), middleware.Requester(c), c.Params("id"), *req)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	if err := h.recipeService.DeleteRecipe(c.Context(), middleware.Requester(c), c.Params("id")); err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedDeleteRecipe, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	res, err := h.recipeService.AddFavorite(c.Context(), middleware.Requester(c), c.Params("id"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedAddFavorite, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFavorite)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	if err := h.recipeService.RemoveFavorite(c.Context(), middleware.Requester(c), c.Params("id")); err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedRemoveFavorite, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) AddToShoppingCart(c *fiber.Ctx) error {
	res, err := h.recipeService.AddToShoppingCart(c.Context(), middleware.Requester(c), c.Params("id"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedAddShoppingCart, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddShoppingCart)
}

func (h *recipeHandler) RemoveFromShoppingCart(c *fiber.Ctx) error {
	if err := h.recipeService.RemoveFromShoppingCart(c.Context(), middleware.Requester(c), c.Params("id")); err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedRemoveShoppingCart, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	content, err := h.shoppingListService.Download(c.Context(), middleware.Requester(c))
	if err != nil {
		if errors.Is(err, domain.ErrEmptyResult) {
			return presenters.ErrorResponse(c, fiber.StatusNoContent, domain.MessageShoppingCartEmpty, err)
		}
		return presenters.ServiceErrorResponse(c, domain.MessageFailedDownloadShoppingCart, err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+shoppinglist.FileName)
	return c.Status(fiber.StatusOK).Send(content)
}

func (h *recipeHandler) SendShoppingCart(c *fiber.Ctx) error {
	if err := h.shoppingListService.Send(c.Context(), middleware.Requester(c)); err != nil {
		if errors.Is(err, domain.ErrEmptyResult) {
			return presenters.ErrorResponse(c, fiber.StatusNoContent, domain.MessageShoppingCartEmpty, err)
		}
		return presenters.ServiceErrorResponse(c, domain.MessageFailedSendShoppingCart, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessSendShoppingCart)
}

package handlers

import (
	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/pkg/catalog"

	"github.com/gofiber/fiber/v2"
)

type (
	CatalogHandler interface {
		GetTags(c *fiber.Ctx) error
		GetTag(c *fiber.Ctx) error
		GetIngredients(c *fiber.Ctx) error
		GetIngredient(c *fiber.Ctx) error
	}

	catalogHandler struct {
		catalogService catalog.CatalogService
	}
)

func NewCatalogHandler(catalogService catalog.CatalogService) CatalogHandler {
	return &catalogHandler{
		catalogService: catalogService,
	}
}

func (h *catalogHandler) GetTags(c *fiber.Ctx) error {
	res, err := h.catalogService.GetTags(c.Context())
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetTags, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *catalogHandler) GetTag(c *fiber.Ctx) error {
	res, err := h.catalogService.GetTag(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetTag, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTag)
}

// GetIngredients supports ?name= for a case-insensitive prefix search.
func (h *catalogHandler) GetIngredients(c *fiber.Ctx) error {
	res, err := h.catalogService.GetIngredients(c.Context(), c.Query("name"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetIngredients, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *catalogHandler) GetIngredient(c *fiber.Ctx) error {
	res, err := h.catalogService.GetIngredient(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetIngredient, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredient)
}

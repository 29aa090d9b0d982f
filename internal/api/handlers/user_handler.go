package handlers

import (
	"strconv"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/pkg/user"

	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		GetUsers(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		GetUser(c *fiber.Ctx) error
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
		GetSubscriptions(c *fiber.Ctx) error
	}

	userHandler struct {
		userService user.UserService
	}
)

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandler{
		userService: userService,
	}
}

func (h *userHandler) GetUsers(c *fiber.Ctx) error {
	res, err := h.userService.GetUsers(c.Context(), middleware.Requester(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetUsers, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUsers)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	res, err := h.userService.Me(c.Context(), middleware.Requester(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetUser, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) GetUser(c *fiber.Ctx) error {
	res, err := h.userService.GetUser(c.Context(), middleware.Requester(c), c.Params("id"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetUser, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) Subscribe(c *fiber.Ctx) error {
	res, err := h.userService.Subscribe(c.Context(), middleware.Requester(c), c.Params("id"), recipesLimit(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedSubscribe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *userHandler) Unsubscribe(c *fiber.Ctx) error {
	if err := h.userService.Unsubscribe(c.Context(), middleware.Requester(c), c.Params("id")); err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedUnsubscribe, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *userHandler) GetSubscriptions(c *fiber.Ctx) error {
	res, err := h.userService.GetSubscriptions(c.Context(), middleware.Requester(c), recipesLimit(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetSubscriptions, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSubscriptions)
}

// recipesLimit reads ?recipes_limit=, falling back to RECIPES_LIMIT for missing or negative values.
func recipesLimit(c *fiber.Ctx) int {
	fallback := utils.GetConfigInt("RECIPES_LIMIT", 3)
	limit, err := strconv.Atoi(c.Query("recipes_limit", strconv.Itoa(fallback)))
	if err != nil || limit < 0 {
		return fallback
	}
	return limit
}

package presenters

import (
	"errors"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
)

type (
	Response struct {
		Status  bool        `json:"status"`
		Message string      `json:"message"`
		Data    interface{} `json:"data,omitempty"`
		Error   string      `json:"error,omitempty"`
	}
)

func SuccessResponse(c *fiber.Ctx, data interface{}, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(statusCode).JSON(res)
}

// StatusFromError maps a service error to its HTTP status through the error kind it wraps.
// Unclassified errors are internal.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrEmptyResult):
		return fiber.StatusNoContent
	default:
		return fiber.StatusInternalServerError
	}
}

// ServiceErrorResponse renders err with the status of its kind. Internal errors are not
// echoed back to the client.
func ServiceErrorResponse(c *fiber.Ctx, message string, err error) error {
	status := StatusFromError(err)
	if status == fiber.StatusInternalServerError {
		return ErrorResponse(c, status, message, errors.New(domain.MessageFailedProcessRequest))
	}
	return ErrorResponse(c, status, message, err)
}

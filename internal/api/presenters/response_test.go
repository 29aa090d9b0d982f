package presenters

import (
	"errors"
	"fmt"
	"testing"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrAlreadyFavorited, fiber.StatusBadRequest},
		{fmt.Errorf("%w: bad bytes", domain.ErrInvalidImageFormat), fiber.StatusBadRequest},
		{domain.ErrRecipeNotFound, fiber.StatusNotFound},
		{domain.ErrAuthRequired, fiber.StatusUnauthorized},
		{domain.ErrTokenExpired, fiber.StatusUnauthorized},
		{domain.ErrUnauthorizedRecipeAccess, fiber.StatusForbidden},
		{domain.ErrShoppingCartEmpty, fiber.StatusNoContent},
		{errors.New("connection reset"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFromError(tt.err), tt.err.Error())
	}
}

package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/urbano-pos-api/internal/application/saga"
	"github.com/jhoicas/urbano-pos-api/internal/domain"
)

func TestErrorStatus(t *testing.T) {
	partial := &saga.PartialFailureError{
		Saga:          "create_sale",
		Step:          "decrement_stock",
		Cause:         domain.ErrInsufficientStock,
		Compensations: []error{errors.New("db caída")},
	}

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", domain.NewValidationError("precio"), fiber.StatusBadRequest, CodeValidation},
		{"no encontrado", domain.NotFoundf("venta x"), fiber.StatusNotFound, CodeNotFound},
		{"stock", fmt.Errorf("p1: %w", domain.ErrInsufficientStock), fiber.StatusConflict, CodeInsufficientStock},
		{"conflicto", domain.ErrConflict, fiber.StatusConflict, CodeConflict},
		{"rechazo silencioso", domain.ErrSilentRejection, fiber.StatusInternalServerError, CodeSilentRejection},
		{"fallo parcial con causa de conflicto", partial, fiber.StatusInternalServerError, CodePartialFailure},
		{"desconocido", errors.New("boom"), fiber.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := errorStatus(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/urbano-pos-api/internal/application/dto"
	"github.com/jhoicas/urbano-pos-api/internal/domain"
)

// Códigos de error expuestos en dto.ErrorResponse.
const (
	CodeInvalidBody       = "INVALID_BODY"
	CodeValidation        = "VALIDATION"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodePartialFailure    = "PARTIAL_FAILURE"
	CodeSilentRejection   = "SILENT_REJECTION"
	CodeInternal          = "INTERNAL"
	CodeIdempotency       = "IDEMPOTENCY_IN_PROGRESS"
)

// errorStatus traduce un error de dominio a status y código HTTP.
// El fallo parcial va primero: envuelve la causa original, que puede ser de cualquier tipo.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrPartialFailure):
		return fiber.StatusInternalServerError, CodePartialFailure
	case errors.Is(err, domain.ErrSilentRejection):
		return fiber.StatusInternalServerError, CodeSilentRejection
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, CodeInsufficientStock
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, CodeConflict
	default:
		return fiber.StatusInternalServerError, CodeInternal
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// ErrorHandler errores que escapan de los handlers (rutas inexistentes, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = CodeInvalidBody
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return respondError(c, err)
}

package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/urbano-pos-api/internal/application/dto"
	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
	"github.com/jhoicas/urbano-pos-api/pkg/logger"
)

// HeaderIdempotencyKey cabecera que identifica un intento de creación.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLen = 255

// Idempotency repite la respuesta guardada para una clave ya completada y responde 409 mientras
// el primer request con esa clave sigue en curso. Las respuestas 5xx liberan la clave.
// Con store nil o sin cabecera el request pasa sin cambios.
func Idempotency(store ports.IdempotencyStore, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if store == nil || key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return c.Status(fiber.StatusBadRequest).JSON(errorBody(CodeValidation, "Idempotency-Key demasiado larga"))
		}

		ctx := c.UserContext()
		scoped := c.Method() + ":" + c.Path() + ":" + key
		reserved, prev, err := store.Reserve(ctx, scoped)
		if err != nil {
			// Redis caído: se atiende el request sin protección.
			log.Warn().Err(err).Str("key", key).Msg("idempotency: reserva fallida")
			return c.Next()
		}
		if !reserved {
			if prev == nil {
				return c.Status(fiber.StatusConflict).JSON(errorBody(CodeIdempotency, "hay un request en curso con la misma Idempotency-Key"))
			}
			c.Set("Idempotent-Replayed", "true")
			if prev.ContentType != "" {
				c.Set(fiber.HeaderContentType, prev.ContentType)
			}
			return c.Status(prev.Status).Send(prev.Body)
		}

		bg := context.WithoutCancel(ctx)
		nextErr := c.Next()
		status := c.Response().StatusCode()
		if nextErr != nil || status >= fiber.StatusInternalServerError {
			if err := store.Release(bg, scoped); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("idempotency: liberar clave")
			}
			return nextErr
		}

		resp := ports.StoredResponse{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Complete(bg, scoped, resp); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("idempotency: guardar respuesta")
		}
		return nil
	}
}

func errorBody(code, msg string) dto.ErrorResponse {
	return dto.ErrorResponse{Code: code, Message: msg}
}

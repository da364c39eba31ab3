package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInternal          = errors.New("error interno")
	ErrInsufficientStock = fmt.Errorf("%w: stock insuficiente", ErrConflict)
	// ErrSilentRejection: el store aceptó la escritura pero no afectó filas de un registro que existe
	// (p. ej. una política de acceso a nivel de fila). No es un "no encontrado".
	ErrSilentRejection = fmt.Errorf("%w: el almacenamiento no permitió la modificación", ErrInternal)
	// ErrPartialFailure: un flujo falló y su compensación también; requiere conciliación manual.
	ErrPartialFailure = fmt.Errorf("%w: fallo parcial", ErrInternal)
)

// ValidationError error corregible por el usuario. El mensaje incluye los valores esperados.
type ValidationError struct {
	Message string
}

// NewValidationError construye un ValidationError con formato.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Message }

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NotFoundf envuelve ErrNotFound con detalle.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// RequireFound convierte una lectura exitosa sin datos (nil, nil) en ErrNotFound.
func RequireFound[T any](v *T, err error, what string) (*T, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, NotFoundf("%s", what)
	}
	return v, nil
}

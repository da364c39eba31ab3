package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/urbano-pos-api/internal/domain"
)

// Códigos reconocidos por el traductor.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNoRows              = "PGRST116" // lectura de fila única sin resultados (PostgREST)
)

// TranslateError traduce un fallo del store a la taxonomía de dominio:
// sin filas / "not found" → ErrNotFound; 23505 / "duplicate" / 23503 (fila referenciada) → ErrConflict;
// el resto → ErrInternal.
// Errores que ya son de dominio se devuelven tal cual.
func TranslateError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInternal) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s: %s", domain.ErrConflict, op, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s: referencia %s", domain.ErrConflict, op, pgErr.ConstraintName)
		case codeNoRows:
			return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, strings.ToLower(codeNoRows)) || strings.Contains(msg, "not found"):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	case isUniqueViolation(err) || strings.Contains(msg, "duplicate"):
		return fmt.Errorf("%w: %s", domain.ErrConflict, op)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrInternal, op, err)
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/urbano-pos-api/internal/domain"
)

func TestTranslateError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"sin filas", pgx.ErrNoRows, domain.ErrNotFound},
		{"sin filas envuelto", fmt.Errorf("get sale: %w", pgx.ErrNoRows), domain.ErrNotFound},
		{"código PostgREST", &pgconn.PgError{Code: "PGRST116", Message: "JSON object requested, multiple (or no) rows returned"}, domain.ErrNotFound},
		{"mensaje not found", errors.New("relation row Not Found"), domain.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "sales_pkey"}, domain.ErrConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503", ConstraintName: "purchases_product_id_fkey"}, domain.ErrConflict},
		{"mensaje duplicate", errors.New("duplicate key value violates unique constraint"), domain.ErrConflict},
		{"cualquier otro", errors.New("connection refused"), domain.ErrInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TranslateError(tc.err, "op")
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestTranslateError_ConservaCausa(t *testing.T) {
	assert.NoError(t, TranslateError(nil, "op"))

	got := TranslateError(context.DeadlineExceeded, "list sales")
	assert.ErrorIs(t, got, domain.ErrInternal)
	assert.ErrorIs(t, got, context.DeadlineExceeded, "la causa sigue accesible")

	already := domain.NotFoundf("venta x")
	assert.Same(t, already, TranslateError(already, "op"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(errors.New("ERROR: ... (SQLSTATE 23505)")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

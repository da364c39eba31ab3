package pagination_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
)

// ──────────────────────────────────────────────────────────────────────────────
// Codificación del cursor
// ──────────────────────────────────────────────────────────────────────────────

func TestCursor_RoundTripID(t *testing.T) {
	c := pagination.Cursor{Value: "5b1c1a0e-8f4e-4c1e-9a57-2d7a3c1e0f11"}

	got, ok := pagination.Decode(pagination.Encode(c))
	require.True(t, ok)
	assert.Equal(t, c, got)
}

func TestCursor_RoundTripTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 123456000, time.UTC)
	c := pagination.KeyOf(pagination.FieldCreatedAt, "abc", ts)

	got, ok := pagination.Decode(pagination.Encode(c))
	require.True(t, ok)
	assert.Equal(t, c, got)

	parsed, err := got.Time()
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed), "el timestamp debe sobrevivir la ida y vuelta")
}

func TestCursor_DecodeLegacyStdBase64(t *testing.T) {
	legacy := base64.StdEncoding.EncodeToString([]byte("2024-01-01T00:00:00.000Z"))

	got, ok := pagination.Decode(legacy)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", got.Value)
	assert.Empty(t, got.ID, "un cursor antiguo no trae desempate")
}

func TestCursor_DecodeMalformed(t *testing.T) {
	for _, s := range []string{"", "   ", "%%%not-base64%%%", base64.RawURLEncoding.EncodeToString([]byte{0xff, 0xfe}), base64.RawURLEncoding.EncodeToString([]byte(`{"v":`))} {
		_, ok := pagination.Decode(s)
		assert.False(t, ok, "cursor %q debe tratarse como ausente", s)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalización de parámetros
// ──────────────────────────────────────────────────────────────────────────────

func TestParams_WindowDefaultsAndClamp(t *testing.T) {
	w := pagination.Params{}.Window(pagination.FieldCreatedAt)
	assert.Equal(t, pagination.DefaultLimit, w.Size)
	assert.Equal(t, pagination.FieldCreatedAt, w.OrderBy)
	assert.True(t, w.Desc, "el orden por defecto es descendente")
	assert.Nil(t, w.After)
	assert.Equal(t, pagination.DefaultLimit+1, w.FetchLimit())

	assert.Equal(t, pagination.MaxLimit, pagination.Params{Limit: 500}.Window(pagination.FieldID).Size)
	assert.Equal(t, 1, pagination.Params{Limit: -3}.Window(pagination.FieldID).Size)

	w = pagination.Params{OrderBy: "name", Order: pagination.Asc}.Window(pagination.FieldID)
	assert.Equal(t, pagination.FieldID, w.OrderBy, "un campo no ordenable cae al campo por defecto")
	assert.False(t, w.Desc)
}

func TestParams_WindowIgnoresBadCursor(t *testing.T) {
	w := pagination.Params{Cursor: "%%%"}.Window(pagination.FieldID)
	assert.Nil(t, w.After)

	// un cursor de ID no sirve para ordenar por created_at
	idCursor := pagination.Encode(pagination.Cursor{Value: "not-a-time"})
	w = pagination.Params{Cursor: idCursor, OrderBy: pagination.FieldCreatedAt}.Window(pagination.FieldID)
	assert.Nil(t, w.After)

	w = pagination.Params{Cursor: idCursor, OrderBy: pagination.FieldID}.Window(pagination.FieldID)
	require.NotNil(t, w.After)
	assert.Equal(t, "not-a-time", w.After.Value)
}

func TestMonthPeriod(t *testing.T) {
	p := pagination.MonthPeriod(2, 2024)
	require.NotNil(t, p)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), p.From)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), p.To)
	assert.True(t, p.Contains(time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(p.To), "el fin del rango es exclusivo")

	p = pagination.MonthPeriod(12, 2023)
	require.NotNil(t, p)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), p.To)

	p = pagination.MonthPeriod(0, 2024)
	require.NotNil(t, p)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), p.To)

	assert.Nil(t, pagination.MonthPeriod(5, 0), "mes sin año no filtra")
}

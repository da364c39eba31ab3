package dto

import "github.com/jhoicas/urbano-pos-api/internal/domain/pagination"

// ListQuery parámetros de listado con cursor (query string).
// Limit fuera de rango se acota a [1,100]; un cursor ilegible equivale a "sin cursor".
type ListQuery struct {
	Limit   int    `query:"limit"`
	Cursor  string `query:"cursor"`
	OrderBy string `query:"orderBy" validate:"omitempty,oneof=id created_at"`
	Order   string `query:"order" validate:"omitempty,oneof=asc desc"`
	Month   int    `query:"month" validate:"omitempty,min=1,max=12"`
	Year    int    `query:"year" validate:"omitempty,min=1970,max=9999"`
}

// Params convierte la query en parámetros del motor de paginación.
func (q ListQuery) Params() pagination.Params {
	return pagination.Params{
		Limit:   q.Limit,
		Cursor:  q.Cursor,
		OrderBy: pagination.Field(q.OrderBy),
		Order:   pagination.Direction(q.Order),
	}
}

// Period rango de created_at pedido (nil sin filtro).
func (q ListQuery) Period() *pagination.Period {
	return pagination.MonthPeriod(q.Month, q.Year)
}

// PageResponse página de resultados con cursor opaco.
type PageResponse[T any] struct {
	Data       []T     `json:"data"`
	NextCursor *string `json:"nextCursor"`
}

// MapPage convierte una página de entidades en una página de respuestas.
func MapPage[T, U any](p pagination.Page[T], fn func(T) U) PageResponse[U] {
	out := make([]U, 0, len(p.Data))
	for _, item := range p.Data {
		out = append(out, fn(item))
	}
	return PageResponse[U]{Data: out, NextCursor: p.NextCursor}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

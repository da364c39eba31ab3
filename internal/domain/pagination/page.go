package pagination

import (
	"context"
	"time"
)

// Límites de página.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Field campo de orden permitido.
type Field string

const (
	FieldID        Field = "id"
	FieldCreatedAt Field = "created_at"
)

// Valid indica si el campo es ordenable.
func (f Field) Valid() bool { return f == FieldID || f == FieldCreatedAt }

// Direction sentido del orden.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Params parámetros de listado tal como llegan del cliente.
type Params struct {
	Limit   int
	Cursor  string
	OrderBy Field
	Order   Direction
}

// Window ventana ya normalizada que reciben los repositorios.
type Window struct {
	OrderBy Field
	Desc    bool
	After   *Cursor // límite estricto (> en asc, < en desc); nil = inicio del conjunto
	Size    int     // tamaño de página
}

// FetchLimit filas a pedir al store: una más que la página para saber si hay más.
func (w Window) FetchLimit() int { return w.Size + 1 }

// Window normaliza los parámetros: límite por defecto 20 acotado a [1,100], orden por defecto
// defaultField desc. Un cursor ilegible (o un valor que no es timestamp al ordenar por created_at)
// se ignora.
func (p Params) Window(defaultField Field) Window {
	w := Window{OrderBy: p.OrderBy, Desc: p.Order != Asc, Size: p.Limit}
	if !w.OrderBy.Valid() {
		w.OrderBy = defaultField
	}
	switch {
	case w.Size == 0:
		w.Size = DefaultLimit
	case w.Size < 1:
		w.Size = 1
	case w.Size > MaxLimit:
		w.Size = MaxLimit
	}
	if c, ok := Decode(p.Cursor); ok {
		if w.OrderBy == FieldCreatedAt {
			if _, err := c.Time(); err != nil {
				return w
			}
		}
		w.After = &c
	}
	return w
}

// Page página de resultados con el cursor de la siguiente (nil si no hay más).
type Page[T any] struct {
	Data       []T
	NextCursor *string
}

// Fetch ejecuta fetch sobre la ventana y recorta el resultado a Size filas.
// Si el store devolvió Size+1 filas, NextCursor codifica la clave de la última fila de la página.
func Fetch[T any](
	ctx context.Context,
	w Window,
	fetch func(ctx context.Context, w Window) ([]T, error),
	key func(item T) Cursor,
) (Page[T], error) {
	rows, err := fetch(ctx, w)
	if err != nil {
		return Page[T]{}, err
	}
	page := Page[T]{Data: rows}
	if len(rows) > w.Size {
		page.Data = rows[:w.Size]
		next := Encode(key(page.Data[w.Size-1]))
		page.NextCursor = &next
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return page, nil
}

// Period rango semiabierto [From, To) sobre created_at.
type Period struct {
	From time.Time
	To   time.Time
}

// MonthPeriod devuelve el rango UTC del mes (month 1-12 y year) o del año (solo year).
// Sin año no hay filtro: un mes sin año se ignora.
func MonthPeriod(month, year int) *Period {
	if year <= 0 {
		return nil
	}
	if month >= 1 && month <= 12 {
		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return &Period{From: from, To: from.AddDate(0, 1, 0)}
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &Period{From: from, To: from.AddDate(1, 0, 0)}
}

// Contains indica si t cae dentro del período.
func (p *Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && t.Before(p.To)
}

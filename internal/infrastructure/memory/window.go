// Package memory implementa los repositorios en memoria (tests y STORE_DRIVER=memory).
// Reproducen la semántica de los adaptadores PostgreSQL: orden (campo, id), límite estricto
// del cursor, FetchLimit y filas afectadas.
package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
)

type rowKey struct {
	at time.Time
	id string
}

func (k rowKey) compare(o rowKey, field pagination.Field, withID bool) int {
	if field == pagination.FieldCreatedAt {
		if c := k.at.Compare(o.at); c != 0 || !withID {
			return c
		}
	}
	return strings.Compare(k.id, o.id)
}

// cursorKey traduce el cursor de la ventana; ok=false si no hay cursor utilizable.
func cursorKey(w pagination.Window) (key rowKey, withID, ok bool) {
	if w.After == nil {
		return rowKey{}, false, false
	}
	if w.OrderBy != pagination.FieldCreatedAt {
		return rowKey{id: w.After.Value}, true, true
	}
	t, err := w.After.Time()
	if err != nil {
		return rowKey{}, false, false
	}
	return rowKey{at: t, id: w.After.ID}, w.After.ID != "", true
}

// applyWindow ordena, filtra por el cursor y recorta a FetchLimit.
func applyWindow[T any](rows []T, w pagination.Window, key func(T) rowKey) []T {
	sort.Slice(rows, func(i, j int) bool {
		c := key(rows[i]).compare(key(rows[j]), w.OrderBy, true)
		if w.Desc {
			return c > 0
		}
		return c < 0
	})

	if after, withID, ok := cursorKey(w); ok {
		filtered := rows[:0]
		for _, r := range rows {
			c := key(r).compare(after, w.OrderBy, withID)
			if (w.Desc && c < 0) || (!w.Desc && c > 0) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	if len(rows) > w.FetchLimit() {
		rows = rows[:w.FetchLimit()]
	}
	return rows
}

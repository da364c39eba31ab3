package postgres

import (
	"fmt"
	"strings"

	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
)

// query arma un SELECT con condiciones y argumentos posicionales.
type query struct {
	where []string
	args  []any
}

// arg agrega un argumento y devuelve su marcador ($n).
func (q *query) arg(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *query) and(cond string) { q.where = append(q.where, cond) }

// window agrega el límite estricto del cursor y devuelve el ORDER BY ... LIMIT de la ventana.
// Con created_at el orden es (created_at, id) para que los empates se recorran una sola vez.
func (q *query) window(w pagination.Window) string {
	op, dir := ">", "ASC"
	if w.Desc {
		op, dir = "<", "DESC"
	}

	if w.OrderBy == pagination.FieldCreatedAt {
		if w.After != nil {
			if t, err := w.After.Time(); err == nil {
				if id, ok := parseID(w.After.ID); ok {
					q.and(fmt.Sprintf("(created_at, id) %s (%s, %s)", op, q.arg(t), q.arg(id)))
				} else {
					q.and(fmt.Sprintf("created_at %s %s", op, q.arg(t)))
				}
			}
		}
		return fmt.Sprintf("ORDER BY created_at %s, id %s LIMIT %s", dir, dir, q.arg(w.FetchLimit()))
	}

	if w.After != nil {
		if id, ok := parseID(w.After.Value); ok {
			q.and(fmt.Sprintf("id %s %s", op, q.arg(id)))
		}
	}
	return fmt.Sprintf("ORDER BY id %s LIMIT %s", dir, q.arg(w.FetchLimit()))
}

// period agrega el rango [from, to) sobre created_at.
func (q *query) period(p *pagination.Period) {
	if p == nil {
		return
	}
	q.and(fmt.Sprintf("created_at >= %s AND created_at < %s", q.arg(p.From), q.arg(p.To)))
}

// sql compone la consulta final.
func (q *query) sql(selectFrom, tail string) string {
	var b strings.Builder
	b.WriteString(selectFrom)
	if len(q.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(q.where, " AND "))
	}
	b.WriteString(" ")
	b.WriteString(tail)
	return b.String()
}

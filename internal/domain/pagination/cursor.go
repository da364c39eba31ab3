// Package pagination implementa la paginación por cursor opaco usada por todos los listados.
//
// El cursor codifica el valor del campo de orden de la última fila de la página (no un offset),
// junto con el ID de esa fila como desempate. Así los límites de página son estables aunque se
// inserten o eliminen filas en otras partes del conjunto.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

// Cursor valor decodificado de un cursor: valor del campo de orden + ID de desempate.
// En el orden por ID, Value es el propio ID y ID queda vacío.
type Cursor struct {
	Value string `json:"v"`
	ID    string `json:"id,omitempty"`
}

// Encode codifica el cursor como base64 URL-safe.
// Un cursor sin desempate se codifica como el valor crudo (formato compatible con clientes anteriores).
func Encode(c Cursor) string {
	if c.ID == "" {
		return base64.RawURLEncoding.EncodeToString([]byte(c.Value))
	}
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode decodifica un cursor. Un cursor malformado se reporta con ok=false y se trata como
// "sin cursor" (inicio del conjunto), nunca como error.
func Decode(s string) (Cursor, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Cursor{}, false
	}
	raw, ok := decodeBase64(s)
	if !ok || len(raw) == 0 || !utf8.Valid(raw) {
		return Cursor{}, false
	}
	if raw[0] == '{' {
		var c Cursor
		if err := json.Unmarshal(raw, &c); err != nil || c.Value == "" {
			return Cursor{}, false
		}
		return c, true
	}
	return Cursor{Value: string(raw)}, true
}

// Time interpreta Value como timestamp RFC 3339.
func (c Cursor) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, c.Value)
}

// TimeValue formatea un timestamp para usarlo como Value de un cursor.
func TimeValue(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// KeyOf construye el cursor de una fila según el campo de orden.
func KeyOf(field Field, id string, createdAt time.Time) Cursor {
	if field == FieldCreatedAt {
		return Cursor{Value: TimeValue(createdAt), ID: id}
	}
	return Cursor{Value: id}
}

// Acepta cualquier variante de base64: los cursores antiguos usan el alfabeto estándar con padding.
func decodeBase64(s string) ([]byte, bool) {
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding, base64.URLEncoding, base64.StdEncoding, base64.RawStdEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, true
		}
	}
	return nil, false
}

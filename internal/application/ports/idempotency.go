package ports

import "context"

// StoredResponse respuesta guardada para repetir ante un reintento con la misma clave.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore reserva claves Idempotency-Key y guarda la respuesta final.
// Reserve devuelve reserved=true si la clave es nueva; si no, prev es la respuesta guardada
// o nil cuando el primer request sigue en curso.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (reserved bool, prev *StoredResponse, err error)
	Complete(ctx context.Context, key string, resp StoredResponse) error
	Release(ctx context.Context, key string) error
}

package observability

import (
	"context"

	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
)

// Multi reparte cada evento a todos los sinks, en orden.
type Multi []ports.Observer

// NewMulti descarta los nil.
func NewMulti(observers ...ports.Observer) Multi {
	out := make(Multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m Multi) Observe(ctx context.Context, e ports.Event) {
	for _, o := range m {
		o.Observe(ctx, e)
	}
}

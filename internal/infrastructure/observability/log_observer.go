package observability

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
	"github.com/jhoicas/urbano-pos-api/pkg/logger"
)

var _ ports.Observer = (*LogObserver)(nil)

// LogObserver convierte los eventos del núcleo en líneas de log estructuradas.
type LogObserver struct {
	log *logger.Logger
}

// NewLogObserver construye el sink de logs.
func NewLogObserver(l *logger.Logger) *LogObserver {
	return &LogObserver{log: l}
}

func (o *LogObserver) Observe(_ context.Context, e ports.Event) {
	ev := o.event(e.Name)
	if e.Saga != "" {
		ev = ev.Str("saga", e.Saga)
	}
	if e.Step != "" {
		ev = ev.Str("step", e.Step)
	}
	if e.Duration > 0 {
		ev = ev.Dur("duration", e.Duration)
	}
	if e.Err != nil {
		ev = ev.Err(e.Err)
	}
	if len(e.Fields) > 0 {
		ev = ev.Fields(e.Fields)
	}
	ev.Msg(e.Name)
}

// event nivel según gravedad: fallo parcial es error, compensaciones y rechazos son warn.
func (o *LogObserver) event(name string) *zerolog.Event {
	switch name {
	case ports.EventSagaFailed, ports.EventCompensationFailed:
		return o.log.Error()
	case ports.EventStepFailed, ports.EventSagaCompensated, ports.EventRestockSkipped,
		ports.EventSilentRejection, ports.EventImageCleanup:
		return o.log.Warn()
	case ports.EventSagaCompleted:
		return o.log.Info()
	default:
		return o.log.Debug()
	}
}

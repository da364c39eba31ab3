package ports

import (
	"context"
	"time"
)

// Nombres de eventos emitidos por los casos de uso.
const (
	EventSagaStarted        = "saga.started"
	EventSagaCompleted      = "saga.completed"
	EventSagaCompensated    = "saga.compensated"
	EventSagaFailed         = "saga.partial_failure"
	EventStepCompleted      = "saga.step.completed"
	EventStepFailed         = "saga.step.failed"
	EventCompensationFailed = "saga.compensation.failed"
	EventRestockSkipped     = "sale.restock_skipped"
	EventSilentRejection    = "sale.silent_rejection"
	EventImageCleanup       = "product.image_cleanup_failed"
)

// Event evento estructurado emitido por el núcleo. Fields lleva datos adicionales (ids, cantidades).
type Event struct {
	Name     string
	Saga     string
	Step     string
	Duration time.Duration
	Err      error
	Fields   map[string]any
}

// Observer puerto de observabilidad: el núcleo emite eventos y el adaptador decide el destino
// (logs, métricas). Observe no debe bloquear ni fallar.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

// NopObserver descarta todos los eventos.
type NopObserver struct{}

func (NopObserver) Observe(context.Context, Event) {}

// ObserverFunc adapta una función al puerto Observer.
type ObserverFunc func(ctx context.Context, e Event)

func (f ObserverFunc) Observe(ctx context.Context, e Event) { f(ctx, e) }

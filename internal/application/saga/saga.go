// Package saga ejecuta flujos de varios pasos sobre un store sin transacciones entre tablas.
// Cada paso tiene una acción y su compensación; ante el primer fallo se compensan en orden
// inverso los pasos ya completados.
package saga

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
	"github.com/jhoicas/urbano-pos-api/internal/domain"
)

// Step paso de la saga. Compensate puede ser nil (paso final o sin efecto que deshacer).
type Step struct {
	Name       string
	Do         func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga secuencia ordenada de pasos.
type Saga struct {
	name     string
	steps    []Step
	observer ports.Observer
}

// New crea una saga vacía. observer nil equivale a NopObserver.
func New(name string, observer ports.Observer) *Saga {
	if observer == nil {
		observer = ports.NopObserver{}
	}
	return &Saga{name: name, observer: observer}
}

// Add agrega un paso al final.
func (s *Saga) Add(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Run ejecuta los pasos en orden. Si un paso falla se compensan los anteriores en orden inverso
// con un contexto que ignora la cancelación del request. Devuelve el error original cuando la
// compensación termina bien y *PartialFailureError cuando alguna compensación falla.
func (s *Saga) Run(ctx context.Context) error {
	start := time.Now()
	s.emit(ctx, ports.Event{Name: ports.EventSagaStarted})

	for i, step := range s.steps {
		stepStart := time.Now()
		err := step.Do(ctx)
		if err == nil {
			s.emit(ctx, ports.Event{Name: ports.EventStepCompleted, Step: step.Name, Duration: time.Since(stepStart)})
			continue
		}

		s.emit(ctx, ports.Event{Name: ports.EventStepFailed, Step: step.Name, Duration: time.Since(stepStart), Err: err})
		compErrs := s.compensate(context.WithoutCancel(ctx), i)
		if len(compErrs) > 0 {
			pf := &PartialFailureError{Saga: s.name, Step: step.Name, Cause: err, Compensations: compErrs}
			s.emit(ctx, ports.Event{Name: ports.EventSagaFailed, Step: step.Name, Duration: time.Since(start), Err: pf})
			return pf
		}
		s.emit(ctx, ports.Event{Name: ports.EventSagaCompensated, Step: step.Name, Duration: time.Since(start), Err: err})
		return err
	}

	s.emit(ctx, ports.Event{Name: ports.EventSagaCompleted, Duration: time.Since(start)})
	return nil
}

// compensate deshace los pasos [0, failed) en orden inverso. Sigue aunque una compensación falle.
func (s *Saga) compensate(ctx context.Context, failed int) []error {
	var errs []error
	for i := failed - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.emit(ctx, ports.Event{Name: ports.EventCompensationFailed, Step: step.Name, Err: err})
			errs = append(errs, fmt.Errorf("compensar %s: %w", step.Name, err))
		}
	}
	return errs
}

func (s *Saga) emit(ctx context.Context, e ports.Event) {
	e.Saga = s.name
	s.observer.Observe(ctx, e)
}

// PartialFailureError un paso falló y al menos una compensación también: el estado quedó
// parcialmente aplicado y requiere conciliación manual.
type PartialFailureError struct {
	Saga          string
	Step          string
	Cause         error
	Compensations []error
}

func (e *PartialFailureError) Error() string {
	msgs := make([]string, 0, len(e.Compensations))
	for _, c := range e.Compensations {
		msgs = append(msgs, c.Error())
	}
	return fmt.Sprintf("%s: fallo parcial en %s: %v; compensación: %s",
		e.Saga, e.Step, e.Cause, strings.Join(msgs, "; "))
}

// Unwrap expone la causa original y los errores de compensación.
func (e *PartialFailureError) Unwrap() []error {
	return append([]error{e.Cause}, e.Compensations...)
}

// Is permite errors.Is(err, domain.ErrPartialFailure) y errors.Is(err, domain.ErrInternal).
func (e *PartialFailureError) Is(target error) bool {
	return target == domain.ErrPartialFailure || target == domain.ErrInternal
}

// AsPartialFailure extrae el detalle de un fallo parcial.
func AsPartialFailure(err error) (*PartialFailureError, bool) {
	var pf *PartialFailureError
	ok := errors.As(err, &pf)
	return pf, ok
}

package saga_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
	"github.com/jhoicas/urbano-pos-api/internal/application/saga"
	"github.com/jhoicas/urbano-pos-api/internal/domain"
)

// recorder guarda los eventos y el orden de ejecución.
type recorder struct {
	mu     sync.Mutex
	calls  []string
	events []ports.Event
}

func (r *recorder) Observe(_ context.Context, e ports.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) step(name string, doErr, compErr error) saga.Step {
	return saga.Step{
		Name: name,
		Do: func(context.Context) error {
			r.calls = append(r.calls, "do:"+name)
			return doErr
		},
		Compensate: func(context.Context) error {
			r.calls = append(r.calls, "undo:"+name)
			return compErr
		},
	}
}

func (r *recorder) names() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name)
	}
	return out
}

func TestSaga_TodosLosPasosOK(t *testing.T) {
	rec := &recorder{}
	err := saga.New("test", rec).
		Add(rec.step("a", nil, nil)).
		Add(rec.step("b", nil, nil)).
		Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"do:a", "do:b"}, rec.calls)
	assert.Equal(t, ports.EventSagaStarted, rec.names()[0])
	assert.Equal(t, ports.EventSagaCompleted, rec.names()[len(rec.events)-1])
}

func TestSaga_CompensaEnOrdenInverso(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")

	err := saga.New("test", rec).
		Add(rec.step("a", nil, nil)).
		Add(rec.step("b", nil, nil)).
		Add(rec.step("c", boom, nil)).
		Add(rec.step("d", nil, nil)).
		Run(context.Background())

	assert.ErrorIs(t, err, boom, "si la compensación funciona se devuelve el error original")
	assert.NotErrorIs(t, err, domain.ErrPartialFailure)
	assert.Equal(t, []string{"do:a", "do:b", "do:c", "undo:b", "undo:a"}, rec.calls)
	assert.Contains(t, rec.names(), ports.EventSagaCompensated)
}

func TestSaga_FalloParcialCuandoLaCompensacionFalla(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("insert items")
	undoErr := errors.New("delete header")

	err := saga.New("create_sale", rec).
		Add(rec.step("header", nil, undoErr)).
		Add(rec.step("items", boom, nil)).
		Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPartialFailure)
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.ErrorIs(t, err, boom, "la causa original sigue accesible")
	assert.ErrorIs(t, err, undoErr)

	pf, ok := saga.AsPartialFailure(err)
	require.True(t, ok)
	assert.Equal(t, "items", pf.Step)
	assert.Len(t, pf.Compensations, 1)
	assert.Contains(t, rec.names(), ports.EventCompensationFailed)
	assert.Contains(t, rec.names(), ports.EventSagaFailed)
}

func TestSaga_CompensaAunqueElContextoEsteCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var compCtxErr error

	err := saga.New("test", nil).
		Add(saga.Step{
			Name: "a",
			Do:   func(context.Context) error { return nil },
			Compensate: func(ctx context.Context) error {
				compCtxErr = ctx.Err()
				return nil
			},
		}).
		Add(saga.Step{
			Name: "b",
			Do: func(context.Context) error {
				cancel()
				return context.Canceled
			},
		}).
		Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, compCtxErr, "la compensación no hereda la cancelación")
}

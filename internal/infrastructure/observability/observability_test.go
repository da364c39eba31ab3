package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
	"github.com/jhoicas/urbano-pos-api/pkg/logger"
)

// ────────────────────────────────────────────────────────────────────────────
// LogObserver
// ────────────────────────────────────────────────────────────────────────────

func TestLogObserver_NivelYCampos(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(logger.NewWithWriter(&buf, "debug"))

	obs.Observe(context.Background(), ports.Event{
		Name:   ports.EventSagaFailed,
		Saga:   "sale.create",
		Step:   "insert_items",
		Err:    errors.New("db caída"),
		Fields: map[string]any{"sale_id": "s1"},
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "sale.create", line["saga"])
	assert.Equal(t, "insert_items", line["step"])
	assert.Equal(t, "db caída", line["error"])
	assert.Equal(t, "s1", line["sale_id"])
	assert.Equal(t, ports.EventSagaFailed, line["message"])
}

func TestLogObserver_RestockOmitidoEsWarn(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(logger.NewWithWriter(&buf, "warn"))

	obs.Observe(context.Background(), ports.Event{Name: ports.EventStepCompleted, Saga: "sale.remove"})
	obs.Observe(context.Background(), ports.Event{Name: ports.EventRestockSkipped, Saga: "sale.remove"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "el paso completado es debug y no se escribe")
	assert.Contains(t, lines[0], `"level":"warn"`)
}

// ────────────────────────────────────────────────────────────────────────────
// MetricsObserver
// ────────────────────────────────────────────────────────────────────────────

func TestMetricsObserver_ContadoresPorResultado(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsObserver(reg)
	ctx := context.Background()

	m.Observe(ctx, ports.Event{Name: ports.EventSagaStarted, Saga: "sale.create"})
	m.Observe(ctx, ports.Event{Name: ports.EventStepCompleted, Saga: "sale.create", Step: "insert_sale", Duration: time.Millisecond})
	m.Observe(ctx, ports.Event{Name: ports.EventSagaCompleted, Saga: "sale.create", Duration: 2 * time.Millisecond})

	m.Observe(ctx, ports.Event{Name: ports.EventSagaStarted, Saga: "sale.create"})
	m.Observe(ctx, ports.Event{Name: ports.EventStepFailed, Saga: "sale.create", Step: "insert_items"})
	m.Observe(ctx, ports.Event{Name: ports.EventCompensationFailed, Saga: "sale.create", Step: "insert_sale"})
	m.Observe(ctx, ports.Event{Name: ports.EventSagaFailed, Saga: "sale.create"})

	m.Observe(ctx, ports.Event{Name: ports.EventRestockSkipped, Saga: "sale.remove"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sagas.WithLabelValues("sale.create", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sagas.WithLabelValues("sale.create", "partial_failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.active.WithLabelValues("sale.create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stepFailures.WithLabelValues("sale.create", "insert_items", "step")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stepFailures.WithLabelValues("sale.create", "insert_sale", "compensation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.anomalies.WithLabelValues(ports.EventRestockSkipped)))
}

func TestMetricsObserver_RegistroDobleReutiliza(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := NewMetricsObserver(reg)
	b := NewMetricsObserver(reg)

	a.Observe(context.Background(), ports.Event{Name: ports.EventSilentRejection})
	assert.Equal(t, 1.0, testutil.ToFloat64(b.anomalies.WithLabelValues(ports.EventSilentRejection)))
}

// ────────────────────────────────────────────────────────────────────────────
// Multi
// ────────────────────────────────────────────────────────────────────────────

func TestMulti_RepartePorOrden(t *testing.T) {
	var got []string
	rec := func(tag string) ports.Observer {
		return ports.ObserverFunc(func(_ context.Context, e ports.Event) { got = append(got, tag+":"+e.Name) })
	}

	NewMulti(rec("a"), nil, rec("b")).Observe(context.Background(), ports.Event{Name: "x"})
	assert.Equal(t, []string{"a:x", "b:x"}, got)
}

package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
)

var _ ports.Observer = (*MetricsObserver)(nil)

// MetricsObserver métricas Prometheus de sagas y pasos.
type MetricsObserver struct {
	sagas        *prometheus.CounterVec
	sagaDuration *prometheus.HistogramVec
	stepDuration *prometheus.HistogramVec
	stepFailures *prometheus.CounterVec
	anomalies    *prometheus.CounterVec
	active       *prometheus.GaugeVec
}

// NewMetricsObserver registra las métricas en registerer (nil = DefaultRegisterer).
// Registrar dos veces reutiliza los colectores existentes.
func NewMetricsObserver(registerer prometheus.Registerer) *MetricsObserver {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &MetricsObserver{
		sagas: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_saga_total",
			Help: "Sagas finalizadas por resultado (completed, compensated, partial_failure)",
		}, []string{"saga", "outcome"})),
		sagaDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pos_saga_duration_seconds",
			Help:    "Duración de las sagas en segundos",
			Buckets: prometheus.DefBuckets,
		}, []string{"saga"})),
		stepDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pos_saga_step_duration_seconds",
			Help:    "Duración de cada paso de saga en segundos",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"saga", "step"})),
		stepFailures: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_saga_step_failures_total",
			Help: "Pasos fallidos y compensaciones fallidas",
		}, []string{"saga", "step", "kind"})),
		anomalies: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_anomalies_total",
			Help: "Restock omitido, rechazos silenciosos del store y limpiezas de imagen fallidas",
		}, []string{"event"})),
		active: register(registerer, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pos_active_sagas",
			Help: "Sagas en ejecución",
		}, []string{"saga"})),
	}
}

func register[C prometheus.Collector](registerer prometheus.Registerer, collector C) C {
	if err := registerer.Register(collector); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := already.ExistingCollector.(C)
			if !ok {
				panic(fmt.Sprintf("collector already registered with unexpected type: %T", already.ExistingCollector))
			}
			return existing
		}
		panic(fmt.Sprintf("register collector: %v", err))
	}
	return collector
}

func (m *MetricsObserver) Observe(_ context.Context, e ports.Event) {
	switch e.Name {
	case ports.EventSagaStarted:
		m.active.WithLabelValues(e.Saga).Inc()
	case ports.EventSagaCompleted:
		m.finish(e, "completed")
	case ports.EventSagaCompensated:
		m.finish(e, "compensated")
	case ports.EventSagaFailed:
		m.finish(e, "partial_failure")
	case ports.EventStepCompleted:
		m.stepDuration.WithLabelValues(e.Saga, e.Step).Observe(e.Duration.Seconds())
	case ports.EventStepFailed:
		m.stepDuration.WithLabelValues(e.Saga, e.Step).Observe(e.Duration.Seconds())
		m.stepFailures.WithLabelValues(e.Saga, e.Step, "step").Inc()
	case ports.EventCompensationFailed:
		m.stepFailures.WithLabelValues(e.Saga, e.Step, "compensation").Inc()
	case ports.EventRestockSkipped, ports.EventSilentRejection, ports.EventImageCleanup:
		m.anomalies.WithLabelValues(e.Name).Inc()
	}
}

func (m *MetricsObserver) finish(e ports.Event, outcome string) {
	m.active.WithLabelValues(e.Saga).Dec()
	m.sagas.WithLabelValues(e.Saga, outcome).Inc()
	m.sagaDuration.WithLabelValues(e.Saga).Observe(e.Duration.Seconds())
}

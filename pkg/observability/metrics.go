package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/atv/pkg/domain"
)

// Outcome label values.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// Metrics records validation counts, durations and failing validators.
type Metrics struct {
	Validations *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Failures    *prometheus.CounterVec
	gatherer    prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg. Collectors
// already registered on reg are reused, so NewMetrics may be called more
// than once per registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atv_validations_total",
				Help: "Total number of validations by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "atv_validation_duration_seconds",
				Help:    "Duration of validations",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"kind"},
		),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atv_validator_failures_total",
				Help: "Total number of failures recorded per validator name",
			},
			[]string{"validator"},
		),
		gatherer: prometheus.DefaultGatherer,
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}

	var err error
	m.Validations, err = register(reg, m.Validations)
	if err != nil {
		return nil, err
	}
	m.Duration, err = register(reg, m.Duration)
	if err != nil {
		return nil, err
	}
	m.Failures, err = register(reg, m.Failures)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Observe records one validation event.
func (m *Metrics) Observe(_ context.Context, e *domain.ValidationEvent) {
	kind := string(e.Type)
	outcome := OutcomeValid
	if e.Err != nil {
		outcome = OutcomeInvalid
	}
	m.Validations.WithLabelValues(kind, outcome).Inc()
	m.Duration.WithLabelValues(kind).Observe(e.Duration.Seconds())
	for _, name := range e.Failed {
		m.Failures.WithLabelValues(name).Inc()
	}
}

// Hooks returns lifecycle hooks feeding m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnValueValidated:    m.Observe,
		OnItemValidated:     m.Observe,
		OnItemListValidated: m.Observe,
	}
}

// Handler serves the registry the metrics were registered on.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

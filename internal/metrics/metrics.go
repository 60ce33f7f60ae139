// Package metrics exposes Prometheus collectors for budget evaluations.
package metrics

import (
	"errors"
	"time"

	"github.com/iwvelando/maintenance-budget/internal/budget"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Surfaces label where an evaluation was requested from.
const (
	SurfaceCLI  = "cli"
	SurfaceHTTP = "http"
	SurfaceTUI  = "tui"
	SurfaceForm = "form"
)

// Outcomes label how an evaluation ended.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintenance_budget_evaluations_total",
			Help: "Total number of budget evaluations",
		},
		[]string{"surface", "outcome"},
	)

	CriticalTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintenance_budget_critical_total",
			Help: "Total number of evaluations whose revenue incidence exceeded the threshold",
		},
		[]string{"surface"},
	)

	EvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "maintenance_budget_evaluation_duration_seconds",
			Help:    "Duration of budget evaluations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
		[]string{"surface"},
	)
)

// Outcome classifies an evaluation error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, budget.ErrInvalidInput):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// Observe records one evaluation.
func Observe(surface string, err error, critical bool, d time.Duration) {
	EvaluationsTotal.WithLabelValues(surface, Outcome(err)).Inc()
	EvaluationDuration.WithLabelValues(surface).Observe(d.Seconds())
	if err == nil && critical {
		CriticalTotal.WithLabelValues(surface).Inc()
	}
}

package transition

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cancellation reasons used as metric labels.
const (
	cancelSuperseded = "superseded"
	cancelForced     = "forced"
)

var (
	startedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstate_transitions_started_total",
		Help: "Total transitions opened, by edge and owning policy unit",
	}, []string{"from", "to", "owner"})

	finishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstate_transitions_finished_total",
		Help: "Total transitions that ran to completion, by edge and owner",
	}, []string{"from", "to", "owner"})

	canceledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstate_transitions_canceled_total",
		Help: "Total transitions canceled, by edge and reason (superseded or forced)",
	}, []string{"from", "to", "reason"})

	staleOriginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstate_stale_origin_total",
		Help: "Total transition requests rejected for a stale origin, by owner",
	}, []string{"owner"})

	inFlightGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lockstate_transitions_in_flight",
		Help: "Transitions currently in flight (0 or 1 by invariant)",
	})

	transitionSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lockstate_transition_duration_seconds",
		Help:    "Wall-clock duration of finished transitions, by edge",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"from", "to"})

	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstate_steps_emitted_total",
		Help: "Total transition steps emitted, by lifecycle phase",
	}, []string{"phase"})
)

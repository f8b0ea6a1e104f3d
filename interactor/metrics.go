package interactor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstate_interactor_activations_total",
		Help: "Times each policy unit went dormant-to-active",
	}, []string{"owner"})

	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstate_interactor_requests_total",
		Help: "Transition requests admitted by the repository, by owner and destination",
	}, []string{"owner", "to"})

	requestsLostTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstate_interactor_requests_lost_total",
		Help: "Transition requests rejected as stale after losing a race, by owner",
	}, []string{"owner"})

	guardArmedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstate_guard_armed_total",
		Help: "Guard delays armed, by owner",
	}, []string{"owner"})

	guardFiredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstate_guard_fired_total",
		Help: "Guard delays that elapsed and fired a request, by owner",
	}, []string{"owner"})

	guardStaleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstate_guard_stale_total",
		Help: "Guard delays that elapsed but found their condition stale, by owner",
	}, []string{"owner"})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_chat_turns_total",
			Help: "Chat turns processed, labelled by the dialogue step they landed on",
		},
		[]string{"step"},
	)

	GatewayFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_gateway_fallbacks_total",
			Help: "Gateway calls that degraded to fallback data",
		},
		[]string{"gateway"},
	)

	Orchestrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_orchestrations_total",
			Help: "Recommendation runs by result source",
		},
		[]string{"source"},
	)

	OrchestrationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "wayfarer_orchestration_duration_seconds",
			Help: "End-to-end duration of a recommendation run",
		},
	)
)

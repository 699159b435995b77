package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentchat_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentchat_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Chat metrics
	RouteDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentchat_route_decisions_total",
			Help: "Queries routed, by route and the rule that decided it",
		},
		[]string{"route", "rule"},
	)

	AgentErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentchat_agent_errors_total",
			Help: "Agent failures converted to error replies",
		},
		[]string{"route"},
	)

	InteractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentchat_interaction_duration_seconds",
			Help:    "Time from input to assistant reply",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"route"},
	)

	TranscriptionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agentchat_transcription_failures_total",
			Help: "Speech-to-text calls that failed or returned no text",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "agentchat_active_sessions",
			Help: "Sessions currently held in memory",
		},
	)
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IncomingRequests total number of handled requests (counter)
	IncomingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "http",
			Name:      "requests_total",
			Help:      "The total number of handled requests",
		},
		[]string{"method", "route", "code"},
	)

	// IncomingRequestDuration time spent handling requests (histogram)
	IncomingRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "http",
			Name:      "request_duration_seconds",
			Help:      "Time spent handling requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// OutgoingRequests total number of requests made to remote APIs (counter)
	OutgoingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "outgoing",
			Name:      "requests_total",
			Help:      "The total number of requests made to remote APIs",
		},
		[]string{"destination", "code"},
	)

	// OutgoingRequestDuration time spent waiting for remote APIs (histogram)
	OutgoingRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "outgoing",
			Name:      "request_duration_seconds",
			Help:      "Time spent waiting for remote APIs",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"destination"},
	)

	// StageTransitions booking stage changes per flow kind (counter)
	StageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "stage_transitions_total",
			Help:      "Booking stage transitions",
		},
		[]string{"from", "to", "kind"},
	)

	// FlowErrors inline errors surfaced to users, by stage and class (counter)
	FlowErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "flow_errors_total",
			Help:      "Errors surfaced inline to users",
		},
		[]string{"stage", "class"},
	)

	// ChatIntents structured intents received from the assistant (counter)
	ChatIntents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "intents_total",
			Help:      "Structured intents received from the assistant",
		},
		[]string{"intent"},
	)

	// GroupedRequests compare requests answered from a grouped response (counter)
	GroupedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grouping",
			Name:      "requests_total",
			Help:      "Requests by grouping outcome",
		},
		[]string{"outcome"},
	)
)

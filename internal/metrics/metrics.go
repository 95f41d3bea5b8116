// Package metrics exposes the prometheus instruments for the tour service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourforge_sessions_started_total",
		Help: "Total number of tour sessions created.",
	})

	SessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourforge_sessions_completed_total",
		Help: "Total number of tour sessions that reached the end of a tour.",
	})

	NavigationSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourforge_navigation_steps_total",
		Help: "Navigation calls, labelled by direction and outcome.",
	}, []string{"direction", "outcome"})

	ValidationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourforge_validation_runs_total",
		Help: "Connectivity validation runs, labelled by result.",
	}, []string{"result"})

	EdgesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourforge_edges_rejected_total",
		Help: "Edge proposals rejected by the connection rule validator.",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tourforge_http_request_duration_seconds",
		Help:    "HTTP request latency by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

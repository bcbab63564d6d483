package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts served requests.
	// Labels: route (the gin route pattern), code
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcview",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Requests served by route and status code",
	}, []string{"route", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "arcview",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Request latency by route",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route"})

	listCacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcview",
		Subsystem: "list_cache",
		Name:      "events_total",
		Help:      "List cache hits, misses and invalidations",
	}, []string{"event"})

	documentErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcview",
		Subsystem: "documents",
		Name:      "errors_total",
		Help:      "Document requests that failed, by reason",
	}, []string{"reason"})
)

package github

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsOnce  sync.Once
	requestTotal *prometheus.CounterVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maintos",
			Subsystem: "github",
			Name:      "api_requests_total",
			Help:      "Count of outbound GitHub API requests",
		}, []string{"operation", "outcome"})

		if err := prometheus.Register(requestTotal); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
					requestTotal = existing
				}
			}
		}
	})
}

func observeRequest(operation, outcome string) {
	initMetrics()
	requestTotal.With(prometheus.Labels{"operation": operation, "outcome": outcome}).Inc()
}

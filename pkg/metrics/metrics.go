package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "marketing", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "marketing", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "marketing", Name: "store_operations_total", Help: "Collection store operations by collection, operation and outcome."},
		[]string{"collection", "op", "outcome"},
	)
	CollectionDocuments = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "marketing", Name: "collection_documents", Help: "Documents currently persisted per collection."},
		[]string{"collection"},
	)

	GenerationStarted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "marketing", Name: "generation_jobs_started_total", Help: "Generation jobs accepted."},
	)
	GenerationCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "marketing", Name: "generation_jobs_completed_total", Help: "Generation jobs marked ready, by outcome (url|error)."},
		[]string{"outcome"},
	)
	GenerationPending = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "marketing", Name: "generation_jobs_pending", Help: "Persisted generation jobs still in the generating state."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(StoreOperations)
	reg.MustRegister(CollectionDocuments)
	reg.MustRegister(GenerationStarted)
	reg.MustRegister(GenerationCompleted)
	reg.MustRegister(GenerationPending)
}

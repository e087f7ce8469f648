package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "food_pipeline_batches_total",
		Help: "The total number of pipeline batch invocations",
	}, []string{"trigger"})

	RecordsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "food_pipeline_records_processed_total",
		Help: "The total number of records processed by outcome",
	}, []string{"outcome"})

	FlagsRaised = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "food_pipeline_flags_raised_total",
		Help: "The total number of validation flags raised by flag code",
	}, []string{"code"})

	BatchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "food_pipeline_batch_duration_seconds",
		Help:    "Duration in seconds to process a pipeline batch",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
	})

	PipelineBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "food_pipeline_backlog_size",
		Help: "Number of records still pending or retry-eligible",
	})

	EnrichmentLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "food_pipeline_enrichment_lookups_total",
		Help: "Total number of external nutrition API lookups by result",
	}, []string{"result"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "food_pipeline_llm_request_duration_seconds",
		Help:    "Duration of LLM deep-check requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMCircuitBreakerOpens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "food_pipeline_llm_circuit_breaker_opens_total",
		Help: "Total number of times the LLM circuit breaker opened",
	}, []string{"provider"})

	EmbeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "food_pipeline_embedding_requests_total",
		Help: "Total number of embedding requests",
	}, []string{"provider", "status"})
)

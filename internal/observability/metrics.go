package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerMetricsOnce sync.Once

	PersonaCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_review_calls_total",
			Help: "Total persona backend calls",
		},
		[]string{"provider"},
	)

	PersonaErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_review_errors_total",
			Help: "Total persona backend errors",
		},
		[]string{"provider"},
	)

	PersonaLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "persona_review_latency_seconds",
			Help:    "Persona backend call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	PersonaTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_review_tokens_total",
			Help: "Total persona backend tokens",
		},
		[]string{"provider", "model", "type"},
	)

	PersonaCostUSD = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_review_cost_usd_total",
			Help: "Total persona backend cost in USD",
		},
		[]string{"provider", "model"},
	)

	BudgetBlocks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_review_budget_block_total",
			Help: "Total budget block events",
		},
		[]string{"scope"},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "persona_review_cache_hits_total",
			Help: "Responses served from the review cache",
		},
	)

	InsertionsParsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_review_insertions_total",
			Help: "Comment insertions parsed from persona responses",
		},
		[]string{"kind"}, // reference | fallback
	)
)

func InitMetrics() {
	registerMetricsOnce.Do(func() {
		prometheus.MustRegister(
			PersonaCalls, PersonaErrors, PersonaLatency, PersonaTokens, PersonaCostUSD,
			BudgetBlocks, CacheHits, InsertionsParsed,
		)
	})
}

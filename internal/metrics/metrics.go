package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics: LLM, web search, embeddings.
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guidechat",
			Name:      "llm_requests_total",
			Help:      "Total number of language model requests",
		},
		[]string{"model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "guidechat",
			Name:      "llm_request_duration_seconds",
			Help:      "Language model request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guidechat",
			Name:      "llm_tokens_total",
			Help:      "Total language model tokens consumed",
		},
		[]string{"model", "type"}, // "prompt" / "completion"
	)

	WebSearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guidechat",
			Name:      "web_search_requests_total",
			Help:      "Total number of web search fallback requests",
		},
		[]string{"status"},
	)

	AnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guidechat",
			Name:      "answers_total",
			Help:      "Final answers by origin",
		},
		[]string{"origin"}, // "guides" / "web" / "apology" / "error"
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guidechat",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guidechat",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"model", "type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guidechat",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// RegisterPipelineMetrics registers the pipeline metrics with the default registry.
// Called explicitly from main (no init()).
func RegisterPipelineMetrics() {
	prometheus.MustRegister(
		LLMRequestsTotal,
		LLMRequestDuration,
		LLMTokensTotal,
		WebSearchRequestsTotal,
		AnswersTotal,
		EmbeddingRequestsTotal,
		EmbeddingTokensTotal,
		EmbeddingCacheTotal,
	)
}

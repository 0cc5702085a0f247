package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_heroes_ai_requests_total",
			Help: "Total number of generative model requests",
		},
		[]string{"purpose", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "health_heroes_ai_request_duration_seconds",
			Help:    "Generative model request duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"purpose"},
	)
	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_heroes_ai_cache_lookups_total",
			Help: "AI response cache lookups by result",
		},
		[]string{"result"},
	)
)

// ObserveRequest 記錄一次模型呼叫
func ObserveRequest(purpose Purpose, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	requestsTotal.WithLabelValues(string(purpose), status).Inc()
	requestDuration.WithLabelValues(string(purpose)).Observe(duration.Seconds())
}

// ObserveCache 記錄快取查詢結果：hit、miss 或 error
func ObserveCache(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

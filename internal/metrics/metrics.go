package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techblog_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "techblog_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "route"},
	)

	StoreFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techblog_store_fallbacks_total",
			Help: "Store calls that failed and were replaced by an empty result",
		},
		[]string{"operation"},
	)

	DocumentRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techblog_document_renders_total",
			Help: "Rich-text documents rendered, by outcome",
		},
		[]string{"outcome"},
	)

	ImportedPosts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techblog_imported_posts_total",
			Help: "Files imported as draft posts, by outcome",
		},
		[]string{"outcome"},
	)
)

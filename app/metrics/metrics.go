package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReviewsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviews_ingested_total",
		Help: "Total number of new reviews stored.",
	})

	ReviewsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviews_duplicate_total",
		Help: "Total number of payloads skipped by the dedup guard.",
	})

	RepliesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "replies_published_total",
		Help: "Total number of replies published to the marketplace.",
	}, []string{"mode"})

	PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "publish_failures_total",
		Help: "Total number of failed publish attempts.",
	})

	GenerationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "generation_failures_total",
		Help: "Total number of failed or empty reply generations.",
	})

	CardsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "operator_cards_sent_total",
		Help: "Total number of review cards delivered to operators.",
	})
)

package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	producerPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "kafka_messages_published_total",
			Help:      "Kafka messages written successfully",
		},
		[]string{"topic"},
	)

	producerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "kafka_publish_errors_total",
			Help:      "Kafka writes that failed",
		},
		[]string{"topic"},
	)

	producerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "kafka_publish_duration_seconds",
			Help:      "Latency of Kafka writes",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
)

// Package metrics provides the prometheus collector for request
// sources. It is optional: sources run without one unless a collector
// is attached.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector aggregates batching metrics for one or more request
// sources. All member metrics are labelled by source name so several
// sources can share one collector.
type Collector struct {
	batchesTotal    *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	groupsTotal     *prometheus.CounterVec
	exhaustedTotal  *prometheus.CounterVec
	batchSizeSample *prometheus.HistogramVec

	logger *zap.Logger
}

// NewCollector registers the batching metrics under the given namespace
// on reg. Pass prometheus.DefaultRegisterer to use the global registry.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.batchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollout_batches_total",
			Help:      "Number of batches produced by a request source.",
		},
		[]string{"source"},
	)
	c.requestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollout_requests_total",
			Help:      "Number of rollout requests emitted, after strategy expansion.",
		},
		[]string{"source"},
	)
	c.groupsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollout_groups_total",
			Help:      "Number of GRPO groups emitted by strategy expansion.",
		},
		[]string{"source"},
	)
	c.exhaustedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollout_source_exhausted_total",
			Help:      "Number of times a queue-backed source found its queue empty.",
		},
		[]string{"source"},
	)
	c.batchSizeSample = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rollout_batch_size",
			Help:      "Distribution of emitted batch sizes, after expansion.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"source"},
	)

	return c
}

// ObserveBatch records one produced batch of the given size.
func (c *Collector) ObserveBatch(source string, size int) {
	if c == nil {
		return
	}
	c.batchesTotal.WithLabelValues(source).Inc()
	c.requestsTotal.WithLabelValues(source).Add(float64(size))
	c.batchSizeSample.WithLabelValues(source).Observe(float64(size))
}

// ObserveGroups records the number of groups a strategy expanded in one
// batch.
func (c *Collector) ObserveGroups(source string, groups int) {
	if c == nil {
		return
	}
	c.groupsTotal.WithLabelValues(source).Add(float64(groups))
}

// ObserveExhausted records one empty-queue event.
func (c *Collector) ObserveExhausted(source string) {
	if c == nil {
		return
	}
	c.exhaustedTotal.WithLabelValues(source).Inc()
}

// Package metrics exposes prometheus collectors for partition, ranking and
// selection activity. A nil *Collector is a valid no-op so library code can
// record unconditionally.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name when none is configured.
const DefaultNamespace = "sungear"

// Collector groups the sungear metrics registered on one registry.
type Collector struct {
	partitions     prometheus.Counter
	vessels        prometheus.Counter
	partitionItems prometheus.Histogram
	rankHits       prometheus.Counter
	rankMisses     prometheus.Counter
	invalidations  prometheus.Counter
	events         *prometheus.CounterVec
}

// New builds a Collector and registers it on reg.
// An empty namespace falls back to DefaultNamespace.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{
		partitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partitions_total",
			Help:      "Number of signature partition runs.",
		}),
		vessels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vessels_created_total",
			Help:      "Number of vessels created across all partition runs.",
		}),
		partitionItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "partition_items",
			Help:      "Items processed per partition run.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		}),
		rankHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_cache_hits_total",
			Help:      "Cool-vessel rankings served from cache.",
		}),
		rankMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_cache_misses_total",
			Help:      "Cool-vessel rankings computed from scratch.",
		}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_cache_invalidations_total",
			Help:      "Times the ranking cache was dropped.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_events_total",
			Help:      "Selection events emitted, by type.",
		}, []string{"type"}),
	}

	for _, col := range []prometheus.Collector{
		c.partitions, c.vessels, c.partitionItems,
		c.rankHits, c.rankMisses, c.invalidations, c.events,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ObservePartition records one partition run over items producing vessels.
func (c *Collector) ObservePartition(items, vessels int) {
	if c == nil {
		return
	}
	c.partitions.Inc()
	c.vessels.Add(float64(vessels))
	c.partitionItems.Observe(float64(items))
}

// RankCacheHit records a ranking served from cache.
func (c *Collector) RankCacheHit() {
	if c == nil {
		return
	}
	c.rankHits.Inc()
}

// RankCacheMiss records a ranking computed from scratch.
func (c *Collector) RankCacheMiss() {
	if c == nil {
		return
	}
	c.rankMisses.Inc()
}

// RankCacheInvalidated records a dropped ranking cache.
func (c *Collector) RankCacheInvalidated() {
	if c == nil {
		return
	}
	c.invalidations.Inc()
}

// SelectionEvent records one emitted selection event of the given type.
func (c *Collector) SelectionEvent(kind string) {
	if c == nil {
		return
	}
	c.events.WithLabelValues(kind).Inc()
}

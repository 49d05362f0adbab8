package metrics_test

import (
	"testing"

	"github.com/katalvlaran/sungear/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gathered returns the value of the (optionally labelled) counter or the
// sample count of the histogram with the given family name.
func gathered(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if label != "" {
				match := false
				for _, lp := range m.GetLabel() {
					if lp.GetValue() == label {
						match = true
					}
				}
				if !match {
					continue
				}
			}
			if h := m.GetHistogram(); h != nil {
				return float64(h.GetSampleCount())
			}
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s{%s} not found", name, label)
	return 0
}

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.New(reg, "test")
	require.NoError(t, err)

	c.ObservePartition(100, 7)
	c.ObservePartition(10, 3)
	c.RankCacheHit()
	c.RankCacheMiss()
	c.RankCacheMiss()
	c.RankCacheInvalidated()
	c.SelectionEvent("SELECT")
	c.SelectionEvent("SELECT")
	c.SelectionEvent("NARROW")

	assert.Equal(t, 2.0, gathered(t, reg, "test_partitions_total", ""))
	assert.Equal(t, 10.0, gathered(t, reg, "test_vessels_created_total", ""))
	assert.Equal(t, 2.0, gathered(t, reg, "test_partition_items", ""))
	assert.Equal(t, 1.0, gathered(t, reg, "test_rank_cache_hits_total", ""))
	assert.Equal(t, 2.0, gathered(t, reg, "test_rank_cache_misses_total", ""))
	assert.Equal(t, 1.0, gathered(t, reg, "test_rank_cache_invalidations_total", ""))
	assert.Equal(t, 2.0, gathered(t, reg, "test_selection_events_total", "SELECT"))
	assert.Equal(t, 1.0, gathered(t, reg, "test_selection_events_total", "NARROW"))
}

func TestCollector_DefaultNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.New(reg, "")
	require.NoError(t, err)
	c.RankCacheHit()

	n, err := testutil.GatherAndCount(reg, "sungear_rank_cache_hits_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCollector_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg, "dup")
	require.NoError(t, err)
	_, err = metrics.New(reg, "dup")
	require.Error(t, err)
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *metrics.Collector
	assert.NotPanics(t, func() {
		c.ObservePartition(1, 1)
		c.RankCacheHit()
		c.RankCacheMiss()
		c.RankCacheInvalidated()
		c.SelectionEvent("SELECT")
	})
}

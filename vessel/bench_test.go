package vessel_test

import (
	"testing"

	"github.com/katalvlaran/sungear/vessel"
)

// BenchmarkPartition_20k covers a typical experiment: 20k genes × 6 samples.
func BenchmarkPartition_20k(b *testing.B) {
	anchors, items := randomItems(1, 20000, 6)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := vessel.Partition(items, anchors, 2.0); err != nil {
			b.Fatalf("Partition failed: %v", err)
		}
	}
}

// BenchmarkPartition_NoMemo measures the map lookup cost the memo avoids.
func BenchmarkPartition_NoMemo(b *testing.B) {
	anchors, items := randomItems(1, 20000, 6)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := vessel.Partition(items, anchors, 2.0, vessel.WithoutMemo()); err != nil {
			b.Fatalf("Partition failed: %v", err)
		}
	}
}

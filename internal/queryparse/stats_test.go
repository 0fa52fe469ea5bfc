package queryparse

import (
	"testing"
	"time"
)

func TestLLMStatsSnapshotPercentiles(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	stats.Record(100)
	stats.Record(200)
	stats.Record(300)
	stats.Record(400)
	stats.Record(500)

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
}

func TestLLMStatsTracksLastCall(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	stats.Record(500)
	stats.Record(50)

	// LastMs reflects recording order, not the sorted distribution.
	snap := stats.Snapshot()
	if snap.LastMs != 50 {
		t.Fatalf("expected last=50, got %d", snap.LastMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
	}
}

func TestLLMStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewLLMStats(10 * time.Millisecond)
	stats.Record(100)
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
}

func TestLLMStatsCapsBufferedSamples(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	for i := 0; i < maxSamples+100; i++ {
		stats.Record(int64(i))
	}

	snap := stats.Snapshot()
	if snap.Count != maxSamples {
		t.Fatalf("expected count capped at %d, got %d", maxSamples, snap.Count)
	}
	// The oldest samples are the ones evicted.
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100 after eviction, got %d", snap.MinMs)
	}
	if snap.LastMs != int64(maxSamples+99) {
		t.Fatalf("expected last=%d, got %d", maxSamples+99, snap.LastMs)
	}
}

func TestLLMStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	stats.Record(-10)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

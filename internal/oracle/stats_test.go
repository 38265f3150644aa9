package oracle

import (
	"testing"
	"time"
)

func TestStats_EmptySnapshot(t *testing.T) {
	s := NewStats(time.Hour)
	snap := s.Snapshot()
	if snap.Count != 0 || snap.AvgMs != 0 || snap.P95Ms != 0 {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
}

func TestStats_Aggregates(t *testing.T) {
	s := NewStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400} {
		s.Record(ms)
	}

	snap := s.Snapshot()
	if snap.Count != 4 {
		t.Fatalf("Count = %d, want 4", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 400 {
		t.Errorf("Min/Max = %d/%d, want 100/400", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 250 {
		t.Errorf("AvgMs = %v, want 250", snap.AvgMs)
	}
	// P50 over [100 200 300 400] interpolates between 200 and 300.
	if snap.P50Ms != 250 {
		t.Errorf("P50Ms = %v, want 250", snap.P50Ms)
	}
}

func TestStats_NegativeDurationClamped(t *testing.T) {
	s := NewStats(time.Hour)
	s.Record(-50)
	snap := s.Snapshot()
	if snap.MinMs != 0 {
		t.Errorf("MinMs = %d, want 0", snap.MinMs)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []int64{10, 20, 30, 40, 50}
	cases := []struct {
		pct  float64
		want float64
	}{
		{0, 10},
		{100, 50},
		{50, 30},
		{25, 20},
	}
	for _, c := range cases {
		if got := percentile(sorted, c.pct); got != c.want {
			t.Errorf("percentile(%v) = %v, want %v", c.pct, got, c.want)
		}
	}
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("percentile(nil) = %v, want 0", got)
	}
}

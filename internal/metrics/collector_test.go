package metrics

import (
	"testing"
	"time"
)

func TestCollectorRecordAndSnapshot(t *testing.T) {
	c := NewCollector()
	c.RecordItems(OpScan, 10*time.Millisecond, 120)
	c.RecordItems(OpScan, 30*time.Millisecond, 80)
	c.RecordTiming(OpLayout, 5*time.Millisecond)

	snap := c.Snapshot()

	if snap.Scan == nil {
		t.Fatal("scan snapshot missing")
	}
	if snap.Scan.Count != 2 {
		t.Errorf("scan count = %d, want 2", snap.Scan.Count)
	}
	if snap.Scan.TotalItems != 200 {
		t.Errorf("scan items = %d, want 200", snap.Scan.TotalItems)
	}
	if snap.Scan.MinTimeMs != 10 || snap.Scan.MaxTimeMs != 30 {
		t.Errorf("min/max = %d/%d, want 10/30", snap.Scan.MinTimeMs, snap.Scan.MaxTimeMs)
	}

	if snap.Layout == nil || snap.Layout.Count != 1 {
		t.Errorf("layout snapshot = %+v", snap.Layout)
	}
	if snap.Detect != nil {
		t.Error("detect should be nil with no recordings")
	}
}

func TestCollectorConcurrentAccess(t *testing.T) {
	c := NewCollector()
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				c.RecordTiming(OpScore, time.Millisecond)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	if snap := c.Snapshot(); snap.Score.Count != 400 {
		t.Errorf("score count = %d, want 400", snap.Score.Count)
	}
}

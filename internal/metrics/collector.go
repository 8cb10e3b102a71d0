// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration

	// Item metrics (documents scanned, groups found, nodes emitted)
	TotalItems int64
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	TotalTimeMs int64   `json:"total_time_ms"`
	AvgTimeMs   float64 `json:"avg_time_ms"`
	MinTimeMs   int64   `json:"min_time_ms"`
	MaxTimeMs   int64   `json:"max_time_ms"`
	TotalItems  int64   `json:"total_items,omitempty"`
}

// Snapshot represents the full engine statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64            `json:"uptime_seconds"`
	Scan          *OperationSnapshot `json:"scan,omitempty"`
	Score         *OperationSnapshot `json:"score,omitempty"`
	Detect        *OperationSnapshot `json:"detect,omitempty"`
	Layout        *OperationSnapshot `json:"layout,omitempty"`
	Write         *OperationSnapshot `json:"write,omitempty"`
}

// Operation names for the collector.
const (
	OpScan   = "scan"
	OpScore  = "score"
	OpDetect = "detect"
	OpLayout = "layout"
	OpWrite  = "write"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{
			MinTime: time.Duration(math.MaxInt64),
		}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.RecordItems(op, duration, 0)
}

// RecordItems records timing plus a processed-item count for an operation.
func (c *Collector) RecordItems(op string, duration time.Duration, items int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration
	m.TotalItems += items

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}

	return &OperationSnapshot{
		Count:       m.Count,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
		TotalItems:  m.TotalItems,
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Scan:          snapshotOp(c.ops[OpScan]),
		Score:         snapshotOp(c.ops[OpScore]),
		Detect:        snapshotOp(c.ops[OpDetect]),
		Layout:        snapshotOp(c.ops[OpLayout]),
		Write:         snapshotOp(c.ops[OpWrite]),
	}
}

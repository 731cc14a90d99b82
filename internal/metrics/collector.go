// Package metrics provides in-memory runtime statistics for the step tool.
package metrics

import (
	"math"
	"sort"
	"sync"
	"time"
)

// OperationMetrics holds aggregated timings for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	TotalTimeUs int64   `json:"totalTimeUs"`
	AvgTimeUs   float64 `json:"avgTimeUs"`
	MinTimeUs   int64   `json:"minTimeUs"`
	MaxTimeUs   int64   `json:"maxTimeUs"`
}

// CategoryCount is the number of accepted steps for one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Snapshot represents the full server statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64            `json:"uptimeSeconds"`
	Accepted      int64              `json:"accepted"`
	Rejected      int64              `json:"rejected"`
	Rejections    map[string]int64   `json:"rejections,omitempty"`
	Categories    []CategoryCount    `json:"categories,omitempty"`
	Validate      *OperationSnapshot `json:"validate,omitempty"`
	Append        *OperationSnapshot `json:"append,omitempty"`
	Render        *OperationSnapshot `json:"render,omitempty"`
}

// Operation names for the collector.
const (
	OpValidate = "validate"
	OpAppend   = "append"
	OpRender   = "render"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu         sync.RWMutex
	startTime  time.Time
	ops        map[string]*OperationMetrics
	accepted   int64
	rejections map[string]int64
	categories map[string]int64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime:  time.Now(),
		ops:        make(map[string]*OperationMetrics),
		rejections: make(map[string]int64),
		categories: make(map[string]int64),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// RecordAccepted counts an appended step under its category.
func (c *Collector) RecordAccepted(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accepted++
	c.categories[category]++
}

// RecordRejected counts a validation failure under the offending field.
func (c *Collector) RecordRejected(field string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rejections[field]++
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}
	return &OperationSnapshot{
		Count:       m.Count,
		TotalTimeUs: m.TotalTime.Microseconds(),
		AvgTimeUs:   float64(m.TotalTime.Microseconds()) / float64(m.Count),
		MinTimeUs:   m.MinTime.Microseconds(),
		MaxTimeUs:   m.MaxTime.Microseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
// Categories are ordered by count, then name.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Accepted:      c.accepted,
		Validate:      snapshotOp(c.ops[OpValidate]),
		Append:        snapshotOp(c.ops[OpAppend]),
		Render:        snapshotOp(c.ops[OpRender]),
	}

	if len(c.rejections) > 0 {
		snap.Rejections = make(map[string]int64, len(c.rejections))
		for field, n := range c.rejections {
			snap.Rejections[field] = n
			snap.Rejected += n
		}
	}

	for category, n := range c.categories {
		snap.Categories = append(snap.Categories, CategoryCount{Category: category, Count: n})
	}
	sort.Slice(snap.Categories, func(i, j int) bool {
		if snap.Categories[i].Count != snap.Categories[j].Count {
			return snap.Categories[i].Count > snap.Categories[j].Count
		}
		return snap.Categories[i].Category < snap.Categories[j].Category
	})

	return snap
}

// FILE: src/internal/core/metrics.go
package core

import (
	"sync/atomic"
	"time"
)

// Metrics holds the process-wide counters exposed by a Sender. All
// fields are safe for concurrent access: counters are atomic monotonic
// integers, lastError is published through an atomic.Pointer.
//
// droppedCount is incremented only by producers (admission drops).
// sentBatches, sentRecords, uploadDroppedCount and
// compressionFallbackCount are incremented only by the aggregator.
type Metrics struct {
	droppedCount             atomic.Uint64
	sentBatches              atomic.Uint64
	sentRecords              atomic.Uint64
	uploadDroppedCount       atomic.Uint64
	compressionFallbackCount atomic.Uint64
	lastError                atomic.Pointer[errorRecord]
}

type errorRecord struct {
	message string
	at      time.Time
}

// Snapshot is a point-in-time copy of Metrics safe to hand to callers.
type Snapshot struct {
	DroppedCount             uint64
	SentBatches              uint64
	SentRecords              uint64
	UploadDroppedCount       uint64
	CompressionFallbackCount uint64
	LastErrorMessage         string
	LastErrorTime            time.Time
}

// IncDropped records a producer-side admission drop.
func (m *Metrics) IncDropped() {
	m.droppedCount.Add(1)
}

// RecordBatchSent records a successfully uploaded batch of n records.
func (m *Metrics) RecordBatchSent(n int) {
	m.sentBatches.Add(1)
	m.sentRecords.Add(uint64(n))
}

// IncUploadDropped records records lost to retry exhaustion. Kept
// separate from droppedCount per the resolution of Open Question 3.
func (m *Metrics) IncUploadDropped(n int) {
	m.uploadDroppedCount.Add(uint64(n))
}

// IncCompressionFallback records a flush that fell back to uncompressed
// upload after a compression error.
func (m *Metrics) IncCompressionFallback() {
	m.compressionFallbackCount.Add(1)
}

// SetLastError publishes the most recent operational error.
func (m *Metrics) SetLastError(msg string) {
	m.lastError.Store(&errorRecord{message: msg, at: time.Now()})
}

// Snapshot returns a copy of all counters. Each counter is loaded
// atomically on its own; counters updated concurrently may be read at
// slightly different moments.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		DroppedCount:             m.droppedCount.Load(),
		SentBatches:              m.sentBatches.Load(),
		SentRecords:              m.sentRecords.Load(),
		UploadDroppedCount:       m.uploadDroppedCount.Load(),
		CompressionFallbackCount: m.compressionFallbackCount.Load(),
	}
	if e := m.lastError.Load(); e != nil {
		s.LastErrorMessage = e.message
		s.LastErrorTime = e.at
	}
	return s
}

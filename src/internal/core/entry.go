// FILE: src/internal/core/entry.go
package core

// LogRecord is a single already-encoded log line flowing through the
// pipeline. It is produced by an external logging-framework adapter and
// consumed exactly once by the batch aggregator. Records MUST be valid
// UTF-8 and MUST NOT contain a trailing newline; the encoder adds the
// line separator.
type LogRecord []byte

// Size returns the number of bytes this record contributes to a batch,
// including the trailing newline the encoder will add.
func (r LogRecord) Size() int {
	return len(r) + 1
}

// Batch is an ordered, bounded collection of LogRecords assembled by the
// aggregator between flushes.
type Batch struct {
	records []LogRecord
	bytes   int
}

// NewBatch returns an empty batch with room for capacity records.
func NewBatch(capacity int) *Batch {
	if capacity < 0 {
		capacity = 0
	}
	return &Batch{records: make([]LogRecord, 0, capacity)}
}

// Append adds a record to the batch, keeping the running byte total.
func (b *Batch) Append(r LogRecord) {
	b.records = append(b.records, r)
	b.bytes += r.Size()
}

// Len returns the number of records currently held.
func (b *Batch) Len() int {
	return len(b.records)
}

// Bytes returns sum(len(r)+1) over the held records.
func (b *Batch) Bytes() int {
	return b.bytes
}

// PredictBytes returns what Bytes() would become if r were appended,
// without mutating the batch. Used by the aggregator's opportunistic
// drain to decide whether the next record still fits.
func (b *Batch) PredictBytes(r LogRecord) int {
	return b.bytes + r.Size()
}

// Records returns the records in insertion order. The slice is owned by
// the batch and must not be retained past the next call to Reset.
func (b *Batch) Records() []LogRecord {
	return b.records
}

// Reset empties the batch so its backing array can be reused for the
// next flush cycle.
func (b *Batch) Reset() {
	b.records = b.records[:0]
	b.bytes = 0
}

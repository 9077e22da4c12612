// FILE: src/internal/aggregator/aggregator.go
package aggregator

import (
	"context"
	"time"

	"github.com/lixenwraith/log"

	"logwisp/src/internal/compress"
	"logwisp/src/internal/core"
	"logwisp/src/internal/encode"
	"logwisp/src/internal/objectkey"
	"logwisp/src/internal/queue"
	"logwisp/src/internal/retry"
	"logwisp/src/internal/upload"
)

// pollInterval bounds the queue poll in the loop's first step so the
// time trigger can never starve behind a quiet queue.
const pollInterval = 200 * time.Millisecond

// Config mirrors the batching and upload knobs of the sender's public
// configuration; the aggregator itself doesn't know about TOML/env/CLI.
type Config struct {
	MaxBatchCount   int
	MaxBatchBytes   int
	FlushInterval   time.Duration
	Gzip            bool
	ContentType     string
	ObjectKey       objectkey.Builder
	Retry           retry.Config
	DrainTimeout    time.Duration
	ThrottleUploads func(ctx context.Context) error // optional, nil disables
}

// Aggregator is the single background consumer that drains the queue
// under count/bytes/time triggers and uploads the resulting batches.
type Aggregator struct {
	cfg      Config
	q        *queue.BoundedQueue
	uploader upload.Uploader
	metrics  *core.Metrics
	logger   *log.Logger

	stopping chan struct{}
	done     chan struct{}
}

// New constructs an Aggregator. It does not start the background
// goroutine; call Run for that.
func New(cfg Config, q *queue.BoundedQueue, uploader upload.Uploader, metrics *core.Metrics, logger *log.Logger) *Aggregator {
	return &Aggregator{
		cfg:      cfg,
		q:        q,
		uploader: uploader,
		metrics:  metrics,
		logger:   logger,
		stopping: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// RequestStop signals the loop to drain and exit. It does not block;
// callers wait on Done().
func (a *Aggregator) RequestStop() {
	select {
	case <-a.stopping:
	default:
		close(a.stopping)
	}
}

// Done is closed once the loop has exited, including its final drain.
func (a *Aggregator) Done() <-chan struct{} {
	return a.done
}

// Run is the aggregator's loop contract (§4.2): while running or the
// queue is non-empty, poll, opportunistically drain, evaluate flush
// triggers, and flush. It must run on its own goroutine and returns
// once the final drain completes.
func (a *Aggregator) Run(ctx context.Context) {
	defer close(a.done)

	batch := core.NewBatch(a.cfg.MaxBatchCount)
	lastFlush := time.Now()

	for {
		stopRequested := isClosed(a.stopping)

		if !stopRequested || a.q.Len() > 0 {
			if r, ok := a.q.Poll(pollInterval); ok {
				// A record that would push a non-empty batch past the byte
				// bound starts the next batch instead.
				if batch.Len() > 0 && batch.PredictBytes(r) > a.cfg.MaxBatchBytes {
					a.flush(ctx, batch)
					batch.Reset()
					lastFlush = time.Now()
				}
				batch.Append(r)
			}
			a.drainOpportunistically(batch)

			now := time.Now()
			timeExceeded := now.Sub(lastFlush) >= a.cfg.FlushInterval
			countExceeded := batch.Len() >= a.cfg.MaxBatchCount
			bytesExceeded := batch.Bytes() >= a.cfg.MaxBatchBytes

			if batch.Len() > 0 && (timeExceeded || countExceeded || bytesExceeded) {
				a.flush(ctx, batch)
				batch.Reset()
				lastFlush = now
			}
			continue
		}

		// Stopping and queue drained: final best-effort flush, then exit.
		a.finalDrain(ctx, batch)
		return
	}
}

// drainOpportunistically appends records without blocking while both
// the count and byte bounds would still hold after the next record.
func (a *Aggregator) drainOpportunistically(batch *core.Batch) {
	for batch.Len() < a.cfg.MaxBatchCount {
		next, ok := a.q.Peek()
		if !ok {
			return
		}
		if batch.PredictBytes(next) > a.cfg.MaxBatchBytes && batch.Len() > 0 {
			return
		}
		r, ok := a.q.TryPop()
		if !ok {
			return
		}
		batch.Append(r)
	}
}

// finalDrain empties the queue with a bounded overall wait, then
// flushes whatever residual batch remains, suppressing upload errors
// (§4.2's "final drain ... errors suppressed").
func (a *Aggregator) finalDrain(ctx context.Context, batch *core.Batch) {
	deadline := time.Now().Add(a.cfg.DrainTimeout)

	for time.Now().Before(deadline) {
		r, ok := a.q.TryPop()
		if !ok {
			break
		}
		batch.Append(r)
		if batch.Len() >= a.cfg.MaxBatchCount || batch.Bytes() >= a.cfg.MaxBatchBytes {
			a.flush(ctx, batch)
			batch.Reset()
		}
	}

	if batch.Len() > 0 {
		a.flush(ctx, batch)
		batch.Reset()
	}
}

// flush encodes, optionally compresses, and uploads a batch with retry.
// It never returns an error to the caller: failures are recorded in
// metrics and logged, per §7's principle that producers and the loop
// itself are insulated from storage-layer failure.
func (a *Aggregator) flush(ctx context.Context, batch *core.Batch) {
	if batch.Len() == 0 {
		return
	}

	raw := encode.Batch(batch)

	payload := raw
	gzipped := a.cfg.Gzip
	contentEncoding := ""
	if a.cfg.Gzip {
		compressed, err := compress.Gzip(raw)
		if err != nil {
			a.logger.Warn("msg", "Compression failed, falling back to uncompressed upload",
				"component", "aggregator",
				"error", err)
			a.metrics.SetLastError(err.Error())
			a.metrics.IncCompressionFallback()
			gzipped = false
		} else {
			payload = compressed
			contentEncoding = "gzip"
		}
	}

	key := a.cfg.ObjectKey.Build(gzipped)

	err := retry.Do(ctx, a.cfg.Retry, func(ctx context.Context) error {
		if a.cfg.ThrottleUploads != nil {
			if err := a.cfg.ThrottleUploads(ctx); err != nil {
				return err
			}
		}
		return a.uploader.Upload(ctx, key, payload, a.cfg.ContentType, contentEncoding)
	})

	if err != nil {
		a.logger.Error("msg", "Upload failed after exhausting retries, dropping batch",
			"component", "aggregator",
			"object_key", key,
			"records", batch.Len(),
			"error", err)
		a.metrics.SetLastError(err.Error())
		a.metrics.IncUploadDropped(batch.Len())
		return
	}

	a.metrics.RecordBatchSent(batch.Len())
	a.logger.Debug("msg", "Batch uploaded",
		"component", "aggregator",
		"object_key", key,
		"records", batch.Len(),
		"bytes", len(payload))
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

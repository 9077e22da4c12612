// FILE: src/internal/sender/sender.go
package sender

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lixenwraith/log"

	"logwisp/src/internal/aggregator"
	"logwisp/src/internal/core"
	"logwisp/src/internal/objectkey"
	"logwisp/src/internal/queue"
	"logwisp/src/internal/retry"
	"logwisp/src/internal/throttle"
	"logwisp/src/internal/upload"
)

// drainTimeout bounds how long Stop waits for the aggregator's final
// drain before giving up on remaining queued records.
const drainTimeout = 5 * time.Second

// Config is the immutable snapshot of tuning parameters captured at
// Sender construction (§3). New fills in no defaults of its own and
// rejects non-positive queue and batch sizes; start from DefaultConfig
// to get the defaults.
type Config struct {
	AppName             string
	ObjectKeyPrefix     string
	MaxQueueSize        int
	MaxBatchCount       int
	MaxBatchBytes       int
	FlushInterval       time.Duration
	OfferTimeout        time.Duration
	DropWhenQueueFull   bool
	Gzip                bool
	ContentType         string
	MaxRetries          int
	InitialBackoff      time.Duration
	BackoffMultiplier   float64
	MaxUploadsPerSecond float64
	InstallSignalHandler bool
}

// DefaultConfig returns the configuration table from §6, before any
// override from the config loader.
func DefaultConfig() Config {
	return Config{
		AppName:              "app",
		ObjectKeyPrefix:      "logs/",
		MaxQueueSize:         200_000,
		MaxBatchCount:        5_000,
		MaxBatchBytes:        4 * 1024 * 1024,
		FlushInterval:        2 * time.Second,
		OfferTimeout:         500 * time.Millisecond,
		DropWhenQueueFull:    false,
		Gzip:                 true,
		ContentType:          "application/x-ndjson",
		MaxRetries:           5,
		InitialBackoff:       200 * time.Millisecond,
		BackoffMultiplier:    2.0,
		MaxUploadsPerSecond:  0,
		InstallSignalHandler: true,
	}
}

// Sender is the asynchronous batching sender: it owns the bounded
// queue, the single background aggregator goroutine, and the Uploader
// handle (§3's ownership rule).
type Sender struct {
	cfg      Config
	q        *queue.BoundedQueue
	agg      *aggregator.Aggregator
	uploader upload.Uploader
	metrics  core.Metrics
	state    *core.StateHolder
	logger   *log.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	sigCh     chan os.Signal
}

// New constructs a Sender against uploader. It does not start the
// background worker; call Start for that. Starting is idempotent, so
// constructing without starting is harmless.
func New(cfg Config, uploader upload.Uploader, logger *log.Logger) (*Sender, error) {
	if uploader == nil {
		return nil, fmt.Errorf("sender: uploader must not be nil")
	}
	if cfg.MaxQueueSize <= 0 {
		return nil, fmt.Errorf("sender: MaxQueueSize must be positive")
	}
	if cfg.MaxBatchCount <= 0 {
		return nil, fmt.Errorf("sender: MaxBatchCount must be positive")
	}
	if cfg.MaxBatchBytes <= 0 {
		return nil, fmt.Errorf("sender: MaxBatchBytes must be positive")
	}

	s := &Sender{
		cfg:      cfg,
		q:        queue.New(cfg.MaxQueueSize),
		uploader: uploader,
		state:    core.NewStateHolder(),
		logger:   logger,
	}

	limiter := throttle.New(cfg.MaxUploadsPerSecond)

	aggCfg := aggregator.Config{
		MaxBatchCount: cfg.MaxBatchCount,
		MaxBatchBytes: cfg.MaxBatchBytes,
		FlushInterval: cfg.FlushInterval,
		Gzip:          cfg.Gzip,
		ContentType:   cfg.ContentType,
		ObjectKey:     objectkey.New(cfg.ObjectKeyPrefix, cfg.AppName),
		Retry: retry.Config{
			MaxRetries:        cfg.MaxRetries,
			InitialBackoff:    cfg.InitialBackoff,
			BackoffMultiplier: cfg.BackoffMultiplier,
		},
		DrainTimeout:    drainTimeout,
		ThrottleUploads: limiter.Wait,
	}

	s.agg = aggregator.New(aggCfg, s.q, uploader, &s.metrics, logger)

	return s, nil
}

// Start spawns the background aggregator goroutine and, if configured,
// installs a SIGINT/SIGTERM hook that calls Stop. Starting is
// idempotent: only the first call spawns the goroutine, so calling it
// again after the first call is a true no-op, not just a state check.
func (s *Sender) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.agg.Run(ctx)

		if s.cfg.InstallSignalHandler {
			s.sigCh = make(chan os.Signal, 1)
			signal.Notify(s.sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				if _, ok := <-s.sigCh; ok {
					s.logger.Info("msg", "Shutdown signal received", "component", "sender")
					s.Stop()
				}
			}()
		}

		s.logger.Info("msg", "Sender started",
			"component", "sender",
			"max_queue_size", s.cfg.MaxQueueSize,
			"max_batch_count", s.cfg.MaxBatchCount,
			"flush_interval", s.cfg.FlushInterval)
	})
}

// Offer submits one already-encoded log line. Empty/nil inputs are
// no-ops. Offer never panics and never returns an error to signal
// storage failure; under a blocking admission policy it returns an
// error when ctx is cancelled or when Stop closes the queue while the
// call is blocked, and either case is also counted as a drop (§4.1, §5).
func (s *Sender) Offer(ctx context.Context, line []byte) error {
	if len(line) == 0 {
		return nil
	}
	if s.state.Load() != core.Running {
		return nil
	}

	r := core.LogRecord(append([]byte(nil), line...))

	if s.cfg.DropWhenQueueFull {
		if !s.q.OfferDrop(r) {
			s.metrics.IncDropped()
		}
		return nil
	}

	if err := s.q.OfferWait(ctx, r, s.cfg.OfferTimeout); err != nil {
		s.metrics.IncDropped()
		return err
	}
	return nil
}

// Metrics returns a snapshot of the sender's counters; each counter is
// read atomically on its own, not together with the others.
func (s *Sender) Metrics() core.Snapshot {
	return s.metrics.Snapshot()
}

// Stop marks the sender Stopping, waits up to the drain timeout for the
// aggregator's final drain, then closes the Uploader. Stop is
// idempotent and never panics on a not-started or already-stopped
// sender (§4.7, §7). On a sender that was never started, Stop returns
// without waiting for the aggregator (it still closes the queue and the
// Uploader), and a later Start does nothing.
func (s *Sender) Stop() {
	s.stopOnce.Do(func() {
		started := true
		s.startOnce.Do(func() { started = false })

		s.state.Store(core.Stopping)
		s.q.Close()
		s.agg.RequestStop()

		if s.sigCh != nil {
			signal.Stop(s.sigCh)
			close(s.sigCh)
		}

		if started {
			select {
			case <-s.agg.Done():
			case <-time.After(drainTimeout):
				s.logger.Warn("msg", "Aggregator drain timed out, remaining records are lost",
					"component", "sender",
					"queue_len", s.q.Len())
			}
		}

		if err := s.uploader.Close(); err != nil {
			s.logger.Warn("msg", "Error closing uploader", "component", "sender", "error", err)
		}

		s.state.Store(core.Stopped)
		s.logger.Info("msg", "Sender stopped",
			"component", "sender",
			"sent_batches", s.metrics.Snapshot().SentBatches,
			"sent_records", s.metrics.Snapshot().SentRecords,
			"dropped", s.metrics.Snapshot().DroppedCount)
	})
}

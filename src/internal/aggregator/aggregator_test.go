// FILE: src/internal/aggregator/aggregator_test.go
package aggregator

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logwisp/src/internal/core"
	"logwisp/src/internal/objectkey"
	"logwisp/src/internal/queue"
	"logwisp/src/internal/retry"
)

type uploadCall struct {
	objectKey       string
	content         []byte
	contentType     string
	contentEncoding string
}

type fakeUploader struct {
	mu       sync.Mutex
	calls    []uploadCall
	failN    int // fail this many calls before succeeding
	failErr  error
}

func (f *fakeUploader) Upload(_ context.Context, objectKey string, content []byte, contentType, contentEncoding string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, uploadCall{objectKey, append([]byte(nil), content...), contentType, contentEncoding})
	if f.failN > 0 {
		f.failN--
		if f.failErr != nil {
			return f.failErr
		}
		return assert.AnError
	}
	return nil
}

func (f *fakeUploader) Close() error { return nil }

func (f *fakeUploader) snapshot() []uploadCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uploadCall(nil), f.calls...)
}

func testLogger(t *testing.T) *log.Logger {
	t.Helper()
	logger := log.NewLogger()
	require.NoError(t, logger.ApplyConfigString("disable_file=true", "enable_console=false"))
	return logger
}

func baseConfig(uploader *fakeUploader) Config {
	return Config{
		MaxBatchCount: 1000,
		MaxBatchBytes: 1024 * 1024,
		FlushInterval: time.Hour, // disabled unless a test wants it
		Gzip:          false,
		ContentType:   "application/x-ndjson",
		ObjectKey:     objectkey.New("logs/", "testapp"),
		Retry:         retry.Config{MaxRetries: 0, InitialBackoff: time.Millisecond, BackoffMultiplier: 2},
		DrainTimeout:  time.Second,
	}
}

func TestAggregatorFlushesOnTimeWindow(t *testing.T) {
	q := queue.New(100)
	uploader := &fakeUploader{}
	metrics := &core.Metrics{}
	cfg := baseConfig(uploader)
	cfg.FlushInterval = 50 * time.Millisecond

	agg := New(cfg, q, uploader, metrics, testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Run(ctx)

	require.True(t, q.OfferDrop(core.LogRecord("line-one")))

	require.Eventually(t, func() bool {
		return len(uploader.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	agg.RequestStop()
	<-agg.Done()

	calls := uploader.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "line-one\n", string(calls[0].content))
	assert.Equal(t, uint64(1), metrics.Snapshot().SentRecords)
}

func TestAggregatorFlushesOnCountTrigger(t *testing.T) {
	q := queue.New(100)
	uploader := &fakeUploader{}
	metrics := &core.Metrics{}
	cfg := baseConfig(uploader)
	cfg.MaxBatchCount = 3

	agg := New(cfg, q, uploader, metrics, testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Run(ctx)

	for i := 0; i < 3; i++ {
		require.True(t, q.OfferDrop(core.LogRecord("x")))
	}

	require.Eventually(t, func() bool {
		return len(uploader.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	agg.RequestStop()
	<-agg.Done()

	calls := uploader.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "x\nx\nx\n", string(calls[0].content))
}

func TestAggregatorSplitsOnByteBound(t *testing.T) {
	q := queue.New(100)
	uploader := &fakeUploader{}
	metrics := &core.Metrics{}
	cfg := baseConfig(uploader)
	cfg.MaxBatchCount = 1000
	// Each 4-byte record + newline = 5 bytes; cap at 12 bytes admits two
	// per batch before the third would overflow.
	cfg.MaxBatchBytes = 12

	agg := New(cfg, q, uploader, metrics, testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Run(ctx)

	for i := 0; i < 3; i++ {
		require.True(t, q.OfferDrop(core.LogRecord("abcd")))
	}

	agg.RequestStop()
	<-agg.Done()

	calls := uploader.snapshot()
	require.GreaterOrEqual(t, len(calls), 2)

	var total int
	for _, c := range calls {
		total += strings.Count(string(c.content), "abcd")
	}
	assert.Equal(t, 3, total)
	assert.Equal(t, uint64(3), metrics.Snapshot().SentRecords)
}

func TestAggregatorAdmitsOversizedSingletonRecord(t *testing.T) {
	q := queue.New(100)
	uploader := &fakeUploader{}
	metrics := &core.Metrics{}
	cfg := baseConfig(uploader)
	cfg.MaxBatchBytes = 4 // smaller than the record itself

	agg := New(cfg, q, uploader, metrics, testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Run(ctx)

	require.True(t, q.OfferDrop(core.LogRecord("way-too-big-for-the-limit")))

	agg.RequestStop()
	<-agg.Done()

	calls := uploader.snapshot()
	require.Len(t, calls, 1)
	assert.Contains(t, string(calls[0].content), "way-too-big-for-the-limit")
}

func TestAggregatorRetriesThenSucceeds(t *testing.T) {
	q := queue.New(100)
	uploader := &fakeUploader{failN: 2}
	metrics := &core.Metrics{}
	cfg := baseConfig(uploader)
	cfg.Retry = retry.Config{MaxRetries: 5, InitialBackoff: time.Millisecond, BackoffMultiplier: 1.5}

	agg := New(cfg, q, uploader, metrics, testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Run(ctx)
	require.True(t, q.OfferDrop(core.LogRecord("retry-me")))

	agg.RequestStop()
	<-agg.Done()

	assert.Len(t, uploader.snapshot(), 3)
	assert.Equal(t, uint64(1), metrics.Snapshot().SentBatches)
	assert.Equal(t, uint64(0), metrics.Snapshot().UploadDroppedCount)
}

func TestAggregatorRecordsUploadDroppedAfterRetryExhaustion(t *testing.T) {
	q := queue.New(100)
	uploader := &fakeUploader{failN: 100}
	metrics := &core.Metrics{}
	cfg := baseConfig(uploader)
	cfg.Retry = retry.Config{MaxRetries: 1, InitialBackoff: time.Millisecond, BackoffMultiplier: 1.0}

	agg := New(cfg, q, uploader, metrics, testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Run(ctx)
	require.True(t, q.OfferDrop(core.LogRecord("never-lands")))

	agg.RequestStop()
	<-agg.Done()

	assert.Equal(t, uint64(0), metrics.Snapshot().SentBatches)
	assert.Equal(t, uint64(1), metrics.Snapshot().UploadDroppedCount)
	assert.Equal(t, uint64(0), metrics.Snapshot().DroppedCount)
}

func TestAggregatorCompressesWhenEnabled(t *testing.T) {
	q := queue.New(100)
	uploader := &fakeUploader{}
	metrics := &core.Metrics{}
	cfg := baseConfig(uploader)
	cfg.Gzip = true

	agg := New(cfg, q, uploader, metrics, testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Run(ctx)
	require.True(t, q.OfferDrop(core.LogRecord("compress-me")))

	agg.RequestStop()
	<-agg.Done()

	calls := uploader.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "gzip", calls[0].contentEncoding)
	assert.True(t, strings.HasSuffix(calls[0].objectKey, ".gz"))
	assert.True(t, bytes.HasPrefix(calls[0].content, []byte{0x1f, 0x8b}))
}

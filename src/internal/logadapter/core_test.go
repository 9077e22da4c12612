// FILE: src/internal/logadapter/core_test.go
package logadapter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type fakeOfferer struct {
	mu    sync.Mutex
	lines [][]byte
}

func (f *fakeOfferer) Offer(_ context.Context, line []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := append([]byte(nil), line...)
	f.lines = append(f.lines, cp)
	return nil
}

func (f *fakeOfferer) snapshot() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.lines...)
}

func TestCoreShipsEntriesAsJSONLines(t *testing.T) {
	target := &fakeOfferer{}
	core := NewCore(target, zapcore.InfoLevel)
	logger := zap.New(core)

	logger.Info("hello", zap.String("component", "test"))
	require.Eventually(t, func() bool { return len(target.snapshot()) == 1 }, time.Second, time.Millisecond)

	line := target.snapshot()[0]
	assert.Contains(t, string(line), `"message":"hello"`)
	assert.Contains(t, string(line), `"component":"test"`)
	assert.NotContains(t, string(line), "\n")
}

func TestCoreRespectsLevel(t *testing.T) {
	target := &fakeOfferer{}
	core := NewCore(target, zapcore.WarnLevel)
	logger := zap.New(core)

	logger.Info("should be dropped")
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, target.snapshot())

	logger.Warn("should ship")
	require.Eventually(t, func() bool { return len(target.snapshot()) == 1 }, time.Second, time.Millisecond)
}

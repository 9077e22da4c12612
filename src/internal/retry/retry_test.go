// FILE: src/internal/retry/retry_test.go
package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatusError struct {
	code int
}

func (e *fakeStatusError) Error() string   { return "fake status error" }
func (e *fakeStatusError) StatusCode() int { return e.code }

func TestDoSucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxRetries: 5, InitialBackoff: time.Millisecond, BackoffMultiplier: 2}, func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesExactlyMaxRetriesPlusOneTimes(t *testing.T) {
	calls := 0
	sentinel := errors.New("boom")
	err := Do(context.Background(), Config{MaxRetries: 3, InitialBackoff: time.Millisecond, BackoffMultiplier: 2}, func(ctx context.Context) error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 4, calls) // attempt 0 plus 3 retries
}

func TestDoShortCircuitsOnNonRetriableStatus(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxRetries: 5, InitialBackoff: time.Millisecond, BackoffMultiplier: 2}, func(ctx context.Context) error {
		calls++
		return &fakeStatusError{code: 403}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetries429(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxRetries: 2, InitialBackoff: time.Millisecond, BackoffMultiplier: 2}, func(ctx context.Context) error {
		calls++
		return &fakeStatusError{code: 429}
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoRetries5xx(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxRetries: 2, InitialBackoff: time.Millisecond, BackoffMultiplier: 2}, func(ctx context.Context) error {
		calls++
		return &fakeStatusError{code: 503}
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoRespectsContextCancellationDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, Config{MaxRetries: 10, InitialBackoff: 50 * time.Millisecond, BackoffMultiplier: 2}, func(ctx context.Context) error {
		calls++
		return errors.New("still failing")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, calls, 11)
}

func TestNonRetriableClassification(t *testing.T) {
	assert.True(t, NonRetriable(&fakeStatusError{code: 400}))
	assert.True(t, NonRetriable(&fakeStatusError{code: 404}))
	assert.False(t, NonRetriable(&fakeStatusError{code: 429}))
	assert.False(t, NonRetriable(&fakeStatusError{code: 500}))
	assert.False(t, NonRetriable(errors.New("no status code")))
}

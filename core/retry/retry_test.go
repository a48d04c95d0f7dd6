package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastConfig keeps test sleeps in the single-millisecond range.
func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:      attempts,
		InitialBackoffMs: 1,
		MaxBackoffMs:     5,
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestDo_SuccessFirstAttempt(t *testing.T) {
	calls := 0

	result, err := Do(context.Background(), fastConfig(3), func() (int, error) {
		calls++
		return 42, nil
	}, Retryable)

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 1, calls)
}

func TestDo_SuccessAfterTwoFailures(t *testing.T) {
	calls := 0

	result, err := Do(context.Background(), fastConfig(3), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, timeoutErr{}
		}
		return 42, nil
	}, Retryable)

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls, "expected exactly three invocations")
}

func TestDo_ExhaustedReturnsLastError(t *testing.T) {
	calls := 0
	lastErr := errors.New("request timeout")

	_, err := Do(context.Background(), fastConfig(2), func() (int, error) {
		calls++
		return 0, lastErr
	}, func(error) bool { return true })

	assert.ErrorIs(t, err, lastErr, "last error must surface unchanged")
	assert.Equal(t, 2, calls)
}

func TestDo_NonRetryableFailsImmediately(t *testing.T) {
	calls := 0
	notFound := &smithy.GenericAPIError{Code: "NoSuchKey", Message: "object not found"}

	_, err := Do(context.Background(), fastConfig(3), func() (int, error) {
		calls++
		return 0, notFound
	}, Retryable)

	assert.Error(t, err)
	assert.Equal(t, 1, calls, "non-retryable error must not retry")
}

func TestDo_ContextCancelAbortsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 5, InitialBackoffMs: 10_000, MaxBackoffMs: 10_000}

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, cfg, func() (int, error) {
			calls++
			return 0, timeoutErr{}
		}, Retryable)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not abort its backoff sleep on cancellation")
	}
}

func TestBackoff_GrowsAndRespectsCap(t *testing.T) {
	cfg := Config{MaxAttempts: 10, InitialBackoffMs: 100, MaxBackoffMs: 400}

	// Attempt 1: capped = 100ms, sleep in [100ms, 200ms).
	b1 := Backoff(cfg, 1)
	assert.GreaterOrEqual(t, b1, 100*time.Millisecond)
	assert.Less(t, b1, 200*time.Millisecond)

	// Attempt 2: capped = 200ms, sleep in [200ms, 400ms).
	b2 := Backoff(cfg, 2)
	assert.GreaterOrEqual(t, b2, 200*time.Millisecond)
	assert.Less(t, b2, 400*time.Millisecond)

	// Attempt 5 would be 1600ms uncapped; cap is 400ms, so sleep < 800ms.
	b5 := Backoff(cfg, 5)
	assert.GreaterOrEqual(t, b5, 400*time.Millisecond)
	assert.Less(t, b5, 800*time.Millisecond)
}

func TestBackoff_ShiftSaturates(t *testing.T) {
	cfg := Config{MaxAttempts: 64, InitialBackoffMs: 1, MaxBackoffMs: 1 << 30}

	// Beyond attempt 11 the exponent saturates at 2^10; no overflow, no growth.
	b11 := Backoff(cfg, 11)
	b40 := Backoff(cfg, 40)
	assert.Less(t, b11, 3*(1<<10)*time.Millisecond)
	assert.Less(t, b40, 3*(1<<10)*time.Millisecond)
	assert.Positive(t, b40)
}

func TestRetryable_Classification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"net timeout", timeoutErr{}, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"context canceled", context.Canceled, false},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, true},
		{"service unavailable", &smithy.GenericAPIError{Code: "ServiceUnavailable"}, true},
		{"throttling", &smithy.GenericAPIError{Code: "Throttling"}, true},
		{"no such key", &smithy.GenericAPIError{Code: "NoSuchKey"}, false},
		{"no such bucket", &smithy.GenericAPIError{Code: "NoSuchBucket"}, false},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"bad signature", &smithy.GenericAPIError{Code: "SignatureDoesNotMatch"}, false},
		{"opaque reset", errors.New("read tcp: connection reset by peer"), true},
		{"opaque refused", errors.New("dial tcp: connection refused"), true},
		{"opaque temporary", errors.New("temporary backend hiccup"), true},
		{"opaque other", errors.New("malformed key"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Retryable(tc.err))
		})
	}
}

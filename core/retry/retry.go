package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
	"time"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

// Do executes op, retrying with exponential backoff and jitter while
// retryable reports the returned error as transient and attempts remain.
// The most recent error is returned unchanged once attempts are exhausted
// or the error is terminal. Cancelling ctx aborts a pending backoff sleep.
func Do[T any](ctx context.Context, cfg Config, op func() (T, error), retryable func(error) bool) (T, error) {
	var zero T
	attempt := 0

	for {
		attempt++

		result, err := op()
		if err == nil {
			return result, nil
		}

		if attempt >= cfg.MaxAttempts || !retryable(err) {
			return zero, err
		}

		backoff := Backoff(cfg, attempt)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// Backoff computes the sleep before the next attempt. attempt is 1-indexed:
// base = initial * 2^(min(attempt-1, 10)), capped at the configured maximum,
// plus a jitter in [0, capped) so concurrent retriers do not stampede.
func Backoff(cfg Config, attempt int) time.Duration {
	shift := attempt - 1
	if shift > 10 {
		shift = 10
	}

	base := time.Duration(cfg.InitialBackoffMs) * time.Millisecond << shift
	capped := time.Duration(cfg.MaxBackoffMs) * time.Millisecond
	if base < capped {
		capped = base
	}
	if capped <= 0 {
		capped = time.Millisecond
	}

	return capped + jitter(capped)
}

// jitter derives a pseudo-random duration in [0, max) from the wall clock.
// Uniform enough to desynchronize concurrent retriers; not a security-grade
// random source and does not need to be.
func jitter(max time.Duration) time.Duration {
	return time.Duration(time.Now().UnixNano()) % max
}

// Retryable is the default transient-error classifier. Connection resets,
// refusals, timeouts, throttling and 5xx-class backend responses retry;
// authentication, not-found, conflict and malformed-input errors never do.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound",
			"AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch",
			"BucketAlreadyExists", "BucketAlreadyOwnedByYou",
			"InvalidArgument", "MalformedXML":
			return false
		case "SlowDown", "TooManyRequests", "Throttling", "ThrottlingException",
			"RequestLimitExceeded", "RequestTimeout", "RequestTimeoutException",
			"ServiceUnavailable", "InternalError":
			return true
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case 429, 500, 502, 503, 504:
			return true
		}
	}

	// Last resort: classify by message, matching transient signals that
	// reach us as opaque wrapped errors.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "temporary"),
		strings.Contains(msg, "slow down"),
		strings.Contains(msg, "too many requests"):
		return true
	}

	return false
}

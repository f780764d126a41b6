package llm

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy configures exponential backoff around a Client.
type RetryPolicy struct {
	MaxRetries        int     // retry attempts beyond the initial call
	BaseDelay         float64 // initial delay in seconds
	MaxDelay          float64 // cap on the delay between retries
	BackoffMultiplier float64
	Jitter            bool
	OnRetry           func(err error, attempt int, delay time.Duration)
}

// DefaultRetryPolicy returns the default backoff configuration.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        2,
		BaseDelay:         1.0,
		MaxDelay:          30.0,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	}
}

// Delay calculates the delay for attempt n (0-indexed).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := math.Min(p.BaseDelay*math.Pow(p.BackoffMultiplier, float64(attempt)), p.MaxDelay)
	if p.Jitter {
		// +/- 50% jitter
		delay = delay * (0.5 + rand.Float64())
	}
	return time.Duration(delay * float64(time.Second))
}

type retryClient struct {
	inner  Client
	policy RetryPolicy
}

// WithRetry wraps a Client so retryable failures are retried with backoff.
// The agent loop never retries; callers that want retry opt in here.
func WithRetry(inner Client, policy RetryPolicy) Client {
	return &retryClient{inner: inner, policy: policy}
}

// Generate implements Client.
func (r *retryClient) Generate(ctx context.Context, req Request) (string, error) {
	text, err := r.inner.Generate(ctx, req)
	if err == nil {
		return text, nil
	}

	for attempt := 0; attempt < r.policy.MaxRetries; attempt++ {
		if !IsRetryable(err) {
			return "", err
		}

		delay := r.policy.Delay(attempt)
		if r.policy.OnRetry != nil {
			r.policy.OnRetry(err, attempt+1, delay)
		}

		select {
		case <-ctx.Done():
			return "", &AbortError{ClientError{Message: "request cancelled during retry", Cause: ctx.Err()}}
		case <-time.After(delay):
		}

		text, err = r.inner.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
	}

	return "", err
}

package llm

import (
	"context"
	"testing"
	"time"
)

// flakyClient fails a fixed number of times before succeeding.
type flakyClient struct {
	failures int
	calls    int
	err      error
}

func (f *flakyClient) Generate(ctx context.Context, req Request) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", f.err
	}
	return "ok", nil
}

func fastPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:        maxRetries,
		BaseDelay:         0.001,
		MaxDelay:          0.001,
		BackoffMultiplier: 1.0,
	}
}

func TestRetrySucceedsAfterRetryableFailure(t *testing.T) {
	inner := &flakyClient{
		failures: 2,
		err:      &ServerError{ProviderError{ClientError: ClientError{Message: "500"}, Retryable: true}},
	}
	client := WithRetry(inner, fastPolicy(2))

	text, err := client.Generate(context.Background(), Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if text != "ok" {
		t.Errorf("unexpected text %q", text)
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 calls, got %d", inner.calls)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	inner := &flakyClient{
		failures: 5,
		err:      &AuthenticationError{ProviderError{ClientError: ClientError{Message: "401"}}},
	}
	client := WithRetry(inner, fastPolicy(3))

	if _, err := client.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 1 {
		t.Errorf("non-retryable error should not be retried, got %d calls", inner.calls)
	}
}

func TestRetryExhaustsBudget(t *testing.T) {
	inner := &flakyClient{
		failures: 10,
		err:      &RateLimitError{ProviderError{ClientError: ClientError{Message: "429"}, Retryable: true}},
	}
	client := WithRetry(inner, fastPolicy(2))

	if _, err := client.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error after budget exhausted")
	}
	if inner.calls != 3 {
		t.Errorf("expected initial + 2 retries = 3 calls, got %d", inner.calls)
	}
}

func TestRetryObservesCancellation(t *testing.T) {
	inner := &flakyClient{
		failures: 10,
		err:      &ServerError{ProviderError{ClientError: ClientError{Message: "500"}, Retryable: true}},
	}
	policy := fastPolicy(3)
	policy.BaseDelay = 10 // long enough that cancellation wins
	client := WithRetry(inner, policy)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, Request{})
	if _, ok := err.(*AbortError); !ok {
		t.Errorf("expected AbortError, got %T", err)
	}
}

func TestRetryOnRetryCallback(t *testing.T) {
	inner := &flakyClient{
		failures: 1,
		err:      &ServerError{ProviderError{ClientError: ClientError{Message: "500"}, Retryable: true}},
	}
	var attempts []int
	policy := fastPolicy(2)
	policy.OnRetry = func(err error, attempt int, delay time.Duration) {
		attempts = append(attempts, attempt)
	}
	client := WithRetry(inner, policy)

	if _, err := client.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attempts) != 1 || attempts[0] != 1 {
		t.Errorf("expected one retry callback for attempt 1, got %v", attempts)
	}
}

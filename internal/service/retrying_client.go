package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/semalign/hub/internal/apperrors"
	"github.com/semalign/hub/internal/observability"
)

const (
	defaultInitialBackoffWhenZero = 500 * time.Millisecond
	backoffMultiplier             = 2
)

// RetryPolicy bounds retries of remote provider calls.
type RetryPolicy struct {
	MaxRetries     int           // Number of retries after the first attempt (total attempts = 1 + MaxRetries).
	InitialBackoff time.Duration // Backoff after first failure; doubles each attempt, capped by MaxBackoff.
	MaxBackoff     time.Duration // Upper bound on backoff between attempts.
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}

	if p.InitialBackoff <= 0 {
		p.InitialBackoff = defaultInitialBackoffWhenZero
	}

	if p.MaxBackoff < p.InitialBackoff {
		p.MaxBackoff = p.InitialBackoff
	}

	return p
}

// RetryingEmbeddingClient wraps an EmbeddingClient with a shared rate limiter
// and retries with exponential backoff and jitter. Use for transient provider
// errors; the limiter keeps batch ingestion under the provider's request cap.
type RetryingEmbeddingClient struct {
	inner   EmbeddingClient
	policy  RetryPolicy
	limiter *rate.Limiter
	metrics observability.EmbeddingMetrics
}

// NewRetryingEmbeddingClient returns an EmbeddingClient that rate-limits and
// retries CreateEmbedding. limiter may be nil to disable rate limiting.
func NewRetryingEmbeddingClient(
	inner EmbeddingClient, policy RetryPolicy, limiter *rate.Limiter, metrics observability.EmbeddingMetrics,
) *RetryingEmbeddingClient {
	return &RetryingEmbeddingClient{
		inner:   inner,
		policy:  policy.normalized(),
		limiter: limiter,
		metrics: metrics,
	}
}

// CreateEmbedding calls the inner client; on error, retries up to MaxRetries
// times with exponential backoff and jitter. Respects context cancellation
// during backoff and while waiting on the rate limiter.
func (r *RetryingEmbeddingClient) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	var result []float32

	err := retryCall(ctx, "embedding", r.policy, r.limiter, r.metrics, func(ctx context.Context) error {
		vector, err := r.inner.CreateEmbedding(ctx, input)
		if err != nil {
			return err
		}

		result = vector

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RetryingCompletionClient wraps a CompletionClient with the same rate-limit
// and retry behavior as RetryingEmbeddingClient.
type RetryingCompletionClient struct {
	inner   CompletionClient
	policy  RetryPolicy
	limiter *rate.Limiter
	metrics observability.EmbeddingMetrics
}

// NewRetryingCompletionClient returns a CompletionClient that rate-limits and
// retries CreateCompletion. limiter may be nil to disable rate limiting.
func NewRetryingCompletionClient(
	inner CompletionClient, policy RetryPolicy, limiter *rate.Limiter, metrics observability.EmbeddingMetrics,
) *RetryingCompletionClient {
	return &RetryingCompletionClient{
		inner:   inner,
		policy:  policy.normalized(),
		limiter: limiter,
		metrics: metrics,
	}
}

// CreateCompletion calls the inner client with rate limiting and retries.
func (r *RetryingCompletionClient) CreateCompletion(ctx context.Context, system, prompt string) (string, error) {
	var result string

	err := retryCall(ctx, "completion", r.policy, r.limiter, r.metrics, func(ctx context.Context) error {
		answer, err := r.inner.CreateCompletion(ctx, system, prompt)
		if err != nil {
			return err
		}

		result = answer

		return nil
	})
	if err != nil {
		return "", err
	}

	return result, nil
}

func retryCall(
	ctx context.Context,
	operation string,
	policy RetryPolicy,
	limiter *rate.Limiter,
	metrics observability.EmbeddingMetrics,
	call func(ctx context.Context) error,
) error {
	var lastErr error

	backoff := policy.InitialBackoff

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limit wait: %w", err)
			}
		}

		start := time.Now()
		err := call(ctx)

		if metrics != nil {
			status := observability.ProviderStatusOK
			if err != nil {
				status = observability.ProviderStatusError
			}

			metrics.RecordProviderDuration(ctx, time.Since(start), status)
		}

		if err == nil {
			return nil
		}

		lastErr = err

		if attempt == policy.MaxRetries {
			break
		}

		if metrics != nil {
			metrics.RecordProviderRetry(ctx)
		}

		sleep := jitter(backoff)
		slog.Warn("provider call failed, retrying after backoff",
			"operation", operation,
			"attempt", attempt+1,
			"max_attempts", policy.MaxRetries+1,
			"backoff", sleep,
			"error", err,
		)

		if err := sleepCtx(ctx, sleep); err != nil {
			return err
		}

		backoff = min(backoff*backoffMultiplier, policy.MaxBackoff)
	}

	return apperrors.NewExternalServiceError(operation, "provider call failed after retries", lastErr)
}

// jitter returns a duration between 50% and 100% of duration to avoid thundering herd.
func jitter(duration time.Duration) time.Duration {
	const jitterHalf = 2

	half := duration / jitterHalf

	if half <= 0 {
		return duration
	}

	var buf [8]byte

	if _, err := rand.Read(buf[:]); err != nil {
		return half
	}

	randVal := binary.BigEndian.Uint64(buf[:])
	halfNanos := half.Nanoseconds()

	if halfNanos <= 0 {
		return half
	}

	// randVal % halfNanos is in [0, halfNanos); duration nanos fit in int64
	//nolint:gosec // G115: modulo result is in [0, halfNanos), safe to convert to int64
	jitterNanos := int64(randVal % uint64(halfNanos))

	return half + time.Duration(jitterNanos)
}

// sleepCtx blocks for the given duration or until ctx is cancelled; returns ctx.Err() if cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("backoff interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// Ensure the retrying wrappers implement the client interfaces.
var (
	_ EmbeddingClient  = (*RetryingEmbeddingClient)(nil)
	_ CompletionClient = (*RetryingCompletionClient)(nil)
)

package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EmbeddingMetrics records embedding resolution metrics.
// Methods accept ctx for future exemplar support.
type EmbeddingMetrics interface {
	RecordResolution(ctx context.Context, outcome string)
	RecordProviderRetry(ctx context.Context)
	RecordProviderDuration(ctx context.Context, duration time.Duration, status string)
	RecordComparisonStored(ctx context.Context)
}

// embeddingMetrics implements EmbeddingMetrics.
type embeddingMetrics struct {
	resolutions     metric.Int64Counter
	providerRetries metric.Int64Counter
	duration        metric.Float64Histogram
	comparisons     metric.Int64Counter
}

// NewEmbeddingMetrics creates EmbeddingMetrics. Returns (nil, nil) when meter is nil (metrics disabled).
func NewEmbeddingMetrics(meter metric.Meter) (EmbeddingMetrics, error) {
	if meter == nil {
		//nolint:nilnil // intentional: callers use "if metrics != nil" when metrics disabled
		return nil, nil
	}

	resolutions, err := meter.Int64Counter(
		MetricNameEmbeddingResolutions,
		metric.WithDescription("Total embedding resolutions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("create embedding resolutions counter: %w", err)
	}

	providerRetries, err := meter.Int64Counter(
		MetricNameEmbeddingProviderRetries,
		metric.WithDescription("Total embedding provider call retries"),
	)
	if err != nil {
		return nil, fmt.Errorf("create embedding provider retries counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		MetricNameEmbeddingDuration,
		metric.WithDescription("Embedding provider call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create embedding duration histogram: %w", err)
	}

	comparisons, err := meter.Int64Counter(
		MetricNameComparisonsStored,
		metric.WithDescription("Total comparison records stored"),
	)
	if err != nil {
		return nil, fmt.Errorf("create comparisons stored counter: %w", err)
	}

	return &embeddingMetrics{
		resolutions:     resolutions,
		providerRetries: providerRetries,
		duration:        duration,
		comparisons:     comparisons,
	}, nil
}

func (m *embeddingMetrics) RecordResolution(ctx context.Context, outcome string) {
	m.resolutions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *embeddingMetrics) RecordProviderRetry(ctx context.Context) {
	m.providerRetries.Add(ctx, 1)
}

func (m *embeddingMetrics) RecordProviderDuration(ctx context.Context, duration time.Duration, status string) {
	m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("status", status)))
}

func (m *embeddingMetrics) RecordComparisonStored(ctx context.Context) {
	m.comparisons.Add(ctx, 1)
}

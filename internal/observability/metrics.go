package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics bundles all metric recorders for the hub.
type Metrics struct {
	Embeddings EmbeddingMetrics
	Cache      CacheMetrics
}

// NewMetrics creates all metric recorders from the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	embeddings, err := NewEmbeddingMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("create embedding metrics: %w", err)
	}

	cache, err := NewCacheMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("create cache metrics: %w", err)
	}

	return &Metrics{
		Embeddings: embeddings,
		Cache:      cache,
	}, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/semalign/hub/internal/apperrors"
	"github.com/semalign/hub/internal/observability"
	"github.com/semalign/hub/pkg/cache"
)

// answerKey identifies an answer for duplicate detection: the slot it was
// given in plus its lowercased body. Case variants of the same answer in the
// same slot resolve to one vector; the same text in different slots does not.
type answerKey struct {
	slot    int
	lowered string
}

// DuplicateVectorFinder looks up the stored vector of an earlier identical answer.
type DuplicateVectorFinder interface {
	FindDuplicateAnswerVector(ctx context.Context, slot int, loweredBody string) ([]float32, error)
}

// Resolver turns answers into embedding vectors, reusing work in two layers:
// an in-process loader cache, then an indexed lookup over already-stored
// answers. Only answers never seen before reach the provider, and the
// provider receives the original casing.
type Resolver struct {
	client       EmbeddingClient
	store        DuplicateVectorFinder
	cache        *cache.LoaderCache[answerKey, []float32]
	metrics      observability.EmbeddingMetrics
	cacheMetrics observability.CacheMetrics
}

// NewResolver creates a resolver with a loader cache of cacheSize entries.
func NewResolver(
	client EmbeddingClient,
	store DuplicateVectorFinder,
	cacheSize int,
	metrics observability.EmbeddingMetrics,
	cacheMetrics observability.CacheMetrics,
) (*Resolver, error) {
	loaderCache, err := cache.NewLoaderCache[answerKey, []float32](cacheSize, func(k answerKey) string {
		return fmt.Sprintf("%d|%s", k.slot, k.lowered)
	})
	if err != nil {
		return nil, fmt.Errorf("create resolver cache: %w", err)
	}

	return &Resolver{
		client:       client,
		store:        store,
		cache:        loaderCache,
		metrics:      metrics,
		cacheMetrics: cacheMetrics,
	}, nil
}

const resolverCacheName = "resolver"

// Resolve returns the embedding vector for an answer in the given slot.
func (r *Resolver) Resolve(ctx context.Context, slot int, body string) ([]float32, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("answer", fmt.Sprintf("answer %d must not be empty", slot))
	}

	key := answerKey{slot: slot, lowered: strings.ToLower(trimmed)}

	vector, hit, err := r.cache.GetWithStats(ctx, key, func(ctx context.Context, key answerKey) ([]float32, error) {
		return r.load(ctx, key, trimmed)
	})
	if err != nil {
		if r.metrics != nil {
			r.metrics.RecordResolution(ctx, observability.ResolutionFailed)
		}

		return nil, err
	}

	if hit {
		if r.cacheMetrics != nil {
			r.cacheMetrics.RecordHit(ctx, resolverCacheName)
		}

		if r.metrics != nil {
			r.metrics.RecordResolution(ctx, observability.ResolutionCacheHit)
		}
	} else if r.cacheMetrics != nil {
		r.cacheMetrics.RecordMiss(ctx, resolverCacheName)
	}

	return vector, nil
}

// load resolves a cache miss: stored duplicate first, provider second.
func (r *Resolver) load(ctx context.Context, key answerKey, original string) ([]float32, error) {
	if r.store != nil {
		stored, err := r.store.FindDuplicateAnswerVector(ctx, key.slot, key.lowered)
		if err != nil {
			return nil, err
		}

		if stored != nil {
			if r.metrics != nil {
				r.metrics.RecordResolution(ctx, observability.ResolutionStoreHit)
			}

			return stored, nil
		}
	}

	vector, err := r.client.CreateEmbedding(ctx, original)
	if err != nil {
		return nil, err
	}

	slog.Debug("generated embedding for new answer", "slot", key.slot, "dimensions", len(vector))

	if r.metrics != nil {
		r.metrics.RecordResolution(ctx, observability.ResolutionGenerated)
	}

	return vector, nil
}

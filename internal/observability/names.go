package observability

// Metric names. hub_ prefix keeps dashboards greppable across services.
const (
	MetricNameEmbeddingResolutions     = "hub_embedding_resolutions_total"
	MetricNameEmbeddingProviderRetries = "hub_embedding_provider_retries_total"
	MetricNameEmbeddingDuration        = "hub_embedding_duration_seconds"

	MetricNameCacheHits   = "hub_cache_hits_total"
	MetricNameCacheMisses = "hub_cache_misses_total"

	MetricNameComparisonsStored = "hub_comparisons_stored_total"
)

// Resolution outcome attribute values for MetricNameEmbeddingResolutions.
const (
	ResolutionCacheHit  = "cache_hit"  // served from the in-process loader cache
	ResolutionStoreHit  = "store_hit"  // exact duplicate found in the record store
	ResolutionGenerated = "generated"  // provider call succeeded
	ResolutionFailed    = "failed"     // provider call failed after retries
)

// Status attribute values for MetricNameEmbeddingDuration.
const (
	ProviderStatusOK    = "ok"
	ProviderStatusError = "error"
)

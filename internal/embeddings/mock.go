// Package embeddings provides test doubles for embedding providers.
package embeddings

import (
	"context"
	"crypto/sha256"
	"errors"

	"github.com/semalign/hub/pkg/vectors"
)

// ErrEmptyText is returned when an empty string is submitted for embedding.
var ErrEmptyText = errors.New("text cannot be empty")

// MockClient generates deterministic embeddings from the input text hash.
// Identical inputs always yield identical vectors, which makes similarity
// assertions in tests reproducible without a provider.
type MockClient struct {
	dimensions int
}

// NewMockClient creates a mock client with 1536 dimensions to match
// OpenAI's text-embedding-3-small.
func NewMockClient() *MockClient {
	return &MockClient{dimensions: 1536}
}

// NewMockClientWithDimensions creates a mock client with custom dimensions.
func NewMockClientWithDimensions(dimensions int) *MockClient {
	return &MockClient{dimensions: dimensions}
}

// CreateEmbedding generates a deterministic unit-length embedding from the text hash.
func (c *MockClient) CreateEmbedding(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	hash := sha256.Sum256([]byte(text))
	embedding := make([]float32, c.dimensions)

	for i := range c.dimensions {
		byteIdx := i % len(hash)
		// Map each hash byte into [-1, 1].
		embedding[i] = (float32(hash[byteIdx]) / 127.5) - 1.0
	}

	vectors.NormalizeL2(embedding)

	return embedding, nil
}

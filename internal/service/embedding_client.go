package service

import "context"

// EmbeddingClient generates embedding vectors for text.
// Implemented by provider-specific clients (e.g. OpenAI, Google Gemini).
type EmbeddingClient interface {
	CreateEmbedding(ctx context.Context, input string) ([]float32, error)
}

// CompletionClient generates a free-text answer to a prompt.
// Used by the custom questions flow to produce the reference answer.
type CompletionClient interface {
	CreateCompletion(ctx context.Context, system, prompt string) (string, error)
}

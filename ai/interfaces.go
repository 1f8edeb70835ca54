package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in one upstream
	// call. The returned slice preserves input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatModel generates text completions for answer synthesis.
// Implementations must be safe for concurrent use.
type ChatModel interface {
	// Generate produces a completion for the request. The request's prompt
	// already contains any retrieved context and conversation history; the
	// model is not expected to manage state between calls.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}

// Provider aggregates the model services of one vendor for convenient
// initialization and lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service, or nil when the vendor
	// offers no embedding endpoint (Anthropic). Callers pair such providers
	// with an embedder from another vendor.
	Embedder() Embedder

	// ChatModel returns the text generation service.
	ChatModel() ChatModel

	// Close releases resources held by the provider and its services.
	Close() error
}

package openai

import (
	"context"
	"log/slog"

	"github.com/goldarch/ragkit/ai"
	"github.com/goldarch/ragkit/core"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	model    string
	logger   *slog.Logger
}

// newEmbedder is the internal constructor returning the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(cfg *ai.Config) (*Embedder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(clientOptions(cfg, openai.WithEmbeddingModel(cfg.EmbeddingModel))...)
	if err != nil {
		return nil, core.NewProviderError("openai", "init", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, core.NewProviderError("openai", "init", err)
	}

	return &Embedder{
		embedder: embedder,
		model:    cfg.EmbeddingModel,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates an embedder from the configuration.
//
// Returns the ai.Embedder interface to enforce abstraction.
func NewEmbedder(cfg *ai.Config) (ai.Embedder, error) {
	return newEmbedder(cfg)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}
	return vectors[0], nil
}

// EmbedTexts generates embeddings for multiple texts in one upstream call.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings", "count", len(texts), "model", e.model)

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, core.NewProviderError("openai", "embed", err)
	}
	return vectors, nil
}

// Copyright 2026 Gold.Arch Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ragkit assembles the retrieval-augmented generation stack into a
// single KnowledgeBase facade: AI provider, embedding service with cache,
// vector index, retriever, answering engine, chat manager and document
// ingestion, constructed once and wired together.
package ragkit

import (
	"context"
	"io"
	"log/slog"

	"github.com/goldarch/ragkit/ai"
	"github.com/goldarch/ragkit/ai/anthropic"
	"github.com/goldarch/ragkit/ai/googleai"
	"github.com/goldarch/ragkit/ai/openai"
	"github.com/goldarch/ragkit/chat"
	"github.com/goldarch/ragkit/core"
	"github.com/goldarch/ragkit/embedding"
	"github.com/goldarch/ragkit/embedding/badgercache"
	"github.com/goldarch/ragkit/index"
	"github.com/goldarch/ragkit/index/memory"
	"github.com/goldarch/ragkit/ingestion"
	"github.com/goldarch/ragkit/rag"
	"github.com/goldarch/ragkit/retrieval"
)

// KnowledgeBase owns one fully wired RAG stack.
type KnowledgeBase struct {
	provider  ai.Provider
	cache     embedding.Cache
	embedSvc  *embedding.Service
	idx       index.Index
	retriever  *retrieval.Retriever
	engine     *rag.Engine
	summarizer *rag.Summarizer
	processor  *ingestion.Processor
	manager    *chat.Manager
	logger     *slog.Logger
}

// Option configures a KnowledgeBase.
type Option func(*options)

type options struct {
	aiConfig      *ai.Config
	embedder      ai.Embedder
	idx           index.Index
	cache         embedding.Cache
	cachePath     string
	embedOpts     []embedding.Option
	engineOpts    []rag.EngineOption
	ingestionOpts []ingestion.Option
	storeOpts     []chat.StoreOption
}

// WithAIConfig sets the AI provider configuration. Defaults to
// ai.DefaultConfig().
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithEmbedder overrides the provider's embedder. Required when the chat
// provider exposes no embedding endpoint (anthropic).
func WithEmbedder(embedder ai.Embedder) Option {
	return func(o *options) {
		o.embedder = embedder
	}
}

// WithIndex sets the vector index. Defaults to an in-memory index; pass a
// pinecone.Client for a hosted one.
func WithIndex(idx index.Index) Option {
	return func(o *options) {
		o.idx = idx
	}
}

// WithCache sets the embedding cache. Defaults to an in-memory cache.
func WithCache(cache embedding.Cache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

// WithCachePath stores the embedding cache in a Badger database at path,
// persisting embeddings across restarts.
func WithCachePath(path string) Option {
	return func(o *options) {
		o.cachePath = path
	}
}

// WithEmbeddingOptions forwards options to the embedding service.
func WithEmbeddingOptions(opts ...embedding.Option) Option {
	return func(o *options) {
		o.embedOpts = append(o.embedOpts, opts...)
	}
}

// WithEngineOptions forwards options to the answering engine.
func WithEngineOptions(opts ...rag.EngineOption) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// WithIngestionOptions forwards options to the document processor.
func WithIngestionOptions(opts ...ingestion.Option) Option {
	return func(o *options) {
		o.ingestionOpts = append(o.ingestionOpts, opts...)
	}
}

// WithChatOptions forwards options to the conversation store.
func WithChatOptions(opts ...chat.StoreOption) Option {
	return func(o *options) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}

// New constructs a KnowledgeBase. Every collaborator is created here and
// handed to its dependents explicitly; Close releases them in reverse order.
func New(ctx context.Context, opts ...Option) (*KnowledgeBase, error) {
	o := &options{aiConfig: ai.DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}

	cfg := o.aiConfig
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	embedder := o.embedder
	if embedder == nil {
		embedder = provider.Embedder()
	}
	if embedder == nil {
		provider.Close()
		return nil, core.ConfigurationError("provider %q has no embedding endpoint; supply one with WithEmbedder", cfg.Provider)
	}

	cache := o.cache
	if cache == nil {
		if o.cachePath != "" {
			cache, err = badgercache.Open(o.cachePath)
			if err != nil {
				provider.Close()
				return nil, err
			}
		} else {
			cache = embedding.NewMemoryCache()
		}
	}

	embedOpts := append([]embedding.Option{
		embedding.WithModel(cfg.EmbeddingModel),
		embedding.WithCache(cache),
	}, o.embedOpts...)
	embedSvc, err := embedding.NewService(embedder, embedOpts...)
	if err != nil {
		closeCache(cache)
		provider.Close()
		return nil, err
	}

	idx := o.idx
	if idx == nil {
		idx = memory.New()
	}

	retriever, err := retrieval.NewRetriever(embedSvc, idx)
	if err != nil {
		embedSvc.Close()
		closeCache(cache)
		provider.Close()
		return nil, err
	}

	generator, err := rag.NewAnswerGenerator(provider.ChatModel(),
		rag.WithTemperature(cfg.Temperature),
		rag.WithMaxTokens(cfg.MaxTokens))
	if err != nil {
		embedSvc.Close()
		closeCache(cache)
		provider.Close()
		return nil, err
	}

	store := chat.NewStore(o.storeOpts...)
	engineOpts := append([]rag.EngineOption{rag.WithConversationStore(store)}, o.engineOpts...)
	engine, err := rag.NewEngine(retriever, generator, nil, engineOpts...)
	if err != nil {
		embedSvc.Close()
		closeCache(cache)
		provider.Close()
		return nil, err
	}

	manager, err := chat.NewManager(engine, store)
	if err != nil {
		embedSvc.Close()
		closeCache(cache)
		provider.Close()
		return nil, err
	}

	summarizer, err := rag.NewSummarizer(embedSvc, idx, provider.ChatModel())
	if err != nil {
		embedSvc.Close()
		closeCache(cache)
		provider.Close()
		return nil, err
	}

	processor, err := ingestion.NewProcessor(embedSvc, idx, o.ingestionOpts...)
	if err != nil {
		embedSvc.Close()
		closeCache(cache)
		provider.Close()
		return nil, err
	}

	return &KnowledgeBase{
		provider:   provider,
		cache:      cache,
		embedSvc:   embedSvc,
		idx:        idx,
		retriever:  retriever,
		engine:     engine,
		summarizer: summarizer,
		processor:  processor,
		manager:    manager,
		logger:     slog.Default().With("component", "ragkit"),
	}, nil
}

func newProvider(ctx context.Context, cfg *ai.Config) (ai.Provider, error) {
	switch cfg.Provider {
	case ai.ProviderOpenAI:
		return openai.NewProvider(cfg)
	case ai.ProviderAnthropic:
		return anthropic.NewProvider(cfg)
	case ai.ProviderGoogleAI:
		return googleai.NewProvider(ctx, cfg)
	}
	return nil, core.ValidationError("unknown AI provider %q", cfg.Provider)
}

func closeCache(cache embedding.Cache) {
	if closer, ok := cache.(io.Closer); ok {
		closer.Close()
	}
}

// ProcessDocument ingests one document synchronously.
func (kb *KnowledgeBase) ProcessDocument(ctx context.Context, req ingestion.ProcessRequest) (*ingestion.ProcessResult, error) {
	return kb.processor.ProcessDocument(ctx, req)
}

// RemoveDocument deletes a document's vectors from the index.
func (kb *KnowledgeBase) RemoveDocument(ctx context.Context, namespace, documentID string, chunkCount int) error {
	return kb.processor.RemoveDocument(ctx, namespace, documentID, chunkCount)
}

// NewIngestionPipeline creates an async ingestion pipeline over the
// knowledge base's processor.
func (kb *KnowledgeBase) NewIngestionPipeline(opts ...ingestion.PipelineOption) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(kb.processor, opts...)
}

// Answer answers a one-shot question.
func (kb *KnowledgeBase) Answer(ctx context.Context, req rag.AnswerRequest) (*core.RAGResponse, error) {
	return kb.engine.Answer(ctx, req)
}

// SummarizeDocument generates an LLM summary of an ingested document.
func (kb *KnowledgeBase) SummarizeDocument(ctx context.Context, req rag.SummarizeRequest) (*rag.Summary, error) {
	return kb.summarizer.Summarize(ctx, req)
}

// SendMessage answers a chat turn with conversation continuity.
func (kb *KnowledgeBase) SendMessage(ctx context.Context, req chat.SendMessageRequest) (*chat.SendMessageResponse, error) {
	return kb.manager.SendMessage(ctx, req)
}

// GetConversation returns a conversation by ID.
func (kb *KnowledgeBase) GetConversation(conversationID string) (*core.Conversation, error) {
	return kb.manager.GetConversation(conversationID)
}

// DeleteConversation removes a conversation, reporting whether it existed.
func (kb *KnowledgeBase) DeleteConversation(conversationID string) bool {
	return kb.manager.DeleteConversation(conversationID)
}

// Chat exposes the chat manager.
func (kb *KnowledgeBase) Chat() *chat.Manager {
	return kb.manager
}

// Retriever exposes the retriever for direct searches.
func (kb *KnowledgeBase) Retriever() *retrieval.Retriever {
	return kb.retriever
}

// Index exposes the vector index.
func (kb *KnowledgeBase) Index() index.Index {
	return kb.idx
}

// CacheStats reports embedding cache effectiveness.
func (kb *KnowledgeBase) CacheStats() embedding.CacheStats {
	return kb.cache.Stats()
}

// Close releases the embedding service, the cache and the AI provider.
func (kb *KnowledgeBase) Close() error {
	if err := kb.embedSvc.Close(); err != nil {
		kb.logger.Error("error closing embedding service", "err", err)
	}
	if closer, ok := kb.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			kb.logger.Error("error closing embedding cache", "err", err)
			return err
		}
	}
	if err := kb.provider.Close(); err != nil {
		kb.logger.Error("error closing AI provider", "err", err)
		return err
	}
	return nil
}

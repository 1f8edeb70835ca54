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


package embedding

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/goldarch/ragkit/ai"
	"github.com/goldarch/ragkit/core"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBatchSize is the number of texts sent per upstream call.
	DefaultBatchSize = 100

	// DefaultMaxConcurrent bounds the batches in flight at once.
	DefaultMaxConcurrent = 5

	// DefaultModel is the embedding model assumed when none is configured.
	DefaultModel = "text-embedding-3-small"
)

// ItemError records the failure of a single input text. Index refers to the
// position in the EmbedMany input slice.
type ItemError struct {
	Index int
	Text  string
	Err   error
}

// Result is the outcome of an EmbedMany run. Vectors holds one entry per
// input text in input order; positions listed in Errors are nil.
type Result struct {
	Vectors   [][]float32
	CacheHits int
	Errors    []ItemError
}

// Service embeds texts through an ai.Embedder with caching, batching,
// bounded concurrency, rate limiting and retry.
type Service struct {
	embedder      ai.Embedder
	cache         Cache
	pool          *ants.Pool
	limiter       *rate.Limiter
	model         string
	batchSize     int
	maxConcurrent int
	retry         RetryConfig
	logger        *slog.Logger
}

// Option is a functional option for configuring a Service.
type Option func(*Service) error

// WithModel sets the embedding model identifier used for cache keys.
func WithModel(model string) Option {
	return func(s *Service) error {
		if model == "" {
			return core.ValidationError("embedding: model must not be empty")
		}
		s.model = model
		return nil
	}
}

// WithCache replaces the default in-memory cache.
func WithCache(cache Cache) Option {
	return func(s *Service) error {
		if cache == nil {
			return core.ValidationError("embedding: cache must not be nil")
		}
		s.cache = cache
		return nil
	}
}

// WithBatchSize sets how many texts are sent per upstream call.
func WithBatchSize(n int) Option {
	return func(s *Service) error {
		if n <= 0 {
			return core.ValidationError("embedding: batch size must be positive, got %d", n)
		}
		s.batchSize = n
		return nil
	}
}

// WithMaxConcurrent bounds the number of batches in flight at once.
func WithMaxConcurrent(n int) Option {
	return func(s *Service) error {
		if n <= 0 {
			return core.ValidationError("embedding: max concurrent must be positive, got %d", n)
		}
		s.maxConcurrent = n
		return nil
	}
}

// WithCallsPerMinute caps upstream calls per rolling minute. Waiting callers
// are admitted in FIFO order. Zero disables the cap.
func WithCallsPerMinute(n int) Option {
	return func(s *Service) error {
		if n < 0 {
			return core.ValidationError("embedding: calls per minute must not be negative, got %d", n)
		}
		s.limiter = newMinuteLimiter(n)
		return nil
	}
}

// WithRetry sets the retry policy for upstream calls.
func WithRetry(cfg RetryConfig) Option {
	return func(s *Service) error {
		if cfg.MaxRetries < 0 {
			return core.ValidationError("embedding: max retries must not be negative, got %d", cfg.MaxRetries)
		}
		s.retry = cfg
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates an embedding service around the embedder.
func NewService(embedder ai.Embedder, opts ...Option) (*Service, error) {
	if embedder == nil {
		return nil, core.ValidationError("embedding: embedder must not be nil")
	}

	s := &Service{
		embedder:      embedder,
		cache:         NewMemoryCache(),
		limiter:       newMinuteLimiter(0),
		model:         DefaultModel,
		batchSize:     DefaultBatchSize,
		maxConcurrent: DefaultMaxConcurrent,
		retry:         DefaultRetryConfig(),
		logger:        slog.Default().With("component", "embedding"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(s.maxConcurrent)
	if err != nil {
		return nil, err
	}
	s.pool = pool
	return s, nil
}

// Close releases the worker pool.
func (s *Service) Close() error {
	s.pool.Release()
	return nil
}

// Cache exposes the underlying cache, mainly for stats reporting.
func (s *Service) Cache() Cache {
	return s.cache
}

// Model returns the configured embedding model identifier.
func (s *Service) Model() string {
	return s.model
}

// EmbedText embeds a single text, serving from the cache when possible.
func (s *Service) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := CacheKey(s.model, text)
	if vector, ok := s.cache.Get(key); ok {
		return vector, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var vector []float32
	err := retryWithBackoff(ctx, s.retry, s.logger, func() error {
		var embedErr error
		vector, embedErr = s.embedder.EmbedText(ctx, text)
		return embedErr
	})
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, vector)
	return vector, nil
}

// pendingText is a unique uncached text awaiting embedding.
type pendingText struct {
	key   string
	text  string
	index int // first occurrence in the input
}

// EmbedMany embeds texts in batches. Cached texts are served without an
// upstream call; repeated texts are embedded once and duplicates resolved
// from the cache afterwards. One failing batch only marks its own texts in
// Result.Errors, the rest of the run proceeds.
func (s *Service) EmbedMany(ctx context.Context, texts []string) (*Result, error) {
	result := &Result{Vectors: make([][]float32, len(texts))}
	if len(texts) == 0 {
		return result, nil
	}

	var (
		pending    []pendingText
		pendingKey = make(map[string]bool)
		duplicates = make(map[int]string) // input index -> key
	)

	for i, text := range texts {
		key := CacheKey(s.model, text)
		if vector, ok := s.cache.Get(key); ok {
			result.Vectors[i] = vector
			result.CacheHits++
			continue
		}
		if pendingKey[key] {
			duplicates[i] = key
			continue
		}
		pendingKey[key] = true
		pending = append(pending, pendingText{key: key, text: text, index: i})
	}

	s.logger.Debug("embedding batch run",
		"total", len(texts),
		"cached", result.CacheHits,
		"pending", len(pending),
		"duplicates", len(duplicates))

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		failedKey = make(map[string]error)
	)

	recordFailure := func(batch []pendingText, err error) {
		mu.Lock()
		defer mu.Unlock()
		for _, item := range batch {
			failedKey[item.key] = err
			result.Errors = append(result.Errors, ItemError{Index: item.index, Text: item.text, Err: err})
		}
	}

	for start := 0; start < len(pending); start += s.batchSize {
		batch := pending[start:min(start+s.batchSize, len(pending))]

		wg.Add(1)
		submit := func() {
			defer wg.Done()
			s.embedBatch(ctx, batch, result, recordFailure)
		}
		if err := s.pool.Submit(submit); err != nil {
			wg.Done()
			recordFailure(batch, err)
		}
	}
	wg.Wait()

	for i, key := range duplicates {
		if vector, ok := s.cache.Get(key); ok {
			result.Vectors[i] = vector
			result.CacheHits++
			continue
		}
		result.Errors = append(result.Errors, ItemError{Index: i, Text: texts[i], Err: failedKey[key]})
	}

	slices.SortFunc(result.Errors, func(a, b ItemError) int {
		return a.Index - b.Index
	})
	return result, nil
}

// embedBatch performs one rate-limited, retried upstream call and stores the
// outcome. Each batch writes only its own result slots, so no lock is needed
// for the vector slice.
func (s *Service) embedBatch(ctx context.Context, batch []pendingText, result *Result, recordFailure func([]pendingText, error)) {
	if err := s.limiter.Wait(ctx); err != nil {
		recordFailure(batch, err)
		return
	}

	batchTexts := make([]string, len(batch))
	for i, item := range batch {
		batchTexts[i] = item.text
	}

	var vectors [][]float32
	err := retryWithBackoff(ctx, s.retry, s.logger, func() error {
		var embedErr error
		vectors, embedErr = s.embedder.EmbedTexts(ctx, batchTexts)
		return embedErr
	})
	if err != nil {
		s.logger.Error("embedding batch failed", "size", len(batch), "err", err)
		recordFailure(batch, err)
		return
	}
	if len(vectors) != len(batch) {
		recordFailure(batch, core.NewProviderError("embedder", "embed",
			core.ValidationError("expected %d vectors, got %d", len(batch), len(vectors))))
		return
	}

	for i, item := range batch {
		s.cache.Set(item.key, vectors[i])
		result.Vectors[item.index] = vectors[i]
	}
}

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


package rag

import (
	"context"
	"log/slog"
	"time"

	"github.com/goldarch/ragkit/core"
	"github.com/goldarch/ragkit/index"
	"github.com/goldarch/ragkit/retrieval"
)

const (
	// DefaultMaxHistory is the number of prior messages folded into the
	// prompt when a conversation is attached.
	DefaultMaxHistory = 10

	// DefaultPromptTokenBudget bounds the built prompt; the context block
	// is truncated past it.
	DefaultPromptTokenBudget = 6000

	// DefaultFallbackMessage is returned when retrieval yields nothing
	// above the score threshold.
	DefaultFallbackMessage = "I couldn't find relevant information in the knowledge base to answer " +
		"your question. Try rephrasing it, or add the relevant documents first."
)

// ConversationStore is the conversation persistence the Engine needs.
// AppendExchange records a question/answer pair and returns the conversation
// ID, creating the conversation when the given ID is empty or unknown.
type ConversationStore interface {
	History(conversationID string, limit int) []core.ConversationMessage
	AppendExchange(conversationID, userID, question, answer string, citations []core.Citation) (string, error)
}

// AnswerRequest is one question posed to the Engine. Zero-valued retrieval
// fields fall back to the retriever defaults.
type AnswerRequest struct {
	Question       string
	ConversationID string
	UserID         string

	Namespace string
	Filter    index.Filter
	TopK      int
	MinScore  float64
}

// Engine answers questions over the knowledge base.
type Engine struct {
	retriever *retrieval.Retriever
	generator *AnswerGenerator
	prompts   *PromptBuilder
	store     ConversationStore
	logger    *slog.Logger

	maxHistory       int
	promptBudget     int
	fallbackMessage  string
	includeCitations bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithConversationStore attaches conversation history to answers. Without
// a store the Engine is stateless.
func WithConversationStore(store ConversationStore) EngineOption {
	return func(e *Engine) {
		e.store = store
	}
}

// WithMaxHistory sets how many prior messages enter the prompt.
func WithMaxHistory(n int) EngineOption {
	return func(e *Engine) {
		e.maxHistory = n
	}
}

// WithPromptTokenBudget caps the built prompt size. Zero or negative
// disables truncation.
func WithPromptTokenBudget(n int) EngineOption {
	return func(e *Engine) {
		e.promptBudget = n
	}
}

// WithFallbackMessage replaces the answer returned when nothing relevant
// is retrieved.
func WithFallbackMessage(msg string) EngineOption {
	return func(e *Engine) {
		e.fallbackMessage = msg
	}
}

// WithoutCitations omits citations from responses.
func WithoutCitations() EngineOption {
	return func(e *Engine) {
		e.includeCitations = false
	}
}

// WithEngineLogger replaces the engine's logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine wires a retriever, a prompt builder and an answer generator
// into an answering engine.
func NewEngine(retriever *retrieval.Retriever, generator *AnswerGenerator, prompts *PromptBuilder, opts ...EngineOption) (*Engine, error) {
	if retriever == nil {
		return nil, core.ValidationError("rag: retriever must not be nil")
	}
	if generator == nil {
		return nil, core.ValidationError("rag: answer generator must not be nil")
	}
	if prompts == nil {
		prompts = NewPromptBuilder()
	}

	e := &Engine{
		retriever:        retriever,
		generator:        generator,
		prompts:          prompts,
		logger:           slog.Default().With("component", "rag"),
		maxHistory:       DefaultMaxHistory,
		promptBudget:     DefaultPromptTokenBudget,
		fallbackMessage:  DefaultFallbackMessage,
		includeCitations: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Answer runs the full pipeline for one question: validate, retrieve,
// prompt, generate, cite, and record the exchange. When retrieval returns
// nothing the fixed fallback answer is returned and the model is not called.
func (e *Engine) Answer(ctx context.Context, req AnswerRequest) (*core.RAGResponse, error) {
	start := time.Now()

	if err := core.ValidateQuestion(req.Question); err != nil {
		return nil, err
	}
	processed := ProcessQuery(req.Question)

	retrievalStart := time.Now()
	results, err := e.retriever.Retrieve(ctx, processed.Cleaned, retrieval.Options{
		TopK:      req.TopK,
		Namespace: req.Namespace,
		Filter:    req.Filter,
		MinScore:  req.MinScore,
	})
	if err != nil {
		return nil, err
	}
	retrievalTime := time.Since(retrievalStart)

	if len(results) == 0 {
		e.logger.Info("no relevant context found", "question", processed.Cleaned)
		return &core.RAGResponse{
			Answer:           e.fallbackMessage,
			RetrievedContext: []core.RetrievalResult{},
			Citations:        []core.Citation{},
			Confidence:       0,
			Grounded:         false,
			ConversationID:   req.ConversationID,
			Metadata: core.ResponseMetadata{
				RetrievalTime:  retrievalTime,
				ProcessingTime: time.Since(start),
			},
		}, nil
	}

	var history []core.ConversationMessage
	if e.store != nil && req.ConversationID != "" {
		history = e.store.History(req.ConversationID, e.maxHistory)
	}

	prompt := e.prompts.Build(PromptRequest{
		Question: req.Question,
		Context:  results,
		History:  history,
	})
	prompt = TruncateToBudget(prompt, e.promptBudget)

	generated, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var citations []core.Citation
	if e.includeCitations {
		citations = DedupeCitations(BuildCitations(results))
	} else {
		citations = []core.Citation{}
	}

	conversationID := req.ConversationID
	if e.store != nil {
		conversationID, err = e.store.AppendExchange(req.ConversationID, req.UserID, req.Question, generated.Answer, citations)
		if err != nil {
			return nil, err
		}
	}

	response := &core.RAGResponse{
		Answer:           generated.Answer,
		RetrievedContext: results,
		Citations:        citations,
		Confidence:       confidence(results),
		Grounded:         true,
		ConversationID:   conversationID,
		Metadata: core.ResponseMetadata{
			TokensUsed:     generated.TokensUsed,
			Model:          generated.Model,
			RetrievalTime:  retrievalTime,
			GenerationTime: generated.GenerationTime,
			ProcessingTime: time.Since(start),
		},
	}

	e.logger.Debug("question answered",
		"results", len(results),
		"confidence", response.Confidence,
		"tokensUsed", response.Metadata.TokensUsed,
		"processingTime", response.Metadata.ProcessingTime)
	return response, nil
}

// confidence is the clamped mean score of the retained results.
func confidence(results []core.RetrievalResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, res := range results {
		sum += res.Score
	}
	return core.ClampScore(sum / float64(len(results)))
}

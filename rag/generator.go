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
	"strings"
	"time"

	"github.com/goldarch/ragkit/ai"
	"github.com/goldarch/ragkit/core"
)

// GeneratedAnswer is the normalized outcome of one model call.
type GeneratedAnswer struct {
	Answer         string
	Model          string
	TokensUsed     int
	GenerationTime time.Duration
}

// AnswerGenerator runs prompts against a chat model with fixed sampling
// parameters. Provider failures surface as *core.ProviderError from the
// underlying model.
type AnswerGenerator struct {
	model       ai.ChatModel
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// GeneratorOption configures an AnswerGenerator.
type GeneratorOption func(*AnswerGenerator)

// WithTemperature sets the sampling temperature passed on every call.
func WithTemperature(t float64) GeneratorOption {
	return func(g *AnswerGenerator) {
		g.temperature = t
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) GeneratorOption {
	return func(g *AnswerGenerator) {
		g.maxTokens = n
	}
}

// NewAnswerGenerator creates a generator over a chat model.
func NewAnswerGenerator(model ai.ChatModel, opts ...GeneratorOption) (*AnswerGenerator, error) {
	if model == nil {
		return nil, core.ValidationError("rag: chat model must not be nil")
	}
	g := &AnswerGenerator{
		model:  model,
		logger: slog.Default().With("component", "rag"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate runs the prompt and returns the completion with timing attached.
func (g *AnswerGenerator) Generate(ctx context.Context, prompt Prompt) (*GeneratedAnswer, error) {
	start := time.Now()

	result, err := g.model.Generate(ctx, ai.GenerateRequest{
		System:      prompt.System,
		Prompt:      prompt.User,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	g.logger.Debug("answer generated",
		"model", result.Model,
		"tokensUsed", result.TokensUsed,
		"generationTime", elapsed)

	return &GeneratedAnswer{
		Answer:         result.Text,
		Model:          result.Model,
		TokensUsed:     result.TokensUsed,
		GenerationTime: elapsed,
	}, nil
}

// ValidateAnswer flags completions that look unusable: empty, too short, or
// a refusal. An empty slice means the answer passed.
func ValidateAnswer(answer string) []string {
	var issues []string

	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		issues = append(issues, "answer is empty")
	} else if len(trimmed) < 10 {
		issues = append(issues, "answer is too short")
	}

	lower := strings.ToLower(answer)
	if strings.Contains(lower, "as an ai") || strings.Contains(lower, "i cannot") {
		issues = append(issues, "answer contains refusal pattern")
	}
	return issues
}

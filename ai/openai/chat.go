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


package openai

import (
	"context"
	"log/slog"

	"github.com/goldarch/ragkit/ai"
	"github.com/goldarch/ragkit/ai/internal/llmx"
	"github.com/goldarch/ragkit/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ChatModel implements ai.ChatModel using OpenAI-compatible chat APIs.
type ChatModel struct {
	client llms.Model
	cfg    *ai.Config
	logger *slog.Logger
}

// newChatModel is the internal constructor returning the concrete type.
func newChatModel(cfg *ai.Config) (*ChatModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(clientOptions(cfg, openai.WithModel(cfg.ChatModel))...)
	if err != nil {
		return nil, core.NewProviderError("openai", "init", err)
	}

	return &ChatModel{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "openai-chat"),
	}, nil
}

// NewChatModel creates a chat model from the configuration.
//
// Returns the ai.ChatModel interface to enforce abstraction.
func NewChatModel(cfg *ai.Config) (ai.ChatModel, error) {
	return newChatModel(cfg)
}

// Generate produces a completion for the request.
func (m *ChatModel) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResult, error) {
	m.logger.Debug("generating completion", "model", m.cfg.ChatModel, "promptLength", len(req.Prompt))

	response, err := m.client.GenerateContent(ctx, llmx.BuildMessages(req), llmx.CallOptions(m.cfg, req)...)
	if err != nil {
		m.logger.Error("failed to generate completion", "err", err)
		return nil, core.NewProviderError("openai", "generate", err)
	}
	if len(response.Choices) == 0 {
		return nil, core.NewProviderError("openai", "generate", errNoChoices)
	}

	choice := response.Choices[0]
	return &ai.GenerateResult{
		Text:       choice.Content,
		Model:      m.cfg.ChatModel,
		TokensUsed: llmx.IntFromInfo(choice.GenerationInfo, "TotalTokens"),
	}, nil
}

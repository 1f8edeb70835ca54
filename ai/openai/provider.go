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
	"errors"
	"log/slog"

	"github.com/goldarch/ragkit/ai"
	"github.com/tmc/langchaingo/llms/openai"
)

var errNoChoices = errors.New("model returned no choices")

// Provider implements ai.Provider using OpenAI-compatible services.
type Provider struct {
	embedder *Embedder
	chat     *ChatModel
	logger   *slog.Logger
}

// NewProvider creates a provider with OpenAI-compatible embedding and chat
// services. The config is validated and normalized before use.
//
// Returns the ai.Provider interface to prevent coupling to OpenAI-specific
// implementation details.
func NewProvider(cfg *ai.Config) (ai.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	chat, err := newChatModel(cfg)
	if err != nil {
		return nil, err
	}

	return &Provider{
		embedder: embedder,
		chat:     chat,
		logger:   slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// ChatModel returns the text generation service.
func (p *Provider) ChatModel() ai.ChatModel {
	return p.chat
}

// Close releases resources held by the provider. Currently a no-op as the
// underlying clients hold no connections open.
func (p *Provider) Close() error {
	p.logger.Debug("closing openai provider")
	return nil
}

// clientOptions assembles the langchaingo client options shared by the
// embedder and chat constructors. Local OpenAI-compatible services do not
// check the token, but the client requires one.
func clientOptions(cfg *ai.Config, extra ...openai.Option) []openai.Option {
	opts := []openai.Option{}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	token := cfg.APIKey
	if token == "" {
		token = "none"
	}
	opts = append(opts, openai.WithToken(token))
	return append(opts, extra...)
}

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


package ai

import (
	"strings"

	"github.com/goldarch/ragkit/core"
)

// ProviderKind identifies a model vendor.
type ProviderKind string

const (
	ProviderOpenAI    ProviderKind = "openai"
	ProviderAnthropic ProviderKind = "anthropic"
	ProviderGoogleAI  ProviderKind = "googleai"
)

// Config holds configuration shared by the provider implementations.
type Config struct {
	// Provider selects the vendor. Default: openai.
	Provider ProviderKind

	// APIKey authenticates against the vendor API. Local OpenAI-compatible
	// services (Ollama, vLLM) accept any non-empty value.
	APIKey string

	// BaseURL overrides the vendor's default API endpoint. Used to point the
	// openai provider at a compatible local server.
	// Example: "http://localhost:11434/v1"
	BaseURL string

	// EmbeddingModel is the model identifier for text embeddings.
	// Example: "text-embedding-3-small", "embeddinggemma"
	EmbeddingModel string

	// ChatModel is the model identifier for answer generation.
	// Example: "gpt-4o-mini", "claude-sonnet-4-20250514"
	ChatModel string

	// Temperature is the default sampling temperature for generation.
	Temperature float64

	// MaxTokens is the default completion length cap for generation.
	MaxTokens int
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithProvider selects the model vendor.
func WithProvider(kind ProviderKind) Option {
	return func(c *Config) {
		c.Provider = kind
	}
}

// WithAPIKey sets the vendor API key.
func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL points the provider at a custom API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) Option {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithChatModel sets the generation model identifier.
func WithChatModel(model string) Option {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithMaxTokens sets the default completion length cap.
func WithMaxTokens(n int) Option {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// DefaultConfig returns a Config with OpenAI defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		EmbeddingModel: "text-embedding-3-small",
		ChatModel:      "gpt-4o-mini",
		Temperature:    0.2,
		MaxTokens:      1024,
	}
}

// NewConfig creates a Config with default values and applies the options.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithBaseURL("http://localhost:11434"),
//	    ai.WithEmbeddingModel("embeddinggemma"),
//	    ai.WithChatModel("qwen2.5:3b"),
//	)
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize puts the configuration into canonical form. A BaseURL without
// the /v1 suffix gets it appended, which OpenAI-compatible servers require.
func (c *Config) Normalize() {
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/v1") {
		c.BaseURL = strings.TrimSuffix(c.BaseURL, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete. The
// configuration is normalized before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogleAI:
	case "":
		return core.ConfigurationError("ai config: Provider is required")
	default:
		return core.ValidationError("ai config: unknown provider %q", c.Provider)
	}
	if c.APIKey == "" && c.BaseURL == "" {
		return core.ConfigurationError("ai config: APIKey is required unless BaseURL points at a local service")
	}
	if c.ChatModel == "" {
		return core.ConfigurationError("ai config: ChatModel is required")
	}
	if c.Provider != ProviderAnthropic && c.EmbeddingModel == "" {
		return core.ConfigurationError("ai config: EmbeddingModel is required for provider %q", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return core.ValidationError("ai config: Temperature must be in [0, 2], got %v", c.Temperature)
	}
	if c.MaxTokens < 0 {
		return core.ValidationError("ai config: MaxTokens must not be negative, got %d", c.MaxTokens)
	}
	return nil
}

package ai

import (
	"testing"

	"github.com/goldarch/ragkit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithProvider(ProviderGoogleAI),
		WithAPIKey("key-123"),
		WithEmbeddingModel("text-embedding-004"),
		WithChatModel("gemini-1.5-flash"),
		WithTemperature(0.7),
		WithMaxTokens(2048),
	)

	assert.Equal(t, ProviderGoogleAI, cfg.Provider)
	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, "text-embedding-004", cfg.EmbeddingModel)
	assert.Equal(t, "gemini-1.5-flash", cfg.ChatModel)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, 2048, cfg.MaxTokens)
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash first", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already normalized", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithBaseURL(tt.in))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.BaseURL)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return NewConfig(WithAPIKey("key"))
	}

	t.Run("valid config", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("local base URL substitutes for API key", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("http://localhost:11434"))
		require.NoError(t, cfg.Validate())
	})

	// Missing settings classify as configuration errors, invalid values as
	// validation errors.
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"missing provider", func(c *Config) { c.Provider = "" }, core.ErrNotConfigured},
		{"unknown provider", func(c *Config) { c.Provider = "cohere" }, core.ErrValidation},
		{"missing credentials", func(c *Config) { c.APIKey = ""; c.BaseURL = "" }, core.ErrNotConfigured},
		{"missing chat model", func(c *Config) { c.ChatModel = "" }, core.ErrNotConfigured},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }, core.ErrNotConfigured},
		{"temperature out of range", func(c *Config) { c.Temperature = 2.5 }, core.ErrValidation},
		{"negative max tokens", func(c *Config) { c.MaxTokens = -1 }, core.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}

	t.Run("anthropic needs no embedding model", func(t *testing.T) {
		cfg := valid()
		cfg.Provider = ProviderAnthropic
		cfg.EmbeddingModel = ""
		assert.NoError(t, cfg.Validate())
	})
}

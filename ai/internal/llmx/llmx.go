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


// Package llmx holds the langchaingo plumbing shared by the provider
// implementations.
package llmx

import (
	"github.com/goldarch/ragkit/ai"
	"github.com/tmc/langchaingo/llms"
)

// BuildMessages converts a request into langchaingo message content.
func BuildMessages(req ai.GenerateRequest) []llms.MessageContent {
	var content []llms.MessageContent
	if req.System != "" {
		content = append(content, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.System)},
		})
	}
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(req.Prompt)},
	})
	return content
}

// CallOptions maps a request onto langchaingo call options, falling back to
// the configured defaults for zero values.
func CallOptions(cfg *ai.Config, req ai.GenerateRequest) []llms.CallOption {
	temperature := cfg.Temperature
	if req.Temperature != 0 {
		temperature = req.Temperature
	}
	maxTokens := cfg.MaxTokens
	if req.MaxTokens != 0 {
		maxTokens = req.MaxTokens
	}

	opts := []llms.CallOption{llms.WithTemperature(temperature)}
	if maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTokens))
	}
	return opts
}

// IntFromInfo reads an integer-valued generation-info field, tolerating the
// numeric types the various clients use. Missing keys read as zero.
func IntFromInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

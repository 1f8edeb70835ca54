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
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/goldarch/ragkit/ai"
	"github.com/goldarch/ragkit/core"
	"github.com/goldarch/ragkit/embedding"
	"github.com/goldarch/ragkit/index"
)

// SummaryType selects the shape of a generated document summary.
type SummaryType string

const (
	SummaryBrief        SummaryType = "brief"
	SummaryDetailed     SummaryType = "detailed"
	SummaryBulletPoints SummaryType = "bullet-points"
)

const (
	// summaryChunkLimit caps how many chunks of a document feed the summary.
	summaryChunkLimit = 50

	summaryTemperature = 0.3
)

// SummarizeRequest asks for a summary of one ingested document.
type SummarizeRequest struct {
	DocumentID string

	// Namespace scopes the chunk lookup; empty means the default namespace.
	Namespace string

	// Type defaults to SummaryBrief.
	Type SummaryType

	// MaxWords overrides the type's default length guidance when positive.
	MaxWords int
}

// Summary is a generated document summary with its accounting.
type Summary struct {
	Text           string
	DocumentID     string
	Type           SummaryType
	ChunkCount     int
	TokensUsed     int
	Model          string
	ProcessingTime time.Duration
}

// Summarizer generates LLM summaries of ingested documents from their
// indexed chunks.
type Summarizer struct {
	embedder *embedding.Service
	idx      index.Index
	model    ai.ChatModel
	logger   *slog.Logger
}

// NewSummarizer creates a summarizer over an embedding service, a vector
// index and a chat model.
func NewSummarizer(embedder *embedding.Service, idx index.Index, model ai.ChatModel) (*Summarizer, error) {
	if embedder == nil {
		return nil, core.ValidationError("rag: embedding service must not be nil")
	}
	if idx == nil {
		return nil, core.ValidationError("rag: index must not be nil")
	}
	if model == nil {
		return nil, core.ValidationError("rag: chat model must not be nil")
	}
	return &Summarizer{
		embedder: embedder,
		idx:      idx,
		model:    model,
		logger:   slog.Default().With("component", "summarizer"),
	}, nil
}

// Summarize collects the document's chunks in position order and asks the
// model for a summary of the requested type.
func (s *Summarizer) Summarize(ctx context.Context, req SummarizeRequest) (*Summary, error) {
	if req.DocumentID == "" {
		return nil, core.ValidationError("rag: document ID must not be empty")
	}
	summaryType := req.Type
	if summaryType == "" {
		summaryType = SummaryBrief
	}
	switch summaryType {
	case SummaryBrief, SummaryDetailed, SummaryBulletPoints:
	default:
		return nil, core.ValidationError("rag: unknown summary type %q", summaryType)
	}

	start := time.Now()

	// The index requires a query vector even for a pure metadata lookup;
	// the documentId filter does the actual selection.
	vector, err := s.embedder.EmbedText(ctx, "document content "+req.DocumentID)
	if err != nil {
		return nil, err
	}
	matches, err := s.idx.Search(ctx, index.Query{
		Vector:    vector,
		TopK:      summaryChunkLimit,
		Namespace: req.Namespace,
		Filter:    index.NewQueryBuilder().ForDocument(req.DocumentID).Build(),
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: document %s has no indexed chunks", core.ErrNotFound, req.DocumentID)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return chunkPosition(matches[i].Metadata) < chunkPosition(matches[j].Metadata)
	})
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if content, ok := m.Metadata["content"].(string); ok && content != "" {
			parts = append(parts, content)
		}
	}
	content := strings.Join(parts, "\n\n")

	result, err := s.model.Generate(ctx, ai.GenerateRequest{
		System:      summarySystemPrompt(summaryType),
		Prompt:      summaryUserPrompt(content, summaryType, req.MaxWords),
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens(summaryType, req.MaxWords),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("document summarized",
		"documentId", req.DocumentID,
		"type", summaryType,
		"chunks", len(matches),
		"tokens", result.TokensUsed)

	return &Summary{
		Text:           result.Text,
		DocumentID:     req.DocumentID,
		Type:           summaryType,
		ChunkCount:     len(matches),
		TokensUsed:     result.TokensUsed,
		Model:          result.Model,
		ProcessingTime: time.Since(start),
	}, nil
}

// chunkPosition reads the chunk position from vector metadata. JSON decoding
// turns numbers into float64, the in-memory index keeps the original int.
func chunkPosition(meta map[string]any) int {
	switch v := meta["position"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func summarySystemPrompt(summaryType SummaryType) string {
	base := "You are a professional document summarizer. Your task is to create accurate, " +
		"concise summaries that capture the key information and main points of documents."

	switch summaryType {
	case SummaryBrief:
		return base + " Create a brief, high-level summary focusing on the most important points."
	case SummaryDetailed:
		return base + " Create a comprehensive summary that covers all major points and important details."
	case SummaryBulletPoints:
		return base + " Create a summary using clear bullet points that organize the key information logically."
	}
	return base
}

func summaryUserPrompt(content string, summaryType SummaryType, maxWords int) string {
	guidance := summaryLengthGuidance(summaryType)
	if maxWords > 0 {
		guidance = fmt.Sprintf("Keep the summary to approximately %d words.", maxWords)
	}

	var b strings.Builder
	b.WriteString("Please summarize the following document content:\n\n")
	b.WriteString(content)
	b.WriteString("\n\n")
	b.WriteString(guidance)
	if summaryType == SummaryBulletPoints {
		b.WriteString("\nFormat your response as a bulleted list with clear, concise points.")
	}
	b.WriteString("\n\nProvide a clear, accurate summary that captures the essential information.")
	return b.String()
}

func summaryLengthGuidance(summaryType SummaryType) string {
	switch summaryType {
	case SummaryBrief:
		return "Keep the summary to 2-3 sentences (50-75 words)."
	case SummaryDetailed:
		return "Provide a thorough summary of 200-300 words."
	case SummaryBulletPoints:
		return "Use 5-10 bullet points covering the main topics."
	}
	return "Keep the summary concise and focused."
}

// summaryMaxTokens budgets the completion. A word is roughly 1.5 tokens.
func summaryMaxTokens(summaryType SummaryType, maxWords int) int {
	if maxWords > 0 {
		return (maxWords*3 + 1) / 2
	}
	switch summaryType {
	case SummaryBrief:
		return 150
	case SummaryDetailed:
		return 500
	case SummaryBulletPoints:
		return 300
	}
	return 250
}

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
	"fmt"
	"strings"

	"github.com/goldarch/ragkit/core"
)

// Template holds the system and user prompt templates. The placeholders
// {context} and {question} are substituted on every build.
type Template struct {
	System string
	User   string
}

// DefaultTemplate is the question-answering template used when no custom
// template is configured.
var DefaultTemplate = Template{
	System: `You are a helpful assistant answering questions from a curated knowledge base.
Use the provided context to answer accurately and cite the sources you rely on.

If the context does not contain enough information to answer the question,
acknowledge this and provide what information is available, or describe what
additional information would be needed.`,
	User: `Context from knowledge base:
{context}

User question: {question}

Answer using the context above. When you use specific information from the
context, mention which source it came from.`,
}

// PromptRequest carries everything needed to build one prompt.
type PromptRequest struct {
	Question string
	Context  []core.RetrievalResult

	// History is folded into the user prompt as a role-labeled transcript.
	History []core.ConversationMessage
}

// Prompt is a built prompt pair ready for an ai.ChatModel.
type Prompt struct {
	System string
	User   string

	// ContextUsed is the rendered context block, kept so token budgeting
	// can truncate it without re-rendering.
	ContextUsed string

	// Sources lists the distinct source labels included in the context.
	Sources []string
}

// PromptBuilder renders prompts from retrieval results and history.
type PromptBuilder struct {
	template Template
}

// PromptOption configures a PromptBuilder.
type PromptOption func(*PromptBuilder)

// WithTemplate replaces the default prompt template.
func WithTemplate(t Template) PromptOption {
	return func(b *PromptBuilder) {
		b.template = t
	}
}

// NewPromptBuilder creates a builder with the default template.
func NewPromptBuilder(opts ...PromptOption) *PromptBuilder {
	b := &PromptBuilder{template: DefaultTemplate}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders the prompt for a question over the retrieved context. If
// history is present it is prefixed to the user prompt as a transcript.
func (b *PromptBuilder) Build(req PromptRequest) Prompt {
	contextStr := contextString(req.Context)

	vars := map[string]string{
		"context":  contextStr,
		"question": req.Question,
	}

	user := fillTemplate(b.template.User, vars)
	if len(req.History) > 0 {
		user = "Previous conversation:\n" + historyString(req.History) + "\n\n" + user
	}

	return Prompt{
		System:      fillTemplate(b.template.System, vars),
		User:        user,
		ContextUsed: contextStr,
		Sources:     sourceLabels(req.Context),
	}
}

// EstimateTokens approximates the prompt's token count at four characters
// per token.
func EstimateTokens(p Prompt) int {
	return (len(p.System) + len(p.User)) / 4
}

const truncationMarker = "\n... (context truncated)"

// TruncateToBudget shrinks the prompt's context block until the estimated
// token count fits maxTokens. Prompts already within budget are returned
// unchanged; a non-positive budget disables truncation.
func TruncateToBudget(p Prompt, maxTokens int) Prompt {
	if maxTokens <= 0 || EstimateTokens(p) <= maxTokens {
		return p
	}

	maxChars := maxTokens * 4
	overhead := len(p.System) + len(p.User) - len(p.ContextUsed)
	keep := maxChars - overhead - len(truncationMarker)
	if keep < 0 {
		keep = 0
	}
	if keep >= len(p.ContextUsed) {
		return p
	}

	truncated := p.ContextUsed[:keep] + truncationMarker
	p.User = strings.Replace(p.User, p.ContextUsed, truncated, 1)
	p.ContextUsed = truncated
	return p
}

// contextString renders retrieval results as numbered source blocks.
func contextString(results []core.RetrievalResult) string {
	if len(results) == 0 {
		return "No relevant context found in the knowledge base."
	}

	blocks := make([]string, len(results))
	for i, res := range results {
		blocks[i] = fmt.Sprintf("[Source %d: %s]\n%s\n", i+1, sourceLabel(res), res.Content)
	}
	return strings.Join(blocks, "\n---\n\n")
}

func historyString(history []core.ConversationMessage) string {
	lines := make([]string, len(history))
	for i, msg := range history {
		lines[i] = strings.ToUpper(string(msg.Role)) + ": " + msg.Content
	}
	return strings.Join(lines, "\n\n")
}

func fillTemplate(template string, vars map[string]string) string {
	filled := template
	for key, value := range vars {
		filled = strings.ReplaceAll(filled, "{"+key+"}", value)
	}
	return filled
}

// sourceLabels returns the distinct source labels in result order.
func sourceLabels(results []core.RetrievalResult) []string {
	seen := make(map[string]bool, len(results))
	var out []string
	for _, res := range results {
		label := sourceLabel(res)
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	return out
}

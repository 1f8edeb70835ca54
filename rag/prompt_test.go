package rag

import (
	"strings"
	"testing"

	"github.com/goldarch/ragkit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []core.RetrievalResult {
	return []core.RetrievalResult{
		{
			ID: "doc-a-chunk-0", DocumentID: "doc-a", Score: 0.9,
			Content:  "Steel beam pricing for the north tower.",
			Metadata: map[string]any{"filename": "steel-quote.pdf"},
		},
		{
			ID: "doc-b-chunk-2", DocumentID: "doc-b", Score: 0.7,
			Content:  "Concrete curing requirements for winter pours.",
			Metadata: map[string]any{},
		},
	}
}

func TestBuildFillsTemplate(t *testing.T) {
	b := NewPromptBuilder()

	prompt := b.Build(PromptRequest{
		Question: "What do steel beams cost?",
		Context:  sampleResults(),
	})

	assert.Contains(t, prompt.User, "What do steel beams cost?")
	assert.Contains(t, prompt.User, "[Source 1: steel-quote.pdf]")
	assert.Contains(t, prompt.User, "[Source 2: Document doc-b]")
	assert.Contains(t, prompt.User, "\n---\n\n")
	assert.NotContains(t, prompt.User, "{context}")
	assert.NotContains(t, prompt.User, "{question}")
	assert.Equal(t, []string{"steel-quote.pdf", "Document doc-b"}, prompt.Sources)
}

func TestBuildCustomTemplate(t *testing.T) {
	b := NewPromptBuilder(WithTemplate(Template{
		System: "Answer about {question} only.",
		User:   "Q: {question}\nCTX: {context}",
	}))

	prompt := b.Build(PromptRequest{Question: "steel", Context: sampleResults()})
	assert.Equal(t, "Answer about steel only.", prompt.System)
	assert.True(t, strings.HasPrefix(prompt.User, "Q: steel\nCTX: "))
}

func TestBuildPrefixesHistory(t *testing.T) {
	b := NewPromptBuilder()

	prompt := b.Build(PromptRequest{
		Question: "And the delivery date?",
		Context:  sampleResults(),
		History: []core.ConversationMessage{
			{Role: core.RoleUser, Content: "What do steel beams cost?"},
			{Role: core.RoleAssistant, Content: "Around $1,200 per beam."},
		},
	})

	require.True(t, strings.HasPrefix(prompt.User, "Previous conversation:\n"))
	assert.Contains(t, prompt.User, "USER: What do steel beams cost?")
	assert.Contains(t, prompt.User, "ASSISTANT: Around $1,200 per beam.")

	// History comes before the context block.
	assert.Less(t,
		strings.Index(prompt.User, "Previous conversation:"),
		strings.Index(prompt.User, "[Source 1:"))
}

func TestBuildEmptyContext(t *testing.T) {
	prompt := NewPromptBuilder().Build(PromptRequest{Question: "anything"})
	assert.Contains(t, prompt.ContextUsed, "No relevant context found")
	assert.Empty(t, prompt.Sources)
}

func TestEstimateTokens(t *testing.T) {
	p := Prompt{System: strings.Repeat("s", 40), User: strings.Repeat("u", 60)}
	assert.Equal(t, 25, EstimateTokens(p))
}

func TestTruncateToBudget(t *testing.T) {
	results := []core.RetrievalResult{{
		ID: "doc-a-chunk-0", DocumentID: "doc-a",
		Content:  strings.Repeat("steel pricing terms and volume discounts. ", 100),
		Metadata: map[string]any{"filename": "steel-quote.pdf"},
	}}
	prompt := NewPromptBuilder().Build(PromptRequest{Question: "steel?", Context: results})
	require.Greater(t, EstimateTokens(prompt), 500)

	out := TruncateToBudget(prompt, 500)
	assert.LessOrEqual(t, EstimateTokens(out), 500)
	assert.Contains(t, out.User, "(context truncated)")
	assert.Contains(t, out.User, "steel?")

	// Within budget: unchanged.
	same := TruncateToBudget(out, 10000)
	assert.Equal(t, out, same)

	// Budget zero disables truncation.
	off := TruncateToBudget(prompt, 0)
	assert.Equal(t, prompt, off)
}

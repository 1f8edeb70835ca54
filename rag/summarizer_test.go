package rag

import (
	"context"
	"testing"

	"github.com/goldarch/ragkit/ai/mock"
	"github.com/goldarch/ragkit/core"
	"github.com/goldarch/ragkit/embedding"
	"github.com/goldarch/ragkit/index"
	"github.com/goldarch/ragkit/index/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSummarizer seeds an in-memory index with a three-chunk document
// (upserted out of position order) and one chunk of an unrelated document.
func newTestSummarizer(t *testing.T) (*Summarizer, *mock.MockChatModel) {
	t.Helper()
	ctx := context.Background()

	svc, err := embedding.NewService(mock.NewMockEmbedder())
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	idx := memory.New()
	seed := []struct {
		id       string
		docID    string
		position int
		content  string
	}{
		{"doc-1-chunk-1", "doc-1", 1, "beta section of the report."},
		{"doc-1-chunk-0", "doc-1", 0, "alpha section of the report."},
		{"doc-1-chunk-2", "doc-1", 2, "gamma section of the report."},
		{"doc-2-chunk-0", "doc-2", 0, "unrelated supplier notes."},
	}
	vectors := make([]index.Vector, 0, len(seed))
	for _, s := range seed {
		vec, err := svc.EmbedText(ctx, s.content)
		require.NoError(t, err)
		vectors = append(vectors, index.Vector{
			ID:     s.id,
			Values: vec,
			Metadata: map[string]any{
				"documentId": s.docID,
				"position":   s.position,
				"content":    s.content,
			},
		})
	}
	require.NoError(t, idx.Upsert(ctx, "", vectors))

	model := mock.NewMockChatModel()
	summarizer, err := NewSummarizer(svc, idx, model)
	require.NoError(t, err)
	return summarizer, model
}

func TestSummarizeOrdersChunksByPosition(t *testing.T) {
	summarizer, model := newTestSummarizer(t)

	summary, err := summarizer.Summarize(context.Background(), SummarizeRequest{DocumentID: "doc-1"})
	require.NoError(t, err)

	assert.Equal(t, "doc-1", summary.DocumentID)
	assert.Equal(t, SummaryBrief, summary.Type)
	assert.Equal(t, 3, summary.ChunkCount)
	assert.Equal(t, "mock-chat", summary.Model)
	assert.Positive(t, summary.TokensUsed)
	assert.NotEmpty(t, summary.Text)

	req := model.LastRequest()
	assert.Contains(t, req.Prompt,
		"alpha section of the report.\n\nbeta section of the report.\n\ngamma section of the report.")
	assert.NotContains(t, req.Prompt, "unrelated supplier notes")
	assert.Contains(t, req.System, "brief, high-level summary")
	assert.Equal(t, 150, req.MaxTokens)
	assert.InDelta(t, summaryTemperature, req.Temperature, 1e-9)
}

func TestSummarizeBulletPoints(t *testing.T) {
	summarizer, model := newTestSummarizer(t)

	summary, err := summarizer.Summarize(context.Background(), SummarizeRequest{
		DocumentID: "doc-1",
		Type:       SummaryBulletPoints,
	})
	require.NoError(t, err)
	assert.Equal(t, SummaryBulletPoints, summary.Type)

	req := model.LastRequest()
	assert.Contains(t, req.System, "bullet points")
	assert.Contains(t, req.Prompt, "bulleted list")
	assert.Contains(t, req.Prompt, "5-10 bullet points")
	assert.Equal(t, 300, req.MaxTokens)
}

func TestSummarizeMaxWordsOverridesGuidance(t *testing.T) {
	summarizer, model := newTestSummarizer(t)

	_, err := summarizer.Summarize(context.Background(), SummarizeRequest{
		DocumentID: "doc-1",
		Type:       SummaryDetailed,
		MaxWords:   100,
	})
	require.NoError(t, err)

	req := model.LastRequest()
	assert.Contains(t, req.Prompt, "approximately 100 words")
	assert.NotContains(t, req.Prompt, "200-300 words")
	assert.Equal(t, 150, req.MaxTokens)
}

func TestSummarizeUnknownDocument(t *testing.T) {
	summarizer, model := newTestSummarizer(t)

	_, err := summarizer.Summarize(context.Background(), SummarizeRequest{DocumentID: "doc-missing"})
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Zero(t, model.CallCount())
}

func TestSummarizeValidation(t *testing.T) {
	summarizer, model := newTestSummarizer(t)
	ctx := context.Background()

	_, err := summarizer.Summarize(ctx, SummarizeRequest{})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = summarizer.Summarize(ctx, SummarizeRequest{DocumentID: "doc-1", Type: "haiku"})
	assert.ErrorIs(t, err, core.ErrValidation)

	assert.Zero(t, model.CallCount())
}

func TestNewSummarizerValidation(t *testing.T) {
	svc, err := embedding.NewService(mock.NewMockEmbedder())
	require.NoError(t, err)
	defer svc.Close()
	idx := memory.New()
	model := mock.NewMockChatModel()

	_, err = NewSummarizer(nil, idx, model)
	assert.ErrorIs(t, err, core.ErrValidation)
	_, err = NewSummarizer(svc, nil, model)
	assert.ErrorIs(t, err, core.ErrValidation)
	_, err = NewSummarizer(svc, idx, nil)
	assert.ErrorIs(t, err, core.ErrValidation)
}

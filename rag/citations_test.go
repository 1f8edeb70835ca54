package rag

import (
	"strings"
	"testing"

	"github.com/goldarch/ragkit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCitationsSourceLabelPriority(t *testing.T) {
	results := []core.RetrievalResult{
		{DocumentID: "d1", Content: "a", Metadata: map[string]any{
			"filename": "quote.pdf", "documentName": "Quote", "title": "Q1",
		}},
		{DocumentID: "d2", Content: "b", Metadata: map[string]any{
			"documentName": "Spec Sheet", "title": "S1",
		}},
		{DocumentID: "d3", Content: "c", Metadata: map[string]any{"title": "Winter Pours"}},
		{DocumentID: "d4", Content: "d", Metadata: map[string]any{}},
		{Content: "e", Metadata: map[string]any{}},
	}

	citations := BuildCitations(results)
	require.Len(t, citations, 5)
	assert.Equal(t, "quote.pdf", citations[0].Source)
	assert.Equal(t, "Spec Sheet", citations[1].Source)
	assert.Equal(t, "Winter Pours", citations[2].Source)
	assert.Equal(t, "Document d4", citations[3].Source)
	assert.Equal(t, "Unknown Source", citations[4].Source)
}

func TestExcerptBoundaries(t *testing.T) {
	t.Run("short content unchanged", func(t *testing.T) {
		assert.Equal(t, "short text.", excerpt("short text.", maxExcerptLength))
	})

	t.Run("sentence boundary past 70 percent", func(t *testing.T) {
		content := strings.Repeat("a", 150) + ". " + strings.Repeat("b", 100)
		got := excerpt(content, maxExcerptLength)
		assert.Equal(t, strings.Repeat("a", 150)+".", got)
	})

	t.Run("word boundary past 80 percent", func(t *testing.T) {
		content := strings.Repeat("a", 170) + " " + strings.Repeat("b", 100)
		got := excerpt(content, maxExcerptLength)
		assert.Equal(t, strings.Repeat("a", 170)+"...", got)
	})

	t.Run("hard cut with ellipsis", func(t *testing.T) {
		content := strings.Repeat("x", 250)
		got := excerpt(content, maxExcerptLength)
		assert.Equal(t, strings.Repeat("x", 200)+"...", got)
		assert.Len(t, got, 203)
	})
}

func TestDedupeCitationsKeepsFirst(t *testing.T) {
	citations := []core.Citation{
		{Source: "quote.pdf", Excerpt: "first", Score: 0.9},
		{Source: "spec.pdf", Excerpt: "other", Score: 0.8},
		{Source: "quote.pdf", Excerpt: "second", Score: 0.7},
	}

	out := DedupeCitations(citations)
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Excerpt)
	assert.Equal(t, "spec.pdf", out[1].Source)
}

func TestSortCitationsByScore(t *testing.T) {
	citations := []core.Citation{
		{Source: "low", Score: 0.2},
		{Source: "high", Score: 0.9},
		{Source: "mid", Score: 0.5},
	}
	SortCitationsByScore(citations)
	assert.Equal(t, []string{"high", "mid", "low"},
		[]string{citations[0].Source, citations[1].Source, citations[2].Source})
}

func TestFilterCitationsByScore(t *testing.T) {
	citations := []core.Citation{
		{Source: "strong", Score: 0.9},
		{Source: "weak", Score: 0.5},
		{Source: "unscored", Score: 0},
	}

	out := FilterCitationsByScore(citations, 0)
	require.Len(t, out, 2)
	assert.Equal(t, "strong", out[0].Source)
	assert.Equal(t, "unscored", out[1].Source)

	out = FilterCitationsByScore(citations, 0.4)
	assert.Len(t, out, 3)
}

func TestFormatCitations(t *testing.T) {
	assert.Empty(t, FormatCitations(nil))

	got := FormatCitations([]core.Citation{
		{Source: "quote.pdf", Score: 0.92},
		{Source: "notes.txt"},
	})
	assert.Equal(t, "[1] quote.pdf (relevance: 92%)\n[2] notes.txt", got)
}

package retrieval

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

// newTestRetriever seeds an in-memory index and pins the query embedding to
// [1,0,0] so each stored vector's semantic score is its first component.
func newTestRetriever(t *testing.T) *Retriever {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	svc, err := embedding.NewService(embedder)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	idx := memory.New()
	err = idx.Upsert(context.Background(), "", []index.Vector{
		{ID: "a-0", Values: []float32{1, 0, 0}, Metadata: map[string]any{
			"documentId": "doc-a",
			"content":    "Steel beam pricing for the north tower project.",
		}},
		{ID: "a-1", Values: []float32{0.8, 0.6, 0}, Metadata: map[string]any{
			"documentId": "doc-a",
			"content":    "Steel beam delivery schedule and pricing appendix.",
		}},
		{ID: "b-0", Values: []float32{0.7, 0.71414284, 0}, Metadata: map[string]any{
			"documentId": "doc-b",
			"content":    "Concrete curing requirements and winter procedures.",
		}},
		{ID: "c-0", Values: []float32{0, 1, 0}, Metadata: map[string]any{
			"documentId": "doc-c",
			"content":    "Unrelated electrical subcontract terms.",
		}},
	})
	require.NoError(t, err)

	retriever, err := NewRetriever(svc, idx)
	require.NoError(t, err)
	return retriever
}

func TestRetrieveThresholdAndOrder(t *testing.T) {
	r := newTestRetriever(t)

	results, err := r.Retrieve(context.Background(), "steel beam pricing", Options{DisableRerank: true})
	require.NoError(t, err)

	// doc-c scores 0 and falls below the 0.6 default threshold; doc-a keeps
	// only its best chunk.
	require.Len(t, results, 2)
	assert.Equal(t, "a-0", results[0].ID)
	assert.Equal(t, "b-0", results[1].ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestRetrieveDedupesByDocument(t *testing.T) {
	r := newTestRetriever(t)

	results, err := r.Retrieve(context.Background(), "steel beam pricing", Options{TopK: 10})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, res := range results {
		assert.False(t, seen[res.DocumentID], "document %s appears twice", res.DocumentID)
		seen[res.DocumentID] = true
	}
}

func TestRetrieveRerankBlendsKeywordOverlap(t *testing.T) {
	r := newTestRetriever(t)
	ctx := context.Background()

	plain, err := r.Retrieve(ctx, "steel beam pricing", Options{DisableRerank: true})
	require.NoError(t, err)
	reranked, err := r.Retrieve(ctx, "steel beam pricing", Options{})
	require.NoError(t, err)

	require.NotEmpty(t, plain)
	require.NotEmpty(t, reranked)

	// a-0 contains every query term: 0.7*1.0 + 0.3*1.0 = 1.0.
	assert.Equal(t, "a-0", reranked[0].ID)
	assert.InDelta(t, 1.0, reranked[0].Score, 1e-9)

	// b-0 contains none: 0.7*0.7 + 0 = 0.49. Kept, since the threshold
	// applies to the semantic score before reranking.
	require.Len(t, reranked, 2)
	assert.Equal(t, "b-0", reranked[1].ID)
	assert.InDelta(t, 0.49, reranked[1].Score, 1e-6)

	for _, res := range reranked {
		assert.GreaterOrEqual(t, res.Score, 0.0)
		assert.LessOrEqual(t, res.Score, 1.0)
	}
}

func TestRetrieveTopK(t *testing.T) {
	r := newTestRetriever(t)

	results, err := r.Retrieve(context.Background(), "steel beam pricing", Options{TopK: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a-0", results[0].ID)
}

func TestRetrieveValidatesQuestion(t *testing.T) {
	r := newTestRetriever(t)

	_, err := r.Retrieve(context.Background(), "", Options{})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = r.Retrieve(context.Background(), "ab", Options{})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestKeywords(t *testing.T) {
	terms := Keywords("What is the price of the steel beams? steel!")
	assert.Equal(t, []string{"price", "steel", "beams"}, terms)
}

func TestKeywordOverlap(t *testing.T) {
	terms := []string{"steel", "pricing"}

	assert.Equal(t, 1.0, keywordOverlap("Steel pricing attached.", terms))
	assert.Equal(t, 0.5, keywordOverlap("The steel arrives Monday.", terms))
	assert.Equal(t, 0.0, keywordOverlap("Concrete only.", terms))
	assert.Equal(t, 0.0, keywordOverlap("anything", nil))
}

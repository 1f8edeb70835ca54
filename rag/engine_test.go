package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goldarch/ragkit/ai"
	"github.com/goldarch/ragkit/ai/mock"
	"github.com/goldarch/ragkit/core"
	"github.com/goldarch/ragkit/embedding"
	"github.com/goldarch/ragkit/index"
	"github.com/goldarch/ragkit/index/memory"
	"github.com/goldarch/ragkit/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore records exchanges and serves canned history.
type fakeStore struct {
	history  []core.ConversationMessage
	appended int
	lastID   string
	lastUser string
}

func (f *fakeStore) History(conversationID string, limit int) []core.ConversationMessage {
	if len(f.history) > limit {
		return f.history[len(f.history)-limit:]
	}
	return f.history
}

func (f *fakeStore) AppendExchange(conversationID, userID, question, answer string, citations []core.Citation) (string, error) {
	f.appended++
	if conversationID == "" {
		conversationID = "conv-new"
	}
	f.lastID = conversationID
	f.lastUser = userID
	return conversationID, nil
}

// newTestEngine seeds an in-memory index and pins the query embedding so
// semantic scores are each vector's first component.
func newTestEngine(t *testing.T, queryVector []float32, opts ...EngineOption) (*Engine, *mock.MockChatModel) {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return queryVector, nil
	}
	svc, err := embedding.NewService(embedder)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	idx := memory.New()
	err = idx.Upsert(context.Background(), "", []index.Vector{
		{ID: "a-0", Values: []float32{1, 0, 0}, Metadata: map[string]any{
			"documentId": "doc-a",
			"filename":   "steel-quote.pdf",
			"content":    "Steel beam pricing for the north tower project.",
		}},
		{ID: "b-0", Values: []float32{0.8, 0.6, 0}, Metadata: map[string]any{
			"documentId": "doc-b",
			"content":    "Steel delivery schedule.",
		}},
		{ID: "c-0", Values: []float32{0, 1, 0}, Metadata: map[string]any{
			"documentId": "doc-c",
			"content":    "Unrelated electrical subcontract terms.",
		}},
	})
	require.NoError(t, err)

	retriever, err := retrieval.NewRetriever(svc, idx)
	require.NoError(t, err)

	chat := mock.NewMockChatModel()
	generator, err := NewAnswerGenerator(chat)
	require.NoError(t, err)

	engine, err := NewEngine(retriever, generator, nil, opts...)
	require.NoError(t, err)
	return engine, chat
}

func TestAnswerGrounded(t *testing.T) {
	engine, chat := newTestEngine(t, []float32{1, 0, 0})

	resp, err := engine.Answer(context.Background(), AnswerRequest{Question: "steel beam pricing"})
	require.NoError(t, err)

	assert.True(t, resp.Grounded)
	assert.Equal(t, 1, chat.CallCount())
	assert.NotEmpty(t, resp.Answer)
	assert.Equal(t, "mock-chat", resp.Metadata.Model)
	assert.Greater(t, resp.Metadata.TokensUsed, 0)

	// a-0: 0.7*1.0 + 0.3*1.0 = 1.0; b-0: 0.7*0.8 + 0.3*(1/3) = 0.66.
	require.Len(t, resp.RetrievedContext, 2)
	assert.InDelta(t, 0.83, resp.Confidence, 1e-6)

	require.NotEmpty(t, resp.Citations)
	assert.Equal(t, "steel-quote.pdf", resp.Citations[0].Source)

	prompt := chat.LastRequest().Prompt
	assert.Contains(t, prompt, "[Source 1: steel-quote.pdf]")
	assert.Contains(t, prompt, "steel beam pricing")
}

func TestAnswerNoContextFallback(t *testing.T) {
	// Query embedding orthogonal to every stored vector except c-0, whose
	// semantic score still sits below the threshold after the others drop.
	engine, chat := newTestEngine(t, []float32{0, 0, 1})

	resp, err := engine.Answer(context.Background(), AnswerRequest{Question: "unknown topic"})
	require.NoError(t, err)

	assert.Equal(t, DefaultFallbackMessage, resp.Answer)
	assert.False(t, resp.Grounded)
	assert.Zero(t, resp.Confidence)
	assert.Empty(t, resp.RetrievedContext)
	assert.Empty(t, resp.Citations)
	assert.Zero(t, resp.Metadata.TokensUsed)
	assert.Zero(t, chat.CallCount(), "model must not be called without context")
}

func TestAnswerCustomFallbackMessage(t *testing.T) {
	engine, _ := newTestEngine(t, []float32{0, 0, 1}, WithFallbackMessage("nothing on file"))

	resp, err := engine.Answer(context.Background(), AnswerRequest{Question: "unknown topic"})
	require.NoError(t, err)
	assert.Equal(t, "nothing on file", resp.Answer)
}

func TestAnswerValidatesQuestion(t *testing.T) {
	engine, chat := newTestEngine(t, []float32{1, 0, 0})
	ctx := context.Background()

	_, err := engine.Answer(ctx, AnswerRequest{Question: ""})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = engine.Answer(ctx, AnswerRequest{Question: "ab"})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = engine.Answer(ctx, AnswerRequest{Question: strings.Repeat("q", 1001)})
	assert.ErrorIs(t, err, core.ErrValidation)

	assert.Zero(t, chat.CallCount())
}

func TestAnswerIncludesHistory(t *testing.T) {
	store := &fakeStore{history: []core.ConversationMessage{
		{Role: core.RoleUser, Content: "What do steel beams cost?"},
		{Role: core.RoleAssistant, Content: "Around $1,200 per beam."},
	}}
	engine, chat := newTestEngine(t, []float32{1, 0, 0}, WithConversationStore(store))

	resp, err := engine.Answer(context.Background(), AnswerRequest{
		Question:       "steel beam pricing",
		ConversationID: "conv-1",
		UserID:         "user-1",
	})
	require.NoError(t, err)

	prompt := chat.LastRequest().Prompt
	assert.Contains(t, prompt, "Previous conversation:")
	assert.Contains(t, prompt, "USER: What do steel beams cost?")

	assert.Equal(t, 1, store.appended)
	assert.Equal(t, "conv-1", store.lastID)
	assert.Equal(t, "user-1", store.lastUser)
	assert.Equal(t, "conv-1", resp.ConversationID)
}

func TestAnswerCreatesConversation(t *testing.T) {
	store := &fakeStore{}
	engine, chat := newTestEngine(t, []float32{1, 0, 0}, WithConversationStore(store))

	resp, err := engine.Answer(context.Background(), AnswerRequest{Question: "steel beam pricing"})
	require.NoError(t, err)

	// No conversation attached: no history in the prompt, but the exchange
	// is recorded under a fresh id.
	assert.NotContains(t, chat.LastRequest().Prompt, "Previous conversation:")
	assert.Equal(t, "conv-new", resp.ConversationID)
	assert.Equal(t, 1, store.appended)
}

func TestAnswerPropagatesGenerationError(t *testing.T) {
	engine, chat := newTestEngine(t, []float32{1, 0, 0})
	upstream := errors.New("rate limited")
	chat.GenerateFunc = func(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResult, error) {
		return nil, core.NewProviderError("openai", "generate", upstream)
	}

	_, err := engine.Answer(context.Background(), AnswerRequest{Question: "steel beam pricing"})
	require.Error(t, err)
	provErr, ok := core.IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "openai", provErr.Provider)
	assert.ErrorIs(t, err, upstream)
}

func TestAnswerWithoutCitations(t *testing.T) {
	engine, _ := newTestEngine(t, []float32{1, 0, 0}, WithoutCitations())

	resp, err := engine.Answer(context.Background(), AnswerRequest{Question: "steel beam pricing"})
	require.NoError(t, err)
	assert.True(t, resp.Grounded)
	assert.Empty(t, resp.Citations)
}

func TestValidateAnswer(t *testing.T) {
	assert.Empty(t, ValidateAnswer("Steel beams run about $1,200 each."))
	assert.NotEmpty(t, ValidateAnswer(""))
	assert.NotEmpty(t, ValidateAnswer("ok"))
	assert.NotEmpty(t, ValidateAnswer("As an AI, I cannot answer that question in detail."))
}

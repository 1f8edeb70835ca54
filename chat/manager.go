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


package chat

import (
	"context"
	"log/slog"

	"github.com/goldarch/ragkit/core"
	"github.com/goldarch/ragkit/index"
	"github.com/goldarch/ragkit/rag"
)

// Answerer is the engine surface the Manager needs. *rag.Engine implements
// it; the engine must be wired to the same Store so exchanges are recorded.
type Answerer interface {
	Answer(ctx context.Context, req rag.AnswerRequest) (*core.RAGResponse, error)
}

// SendMessageRequest is one chat turn.
type SendMessageRequest struct {
	Message        string
	ConversationID string
	UserID         string

	// Retrieval scoping, forwarded to the engine.
	Namespace string
	Filter    index.Filter
	TopK      int
	MinScore  float64
}

// SendMessageResponse carries the assistant turn plus the full answer.
type SendMessageResponse struct {
	Message        core.ConversationMessage
	ConversationID string
	Response       *core.RAGResponse
}

// Manager pairs a conversation store with an answering engine.
type Manager struct {
	store  *Store
	engine Answerer
	logger *slog.Logger
}

// NewManager creates a chat manager. The engine must already be wired to
// store via rag.WithConversationStore.
func NewManager(engine Answerer, store *Store) (*Manager, error) {
	if engine == nil {
		return nil, core.ValidationError("chat: engine must not be nil")
	}
	if store == nil {
		store = NewStore()
	}
	return &Manager{
		store:  store,
		engine: engine,
		logger: slog.Default().With("component", "chat"),
	}, nil
}

// Store exposes the underlying conversation store.
func (m *Manager) Store() *Store {
	return m.store
}

// SendMessage answers one chat turn with conversation continuity. The
// engine records the exchange; the response carries the assistant message
// as stored.
func (m *Manager) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error) {
	resp, err := m.engine.Answer(ctx, rag.AnswerRequest{
		Question:       req.Message,
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
		Namespace:      req.Namespace,
		Filter:         req.Filter,
		TopK:           req.TopK,
		MinScore:       req.MinScore,
	})
	if err != nil {
		return nil, err
	}

	out := &SendMessageResponse{
		ConversationID: resp.ConversationID,
		Response:       resp,
		Message: core.ConversationMessage{
			Role:      core.RoleAssistant,
			Content:   resp.Answer,
			Citations: resp.Citations,
		},
	}

	// Prefer the stored message: it carries the authoritative timestamp.
	if resp.ConversationID != "" {
		if history := m.store.History(resp.ConversationID, 1); len(history) == 1 {
			out.Message = history[0]
		}
	}

	m.logger.Debug("message sent",
		"conversationId", out.ConversationID,
		"grounded", resp.Grounded,
		"tokensUsed", resp.Metadata.TokensUsed)
	return out, nil
}

// Regenerate replays the last user message of a conversation, replacing
// the previous assistant answer.
func (m *Manager) Regenerate(ctx context.Context, conversationID string) (*SendMessageResponse, error) {
	question, err := m.store.prepareRegenerate(conversationID)
	if err != nil {
		return nil, err
	}
	conv, err := m.store.Get(conversationID)
	if err != nil {
		return nil, err
	}
	return m.SendMessage(ctx, SendMessageRequest{
		Message:        question,
		ConversationID: conversationID,
		UserID:         conv.UserID,
	})
}

// GetConversation returns a conversation by ID.
func (m *Manager) GetConversation(conversationID string) (*core.Conversation, error) {
	return m.store.Get(conversationID)
}

// DeleteConversation removes a conversation, reporting whether it existed.
func (m *Manager) DeleteConversation(conversationID string) bool {
	return m.store.Delete(conversationID)
}

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
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goldarch/ragkit/core"
	"github.com/google/uuid"
)

const (
	// DefaultMaxHistoryLength bounds the messages kept per conversation:
	// each conversation holds at most twice this many messages.
	DefaultMaxHistoryLength = 20

	// DefaultMaxConversations is the in-memory conversation ceiling.
	DefaultMaxConversations = 100
)

// ConversationStats summarizes one conversation.
type ConversationStats struct {
	MessageCount      int
	UserMessages      int
	AssistantMessages int
	AvgMessageLength  int
	Duration          time.Duration
}

// Store holds conversations in memory. All mutations run behind a single
// mutex, so concurrent senders never lose an update.
type Store struct {
	mu            sync.Mutex
	conversations map[string]*core.Conversation

	maxHistory  int
	maxInMemory int
	logger      *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithMaxHistoryLength bounds per-conversation history; conversations are
// trimmed to the most recent 2×n messages.
func WithMaxHistoryLength(n int) StoreOption {
	return func(s *Store) {
		s.maxHistory = n
	}
}

// WithMaxConversations sets the in-memory conversation ceiling.
func WithMaxConversations(n int) StoreOption {
	return func(s *Store) {
		s.maxInMemory = n
	}
}

// NewStore creates an empty conversation store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		conversations: make(map[string]*core.Conversation),
		maxHistory:    DefaultMaxHistoryLength,
		maxInMemory:   DefaultMaxConversations,
		logger:        slog.Default().With("component", "chat"),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts an empty conversation for a user.
func (s *Store) Create(userID string, metadata map[string]any) *core.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.createLocked(userID, metadata)
	s.evictLocked(conv.ID)
	return cloneConversation(conv)
}

func (s *Store) createLocked(userID string, metadata map[string]any) *core.Conversation {
	now := s.now()
	conv := &core.Conversation{
		ID:        "conv-" + uuid.NewString(),
		UserID:    userID,
		Metadata:  maps.Clone(metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.conversations[conv.ID] = conv
	return conv
}

// Get returns a copy of the conversation, or core.ErrNotFound.
func (s *Store) Get(conversationID string) (*core.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return nil, fmt.Errorf("%w: conversation %s", core.ErrNotFound, conversationID)
	}
	return cloneConversation(conv), nil
}

// Delete removes a conversation, reporting whether it existed.
func (s *Store) Delete(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.conversations[conversationID]
	delete(s.conversations, conversationID)
	return ok
}

// DeleteByUser removes every conversation owned by a user and returns the
// number removed.
func (s *Store) DeleteByUser(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, conv := range s.conversations {
		if conv.UserID == userID {
			delete(s.conversations, id)
			deleted++
		}
	}
	return deleted
}

// Len returns the number of conversations held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// AppendExchange records a question/answer pair on a conversation, creating
// it when the given ID is empty or unknown. The conversation is trimmed to
// its message ceiling and the store's LRU eviction runs afterwards. It
// returns the conversation ID.
//
// This is the rag.ConversationStore write side.
func (s *Store) AppendExchange(conversationID, userID, question, answer string, citations []core.Citation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		conv = s.createLocked(userID, nil)
	}

	now := s.now()
	conv.Messages = append(conv.Messages,
		core.ConversationMessage{Role: core.RoleUser, Content: question, Timestamp: now},
		core.ConversationMessage{Role: core.RoleAssistant, Content: answer, Timestamp: now, Citations: citations},
	)
	conv.UpdatedAt = now

	if ceiling := s.maxHistory * 2; len(conv.Messages) > ceiling {
		conv.Messages = conv.Messages[len(conv.Messages)-ceiling:]
	}

	s.evictLocked(conv.ID)
	return conv.ID, nil
}

// History returns up to limit of the most recent messages of a conversation.
// Unknown conversations yield no history.
//
// This is the rag.ConversationStore read side.
func (s *Store) History(conversationID string, limit int) []core.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return nil
	}

	messages := conv.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	out := make([]core.ConversationMessage, len(messages))
	copy(out, messages)
	return out
}

// ListRecent returns up to limit conversations, most recently updated first.
func (s *Store) ListRecent(limit int) []*core.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.sortedLocked(func(*core.Conversation) bool { return true })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ListByUser returns a user's conversations, most recently updated first.
func (s *Store) ListByUser(userID string) []*core.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sortedLocked(func(c *core.Conversation) bool {
		return c.UserID == userID
	})
}

// Search returns conversations containing the query in any message,
// case-insensitively, most recently updated first. A non-empty userID
// restricts the search to that user.
func (s *Store) Search(query, userID string) []*core.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(query)
	return s.sortedLocked(func(c *core.Conversation) bool {
		if userID != "" && c.UserID != userID {
			return false
		}
		for _, msg := range c.Messages {
			if strings.Contains(strings.ToLower(msg.Content), needle) {
				return true
			}
		}
		return false
	})
}

// Stats summarizes a conversation, or returns core.ErrNotFound.
func (s *Store) Stats(conversationID string) (*ConversationStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return nil, fmt.Errorf("%w: conversation %s", core.ErrNotFound, conversationID)
	}

	stats := &ConversationStats{
		MessageCount: len(conv.Messages),
		Duration:     conv.UpdatedAt.Sub(conv.CreatedAt),
	}
	totalLength := 0
	for _, msg := range conv.Messages {
		totalLength += len(msg.Content)
		switch msg.Role {
		case core.RoleUser:
			stats.UserMessages++
		case core.RoleAssistant:
			stats.AssistantMessages++
		}
	}
	if stats.MessageCount > 0 {
		stats.AvgMessageLength = totalLength / stats.MessageCount
	}
	return stats, nil
}

// UpdateMetadata merges metadata into a conversation.
func (s *Store) UpdateMetadata(conversationID string, metadata map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return fmt.Errorf("%w: conversation %s", core.ErrNotFound, conversationID)
	}
	if conv.Metadata == nil {
		conv.Metadata = make(map[string]any, len(metadata))
	}
	maps.Copy(conv.Metadata, metadata)
	conv.UpdatedAt = s.now()
	return nil
}

// CleanupOlderThan removes conversations not updated within age and returns
// the number removed.
func (s *Store) CleanupOlderThan(age time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-age)
	removed := 0
	for id, conv := range s.conversations {
		if conv.UpdatedAt.Before(cutoff) {
			delete(s.conversations, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("conversations cleaned up", "removed", removed, "age", age)
	}
	return removed
}

// prepareRegenerate drops a trailing assistant message and returns the most
// recent user message content so the exchange can be replayed.
func (s *Store) prepareRegenerate(conversationID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return "", fmt.Errorf("%w: conversation %s", core.ErrNotFound, conversationID)
	}

	if n := len(conv.Messages); n > 0 && conv.Messages[n-1].Role == core.RoleAssistant {
		conv.Messages = conv.Messages[:n-1]
	}
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if conv.Messages[i].Role == core.RoleUser {
			question := conv.Messages[i].Content
			// Drop the user turn too: replaying the question appends a
			// fresh exchange.
			conv.Messages = append(conv.Messages[:i], conv.Messages[i+1:]...)
			return question, nil
		}
	}
	return "", core.ValidationError("conversation %s has no user message to regenerate from", conversationID)
}

// evictLocked removes least-recently-updated conversations past the ceiling,
// never evicting the conversation touched by the current operation.
func (s *Store) evictLocked(keepID string) {
	for len(s.conversations) > s.maxInMemory {
		var oldest *core.Conversation
		for id, conv := range s.conversations {
			if id == keepID {
				continue
			}
			if oldest == nil || conv.UpdatedAt.Before(oldest.UpdatedAt) {
				oldest = conv
			}
		}
		if oldest == nil {
			return
		}
		delete(s.conversations, oldest.ID)
		s.logger.Debug("conversation evicted", "id", oldest.ID, "updatedAt", oldest.UpdatedAt)
	}
}

// sortedLocked clones matching conversations sorted by UpdatedAt descending.
func (s *Store) sortedLocked(match func(*core.Conversation) bool) []*core.Conversation {
	var out []*core.Conversation
	for _, conv := range s.conversations {
		if match(conv) {
			out = append(out, cloneConversation(conv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func cloneConversation(conv *core.Conversation) *core.Conversation {
	out := *conv
	out.Messages = make([]core.ConversationMessage, len(conv.Messages))
	copy(out.Messages, conv.Messages)
	out.Metadata = maps.Clone(conv.Metadata)
	return &out
}

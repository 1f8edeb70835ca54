package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/goldarch/ragkit/ai"
)

// MockChatModel is a test double for ai.ChatModel. Behavior can be injected
// via GenerateFunc; the default echoes a canned completion.
type MockChatModel struct {
	// GenerateFunc is called by Generate if set.
	GenerateFunc func(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResult, error)

	mu        sync.Mutex
	callCount int
	lastReq   ai.GenerateRequest
}

// NewMockChatModel creates a mock chat model with default canned behavior.
// Returns the concrete type so tests can assert on call counts and requests.
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{}
}

// Generate records the request and produces a completion.
func (m *MockChatModel) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResult, error) {
	m.mu.Lock()
	m.callCount++
	m.lastReq = req
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &ai.GenerateResult{
		Text:       fmt.Sprintf("mock answer (%d prompt chars)", len(req.Prompt)),
		Model:      "mock-chat",
		TokensUsed: (len(req.Prompt) + len(req.System)) / 4,
	}, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the most recent request passed to Generate.
func (m *MockChatModel) LastRequest() ai.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReq
}

// Reset clears the call count, recorded request and injected behavior.
func (m *MockChatModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastReq = ai.GenerateRequest{}
	m.GenerateFunc = nil
}

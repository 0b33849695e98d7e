// Package llmtest provides test doubles for llm.Client.
package llmtest

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/jonathan/portfolio-builder/internal/llm"
)

// MockClient is a testify mock of llm.Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	args := m.Called(ctx, prompt, tier)
	return args.String(0), args.Error(1)
}

func (m *MockClient) GenerateChat(ctx context.Context, system, user string, tier llm.ModelTier) (string, error) {
	args := m.Called(ctx, system, user, tier)
	return args.String(0), args.Error(1)
}

func (m *MockClient) GetModel(tier llm.ModelTier) string {
	return "mock-" + string(tier)
}

func (m *MockClient) Close() error {
	return nil
}

// Call records one invocation of a Stub
type Call struct {
	System string
	Prompt string
	Tier   llm.ModelTier
}

// Stub answers free-form prompts with Analysis and chat prompts with Code.
// It records every call and is safe for concurrent use.
type Stub struct {
	Analysis string
	Code     string
	// Err, when set, is returned from every call
	Err error
	// CodeFor, when set, overrides Code based on the user message
	CodeFor func(user string) string

	mu    sync.Mutex
	calls []Call
}

func (s *Stub) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	s.record(Call{Prompt: prompt, Tier: tier})
	if s.Err != nil {
		return "", s.Err
	}
	return s.Analysis, nil
}

func (s *Stub) GenerateChat(_ context.Context, system, user string, tier llm.ModelTier) (string, error) {
	s.record(Call{System: system, Prompt: user, Tier: tier})
	if s.Err != nil {
		return "", s.Err
	}
	if s.CodeFor != nil {
		return s.CodeFor(user), nil
	}
	return s.Code, nil
}

func (s *Stub) GetModel(tier llm.ModelTier) string {
	return "stub-" + string(tier)
}

func (s *Stub) Close() error {
	return nil
}

// Calls returns a copy of the recorded calls
func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Stub) record(c Call) {
	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.mu.Unlock()
}

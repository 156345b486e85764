// Package model defines the completion-service boundary. Callers see a single
// typed contract: given a prompt and sampling parameters, Generate returns
// text or fails with a ServiceError carrying a machine-checkable category.
// Provider response-shape variability is confined to the adapter
// subpackages; it never leaks into callers.
package model

import (
	"context"
	"fmt"
	"sync"
)

// Request captures the normalized completion input produced by agents.
type Request struct {
	Model           string  `json:"model"`
	SystemPrompt    string  `json:"system_prompt,omitempty"`
	UserPrompt      string  `json:"user_prompt"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int64   `json:"max_output_tokens"`
}

// Client is the minimal interface agents use to drive text generation.
// Implementations are stateless and safe for concurrent use; per-call
// timeouts are applied by callers through ctx.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// MockClient is a lightweight in-memory Client useful for tests & examples.
// Responses are keyed by user prompt; unknown prompts receive a deterministic
// echo. Errors can be injected globally or per prompt.
type MockClient struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]error
	err       error
	calls     []Request
}

// NewMockClient constructs an empty MockClient.
func NewMockClient() *MockClient {
	return &MockClient{
		responses: make(map[string]string),
		failures:  make(map[string]error),
	}
}

// AddResponse registers a deterministic canned completion for a user prompt.
func (m *MockClient) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// FailWith makes every subsequent Generate call return err until reset with nil.
func (m *MockClient) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// FailPrompt makes Generate fail only for the given user prompt.
func (m *MockClient) FailPrompt(prompt string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[prompt] = err
}

// Calls returns a copy of every request seen so far in order.
func (m *MockClient) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request{}, m.calls...)
}

// Generate implements Client.
func (m *MockClient) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ServiceError{Category: CategoryTimeout, Message: "mock generate cancelled", Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.err != nil {
		return "", m.err
	}
	if err, ok := m.failures[req.UserPrompt]; ok {
		return "", err
	}
	if resp, ok := m.responses[req.UserPrompt]; ok {
		return resp, nil
	}
	return fmt.Sprintf("Mock response to: %s", req.UserPrompt), nil
}

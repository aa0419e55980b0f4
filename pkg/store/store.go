// Package store holds the application state the request service reads on every
// call (current access token and API base URL) and updates after a token refresh.
package store

import (
	"context"
	"sync"
)

// AppState is the "app" slice of the client state.
type AppState struct {
	Token  string
	AppURL string
}

// Store is the state container consulted by the request service.
type Store interface {
	// State returns the current token and base URL.
	State(ctx context.Context) (AppState, error)
	// SetToken replaces the stored access token.
	SetToken(ctx context.Context, token string) error
	// SetAppURL replaces the stored API base URL.
	SetAppURL(ctx context.Context, appURL string) error
	// ClearToken forgets the access token, keeping the base URL.
	ClearToken(ctx context.Context) error
}

// MemoryStore keeps state in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	state AppState
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a MemoryStore seeded with initial.
func NewMemoryStore(initial AppState) *MemoryStore {
	return &MemoryStore{state: initial}
}

func (m *MemoryStore) State(ctx context.Context) (AppState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state, nil
}

func (m *MemoryStore) SetToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Token = token
	return nil
}

func (m *MemoryStore) SetAppURL(ctx context.Context, appURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.AppURL = appURL
	return nil
}

func (m *MemoryStore) ClearToken(ctx context.Context) error {
	return m.SetToken(ctx, "")
}

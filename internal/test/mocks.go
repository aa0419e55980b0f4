package test

import (
	"context"
	"sync"

	"github.com/milan604/netservice/pkg/networking"
	"github.com/milan604/netservice/pkg/store"
)

// Refresher mocks networking.TokenRefresher. It is safe for concurrent use.
type Refresher struct {
	RefreshFn func(ctx context.Context, failed *networking.RequestConfig) (string, bool)

	mu    sync.Mutex
	Calls struct {
		Refresh int
	}
}

func (r *Refresher) Refresh(ctx context.Context, failed *networking.RequestConfig) (string, bool) {
	r.mu.Lock()
	r.Calls.Refresh++
	r.mu.Unlock()
	return r.RefreshFn(ctx, failed)
}

// RefreshCalls returns how many refreshes were started.
func (r *Refresher) RefreshCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Calls.Refresh
}

// Logout records forced logouts.
type Logout struct {
	LogoutFn func() error

	mu    sync.Mutex
	Calls struct {
		Logout int
	}
}

// Func returns the recorder as a networking.LogoutFunc.
func (l *Logout) Func() networking.LogoutFunc {
	return func(ctx context.Context) error {
		l.mu.Lock()
		l.Calls.Logout++
		l.mu.Unlock()
		if l.LogoutFn != nil {
			return l.LogoutFn()
		}
		return nil
	}
}

// LogoutCalls returns how many times logout ran.
func (l *Logout) LogoutCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Calls.Logout
}

// Store mocks store.Store around an in-memory state.
type Store struct {
	*store.MemoryStore
	StateFn func() (store.AppState, error)
}

// NewStore returns a Store seeded with token and appURL.
func NewStore(token, appURL string) *Store {
	return &Store{MemoryStore: store.NewMemoryStore(store.AppState{Token: token, AppURL: appURL})}
}

func (s *Store) State(ctx context.Context) (store.AppState, error) {
	if s.StateFn != nil {
		return s.StateFn()
	}
	return s.MemoryStore.State(ctx)
}

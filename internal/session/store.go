package session

import (
	"context"
	"sync"
)

// Store persists one session record per identity. Get returns (nil, nil)
// for an unseen identity.
type Store interface {
	Get(ctx context.Context, identity string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, identity string) error
}

// MemoryStore keeps sessions in a mutex-guarded map. Used for local runs
// and tests; state is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Get returns a copy of the stored session, or nil when absent.
func (m *MemoryStore) Get(ctx context.Context, identity string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[identity]
	if !ok {
		return nil, nil
	}
	copied := s
	return &copied, nil
}

// Put stores the session keyed by its identity.
func (m *MemoryStore) Put(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Identity] = *s
	return nil
}

// Delete removes the identity's session if present.
func (m *MemoryStore) Delete(ctx context.Context, identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, identity)
	return nil
}

var _ Store = (*MemoryStore)(nil)

package session

import (
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a thread-safe in-memory session store mapping opaque
// tokens to user identities. Session lifecycle (login/logout) is owned by
// the auth frontend; this store only answers "whose token is this".
type MemoryStore struct {
	mutex  sync.RWMutex
	tokens map[string]string
}

// NewMemoryStore creates an empty session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens: make(map[string]string),
	}
}

// Create issues a fresh random token for the given user
func (s *MemoryStore) Create(userID string) string {
	token := uuid.NewString()
	s.Register(token, userID)
	return token
}

// Register binds a pre-defined token to a user. Used for static API tokens
// handed out through configuration.
func (s *MemoryStore) Register(token, userID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tokens[token] = userID
}

// UserID resolves a token to its user identity
func (s *MemoryStore) UserID(token string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	userID, ok := s.tokens[token]
	return userID, ok
}

// Revoke invalidates a token
func (s *MemoryStore) Revoke(token string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.tokens, token)
}

// Size returns the number of active sessions (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.tokens)
}

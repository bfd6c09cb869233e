package auth

import (
	"context"
	"sync"
	"time"
)

type memorySession struct {
	userID    int64
	createdAt time.Time
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Expiry is checked lazily at
// resolve time; Create additionally drops any already-expired entries, so
// the map does not grow without bound. Used when no Redis is configured and
// in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemoryStore{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create mints a token and records the session.
func (s *MemoryStore) Create(ctx context.Context, userID int64) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for t, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, t)
		}
	}
	s.sessions[token] = memorySession{
		userID:    userID,
		createdAt: now,
		expiresAt: now.Add(s.ttl),
	}
	return token, nil
}

// GetUserID resolves token; expired sessions resolve to nothing.
func (s *MemoryStore) GetUserID(ctx context.Context, token string) (int64, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok || s.now().After(sess.expiresAt) {
		return 0, false
	}
	return sess.userID, true
}

// Delete removes a session; absent tokens are a no-op.
func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

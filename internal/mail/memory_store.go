package mail

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryCodeStore is a CodeStore held in process memory. Expired entries are
// dropped lazily when touched.
type MemoryCodeStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ CodeStore = (*MemoryCodeStore)(nil)

// NewMemoryCodeStore creates an empty MemoryCodeStore.
func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Put implements CodeStore.
func (s *MemoryCodeStore) Put(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = memoryEntry{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

// Consume implements CodeStore.
func (s *MemoryCodeStore) Consume(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[email]
	if !ok {
		return false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, email)
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) != 1 {
		return false, nil
	}
	delete(s.entries, email)
	return true, nil
}

// Delete implements CodeStore.
func (s *MemoryCodeStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}

// Package catalog talks to the primary (TMDB) and secondary (TVDB) show
// catalogs and merges their responses into show records
package catalog

import (
	"sync"
	"time"
)

// CredentialReader gives read access to the current secondary catalog
// token.
type CredentialReader interface {
	Token() string
}

// CredentialStore holds the process wide secondary catalog bearer token.
// Only TokenService writes to it, everybody else goes through
// CredentialReader.
type CredentialStore struct {
	mu       sync.RWMutex
	token    string
	storedAt time.Time
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

func (s *CredentialStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// StoredAt returns when the current token was stored, zero if never.
func (s *CredentialStore) StoredAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.storedAt
}

func (s *CredentialStore) set(token string) {
	s.mu.Lock()
	s.token = token
	s.storedAt = time.Now()
	s.mu.Unlock()
}

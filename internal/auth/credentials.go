package auth

import (
	"context"
	"sync"
)

// CredentialStore maps a username to its current password secret.
//
// Secrets are compared by the caller with plain string equality and are
// never hashed - a known gap, kept as the documented contract.
type CredentialStore interface {
	// Get returns the stored secret for username. A username that was
	// never set is seeded with the configured default secret first, so
	// Get never reports absence.
	Get(ctx context.Context, username string) (string, error)
	// Set overwrites the secret unconditionally.
	Set(ctx context.Context, username, secret string) error
}

type InMemoryCredentialStore struct {
	defaultSecret string
	mutex         sync.Mutex
	secrets       map[string]string
}

func NewInMemoryCredentialStore(defaultSecret string) *InMemoryCredentialStore {
	return &InMemoryCredentialStore{
		defaultSecret: defaultSecret,
		secrets:       make(map[string]string),
	}
}

func (s *InMemoryCredentialStore) Get(_ context.Context, username string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	secret, ok := s.secrets[username]
	if !ok {
		// lazy seeding, fires at most once per username
		s.secrets[username] = s.defaultSecret
		return s.defaultSecret, nil
	}
	return secret, nil
}

func (s *InMemoryCredentialStore) Set(_ context.Context, username, secret string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.secrets[username] = secret
	return nil
}

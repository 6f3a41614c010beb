package auth

import (
	"context"
	"sync"
	"time"

	"github.com/2beens/navhub/pkg"
)

// InMemorySessionStore keeps sessions in a process-local map. State is
// lost on restart and not shared between instances, the redis store is
// the way out of that.
type InMemorySessionStore struct {
	ttl      time.Duration
	mutex    sync.Mutex
	sessions map[string]*Session

	// ability to inject the token generator and clock (for unit and dev testing)
	RandHexFunc func(n int) (string, error)
	NowFunc     func() time.Time
}

func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	return &InMemorySessionStore{
		ttl:         ttl,
		sessions:    make(map[string]*Session),
		RandHexFunc: pkg.GenerateRandomHex,
		NowFunc:     time.Now,
	}
}

func (s *InMemorySessionStore) Create(_ context.Context, username string) (*Session, error) {
	token, err := s.RandHexFunc(SessionTokenBytes)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	session := &Session{
		Token:     token,
		Username:  username,
		ExpiresAt: s.NowFunc().Add(s.ttl),
	}
	s.sessions[token] = session

	sessionCopy := *session
	return &sessionCopy, nil
}

func (s *InMemorySessionStore) Validate(_ context.Context, token string) (*Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, ErrNoSession
	}

	now := s.NowFunc()
	if !now.Before(session.ExpiresAt) {
		// expired entries are removed on first observation, a later
		// lookup of the same token behaves like it never existed
		delete(s.sessions, token)
		return nil, ErrNoSession
	}

	session.ExpiresAt = now.Add(s.ttl)

	sessionCopy := *session
	return &sessionCopy, nil
}

func (s *InMemorySessionStore) Invalidate(_ context.Context, token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.sessions, token)
	return nil
}

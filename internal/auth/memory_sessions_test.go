package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func newTestSessionStore(ttl time.Duration, startAt time.Time) (*InMemorySessionStore, *time.Time) {
	store := NewInMemorySessionStore(ttl)
	now := startAt
	store.NowFunc = func() time.Time { return now }
	return store, &now
}

func TestInMemorySessionStore_CreateAndValidate(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestSessionStore(time.Hour, time.Now())

	username := gofakeit.Username()
	session, err := store.Create(ctx, username)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, username, session.Username)
	assert.Len(t, session.Token, 2*SessionTokenBytes)

	validated, err := store.Validate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, username, validated.Username)
	assert.Equal(t, session.Token, validated.Token)
}

func TestInMemorySessionStore_SlidingExpiration(t *testing.T) {
	ctx := context.Background()
	ttl := 24 * time.Hour
	t0 := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	store, now := newTestSessionStore(ttl, t0)

	session, err := store.Create(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, t0.Add(ttl), session.ExpiresAt)

	// at t=23h the session is still valid and gets extended to t=47h
	*now = t0.Add(23 * time.Hour)
	validated, err := store.Validate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(47*time.Hour), validated.ExpiresAt)
	assert.True(t, validated.ExpiresAt.After(session.ExpiresAt))

	// at t=46h the extension from the last validation still holds
	*now = t0.Add(46 * time.Hour)
	validated, err = store.Validate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(70*time.Hour), validated.ExpiresAt)
}

func TestInMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	ttl := 24 * time.Hour
	t0 := time.Now()
	store, now := newTestSessionStore(ttl, t0)

	session, err := store.Create(ctx, "admin")
	require.NoError(t, err)

	// expiry boundary itself already counts as expired
	*now = t0.Add(ttl)
	_, err = store.Validate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrNoSession)

	// no resurrection: moving the clock back does not bring it back
	*now = t0
	_, err = store.Validate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestInMemorySessionStore_Invalidate(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestSessionStore(time.Hour, time.Now())

	session, err := store.Create(ctx, "admin")
	require.NoError(t, err)

	require.NoError(t, store.Invalidate(ctx, session.Token))
	_, err = store.Validate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrNoSession)

	// invalidating an unknown token is a no-op
	require.NoError(t, store.Invalidate(ctx, "never-existed"))
	_, err = store.Validate(ctx, "never-existed")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestInMemorySessionStore_TokenUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionStore(time.Hour)

	var mutex sync.Mutex
	tokens := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := store.Create(ctx, "admin")
			assert.NoError(t, err)

			mutex.Lock()
			defer mutex.Unlock()
			assert.False(t, tokens[session.Token])
			tokens[session.Token] = true
		}()
	}
	wg.Wait()

	assert.Len(t, tokens, 50)
}

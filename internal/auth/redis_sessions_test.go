package auth

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionStore_Create(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisSessionStore(time.Hour, db)
	testToken := "c0ffee00c0ffee00c0ffee00c0ffee00"
	store.RandHexFunc = func(n int) (string, error) {
		return testToken, nil
	}

	mock.ExpectSet(sessionKeyPrefix+testToken, "admin", time.Hour).SetVal("OK")

	session, err := store.Create(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, testToken, session.Token)
	assert.Equal(t, "admin", session.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionStore_Validate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisSessionStore(time.Hour, db)
	testToken := "c0ffee00c0ffee00c0ffee00c0ffee00"
	sessionKey := sessionKeyPrefix + testToken

	mock.ExpectGet(sessionKey).SetVal("admin")
	mock.ExpectExpire(sessionKey, time.Hour).SetVal(true)

	session, err := store.Validate(context.Background(), testToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionStore_ValidateUnknownToken(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisSessionStore(time.Hour, db)
	mock.ExpectGet(sessionKeyPrefix + "unknown").RedisNil()

	_, err := store.Validate(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrNoSession)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionStore_Invalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisSessionStore(time.Hour, db)
	testToken := "c0ffee00c0ffee00c0ffee00c0ffee00"

	mock.ExpectDel(sessionKeyPrefix + testToken).SetVal(1)
	require.NoError(t, store.Invalidate(context.Background(), testToken))

	// deleting an unknown token is not an error
	mock.ExpectDel(sessionKeyPrefix + testToken).SetVal(0)
	require.NoError(t, store.Invalidate(context.Background(), testToken))

	require.NoError(t, mock.ExpectationsWereMet())
}

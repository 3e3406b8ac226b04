package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitService_CheckLimit(t *testing.T) {
	window := time.Minute
	key := "rate_limit:generate:203.0.113.7"

	t.Run("first request starts the window", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRateLimitService(client)

		mock.ExpectIncr(key).SetVal(1)
		mock.ExpectExpire(key, window).SetVal(true)

		allowed, remaining, _, err := s.CheckLimit(context.Background(), "generate:203.0.113.7", 5, window)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 4, remaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("within limit", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRateLimitService(client)

		mock.ExpectIncr(key).SetVal(2)

		allowed, remaining, retryAfter, err := s.CheckLimit(context.Background(), "generate:203.0.113.7", 5, window)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 3, remaining)
		assert.Zero(t, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("limit exceeded", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRateLimitService(client)

		mock.ExpectIncr(key).SetVal(6)
		mock.ExpectTTL(key).SetVal(42 * time.Second)

		allowed, remaining, retryAfter, err := s.CheckLimit(context.Background(), "generate:203.0.113.7", 5, window)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 0, remaining)
		assert.Equal(t, 42*time.Second, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ttl unavailable falls back to window", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRateLimitService(client)

		mock.ExpectIncr(key).SetVal(9)
		mock.ExpectTTL(key).SetErr(errors.New("timeout"))

		allowed, _, retryAfter, err := s.CheckLimit(context.Background(), "generate:203.0.113.7", 5, window)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, window, retryAfter)
	})

	t.Run("repeated requests while limited do not extend the window", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRateLimitService(client)

		mock.ExpectIncr(key).SetVal(7)
		mock.ExpectTTL(key).SetVal(30 * time.Second)
		mock.ExpectIncr(key).SetVal(8)
		mock.ExpectTTL(key).SetVal(29 * time.Second)

		_, _, first, err := s.CheckLimit(context.Background(), "generate:203.0.113.7", 5, window)
		require.NoError(t, err)
		_, _, second, err := s.CheckLimit(context.Background(), "generate:203.0.113.7", 5, window)
		require.NoError(t, err)

		assert.Equal(t, 30*time.Second, first)
		assert.Equal(t, 29*time.Second, second)
		assert.NoError(t, mock.ExpectationsWereMet(), "no EXPIRE may be issued after the first request")
	})

	t.Run("key without expiry gets a new window", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRateLimitService(client)

		mock.ExpectIncr(key).SetVal(6)
		mock.ExpectTTL(key).SetVal(-1)
		mock.ExpectExpire(key, window).SetVal(true)

		allowed, _, retryAfter, err := s.CheckLimit(context.Background(), "generate:203.0.113.7", 5, window)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, window, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expire error on first request", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRateLimitService(client)

		mock.ExpectIncr(key).SetVal(1)
		mock.ExpectExpire(key, window).SetErr(errors.New("readonly"))

		_, _, _, err := s.CheckLimit(context.Background(), "generate:203.0.113.7", 5, window)
		assert.Error(t, err)
	})

	t.Run("redis error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRateLimitService(client)

		mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

		_, _, _, err := s.CheckLimit(context.Background(), "generate:203.0.113.7", 5, window)
		assert.Error(t, err)
	})
}

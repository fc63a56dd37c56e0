package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maildash/internal/logger"
	"maildash/internal/repository/memory"
)

func newTestAuthService() AuthService {
	return NewAuthService(memory.NewInMemoryUserRepository(), logger.NewWithWriter(io.Discard))
}

func TestGetOrCreateUserCreatesOnFirstSignIn(t *testing.T) {
	s := newTestAuthService()
	expiry := time.Now().Add(time.Hour)

	user, err := s.GetOrCreateUser(context.Background(), "google-1", "user@example.com", "User", "at", "rt", expiry)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "google-1", user.GoogleID)
	assert.Equal(t, "at", user.AccessToken)
	assert.False(t, user.IsMock)
}

func TestGetOrCreateUserRefreshesTokensOnReauth(t *testing.T) {
	s := newTestAuthService()
	expiry := time.Now().Add(time.Hour)

	first, err := s.GetOrCreateUser(context.Background(), "google-1", "user@example.com", "User", "old-at", "old-rt", expiry)
	require.NoError(t, err)

	second, err := s.GetOrCreateUser(context.Background(), "google-1", "user@example.com", "User", "new-at", "new-rt", expiry.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "new-at", second.AccessToken)
	assert.Equal(t, "new-rt", second.RefreshToken)
}

func TestGetOrCreateDemoUserIsSingleton(t *testing.T) {
	s := newTestAuthService()

	first, err := s.GetOrCreateDemoUser(context.Background())
	require.NoError(t, err)
	assert.True(t, first.IsMock)
	assert.Empty(t, first.AccessToken)

	second, err := s.GetOrCreateDemoUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestGetUserUnknownIDFails(t *testing.T) {
	s := newTestAuthService()

	_, err := s.GetUser(context.Background(), "nope")
	assert.Error(t, err)
}

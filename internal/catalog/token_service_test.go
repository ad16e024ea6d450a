package catalog

import (
	"bitwise74/tracker-api/internal/errs"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_Acquire(t *testing.T) {
	f := newFakeCatalogs(t)
	creds := NewCredentialStore()
	s := NewTokenService(f.tvdb(), creds, 0, time.Second)

	require.NoError(t, s.Acquire(context.Background()))
	assert.Equal(t, "login-token", creds.Token())
	assert.False(t, creds.StoredAt().IsZero())
}

func TestTokenService_FailedAcquireKeepsToken(t *testing.T) {
	f := newFakeCatalogs(t)
	creds := NewCredentialStore()
	creds.set("old")
	s := NewTokenService(f.tvdb(), creds, 0, time.Second)

	f.failLogin.Store(true)

	err := s.Acquire(context.Background())
	assert.ErrorIs(t, err, errs.ErrUpstreamAuth)
	assert.Equal(t, "old", creds.Token())
}

func TestTokenService_Refresh(t *testing.T) {
	f := newFakeCatalogs(t)
	creds := NewCredentialStore()
	creds.set("old")
	s := NewTokenService(f.tvdb(), creds, 0, time.Second)

	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, "refreshed-1", creds.Token())

	f.failRefresh.Store(true)
	f.failLogin.Store(true)

	err := s.Refresh(context.Background())
	assert.ErrorIs(t, err, errs.ErrUpstreamAuth)
	assert.Equal(t, "refreshed-1", creds.Token())
}

func TestTokenService_RefreshRejectedTokenLogsInAgain(t *testing.T) {
	f := newFakeCatalogs(t)
	creds := NewCredentialStore()
	creds.set("expired")
	s := NewTokenService(f.tvdb(), creds, 0, time.Second)

	f.failRefresh.Store(true)

	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, "login-token", creds.Token())
	assert.Zero(t, f.refreshes.Load())
}

func TestTokenService_RefreshWithoutTokenLogsIn(t *testing.T) {
	f := newFakeCatalogs(t)
	creds := NewCredentialStore()
	s := NewTokenService(f.tvdb(), creds, 0, time.Second)

	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, "login-token", creds.Token())
	assert.Zero(t, f.refreshes.Load())
}

func TestTokenService_RefreshAsyncOutlivesRequest(t *testing.T) {
	f := newFakeCatalogs(t)
	creds := NewCredentialStore()
	creds.set("old")
	s := NewTokenService(f.tvdb(), creds, 0, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errc := s.RefreshAsync(ctx)
	cancel()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh never finished")
	}

	assert.Equal(t, "refreshed-1", creds.Token())

	_, open := <-errc
	assert.False(t, open)
}

func TestTokenService_RefreshAsyncReportsFailure(t *testing.T) {
	f := newFakeCatalogs(t)
	creds := NewCredentialStore()
	creds.set("old")
	s := NewTokenService(f.tvdb(), creds, 0, time.Second)

	f.failRefresh.Store(true)
	f.failLogin.Store(true)

	err := <-s.RefreshAsync(context.Background())
	assert.ErrorIs(t, err, errs.ErrUpstreamAuth)
	assert.Equal(t, "old", creds.Token())
}

func TestTokenService_RefreshAsyncSkipsFreshToken(t *testing.T) {
	f := newFakeCatalogs(t)
	creds := NewCredentialStore()
	creds.set("fresh")
	s := NewTokenService(f.tvdb(), creds, time.Hour, time.Second)

	assert.NoError(t, <-s.RefreshAsync(context.Background()))
	assert.Equal(t, "fresh", creds.Token())
	assert.Zero(t, f.refreshes.Load())
}

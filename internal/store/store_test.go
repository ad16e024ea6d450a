package store

import (
	"bitwise74/tracker-api/db"
	"bitwise74/tracker-api/internal/errs"
	"bitwise74/tracker-api/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)

	return conn
}

func TestUserStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(newTestDB(t))

	u, err := users.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, users.Create(ctx, &model.User{ID: "user1", Email: "a@b.com", PasswordHash: "hash"}))

	err = users.Create(ctx, &model.User{ID: "user2", Email: "a@b.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, errs.ErrDuplicate)

	u, err = users.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.False(t, u.Active)

	// Emails are stored and compared as given
	u, err = users.FindByEmail(ctx, "A@b.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, users.Activate(ctx, "user1"))

	u, err = users.FindByID(ctx, "user1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.True(t, u.Active)

	assert.ErrorIs(t, users.Activate(ctx, "missing"), errs.ErrNotFound)
}

func TestTokenStore_OnePerUser(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokenStore(newTestDB(t))

	tok, err := tokens.FindByUser(ctx, "user1")
	require.NoError(t, err)
	assert.Nil(t, tok)

	require.NoError(t, tokens.Create(ctx, &model.VerificationToken{UserID: "user1", Token: "first"}))

	err = tokens.Create(ctx, &model.VerificationToken{UserID: "user1", Token: "second"})
	assert.ErrorIs(t, err, errs.ErrDuplicate)

	tok, err = tokens.FindByUser(ctx, "user1")
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "first", tok.Token)
}

func TestSubscriptionStore_UniquePerUser(t *testing.T) {
	ctx := context.Background()
	subs := NewSubscriptionStore(newTestDB(t))

	_, err := subs.Add(ctx, "u", 5)
	require.NoError(t, err)

	_, err = subs.Add(ctx, "u", 5)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "Subscription already exists for this user.", errs.Message(err))

	_, err = subs.Add(ctx, "u2", 5)
	assert.NoError(t, err)
}

func TestSubscriptionStore_ShowIDsAndDelete(t *testing.T) {
	ctx := context.Background()
	subs := NewSubscriptionStore(newTestDB(t))

	ids, err := subs.ShowIDs(ctx, "u")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	for _, id := range []int{3, 1, 2} {
		_, err := subs.Add(ctx, "u", id)
		require.NoError(t, err)
	}

	ids, err = subs.ShowIDs(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, ids)

	require.NoError(t, subs.Delete(ctx, "u", 1))

	err = subs.Delete(ctx, "u", 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	ids, err = subs.ShowIDs(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, ids)
}

func TestSubscriptionStore_SetTvdbIDs(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	subs := NewSubscriptionStore(conn)

	_, err := subs.Add(ctx, "u", 10)
	require.NoError(t, err)
	_, err = subs.Add(ctx, "u2", 10)
	require.NoError(t, err)
	_, err = subs.Add(ctx, "u", 11)
	require.NoError(t, err)

	require.NoError(t, subs.SetTvdbIDs(ctx, map[int]int{10: 100, 11: 0}))

	var rows []model.Subscription
	require.NoError(t, conn.Order("id asc").Find(&rows).Error)
	require.Len(t, rows, 3)

	require.NotNil(t, rows[0].TvdbID)
	assert.Equal(t, 100, *rows[0].TvdbID)
	require.NotNil(t, rows[1].TvdbID)
	assert.Equal(t, 100, *rows[1].TvdbID)
	assert.Nil(t, rows[2].TvdbID)
}

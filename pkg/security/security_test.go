package security

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgonHash_RoundTrip(t *testing.T) {
	a := &ArgonHash{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

	hash, err := a.GenerateFromPassword("password123")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$v=19$m=1024,t=1,p=1$")

	ok, err := a.VerifyPasswd("password123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPasswd("password124", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = a.VerifyPasswd("password123", "garbage")
	assert.Error(t, err)
}

func TestMakeVerificationToken(t *testing.T) {
	tok, err := MakeVerificationToken("user1")
	require.NoError(t, err)

	assert.Equal(t, "user1", tok.UserID)
	assert.Len(t, tok.Token, 32)

	_, err = hex.DecodeString(tok.Token)
	assert.NoError(t, err)

	other, err := MakeVerificationToken("user1")
	require.NoError(t, err)
	assert.NotEqual(t, tok.Token, other.Token)

	_, err = MakeVerificationToken("")
	assert.Error(t, err)
}

func TestSessionSigner(t *testing.T) {
	s := NewSessionSigner("secret", time.Hour)

	token, err := s.Issue("user1", "a@b.com")
	require.NoError(t, err)

	sess, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, &Session{UserID: "user1", Email: "a@b.com"}, sess)

	_, err = NewSessionSigner("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = s.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionSigner_RejectsExpiredAndForeignTokens(t *testing.T) {
	s := NewSessionSigner("secret", time.Hour)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user1",
		"type":    "auth",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = s.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidSession)

	wrongType, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user1",
		"type":    "refresh",
		"exp":     time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = s.Parse(wrongType)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

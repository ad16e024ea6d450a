package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid session token")

// Session is what a verified session token says about its holder.
type Session struct {
	UserID string
	Email  string
}

// SessionSigner issues and parses HS256 session tokens.
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionSigner(secret string, ttl time.Duration) *SessionSigner {
	if ttl <= 0 {
		ttl = time.Hour * 24 * 30
	}

	return &SessionSigner{secret: []byte(secret), ttl: ttl}
}

func (s *SessionSigner) Issue(userID, email string) (string, error) {
	now := time.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"type":    "auth",
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
	})

	return t.SignedString(s.secret)
}

// Parse verifies the signature and expiry of tokenStr.
func (s *SessionSigner) Parse(tokenStr string) (*Session, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	if typ, _ := claims["type"].(string); typ != "auth" {
		return nil, fmt.Errorf("%w, wrong token type", ErrInvalidSession)
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("%w, no user id", ErrInvalidSession)
	}

	email, _ := claims["email"].(string)

	return &Session{UserID: userID, Email: email}, nil
}

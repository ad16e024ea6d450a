package security

import (
	"bitwise74/tracker-api/internal/model"
	"bitwise74/tracker-api/pkg/util"
	"errors"
	"time"
)

// 16 random bytes, 32 hex characters
const tokenSize = 16

func MakeVerificationToken(userID string) (*model.VerificationToken, error) {
	if userID == "" {
		return nil, errors.New("no user ID provided")
	}

	token, err := util.GenerateToken(tokenSize)
	if err != nil {
		return nil, err
	}

	return &model.VerificationToken{
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now(),
	}, nil
}

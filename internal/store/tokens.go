package store

import (
	"bitwise74/tracker-api/internal/errs"
	"bitwise74/tracker-api/internal/model"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type TokenStore struct {
	db *gorm.DB
}

func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

// FindByUser returns the live verification token of the account or nil.
func (s *TokenStore) FindByUser(ctx context.Context, userID string) (*model.VerificationToken, error) {
	var t model.VerificationToken

	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to look up verification token, %w", err)
	}

	return &t, nil
}

// Create stores t. Since an account can only hold one token,
// errs.ErrDuplicate means another request stored one first.
func (s *TokenStore) Create(ctx context.Context, t *model.VerificationToken) error {
	err := s.db.WithContext(ctx).Create(t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.Wrap(errs.ErrDuplicate, "A verification token already exists", err)
		}

		return fmt.Errorf("failed to store verification token, %w", err)
	}

	return nil
}

// Package store contains the gorm backed persistence of accounts,
// verification tokens and subscriptions
package store

import (
	"bitwise74/tracker-api/internal/errs"
	"bitwise74/tracker-api/internal/model"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail returns the account registered with email or nil if there
// is none. The comparison is case-sensitive.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.first(ctx, "email = ?", email)
}

// FindByID returns the account with the given id or nil if there is none.
func (s *UserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *UserStore) first(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User

	err := s.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	return &u, nil
}

// Create inserts a pending account. errs.ErrDuplicate is returned when
// the email is already taken.
func (s *UserStore) Create(ctx context.Context, u *model.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.Wrap(errs.ErrDuplicate, "This email is already registered", err)
		}

		return fmt.Errorf("failed to create user, %w", err)
	}

	return nil
}

// Activate marks the account as verified.
func (s *UserStore) Activate(ctx context.Context, id string) error {
	r := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("active", true)
	if r.Error != nil {
		return fmt.Errorf("failed to activate user, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return errs.New(errs.ErrNotFound, "Account was not found")
	}

	return nil
}

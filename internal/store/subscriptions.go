package store

import (
	"bitwise74/tracker-api/internal/errs"
	"bitwise74/tracker-api/internal/model"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type SubscriptionStore struct {
	db *gorm.DB
}

func NewSubscriptionStore(db *gorm.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// Add subscribes the user to the show. Adding the same show twice fails
// with errs.ErrConflict instead of updating the existing row.
func (s *SubscriptionStore) Add(ctx context.Context, userID string, tmdbID int) (*model.Subscription, error) {
	sub := &model.Subscription{
		UserID: userID,
		TmdbID: tmdbID,
	}

	err := s.db.WithContext(ctx).Create(sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Wrap(errs.ErrConflict, "Subscription already exists for this user.", err)
		}

		return nil, fmt.Errorf("failed to create subscription, %w", err)
	}

	return sub, nil
}

// Delete removes the subscription, errs.ErrNotFound if nothing was removed.
func (s *SubscriptionStore) Delete(ctx context.Context, userID string, tmdbID int) error {
	r := s.db.WithContext(ctx).
		Where("user_id = ? AND tmdb_id = ?", userID, tmdbID).
		Delete(&model.Subscription{})
	if r.Error != nil {
		return fmt.Errorf("failed to delete subscription, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return errs.New(errs.ErrNotFound, "Subscription was not found.")
	}

	return nil
}

// ShowIDs returns the primary catalog ids the user is subscribed to in
// the order they were added. A user without subscriptions gets an empty
// slice.
func (s *SubscriptionStore) ShowIDs(ctx context.Context, userID string) ([]int, error) {
	ids := []int{}

	err := s.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("user_id = ?", userID).
		Order("id asc").
		Pluck("tmdb_id", &ids).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions, %w", err)
	}

	if ids == nil {
		ids = []int{}
	}

	return ids, nil
}

// SetTvdbIDs records the secondary catalog id of every show in refs
// (tmdb id -> tvdb id) on the subscriptions that don't have one yet.
func (s *SubscriptionStore) SetTvdbIDs(ctx context.Context, refs map[int]int) error {
	if len(refs) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for tmdbID, tvdbID := range refs {
			if tvdbID == 0 {
				continue
			}

			err := tx.Model(&model.Subscription{}).
				Where("tmdb_id = ? AND tvdb_id IS NULL", tmdbID).
				Update("tvdb_id", tvdbID).
				Error
			if err != nil {
				return fmt.Errorf("failed to set tvdb id of show %d, %w", tmdbID, err)
			}
		}

		return nil
	})
}

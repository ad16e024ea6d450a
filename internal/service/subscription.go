package service

import (
	"bitwise74/tracker-api/internal/catalog"
	"bitwise74/tracker-api/internal/model"
	"bitwise74/tracker-api/internal/store"
	"context"

	"go.uber.org/zap"
)

type SubscriptionService struct {
	subs  *store.SubscriptionStore
	shows *catalog.Aggregator
}

func NewSubscriptionService(subs *store.SubscriptionStore, shows *catalog.Aggregator) *SubscriptionService {
	return &SubscriptionService{subs: subs, shows: shows}
}

func (s *SubscriptionService) Add(ctx context.Context, userID string, tmdbID int) error {
	_, err := s.subs.Add(ctx, userID, tmdbID)
	return err
}

func (s *SubscriptionService) Remove(ctx context.Context, userID string, tmdbID int) error {
	return s.subs.Delete(ctx, userID, tmdbID)
}

// GetAll returns the detailed records of every show the user follows.
// The catalogs aren't called when there are none.
func (s *SubscriptionService) GetAll(ctx context.Context, userID string) ([]model.Show, error) {
	ids, err := s.subs.ShowIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []model.Show{}, nil
	}

	shows, err := s.shows.GetShows(ctx, ids)
	if err != nil {
		return nil, err
	}

	refs := make(map[int]int, len(shows))
	for _, sh := range shows {
		refs[sh.TmdbID] = sh.ExternalIDs.TvdbID
	}

	if err := s.subs.SetTvdbIDs(ctx, refs); err != nil {
		zap.L().Warn("Failed to store tvdb ids", zap.String("userID", userID), zap.Error(err))
	}

	return shows, nil
}

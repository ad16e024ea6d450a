package catalog

import (
	"bitwise74/tracker-api/internal/errs"
	"bitwise74/tracker-api/internal/model"
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Aggregator builds show records out of both catalogs.
type Aggregator struct {
	tmdb  *TMDB
	tvdb  *TVDB
	creds CredentialReader

	mu     sync.RWMutex
	genres []model.Genre
}

func NewAggregator(tmdb *TMDB, tvdb *TVDB, creds CredentialReader) *Aggregator {
	return &Aggregator{
		tmdb:  tmdb,
		tvdb:  tvdb,
		creds: creds,
	}
}

// LoadGenres fills the genre table. It is called once on startup.
func (a *Aggregator) LoadGenres(ctx context.Context) error {
	genres, err := a.tmdb.Genres(ctx)
	if err != nil {
		return errs.Wrap(errs.ErrUpstreamRequest, "Couldn't load the genre list", err)
	}

	a.mu.Lock()
	a.genres = genres
	a.mu.Unlock()

	return nil
}

// genresFor maps genre ids to genre objects in genre table order. Ids
// missing from the table are dropped.
func (a *Aggregator) genresFor(ids []int) []model.Genre {
	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	out := []model.Genre{}
	for _, g := range a.genres {
		if _, ok := want[g.ID]; ok {
			out = append(out, g)
		}
	}

	return out
}

// QueryShows returns the shows on pages pageStart through pageEnd, either
// matching query or, when query is empty, the most popular ones. Pages are
// fetched concurrently but returned in page order.
func (a *Aggregator) QueryShows(ctx context.Context, pageStart, pageEnd int, query string) ([]model.ShowSummary, error) {
	if pageStart > pageEnd {
		return nil, errs.New(errs.ErrInvalidRange, "Doesn't make sense for pageStart to be greater than pageEnd!")
	}

	pages := make([][]tmdbSummary, pageEnd-pageStart+1)

	g, gctx := errgroup.WithContext(ctx)
	for i := range pages {
		page := pageStart + i

		g.Go(func() error {
			var (
				res []tmdbSummary
				err error
			)

			if query != "" {
				res, err = a.tmdb.Search(gctx, query, page)
			} else {
				res, err = a.tmdb.Discover(gctx, page)
			}
			if err != nil {
				return err
			}

			pages[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errs.Wrap(errs.ErrUpstreamRequest, "Failed to query shows", err)
	}

	shows := []model.ShowSummary{}
	for _, page := range pages {
		for _, s := range page {
			shows = append(shows, model.ShowSummary{
				TmdbID:      s.ID,
				Name:        s.Name,
				Overview:    s.Overview,
				PosterPath:  s.PosterPath,
				VoteAverage: s.VoteAverage,
				VoteCount:   s.VoteCount,
				Genres:      a.genresFor(s.GenreIDs),
			})
		}
	}

	return shows, nil
}

// GetShow returns the detail record of a single show.
func (a *Aggregator) GetShow(ctx context.Context, id int) (*model.Show, error) {
	shows, err := a.GetShows(ctx, []int{id})
	if err != nil {
		return nil, err
	}

	return &shows[0], nil
}

// GetShows returns the detail records of ids in the same order, with air
// times joined from the secondary catalog. Any failing upstream call
// fails the whole batch.
func (a *Aggregator) GetShows(ctx context.Context, ids []int) ([]model.Show, error) {
	if len(ids) == 0 {
		return nil, errs.New(errs.ErrInvalidInput, "No show IDs were given, probably due to an internal error.")
	}

	details := make([]*tmdbDetail, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			d, err := a.tmdb.Show(gctx, id)
			if err != nil {
				return err
			}

			details[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errs.Wrap(errs.ErrUpstreamRequest, "Failed to fetch show details", err)
	}

	shows := make([]model.Show, len(details))
	// tvdb id -> positions in shows, a show can be requested twice
	join := make(map[int][]int, len(details))

	for i, d := range details {
		shows[i] = model.Show{
			TmdbID:         d.ID,
			Name:           d.Name,
			Overview:       d.Overview,
			Networks:       d.Networks,
			PosterPath:     d.PosterPath,
			VoteAverage:    d.VoteAverage,
			VoteCount:      d.VoteCount,
			EpisodeRunTime: d.EpisodeRunTime,
			Genres:         d.Genres,
			Videos:         d.Videos,
			ExternalIDs:    d.ExternalIDs,
		}

		if tvdbID := d.ExternalIDs.TvdbID; tvdbID != 0 {
			join[tvdbID] = append(join[tvdbID], i)
		}
	}

	if len(join) == 0 {
		return shows, nil
	}

	token := a.creds.Token()
	airTimes := make([]*AirTime, 0, len(join))

	var mu sync.Mutex
	g, gctx = errgroup.WithContext(ctx)
	for tvdbID := range join {
		g.Go(func() error {
			at, err := a.tvdb.Series(gctx, tvdbID, token)
			if err != nil {
				return err
			}

			mu.Lock()
			airTimes = append(airTimes, at)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errs.Wrap(errs.ErrUpstreamRequest, "Failed to fetch show air times", err)
	}

	// Match on the id the secondary catalog reports, not on request order
	for _, at := range airTimes {
		for _, i := range join[at.ID] {
			shows[i].AirsDayOfWeek = at.AirsDayOfWeek
			shows[i].AirsTime = at.AirsTime
		}
	}

	return shows, nil
}

package catalog

import (
	"bitwise74/tracker-api/internal/model"
	"context"
	"net/url"
	"strconv"
	"strings"
)

type TMDBConfig struct {
	BaseURI string // e.g. https://api.themoviedb.org/3
	APIKey  string
}

// TMDB is the primary catalog client.
type TMDB struct {
	cfg TMDBConfig
	up  *upstream
}

type tmdbSummary struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Overview    string  `json:"overview"`
	PosterPath  *string `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	GenreIDs    []int   `json:"genre_ids"`
}

type tmdbPage struct {
	Page    int           `json:"page"`
	Results []tmdbSummary `json:"results"`
}

type tmdbDetail struct {
	ID             int               `json:"id"`
	Name           string            `json:"name"`
	Overview       string            `json:"overview"`
	Networks       []model.Network   `json:"networks"`
	PosterPath     *string           `json:"poster_path"`
	VoteAverage    float64           `json:"vote_average"`
	VoteCount      int               `json:"vote_count"`
	EpisodeRunTime []int             `json:"episode_run_time"`
	Genres         []model.Genre     `json:"genres"`
	Videos         model.Videos      `json:"videos"`
	ExternalIDs    model.ExternalIDs `json:"external_ids"`
}

func NewTMDB(cfg TMDBConfig, o Options) *TMDB {
	cfg.BaseURI = strings.TrimRight(cfg.BaseURI, "/")

	return &TMDB{
		cfg: cfg,
		up:  newUpstream("tmdb", o),
	}
}

func (t *TMDB) url(path string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}

	q.Set("api_key", t.cfg.APIKey)
	return t.cfg.BaseURI + path + "?" + q.Encode()
}

// Genres returns the full tv genre list.
func (t *TMDB) Genres(ctx context.Context) ([]model.Genre, error) {
	var res struct {
		Genres []model.Genre `json:"genres"`
	}

	err := t.up.getJSON(ctx, "genres", t.url("/genre/tv/list", url.Values{
		"language": {"en-US"},
	}), "", &res)
	if err != nil {
		return nil, err
	}

	return res.Genres, nil
}

// Discover returns one page of popular shows.
func (t *TMDB) Discover(ctx context.Context, page int) ([]tmdbSummary, error) {
	var res tmdbPage

	err := t.up.getJSON(ctx, "discover", t.url("/discover/tv", url.Values{
		"include_null_first_air_dates": {"false"},
		"language":                     {"en-US"},
		"sort_by":                      {"popularity.desc"},
		"without_genres":               {"16"},
		"page":                         {strconv.Itoa(page)},
	}), "", &res)
	if err != nil {
		return nil, err
	}

	return res.Results, nil
}

// Search returns one page of shows matching query.
func (t *TMDB) Search(ctx context.Context, query string, page int) ([]tmdbSummary, error) {
	var res tmdbPage

	err := t.up.getJSON(ctx, "search", t.url("/search/tv", url.Values{
		"language": {"en-US"},
		"query":    {query},
		"page":     {strconv.Itoa(page)},
	}), "", &res)
	if err != nil {
		return nil, err
	}

	return res.Results, nil
}

// Show returns the detail record of a show with its videos and external
// ids appended.
func (t *TMDB) Show(ctx context.Context, id int) (*tmdbDetail, error) {
	var res tmdbDetail

	err := t.up.getJSON(ctx, "show", t.url("/tv/"+strconv.Itoa(id), url.Values{
		"append_to_response": {"videos,external_ids"},
	}), "", &res)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

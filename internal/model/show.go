package model

// Genre is a catalog genre. Search results only carry genre ids, the
// names come from the genre table loaded at startup.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Network struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type Videos struct {
	Results []Video `json:"results"`
}

// ExternalIDs holds the ids of the same show in other catalogs. TvdbID is
// the key used to join air times.
type ExternalIDs struct {
	ImdbID string `json:"imdb_id,omitempty"`
	TvdbID int    `json:"tvdb_id"`
}

// ShowSummary is the minified record returned by search and discover.
type ShowSummary struct {
	TmdbID      int     `json:"tmdbID"`
	Name        string  `json:"name"`
	Overview    string  `json:"overview"`
	PosterPath  *string `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Genres      []Genre `json:"genres"`
}

// Show is the detailed record. AirsDayOfWeek and AirsTime stay empty
// until the air time join found a matching record.
type Show struct {
	TmdbID         int         `json:"tmdbID"`
	Name           string      `json:"name"`
	Overview       string      `json:"overview"`
	Networks       []Network   `json:"networks"`
	PosterPath     *string     `json:"poster_path"`
	VoteAverage    float64     `json:"vote_average"`
	VoteCount      int         `json:"vote_count"`
	EpisodeRunTime []int       `json:"episode_run_time"`
	Genres         []Genre     `json:"genres"`
	Videos         Videos      `json:"videos"`
	ExternalIDs    ExternalIDs `json:"external_ids"`
	AirsDayOfWeek  string      `json:"airsDayOfWeek"`
	AirsTime       string      `json:"airsTime"`
}

package model

import "time"

type Subscription struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID string `gorm:"uniqueIndex:idx_user_show;not null" json:"-"`
	TmdbID int    `gorm:"uniqueIndex:idx_user_show;not null" json:"tmdbID"`

	// TvdbID is informational, filled in after the first detail lookup so
	// the table can be joined against TVDB offline. Lookups always take the
	// cross reference from the fresh TMDB record instead.
	TvdbID *int `json:"tvdbID,omitempty"`

	CreatedAt time.Time `json:"-"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// WatchlistItem is a catalog entry the user wants to watch. Detail
// fields are filled lazily after creation; LoveProbability is computed
// on demand by the AI gateway.
type WatchlistItem struct {
	ID              int            `gorm:"primaryKey"                json:"id"`
	MediaKind       MediaKind      `gorm:"type:varchar(10);not null" json:"tmdbMediaType"`
	Title           string         `gorm:"not null"                  json:"title"`
	PosterURL       string         `                                 json:"posterUrl,omitempty"`
	LoveProbability *int           `                                 json:"loveProbability,omitempty"`
	Synopsis        string         `                                 json:"synopsis,omitempty"`
	WatchProviders  datatypes.JSON `                                 json:"watchProviders,omitempty"`
	Genre           string         `                                 json:"genre,omitempty"`
	VoteAverage     float64        `                                 json:"voteAverage,omitempty"`
	Category        Category      `gorm:"type:varchar(20)"          json:"type,omitempty"`
	AddedAt         time.Time      `gorm:"autoCreateTime"            json:"addedAt"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"            json:"updatedAt"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// WatchedItem is a catalog entry the user has rated. The catalog id is
// the primary key: re-rating updates the row in place, which keeps the
// one-tier-per-item invariant at the store level.
type WatchedItem struct {
	ID             int            `gorm:"primaryKey"                json:"id"`
	MediaKind      MediaKind      `gorm:"type:varchar(10);not null" json:"tmdbMediaType"`
	Title          string         `gorm:"not null"                  json:"title"`
	Category       Category       `gorm:"type:varchar(20);not null" json:"type"`
	Genre          string         `gorm:"not null"                  json:"genre"`
	Rating         Rating         `gorm:"type:varchar(12);not null;index" json:"rating"`
	Synopsis       string         `                                 json:"synopsis,omitempty"`
	PosterURL      string         `                                 json:"posterUrl,omitempty"`
	VoteAverage    float64        `                                 json:"voteAverage,omitempty"`
	WatchProviders datatypes.JSON `                                 json:"watchProviders,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"            json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"            json:"updatedAt"`
}

// TasteProfile groups the collection into the four rating buckets.
// Derived on demand, never persisted.
type TasteProfile struct {
	Loved    []WatchedItem
	Liked    []WatchedItem
	Neutral  []WatchedItem
	Disliked []WatchedItem
}

// BuildTasteProfile buckets items by rating, preserving input order
// within each bucket. Unknown ratings fall into the neutral bucket.
func BuildTasteProfile(items []WatchedItem) TasteProfile {
	var profile TasteProfile
	for _, item := range items {
		switch item.Rating {
		case RatingLoved:
			profile.Loved = append(profile.Loved, item)
		case RatingLiked:
			profile.Liked = append(profile.Liked, item)
		case RatingDisliked:
			profile.Disliked = append(profile.Disliked, item)
		default:
			profile.Neutral = append(profile.Neutral, item)
		}
	}
	return profile
}

// AllTitles returns every rated title across the four buckets, in bucket
// order. Used for challenge exclusion lists.
func (p TasteProfile) AllTitles() []string {
	titles := make([]string, 0, len(p.Loved)+len(p.Liked)+len(p.Neutral)+len(p.Disliked))
	for _, bucket := range [][]WatchedItem{p.Loved, p.Liked, p.Neutral, p.Disliked} {
		for _, item := range bucket {
			titles = append(titles, item.Title)
		}
	}
	return titles
}

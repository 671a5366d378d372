package models

import (
	"time"

	"gorm.io/datatypes"
)

// RadarFlavor separates the daily catalog mirror from the weekly
// AI-personalized list. Each flavor is fully replaced on refresh and the
// two never share rows.
type RadarFlavor string

const (
	RadarGeneral  RadarFlavor = "general"
	RadarRelevant RadarFlavor = "relevant"
)

type RadarListType string

const (
	RadarListUpcoming         RadarListType = "upcoming"
	RadarListNowPlaying       RadarListType = "now_playing"
	RadarListTopRatedProvider RadarListType = "top_rated_provider"
	RadarListTrending         RadarListType = "trending"
)

// NextEpisode carries on-the-air scheduling info when the catalog
// provides it.
type NextEpisode struct {
	AirDate       string `json:"air_date"`
	EpisodeNumber int    `json:"episode_number"`
	SeasonNumber  int    `json:"season_number"`
}

// RadarItem is one entry of either radar cache. The unique index mirrors
// the composite key the refresher dedupes on before replacing the cache.
type RadarItem struct {
	Key         uint           `gorm:"primaryKey;autoIncrement" json:"-"`
	Flavor      RadarFlavor    `gorm:"type:varchar(10);not null;index;uniqueIndex:idx_radar_entry,priority:1" json:"-"`
	ListType    RadarListType  `gorm:"type:varchar(20);not null;uniqueIndex:idx_radar_entry,priority:2"       json:"listType"`
	ProviderID  int            `gorm:"not null;default:0;uniqueIndex:idx_radar_entry,priority:3"              json:"providerId,omitempty"`
	TMDBID      int            `gorm:"not null;uniqueIndex:idx_radar_entry,priority:4"                        json:"id"`
	MediaKind   MediaKind      `gorm:"type:varchar(10);not null" json:"tmdbMediaType"`
	Title       string         `gorm:"not null"                  json:"title"`
	PosterURL   string         `                                 json:"posterUrl,omitempty"`
	ReleaseDate string         `gorm:"not null"                  json:"releaseDate"`
	NextEpisode datatypes.JSON `                                 json:"nextEpisodeToAir,omitempty"`
	Reason      string         `                                 json:"reason,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"            json:"-"`
}

package models

import "time"

// CacheKind identifies one time-windowed cache. Each kind owns exactly
// one metadata row, the sole arbiter of that cache's staleness.
type CacheKind string

const (
	CacheKindGeneralRadar    CacheKind = "tmdbRadarMetadata"
	CacheKindRelevantRadar   CacheKind = "relevantRadarMetadata"
	CacheKindWeeklyRelevants CacheKind = "weeklyRelevantsMetadata"
)

type CacheMetadata struct {
	Kind       CacheKind `gorm:"primaryKey;type:varchar(40)" json:"kind"`
	LastUpdate time.Time `gorm:"not null"                    json:"lastUpdate"`
}

package repositories

import (
	"cinegenio/internal/database"
)

type Repository struct {
	Watched         WatchedRepository
	Watchlist       WatchlistRepository
	Challenge       ChallengeRepository
	Radar           RadarRepository
	WeeklyRelevants WeeklyRelevantsRepository
	CacheMetadata   CacheMetadataRepository
	Chat            ChatRepository
}

func New(db database.DB) Repository {
	return Repository{
		Watched:         NewWatchedRepository(db.Cache.General),
		Watchlist:       NewWatchlistRepository(),
		Challenge:       NewChallengeRepository(db.Cache.General),
		Radar:           NewRadarRepository(),
		WeeklyRelevants: NewWeeklyRelevantsRepository(),
		CacheMetadata:   NewCacheMetadataRepository(),
		Chat:            NewChatRepository(),
	}
}

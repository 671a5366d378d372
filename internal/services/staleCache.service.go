package services

import (
	"context"
	"time"

	"cinegenio/internal/database"
	. "cinegenio/internal/models"
	"cinegenio/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

// RefreshPolicy decides whether a cache kind is due for regeneration.
type RefreshPolicy interface {
	Stale(lastUpdate *time.Time, now time.Time) bool
}

// IntervalDays marks a cache stale once the given number of days has
// elapsed since the last successful refresh.
type IntervalDays int

func (d IntervalDays) Stale(lastUpdate *time.Time, now time.Time) bool {
	if lastUpdate == nil {
		return true
	}
	return now.Sub(*lastUpdate).Hours()/24 >= float64(d)
}

// WeeklyMonday marks a cache stale when the last refresh happened before
// the most recent Monday 00:00. The refresh lands at most once per
// calendar week regardless of elapsed-hours arithmetic.
type WeeklyMonday struct{}

func (WeeklyMonday) Stale(lastUpdate *time.Time, now time.Time) bool {
	if lastUpdate == nil {
		return true
	}
	return lastUpdate.Before(lastMonday(now))
}

func lastMonday(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	day := now.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}

// StaleCacheService gates cache regeneration on per-kind metadata
// timestamps. The timestamp is written only after regenerate succeeds, so
// a failed refresh retries on the next trigger instead of silently
// freezing a partial cache.
type StaleCacheService struct {
	db    database.DB
	repos repositories.Repository
	now   func() time.Time
	log   logger.Logger
}

func NewStaleCacheService(db database.DB, repos repositories.Repository) *StaleCacheService {
	return &StaleCacheService{
		db:    db,
		repos: repos,
		now:   time.Now,
		log:   logger.New("StaleCacheService"),
	}
}

func (s *StaleCacheService) RefreshIfNeeded(
	ctx context.Context,
	kind CacheKind,
	policy RefreshPolicy,
	regenerate func(ctx context.Context) error,
) error {
	log := s.log.Function("RefreshIfNeeded")

	lastUpdate, err := s.repos.CacheMetadata.GetLastUpdate(ctx, s.db.SQL, kind)
	if err != nil {
		return err
	}

	now := s.now()
	if !policy.Stale(lastUpdate, now) {
		log.Debug("cache is fresh, skipping refresh", "kind", kind, "lastUpdate", lastUpdate)
		return nil
	}

	log.Info("cache is stale, regenerating", "kind", kind, "lastUpdate", lastUpdate)
	if err := regenerate(ctx); err != nil {
		return log.Err("cache regeneration failed", err, "kind", kind)
	}

	if err := s.repos.CacheMetadata.SetLastUpdate(ctx, s.db.SQL, kind, now); err != nil {
		return err
	}

	log.Info("cache refreshed", "kind", kind)
	return nil
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinegenio/internal/database"
	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestIntervalDays_Stale(t *testing.T) {
	now := time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)
	policy := IntervalDays(1)

	assert.True(t, policy.Stale(nil, now))
	assert.False(t, policy.Stale(timePtr(now.Add(-23*time.Hour)), now))
	assert.True(t, policy.Stale(timePtr(now.Add(-24*time.Hour)), now))
	assert.True(t, policy.Stale(timePtr(now.Add(-48*time.Hour)), now))

	weekly := IntervalDays(7)
	assert.False(t, weekly.Stale(timePtr(now.Add(-6*24*time.Hour)), now))
	assert.True(t, weekly.Stale(timePtr(now.Add(-7*24*time.Hour)), now))
}

func TestWeeklyMonday_Stale(t *testing.T) {
	// Wednesday 2025-03-12; the most recent Monday is 2025-03-10 00:00.
	now := time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)
	policy := WeeklyMonday{}

	assert.True(t, policy.Stale(nil, now))

	sundayBefore := time.Date(2025, time.March, 9, 23, 59, 0, 0, time.UTC)
	assert.True(t, policy.Stale(&sundayBefore, now))

	mondayMidnight := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	assert.False(t, policy.Stale(&mondayMidnight, now))

	tuesday := time.Date(2025, time.March, 11, 8, 0, 0, 0, time.UTC)
	assert.False(t, policy.Stale(&tuesday, now))
}

func TestWeeklyMonday_StaleOnMondayItself(t *testing.T) {
	monday := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	policy := WeeklyMonday{}

	lastWeek := time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)
	assert.True(t, policy.Stale(&lastWeek, monday))

	earlierSameMonday := time.Date(2025, time.March, 10, 1, 0, 0, 0, time.UTC)
	assert.False(t, policy.Stale(&earlierSameMonday, monday))
}

func newTestStaleCacheService(metadata *fakeCacheMetadataRepo) *StaleCacheService {
	repos := testRepos()
	repos.CacheMetadata = metadata
	return &StaleCacheService{
		db:    database.DB{},
		repos: repos,
		now:   time.Now,
		log:   logger.New("StaleCacheService"),
	}
}

func TestRefreshIfNeeded_SkipsWhenFresh(t *testing.T) {
	metadata := newFakeCacheMetadataRepo()
	metadata.stamps[CacheKindGeneralRadar] = time.Now().Add(-1 * time.Hour)

	service := newTestStaleCacheService(metadata)

	regenerated := false
	err := service.RefreshIfNeeded(
		context.Background(),
		CacheKindGeneralRadar,
		IntervalDays(1),
		func(ctx context.Context) error {
			regenerated = true
			return nil
		},
	)

	require.NoError(t, err)
	assert.False(t, regenerated)
	assert.Zero(t, metadata.sets)
}

func TestRefreshIfNeeded_RegeneratesAndStamps(t *testing.T) {
	metadata := newFakeCacheMetadataRepo()
	service := newTestStaleCacheService(metadata)

	fixedNow := time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixedNow }

	regenerated := false
	err := service.RefreshIfNeeded(
		context.Background(),
		CacheKindWeeklyRelevants,
		WeeklyMonday{},
		func(ctx context.Context) error {
			regenerated = true
			return nil
		},
	)

	require.NoError(t, err)
	assert.True(t, regenerated)
	assert.Equal(t, fixedNow, metadata.stamps[CacheKindWeeklyRelevants])
}

func TestRefreshIfNeeded_FailureLeavesMetadataUntouched(t *testing.T) {
	metadata := newFakeCacheMetadataRepo()
	stale := time.Now().Add(-48 * time.Hour)
	metadata.stamps[CacheKindGeneralRadar] = stale

	service := newTestStaleCacheService(metadata)

	boom := errors.New("upstream down")
	err := service.RefreshIfNeeded(
		context.Background(),
		CacheKindGeneralRadar,
		IntervalDays(1),
		func(ctx context.Context) error { return boom },
	)

	require.Error(t, err)
	assert.Zero(t, metadata.sets)
	assert.Equal(t, stale, metadata.stamps[CacheKindGeneralRadar])
}

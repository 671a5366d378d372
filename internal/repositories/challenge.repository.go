package repositories

import (
	"context"
	"time"

	"cinegenio/internal/database"
	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

const (
	CHALLENGE_CACHE_PREFIX = "challenge"
	CHALLENGE_CACHE_EXPIRY = 6 * time.Hour
)

type ChallengeRepository interface {
	GetByWeekID(ctx context.Context, tx *gorm.DB, weekID string) (*Challenge, error)
	Create(ctx context.Context, tx *gorm.DB, challenge *Challenge) error
	Update(ctx context.Context, tx *gorm.DB, challenge *Challenge) error
	GetHistory(ctx context.Context, tx *gorm.DB) ([]Challenge, error)
}

type challengeRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewChallengeRepository(cache database.CacheClient) ChallengeRepository {
	return &challengeRepository{
		cache: cache,
		log:   logger.New("challengeRepository"),
	}
}

// GetByWeekID returns gorm.ErrRecordNotFound when no challenge exists
// for the week; callers treat that as "generate one".
func (r *challengeRepository) GetByWeekID(
	ctx context.Context,
	tx *gorm.DB,
	weekID string,
) (*Challenge, error) {
	log := r.log.Function("GetByWeekID")

	var cached *Challenge
	found, err := database.NewCacheBuilder(r.cache, weekID).
		WithContext(ctx).
		WithHash(CHALLENGE_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get challenge from cache", "weekID", weekID, "error", err)
	}

	if found {
		return cached, nil
	}

	var challenge Challenge
	if err := tx.WithContext(ctx).First(&challenge, "week_id = ?", weekID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get challenge", err, "weekID", weekID)
	}

	err = database.NewCacheBuilder(r.cache, weekID).
		WithContext(ctx).
		WithHash(CHALLENGE_CACHE_PREFIX).
		WithStruct(&challenge).
		WithTTL(CHALLENGE_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to cache challenge", "weekID", weekID, "error", err)
	}

	return &challenge, nil
}

func (r *challengeRepository) Create(ctx context.Context, tx *gorm.DB, challenge *Challenge) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(challenge).Error; err != nil {
		return log.Err("failed to create challenge", err, "weekID", challenge.WeekID)
	}

	r.clearCache(ctx, challenge.WeekID)
	return nil
}

func (r *challengeRepository) Update(ctx context.Context, tx *gorm.DB, challenge *Challenge) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(challenge).Error; err != nil {
		return log.Err("failed to update challenge", err, "weekID", challenge.WeekID)
	}

	r.clearCache(ctx, challenge.WeekID)
	return nil
}

func (r *challengeRepository) GetHistory(ctx context.Context, tx *gorm.DB) ([]Challenge, error) {
	log := r.log.Function("GetHistory")

	var challenges []Challenge
	if err := tx.WithContext(ctx).Order("week_id DESC").Find(&challenges).Error; err != nil {
		return nil, log.Err("failed to get challenge history", err)
	}
	return challenges, nil
}

func (r *challengeRepository) clearCache(ctx context.Context, weekID string) {
	err := database.NewCacheBuilder(r.cache, weekID).
		WithContext(ctx).
		WithHash(CHALLENGE_CACHE_PREFIX).
		Delete()
	if err != nil {
		r.log.Warn("failed to clear challenge cache", "weekID", weekID, "error", err)
	}
}

package repositories

import (
	"context"
	"time"

	"cinegenio/internal/database"
	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	WATCHED_ITEMS_CACHE_KEY    = "watched_items:all"
	WATCHED_ITEMS_CACHE_EXPIRY = 1 * time.Hour
)

type WatchedRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]WatchedItem, error)
	Upsert(ctx context.Context, tx *gorm.DB, item *WatchedItem) error
	Delete(ctx context.Context, tx *gorm.DB, id int) error
	ClearCache(ctx context.Context) error
}

type watchedRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewWatchedRepository(cache database.CacheClient) WatchedRepository {
	return &watchedRepository{
		cache: cache,
		log:   logger.New("watchedRepository"),
	}
}

func (r *watchedRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]WatchedItem, error) {
	log := r.log.Function("GetAll")

	var cached []WatchedItem
	found, err := database.NewCacheBuilder(r.cache, WATCHED_ITEMS_CACHE_KEY).
		WithContext(ctx).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get watched items from cache", "error", err)
	}

	if found {
		return cached, nil
	}

	var items []WatchedItem
	if err := tx.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, log.Err("failed to get watched items", err)
	}

	err = database.NewCacheBuilder(r.cache, WATCHED_ITEMS_CACHE_KEY).
		WithContext(ctx).
		WithStruct(items).
		WithTTL(WATCHED_ITEMS_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to cache watched items", "error", err)
	}

	return items, nil
}

// Upsert creates the rating or, when the catalog id is already rated,
// replaces the row. One rating tier per item id at any time.
func (r *watchedRepository) Upsert(ctx context.Context, tx *gorm.DB, item *WatchedItem) error {
	log := r.log.Function("Upsert")

	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(item).Error
	if err != nil {
		return log.Err("failed to upsert watched item", err, "id", item.ID, "title", item.Title)
	}

	r.clearCache(ctx)
	return nil
}

func (r *watchedRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	log := r.log.Function("Delete")

	result := tx.WithContext(ctx).Delete(&WatchedItem{}, id)
	if result.Error != nil {
		return log.Err("failed to delete watched item", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.clearCache(ctx)
	return nil
}

func (r *watchedRepository) ClearCache(ctx context.Context) error {
	r.clearCache(ctx)
	return nil
}

func (r *watchedRepository) clearCache(ctx context.Context) {
	err := database.NewCacheBuilder(r.cache, WATCHED_ITEMS_CACHE_KEY).
		WithContext(ctx).
		Delete()
	if err != nil {
		r.log.Warn("failed to clear watched items cache", "error", err)
	}
}

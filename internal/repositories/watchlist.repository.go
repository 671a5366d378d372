package repositories

import (
	"context"

	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]WatchlistItem, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*WatchlistItem, error)
	Add(ctx context.Context, tx *gorm.DB, item *WatchlistItem) error
	Update(ctx context.Context, tx *gorm.DB, item *WatchlistItem) error
	Delete(ctx context.Context, tx *gorm.DB, id int) error
}

type watchlistRepository struct {
	log logger.Logger
}

func NewWatchlistRepository() WatchlistRepository {
	return &watchlistRepository{
		log: logger.New("watchlistRepository"),
	}
}

func (r *watchlistRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]WatchlistItem, error) {
	log := r.log.Function("GetAll")

	var items []WatchlistItem
	if err := tx.WithContext(ctx).Order("added_at ASC").Find(&items).Error; err != nil {
		return nil, log.Err("failed to get watchlist items", err)
	}
	return items, nil
}

func (r *watchlistRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*WatchlistItem, error) {
	log := r.log.Function("GetByID")

	var item WatchlistItem
	if err := tx.WithContext(ctx).First(&item, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get watchlist item", err, "id", id)
	}
	return &item, nil
}

func (r *watchlistRepository) Add(ctx context.Context, tx *gorm.DB, item *WatchlistItem) error {
	log := r.log.Function("Add")

	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(item).Error
	if err != nil {
		return log.Err("failed to add watchlist item", err, "id", item.ID, "title", item.Title)
	}
	return nil
}

func (r *watchlistRepository) Update(ctx context.Context, tx *gorm.DB, item *WatchlistItem) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(item).Error; err != nil {
		return log.Err("failed to update watchlist item", err, "id", item.ID)
	}
	return nil
}

func (r *watchlistRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	log := r.log.Function("Delete")

	if err := tx.WithContext(ctx).Delete(&WatchlistItem{}, id).Error; err != nil {
		return log.Err("failed to delete watchlist item", err, "id", id)
	}
	return nil
}

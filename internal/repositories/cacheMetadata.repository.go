package repositories

import (
	"context"
	"time"

	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CacheMetadataRepository interface {
	GetLastUpdate(ctx context.Context, tx *gorm.DB, kind CacheKind) (*time.Time, error)
	SetLastUpdate(ctx context.Context, tx *gorm.DB, kind CacheKind, at time.Time) error
}

type cacheMetadataRepository struct {
	log logger.Logger
}

func NewCacheMetadataRepository() CacheMetadataRepository {
	return &cacheMetadataRepository{
		log: logger.New("cacheMetadataRepository"),
	}
}

// GetLastUpdate returns nil when no metadata row exists, which callers
// treat as infinitely stale.
func (r *cacheMetadataRepository) GetLastUpdate(
	ctx context.Context,
	tx *gorm.DB,
	kind CacheKind,
) (*time.Time, error) {
	log := r.log.Function("GetLastUpdate")

	var metadata CacheMetadata
	if err := tx.WithContext(ctx).First(&metadata, "kind = ?", kind).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get cache metadata", err, "kind", kind)
	}
	return &metadata.LastUpdate, nil
}

func (r *cacheMetadataRepository) SetLastUpdate(
	ctx context.Context,
	tx *gorm.DB,
	kind CacheKind,
	at time.Time,
) error {
	log := r.log.Function("SetLastUpdate")

	metadata := CacheMetadata{Kind: kind, LastUpdate: at}
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}},
			UpdateAll: true,
		}).
		Create(&metadata).Error
	if err != nil {
		return log.Err("failed to set cache metadata", err, "kind", kind)
	}
	return nil
}

package repositories

import (
	"context"

	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

type RadarRepository interface {
	GetByFlavor(ctx context.Context, tx *gorm.DB, flavor RadarFlavor) ([]RadarItem, error)
	ReplaceFlavor(ctx context.Context, tx *gorm.DB, flavor RadarFlavor, items []RadarItem) error
}

type radarRepository struct {
	log logger.Logger
}

func NewRadarRepository() RadarRepository {
	return &radarRepository{
		log: logger.New("radarRepository"),
	}
}

func (r *radarRepository) GetByFlavor(
	ctx context.Context,
	tx *gorm.DB,
	flavor RadarFlavor,
) ([]RadarItem, error) {
	log := r.log.Function("GetByFlavor")

	var items []RadarItem
	err := tx.WithContext(ctx).
		Where("flavor = ?", flavor).
		Order("release_date ASC").
		Find(&items).Error
	if err != nil {
		return nil, log.Err("failed to get radar items", err, "flavor", flavor)
	}
	return items, nil
}

// ReplaceFlavor swaps the whole cache for one flavor: delete then
// insert. Run it inside a transaction so readers never see the cache
// half empty.
func (r *radarRepository) ReplaceFlavor(
	ctx context.Context,
	tx *gorm.DB,
	flavor RadarFlavor,
	items []RadarItem,
) error {
	log := r.log.Function("ReplaceFlavor")

	err := tx.WithContext(ctx).
		Where("flavor = ?", flavor).
		Delete(&RadarItem{}).Error
	if err != nil {
		return log.Err("failed to delete stale radar items", err, "flavor", flavor)
	}

	if len(items) == 0 {
		log.Warn("replacing radar cache with empty set", "flavor", flavor)
		return nil
	}

	for i := range items {
		items[i].Flavor = flavor
	}

	if err := tx.WithContext(ctx).CreateInBatches(items, 100).Error; err != nil {
		return log.Err("failed to insert radar items", err, "flavor", flavor, "count", len(items))
	}

	log.Info("replaced radar cache", "flavor", flavor, "count", len(items))
	return nil
}

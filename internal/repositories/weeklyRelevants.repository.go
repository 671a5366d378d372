package repositories

import (
	"context"

	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WeeklyRelevantsRepository interface {
	Get(ctx context.Context, tx *gorm.DB) (*WeeklyRelevants, error)
	Set(ctx context.Context, tx *gorm.DB, relevants *WeeklyRelevants) error
}

type weeklyRelevantsRepository struct {
	log logger.Logger
}

func NewWeeklyRelevantsRepository() WeeklyRelevantsRepository {
	return &weeklyRelevantsRepository{
		log: logger.New("weeklyRelevantsRepository"),
	}
}

func (r *weeklyRelevantsRepository) Get(ctx context.Context, tx *gorm.DB) (*WeeklyRelevants, error) {
	log := r.log.Function("Get")

	var relevants WeeklyRelevants
	if err := tx.WithContext(ctx).First(&relevants, WeeklyRelevantsID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get weekly relevants", err)
	}
	return &relevants, nil
}

// Set overwrites the singleton row.
func (r *weeklyRelevantsRepository) Set(
	ctx context.Context,
	tx *gorm.DB,
	relevants *WeeklyRelevants,
) error {
	log := r.log.Function("Set")

	relevants.ID = WeeklyRelevantsID
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(relevants).Error
	if err != nil {
		return log.Err("failed to set weekly relevants", err)
	}
	return nil
}

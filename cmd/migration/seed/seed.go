package seed

import (
	"cinegenio/config"
	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

// Seed loads a small starter collection so a development environment has a
// taste profile to prompt with.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	watched := []WatchedItem{
		{
			ID:        238,
			MediaKind: MediaKindMovie,
			Title:     "O Poderoso Chefão (1972)",
			Category:  CategoryMovie,
			Genre:     "Crime",
			Rating:    RatingLoved,
		},
		{
			ID:        129,
			MediaKind: MediaKindMovie,
			Title:     "A Viagem de Chihiro (2001)",
			Category:  CategoryMovie,
			Genre:     "Animação",
			Rating:    RatingLoved,
		},
		{
			ID:        1396,
			MediaKind: MediaKindTV,
			Title:     "Breaking Bad (2008)",
			Category:  CategorySeries,
			Genre:     "Drama",
			Rating:    RatingLiked,
		},
		{
			ID:        615,
			MediaKind: MediaKindTV,
			Title:     "Futurama (1999)",
			Category:  CategorySeries,
			Genre:     "Animação",
			Rating:    RatingNeutral,
		},
		{
			ID:        24428,
			MediaKind: MediaKindMovie,
			Title:     "Os Vingadores (2012)",
			Category:  CategoryMovie,
			Genre:     "Ação",
			Rating:    RatingDisliked,
		},
	}

	for _, item := range watched {
		var existing WatchedItem
		if err := db.First(&existing, item.ID).Error; err == nil {
			log.Debug("Watched item already exists", "id", item.ID, "title", item.Title)
			continue
		}
		log.Info("Seeding watched item", "id", item.ID, "title", item.Title)
		if err := db.Create(&item).Error; err != nil {
			log.Er("failed to create watched item", err, "id", item.ID)
		}
	}

	watchlist := []WatchlistItem{
		{
			ID:        496243,
			MediaKind: MediaKindMovie,
			Title:     "Parasita (2019)",
			Category:  CategoryMovie,
		},
	}

	for _, item := range watchlist {
		var existing WatchlistItem
		if err := db.First(&existing, item.ID).Error; err == nil {
			log.Debug("Watchlist item already exists", "id", item.ID, "title", item.Title)
			continue
		}
		log.Info("Seeding watchlist item", "id", item.ID, "title", item.Title)
		if err := db.Create(&item).Error; err != nil {
			log.Er("failed to create watchlist item", err, "id", item.ID)
		}
	}

	return nil
}

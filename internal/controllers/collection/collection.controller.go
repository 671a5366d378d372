package collectionController

import (
	"context"
	"encoding/json"
	"errors"

	"cinegenio/internal/database"
	. "cinegenio/internal/models"
	"cinegenio/internal/repositories"
	"cinegenio/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type CollectionController struct {
	watchedRepo        repositories.WatchedRepository
	watchlistRepo      repositories.WatchlistRepository
	transactionService *services.TransactionService
	tmdbService        *services.TMDBService
	recommendation     *services.RecommendationService
	db                 database.DB
	log                logger.Logger
}

type RateItemRequest struct {
	ID             int             `json:"id"`
	MediaKind      MediaKind       `json:"tmdbMediaType"`
	Title          string          `json:"title"`
	Genre          string          `json:"genre,omitempty"`
	Rating         Rating          `json:"rating"`
	Synopsis       string          `json:"synopsis,omitempty"`
	PosterURL      string          `json:"posterUrl,omitempty"`
	VoteAverage    float64         `json:"voteAverage,omitempty"`
	WatchProviders *WatchProviders `json:"watchProviders,omitempty"`
}

type WatchlistAddRequest struct {
	ID        int       `json:"id"`
	MediaKind MediaKind `json:"tmdbMediaType"`
	Title     string    `json:"title"`
	PosterURL string    `json:"posterUrl,omitempty"`
}

type CollectionControllerInterface interface {
	ListWatched(ctx context.Context) ([]WatchedItem, error)
	RateItem(ctx context.Context, request *RateItemRequest) (*WatchedItem, error)
	RemoveWatched(ctx context.Context, id int) error
	ListWatchlist(ctx context.Context) ([]WatchlistItem, error)
	AddToWatchlist(ctx context.Context, request *WatchlistAddRequest) (*WatchlistItem, error)
	RemoveFromWatchlist(ctx context.Context, id int) error
	AddToCollection(ctx context.Context, request *RateItemRequest) (*WatchedItem, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) CollectionControllerInterface {
	return &CollectionController{
		watchedRepo:        repos.Watched,
		watchlistRepo:      repos.Watchlist,
		transactionService: services.Transaction,
		tmdbService:        services.TMDB,
		recommendation:     services.Recommendation,
		db:                 db,
		log:                logger.New("collectionController"),
	}
}

func (c *CollectionController) ListWatched(ctx context.Context) ([]WatchedItem, error) {
	return c.watchedRepo.GetAll(ctx, c.db.SQL)
}

func (c *CollectionController) validateRateRequest(request *RateItemRequest) error {
	if request.ID <= 0 {
		return errors.New("id is required")
	}
	if !request.MediaKind.Valid() {
		return errors.New("tmdbMediaType must be movie or tv")
	}
	if request.Title == "" {
		return errors.New("title is required")
	}
	if !request.Rating.Valid() {
		return errors.New("rating must be amei, gostei, meh or naoGostei")
	}
	return nil
}

func (c *CollectionController) buildWatchedItem(request *RateItemRequest) (*WatchedItem, error) {
	item := &WatchedItem{
		ID:          request.ID,
		MediaKind:   request.MediaKind,
		Title:       request.Title,
		Category:    CategoryForKind(request.MediaKind),
		Genre:       request.Genre,
		Rating:      request.Rating,
		Synopsis:    request.Synopsis,
		PosterURL:   request.PosterURL,
		VoteAverage: request.VoteAverage,
	}
	if item.Genre == "" {
		item.Genre = "Indefinido"
	}
	if request.WatchProviders != nil {
		encoded, err := json.Marshal(request.WatchProviders)
		if err != nil {
			return nil, err
		}
		item.WatchProviders = datatypes.JSON(encoded)
	}
	return item, nil
}

// RateItem adds a title to the collection or moves it to another rating
// bucket. The catalog id is the primary key, so a re-rate is the same
// upsert as a first rate.
func (c *CollectionController) RateItem(
	ctx context.Context,
	request *RateItemRequest,
) (*WatchedItem, error) {
	log := c.log.Function("RateItem")

	if err := c.validateRateRequest(request); err != nil {
		log.Warn("invalid rate request", "error", err.Error())
		return nil, errors.Join(ErrValidation, err)
	}

	item, err := c.buildWatchedItem(request)
	if err != nil {
		return nil, log.Err("failed to encode watch providers", err, "id", request.ID)
	}

	if err := c.watchedRepo.Upsert(ctx, c.db.SQL, item); err != nil {
		return nil, log.Err("failed to upsert rated item", err, "id", request.ID)
	}

	log.Info("Item rated", "id", item.ID, "rating", item.Rating)
	return item, nil
}

func (c *CollectionController) RemoveWatched(ctx context.Context, id int) error {
	log := c.log.Function("RemoveWatched")

	if id <= 0 {
		return errors.Join(ErrValidation, errors.New("id is required"))
	}

	if err := c.watchedRepo.Delete(ctx, c.db.SQL, id); err != nil {
		return log.Err("failed to delete rated item", err, "id", id)
	}
	return nil
}

// ListWatchlist returns the watchlist with lazily filled details: items
// still missing a synopsis get catalog details persisted on first read,
// and items without a love probability get one from the AI gateway.
// Enrichment failures leave the item as-is rather than failing the list.
func (c *CollectionController) ListWatchlist(ctx context.Context) ([]WatchlistItem, error) {
	log := c.log.Function("ListWatchlist")

	items, err := c.watchlistRepo.GetAll(ctx, c.db.SQL)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if !c.enrichWatchlistItem(ctx, &items[i]) {
			continue
		}
		if err := c.watchlistRepo.Update(ctx, c.db.SQL, &items[i]); err != nil {
			log.Er("failed to persist enriched watchlist item", err, "id", items[i].ID)
		}
	}

	return items, nil
}

func (c *CollectionController) enrichWatchlistItem(
	ctx context.Context,
	item *WatchlistItem,
) bool {
	log := c.log.Function("enrichWatchlistItem")
	changed := false

	if item.Synopsis == "" {
		details, err := c.tmdbService.GetDetails(ctx, item.ID, item.MediaKind)
		if err != nil {
			log.Warn("failed to fetch watchlist details", "id", item.ID, "error", err.Error())
		} else {
			item.Title = details.TitleWithYear()
			item.Synopsis = details.Overview
			item.VoteAverage = details.VoteAverage
			item.Category = CategoryForKind(item.MediaKind)
			if poster := services.PosterURL(details.PosterPath); poster != nil {
				item.PosterURL = *poster
			}
			if len(details.Genres) > 0 {
				item.Genre = details.Genres[0].Name
			}
			if providers := c.tmdbService.ExtractProviders(details); providers != nil {
				if encoded, err := json.Marshal(providers); err == nil {
					item.WatchProviders = datatypes.JSON(encoded)
				}
			}
			changed = true
		}
	}

	if item.LoveProbability == nil {
		probability, err := c.recommendation.LoveProbability(ctx, item.Title)
		if err != nil {
			log.Warn("failed to compute love probability", "id", item.ID, "error", err.Error())
		} else {
			item.LoveProbability = &probability
			changed = true
		}
	}

	return changed
}

func (c *CollectionController) AddToWatchlist(
	ctx context.Context,
	request *WatchlistAddRequest,
) (*WatchlistItem, error) {
	log := c.log.Function("AddToWatchlist")

	if request.ID <= 0 {
		return nil, errors.Join(ErrValidation, errors.New("id is required"))
	}
	if !request.MediaKind.Valid() {
		return nil, errors.Join(ErrValidation, errors.New("tmdbMediaType must be movie or tv"))
	}
	if request.Title == "" {
		return nil, errors.Join(ErrValidation, errors.New("title is required"))
	}

	item := &WatchlistItem{
		ID:        request.ID,
		MediaKind: request.MediaKind,
		Title:     request.Title,
		PosterURL: request.PosterURL,
		Category:  CategoryForKind(request.MediaKind),
	}

	if err := c.watchlistRepo.Add(ctx, c.db.SQL, item); err != nil {
		return nil, log.Err("failed to add watchlist item", err, "id", request.ID)
	}

	log.Info("Watchlist item added", "id", item.ID)
	return item, nil
}

func (c *CollectionController) RemoveFromWatchlist(ctx context.Context, id int) error {
	log := c.log.Function("RemoveFromWatchlist")

	if id <= 0 {
		return errors.Join(ErrValidation, errors.New("id is required"))
	}

	if err := c.watchlistRepo.Delete(ctx, c.db.SQL, id); err != nil {
		return log.Err("failed to delete watchlist item", err, "id", id)
	}
	return nil
}

// AddToCollection rates a title and drops its watchlist row in the same
// transaction, so a crash between the two writes cannot leave the title
// in both places.
func (c *CollectionController) AddToCollection(
	ctx context.Context,
	request *RateItemRequest,
) (*WatchedItem, error) {
	log := c.log.Function("AddToCollection")

	if err := c.validateRateRequest(request); err != nil {
		log.Warn("invalid rate request", "error", err.Error())
		return nil, errors.Join(ErrValidation, err)
	}

	item, err := c.buildWatchedItem(request)
	if err != nil {
		return nil, log.Err("failed to encode watch providers", err, "id", request.ID)
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.watchedRepo.Upsert(ctx, tx, item); err != nil {
			return err
		}
		if err := c.watchlistRepo.Delete(ctx, tx, item.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, log.Err("failed to move watchlist item to collection", err, "id", request.ID)
	}

	log.Info("Watchlist item moved to collection", "id", item.ID, "rating", item.Rating)
	return item, nil
}

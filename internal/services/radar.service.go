package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinegenio/internal/database"
	. "cinegenio/internal/models"
	"cinegenio/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	GENERAL_RADAR_INTERVAL_DAYS  = 1
	RELEVANT_RADAR_INTERVAL_DAYS = 7
)

// RadarService maintains the two radar caches: the daily general catalog
// mirror and the weekly AI-personalized list. Each refresh fully replaces
// its flavor's rows.
type RadarService struct {
	db          database.DB
	repos       repositories.Repository
	transaction *TransactionService
	staleCache  *StaleCacheService
	tmdb        *TMDBService
	ai          *AIGatewayService
	log         logger.Logger
}

func NewRadarService(
	db database.DB,
	repos repositories.Repository,
	transaction *TransactionService,
	staleCache *StaleCacheService,
	tmdb *TMDBService,
	ai *AIGatewayService,
) *RadarService {
	return &RadarService{
		db:          db,
		repos:       repos,
		transaction: transaction,
		staleCache:  staleCache,
		tmdb:        tmdb,
		ai:          ai,
		log:         logger.New("RadarService"),
	}
}

func (s *RadarService) GetGeneral(ctx context.Context) ([]RadarItem, error) {
	return s.repos.Radar.GetByFlavor(ctx, s.db.SQL, RadarGeneral)
}

func (s *RadarService) GetRelevant(ctx context.Context) ([]RadarItem, error) {
	return s.repos.Radar.GetByFlavor(ctx, s.db.SQL, RadarRelevant)
}

// RefreshGeneralIfNeeded rebuilds the daily catalog mirror when stale:
// now-playing, trending and the four streaming providers' top 10s,
// deduplicated by (listType, providerID, id) before the replace.
func (s *RadarService) RefreshGeneralIfNeeded(ctx context.Context) error {
	return s.staleCache.RefreshIfNeeded(
		ctx,
		CacheKindGeneralRadar,
		IntervalDays(GENERAL_RADAR_INTERVAL_DAYS),
		s.regenerateGeneral,
	)
}

func (s *RadarService) regenerateGeneral(ctx context.Context) error {
	log := s.log.Function("regenerateGeneral")

	nowPlaying, err := s.tmdb.GetNowPlaying(ctx)
	if err != nil {
		return err
	}
	trending, err := s.tmdb.GetTrending(ctx)
	if err != nil {
		return err
	}

	items := make([]RadarItem, 0, len(nowPlaying)+len(trending))
	items = appendRadarItems(items, nowPlaying, RadarListNowPlaying, 0)
	items = appendRadarItems(items, trending, RadarListTrending, 0)

	for _, providerID := range RadarProviderIDs {
		topRated, err := s.tmdb.GetTopRatedOnProvider(ctx, providerID)
		if err != nil {
			return err
		}
		items = appendRadarItems(items, topRated, RadarListTopRatedProvider, providerID)
	}

	deduped := dedupeRadarItems(items)
	log.Info("general radar assembled", "fetched", len(items), "kept", len(deduped))

	return s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return s.repos.Radar.ReplaceFlavor(ctx, tx, RadarGeneral, deduped)
	})
}

// RefreshRelevantIfNeeded rebuilds the weekly personalized radar when
// stale: upcoming movies and on-the-air shows filtered to future dates,
// ranked by the AI against the taste profile. Entries without a usable
// release date never reach the AI step.
func (s *RadarService) RefreshRelevantIfNeeded(ctx context.Context) error {
	return s.staleCache.RefreshIfNeeded(
		ctx,
		CacheKindRelevantRadar,
		IntervalDays(RELEVANT_RADAR_INTERVAL_DAYS),
		s.regenerateRelevant,
	)
}

func (s *RadarService) regenerateRelevant(ctx context.Context) error {
	log := s.log.Function("regenerateRelevant")

	watched, err := s.repos.Watched.GetAll(ctx, s.db.SQL)
	if err != nil {
		return err
	}
	formatted := FormatTasteProfile(BuildTasteProfile(watched))

	upcoming, err := s.tmdb.GetUpcoming(ctx)
	if err != nil {
		return err
	}
	onTheAir, err := s.tmdb.GetOnTheAir(ctx)
	if err != nil {
		return err
	}

	today := time.Now().Truncate(24 * time.Hour)
	futureContent := make([]TMDBSearchResult, 0, len(upcoming)+len(onTheAir))
	for _, result := range append(upcoming, onTheAir...) {
		releaseDate, err := time.Parse("2006-01-02", result.ReleaseOrAirDate())
		if err != nil {
			continue
		}
		if !releaseDate.Before(today) {
			futureContent = append(futureContent, result)
		}
	}

	if len(futureContent) == 0 {
		log.Info("no future releases available for the ai pass")
		return s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			return s.repos.Radar.ReplaceFlavor(ctx, tx, RadarRelevant, nil)
		})
	}

	lines := make([]string, 0, len(futureContent))
	for _, release := range futureContent {
		lines = append(lines, fmt.Sprintf("- %s (ID: %d)", release.DisplayTitle(), release.ID))
	}

	prompt := fmt.Sprintf(`Analise o perfil e a lista de lançamentos e selecione até 20 que sejam mais relevantes.

**PERFIL:**
%s

**LANÇAMENTOS:**
%s`, formatted, strings.Join(lines, "\n"))

	aiResult, err := s.ai.PersonalizedRadar(ctx, prompt)
	if err != nil {
		return err
	}

	byID := make(map[int]TMDBSearchResult, len(futureContent))
	for _, release := range futureContent {
		byID[release.ID] = release
	}

	items := make([]RadarItem, 0, len(aiResult.Releases))
	for _, release := range aiResult.Releases {
		original, ok := byID[release.ID]
		if !ok {
			log.Warn("ai picked an id outside the release list, dropping",
				"id", release.ID, "title", release.Title)
			continue
		}
		if item := toRadarItem(original, RadarListUpcoming, 0); item != nil {
			item.Reason = release.Reason
			items = append(items, *item)
		}
	}

	log.Info("relevant radar assembled", "aiPicks", len(aiResult.Releases), "kept", len(items))
	return s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return s.repos.Radar.ReplaceFlavor(ctx, tx, RadarRelevant, items)
	})
}

// toRadarItem projects a catalog search result into a radar row. Entries
// without a release date are unusable and map to nil.
func toRadarItem(result TMDBSearchResult, listType RadarListType, providerID int) *RadarItem {
	releaseDate := result.ReleaseOrAirDate()
	if releaseDate == "" {
		return nil
	}

	kind := result.MediaType
	if kind == "" {
		if result.Title != "" {
			kind = string(MediaKindMovie)
		} else {
			kind = string(MediaKindTV)
		}
	}

	title := result.DisplayTitle()
	if title == "" {
		title = "Título Desconhecido"
	} else if !strings.Contains(title, "(") && len(releaseDate) >= 4 {
		title = fmt.Sprintf("%s (%s)", title, releaseDate[:4])
	}

	item := &RadarItem{
		ListType:    listType,
		ProviderID:  providerID,
		TMDBID:      result.ID,
		MediaKind:   MediaKind(kind),
		Title:       title,
		ReleaseDate: releaseDate,
	}
	if poster := PosterURL(result.PosterPath); poster != nil {
		item.PosterURL = *poster
	}
	return item
}

func appendRadarItems(
	items []RadarItem,
	results []TMDBSearchResult,
	listType RadarListType,
	providerID int,
) []RadarItem {
	for _, result := range results {
		if item := toRadarItem(result, listType, providerID); item != nil {
			items = append(items, *item)
		}
	}
	return items
}

// dedupeRadarItems keeps the first occurrence per composite key, matching
// the unique index the table enforces.
func dedupeRadarItems(items []RadarItem) []RadarItem {
	seen := make(map[string]struct{}, len(items))
	deduped := make([]RadarItem, 0, len(items))
	for _, item := range items {
		key := fmt.Sprintf("%s-%d-%d", item.ListType, item.ProviderID, item.TMDBID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, item)
	}
	return deduped
}

package services

import (
	"context"
	"time"

	"cinegenio/internal/database"
	. "cinegenio/internal/models"
	"cinegenio/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

// WeeklyRelevantsService curates the weekly releases list. The AI proposes
// five categories of ten titles; only titles the catalog confirms via the
// tier-1 exact search survive, and categories left empty are dropped.
type WeeklyRelevantsService struct {
	db         database.DB
	repos      repositories.Repository
	staleCache *StaleCacheService
	tmdb       *TMDBService
	ai         *AIGatewayService
	log        logger.Logger
}

func NewWeeklyRelevantsService(
	db database.DB,
	repos repositories.Repository,
	staleCache *StaleCacheService,
	tmdb *TMDBService,
	ai *AIGatewayService,
) *WeeklyRelevantsService {
	return &WeeklyRelevantsService{
		db:         db,
		repos:      repos,
		staleCache: staleCache,
		tmdb:       tmdb,
		ai:         ai,
		log:        logger.New("WeeklyRelevantsService"),
	}
}

func (s *WeeklyRelevantsService) Get(ctx context.Context) (*WeeklyRelevants, error) {
	return s.repos.WeeklyRelevants.Get(ctx, s.db.SQL)
}

// RefreshIfNeeded regenerates at most once per calendar week, always on or
// after a Monday boundary.
func (s *WeeklyRelevantsService) RefreshIfNeeded(ctx context.Context) error {
	return s.staleCache.RefreshIfNeeded(
		ctx,
		CacheKindWeeklyRelevants,
		WeeklyMonday{},
		s.regenerate,
	)
}

func (s *WeeklyRelevantsService) regenerate(ctx context.Context) error {
	log := s.log.Function("regenerate")

	watched, err := s.repos.Watched.GetAll(ctx, s.db.SQL)
	if err != nil {
		return err
	}
	formatted := FormatTasteProfile(BuildTasteProfile(watched))

	prompt := `Você é o "CineGênio Pessoal". Sua tarefa é analisar o PERFIL DE GOSTO DO USUÁRIO e gerar uma lista de EXATAMENTE 50 filmes e séries JÁ LANÇADOS que sejam altamente relevantes.

**PERFIL DE GOSTO DO USUÁRIO (Use como inspiração):**
` + formatted + `

**LISTA DE EXCLUSÃO (NÃO inclua NENHUM destes títulos):**
` + formatted + `

REGRAS CRÍTICAS:
1. FOCO NA SUGESTÃO: Sua tarefa é selecionar os títulos e retornar o nome, o ano de lançamento e o tipo de mídia ('movie' ou 'tv').
2. EXCLUSÃO É PRIORIDADE MÁXIMA: É proibido incluir qualquer título da "LISTA DE EXCLUSÃO".
3. QUANTIDADE E VARIEDADE: Gere EXATAMENTE 5 categorias criativas, cada uma com 10 títulos. Pelo menos UMA categoria deve ser de "Séries".
4. FORMATO JSON: A resposta DEVE ser um JSON válido.`

	aiResult, err := s.ai.WeeklyRelevants(ctx, prompt)
	if err != nil {
		return err
	}

	categories := make([]WeeklyRelevantCategory, 0, len(aiResult.Categories))
	for _, aiCategory := range aiResult.Categories {
		items := make([]WeeklyRelevantItem, 0, len(aiCategory.Items))
		for _, aiItem := range aiCategory.Items {
			item := s.confirmItem(ctx, aiItem)
			if item == nil {
				continue
			}
			items = append(items, *item)
		}
		// a category the catalog emptied out is dropped entirely
		if len(items) == 0 {
			log.Warn("category emptied by catalog confirmation, dropping",
				"category", aiCategory.CategoryTitle)
			continue
		}
		categories = append(categories, WeeklyRelevantCategory{
			CategoryTitle: aiCategory.CategoryTitle,
			Items:         items,
		})
	}

	relevants := &WeeklyRelevants{
		ID:          WeeklyRelevantsID,
		GeneratedAt: time.Now(),
	}
	if err := relevants.EncodeCategories(categories); err != nil {
		return log.Err("failed to encode categories", err)
	}

	log.Info("weekly relevants assembled", "categories", len(categories))
	return s.repos.WeeklyRelevants.Set(ctx, s.db.SQL, relevants)
}

// confirmItem resolves an AI proposal through the tier-1 exact search only.
// Anything the catalog cannot confirm is silently dropped; a broad
// fallback here would let near-miss titles pollute the curated list.
func (s *WeeklyRelevantsService) confirmItem(
	ctx context.Context,
	aiItem AIRelevantItem,
) *WeeklyRelevantItem {
	log := s.log.Function("confirmItem")

	result, err := s.tmdb.SearchByTitleAndYear(ctx, aiItem.Title, aiItem.Year, aiItem.MediaKind)
	if err != nil || result == nil {
		log.Warn("no catalog match, dropping item", "title", aiItem.Title, "year", aiItem.Year)
		return nil
	}

	details, err := s.tmdb.GetDetails(ctx, result.ID, MediaKind(result.MediaType))
	if err != nil {
		log.Warn("detail fetch failed, dropping item", "title", aiItem.Title, "error", err)
		return nil
	}

	genre := "Indefinido"
	if len(details.Genres) > 0 {
		genre = details.Genres[0].Name
	}
	synopsis := details.Overview
	if synopsis == "" {
		synopsis = "Sinopse não disponível."
	}

	item := &WeeklyRelevantItem{
		ID:        details.ID,
		MediaKind: MediaKind(result.MediaType),
		Title:     details.DisplayTitle(),
		Genre:     genre,
		Synopsis:  synopsis,
		Reason:    aiItem.Reason,
	}
	if poster := PosterURL(details.PosterPath); poster != nil {
		item.PosterURL = *poster
	}
	return item
}

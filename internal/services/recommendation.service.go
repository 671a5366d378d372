package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"cinegenio/internal/database"
	. "cinegenio/internal/models"
	"cinegenio/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

// UnresolvableRecommendationError surfaces an AI suggestion the catalog
// could not confirm. The message names the AI's original title so the user
// understands the suggestion was hallucinated, not that the system broke.
type UnresolvableRecommendationError struct {
	Title string
}

func (e *UnresolvableRecommendationError) Error() string {
	return fmt.Sprintf(
		"A IA sugeriu %q, mas não foi encontrado um resultado preciso no TMDb.", e.Title)
}

// SuggestionFilters narrows a personalized suggestion request.
type SuggestionFilters struct {
	Category string   `json:"category"`
	Genres   []string `json:"genres"`
	Keywords string   `json:"keywords"`
}

type RecommendationService struct {
	db    database.DB
	repos repositories.Repository
	ai    *AIGatewayService
	tmdb  *TMDBService
	log   logger.Logger
}

func NewRecommendationService(
	db database.DB,
	repos repositories.Repository,
	ai *AIGatewayService,
	tmdb *TMDBService,
) *RecommendationService {
	return &RecommendationService{
		db:    db,
		repos: repos,
		ai:    ai,
		tmdb:  tmdb,
		log:   logger.New("RecommendationService"),
	}
}

func (s *RecommendationService) tasteProfile(ctx context.Context) (TasteProfile, error) {
	items, err := s.repos.Watched.GetAll(ctx, s.db.SQL)
	if err != nil {
		return TasteProfile{}, err
	}
	return BuildTasteProfile(items), nil
}

// RandomSuggestion asks the AI for one surprise pick and resolves it
// against the catalog. sessionExclude carries titles already suggested in
// this browsing session so repeated rolls stay fresh.
func (s *RecommendationService) RandomSuggestion(
	ctx context.Context,
	sessionExclude []string,
) (*Recommendation, error) {
	profile, err := s.tasteProfile(ctx)
	if err != nil {
		return nil, err
	}
	formatted := FormatTasteProfile(profile)

	prompt := fmt.Sprintf(`Você é o "CineGênio Pessoal", um especialista em cinema. Analise o perfil de gosto do usuário e forneça UMA recomendação de filme ou série que ele provavelmente não conhece.

**REGRA MAIS IMPORTANTE: NÃO INVENTE FILMES OU SÉRIES. Todos os títulos sugeridos devem existir de verdade e serem encontrados em bases de dados como o TMDb.**

**LISTA DE EXCLUSÃO (NÃO SUGERIR NENHUM DESTES):**
%s
%s

**PERFIL DO USUÁRIO (Use como inspiração):**
%s`, formatted, strings.Join(sessionExclude, "\n"), formatted)

	aiData, err := s.ai.Recommendation(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, aiData)
}

// PersonalizedSuggestion is RandomSuggestion constrained by user filters.
func (s *RecommendationService) PersonalizedSuggestion(
	ctx context.Context,
	filters SuggestionFilters,
	sessionExclude []string,
) (*Recommendation, error) {
	profile, err := s.tasteProfile(ctx)
	if err != nil {
		return nil, err
	}
	formatted := FormatTasteProfile(profile)

	category := filters.Category
	if category == "" {
		category = "Qualquer"
	}
	genres := strings.Join(filters.Genres, ", ")
	if genres == "" {
		genres = "Qualquer"
	}
	keywords := filters.Keywords
	if keywords == "" {
		keywords = "Nenhuma"
	}

	prompt := fmt.Sprintf(`Você é o "CineGênio Pessoal", um especialista em cinema. Encontre a recomendação PERFEITA que se encaixe nos filtros do usuário.

**REGRA MAIS IMPORTANTE: NÃO INVENTE FILMES OU SÉRIES. Todos os títulos sugeridos devem existir de verdade e serem encontrados em bases de dados como o TMDb.**

**LISTA DE EXCLUSÃO (NÃO SUGERIR NENHUM DESTES):**
%s
%s

**FILTROS DO USUÁRIO (Prioridade máxima):**
- Categoria: %s
- Gêneros: %s
- Palavras-chave: %s

**PERFIL DO USUÁRIO (Use como inspiração):**
%s`, formatted, strings.Join(sessionExclude, "\n"), category, genres, keywords, formatted)

	aiData, err := s.ai.Recommendation(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, aiData)
}

// resolve reconciles a raw AI suggestion with the catalog: strip the year
// suffix, tier-1 exact search, tier-2 broad fallback, then detail fetch.
// Catalog-authored fields win over AI-authored ones; the AI keeps analysis,
// probabilities and a synopsis fallback.
func (s *RecommendationService) resolve(
	ctx context.Context,
	aiData *AIRecommendation,
) (*Recommendation, error) {
	log := s.log.Function("resolve")

	bareTitle := StripYearSuffix(aiData.Title)
	year := ParseYearSuffix(aiData.Title, time.Now())

	result, err := s.tmdb.SearchByTitleAndYear(ctx, bareTitle, year, aiData.MediaKind)
	if err != nil {
		return nil, err
	}

	if result == nil {
		log.Warn("exact search missed, falling back to broad search", "title", aiData.Title)
		generic, err := s.tmdb.SearchMulti(ctx, bareTitle)
		if err != nil {
			return nil, err
		}
		if len(generic) > 0 {
			result = &generic[0]
		}
	}

	if result == nil {
		return nil, &UnresolvableRecommendationError{Title: aiData.Title}
	}

	details, err := s.tmdb.GetDetails(ctx, result.ID, MediaKind(result.MediaType))
	if err != nil {
		return nil, err
	}

	synopsis := details.Overview
	if synopsis == "" {
		synopsis = aiData.Synopsis
	}
	genre := "Indefinido"
	if len(details.Genres) > 0 {
		genre = details.Genres[0].Name
	}

	recommendation := &Recommendation{
		ID:            details.ID,
		MediaKind:     details.MediaType,
		Title:         details.TitleWithYear(),
		Category:      CategoryForKind(details.MediaType),
		Genre:         genre,
		Synopsis:      synopsis,
		Probabilities: aiData.Probabilities,
		Analysis:      aiData.Analysis,
	}
	if poster := PosterURL(details.PosterPath); poster != nil {
		recommendation.PosterURL = *poster
	}
	return recommendation, nil
}

// Prediction analyzes one known catalog entry against the taste profile.
// Details come first so the prompt names the canonical title.
func (s *RecommendationService) Prediction(
	ctx context.Context,
	id int,
	kind MediaKind,
) (*Recommendation, error) {
	details, err := s.tmdb.GetDetails(ctx, id, kind)
	if err != nil {
		return nil, err
	}
	title := details.DisplayTitle()

	profile, err := s.tasteProfile(ctx)
	if err != nil {
		return nil, err
	}
	formatted := FormatTasteProfile(profile)

	prompt := fmt.Sprintf(`Você é o "CineGênio Pessoal". Sua tarefa é analisar o título "%s" e prever se o usuário vai gostar, com base no perfil de gosto dele. Use a busca na internet para encontrar informações sobre "%s" (gênero, enredo, temas).

**PERFIL DO USUÁRIO:**
%s

**Sua Tarefa:**
Analise "%s" e gere uma resposta completa no formato JSON, seguindo o schema, com probabilidades de gosto e uma análise detalhada.`, title, title, formatted, title)

	aiData, err := s.ai.Recommendation(ctx, prompt)
	if err != nil {
		return nil, err
	}

	recommendation := &Recommendation{
		ID:            details.ID,
		MediaKind:     details.MediaType,
		Title:         title,
		Category:      aiData.Category,
		Genre:         aiData.Genre,
		Synopsis:      aiData.Synopsis,
		Probabilities: aiData.Probabilities,
		Analysis:      aiData.Analysis,
	}
	if poster := PosterURL(details.PosterPath); poster != nil {
		recommendation.PosterURL = *poster
	}
	return recommendation, nil
}

// LoveProbability predicts how likely the user is to love a title, 0-100.
func (s *RecommendationService) LoveProbability(ctx context.Context, title string) (int, error) {
	profile, err := s.tasteProfile(ctx)
	if err != nil {
		return 0, err
	}
	formatted := FormatTasteProfile(profile)

	prompt := fmt.Sprintf(`Você é o "CineGênio Pessoal". Analise o título "%s" e preveja a probabilidade (0-100) de o usuário AMAR este título, com base no perfil de gosto dele. Retorne APENAS a probabilidade.

**PERFIL DO USUÁRIO:**
%s`, title, formatted)

	return s.ai.LoveProbability(ctx, prompt)
}

// Duel compares two known catalog entries. Detail fetches run concurrently,
// as do the best-effort poster lookups for the AI-returned titles. A poster
// miss leaves the side without art, never fails the duel.
func (s *RecommendationService) Duel(
	ctx context.Context,
	id1 int,
	kind1 MediaKind,
	id2 int,
	kind2 MediaKind,
) (*DuelResult, error) {
	var (
		wg                 sync.WaitGroup
		details1, details2 *TMDBDetails
		err1, err2         error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		details1, err1 = s.tmdb.GetDetails(ctx, id1, kind1)
	}()
	go func() {
		defer wg.Done()
		details2, err2 = s.tmdb.GetDetails(ctx, id2, kind2)
	}()
	wg.Wait()

	if err1 != nil {
		return nil, err1
	}
	if err2 != nil {
		return nil, err2
	}

	profile, err := s.tasteProfile(ctx)
	if err != nil {
		return nil, err
	}
	formatted := FormatTasteProfile(profile)

	prompt := fmt.Sprintf(`Você é o "CineGênio Pessoal". Sua tarefa é analisar um confronto entre dois títulos: "%s" e "%s". Compare ambos com o perfil de gosto do usuário e determine qual ele provavelmente preferiria. Use a busca na internet para encontrar informações sobre ambos os títulos.

**PERFIL DO USUÁRIO:**
%s`, details1.DisplayTitle(), details2.DisplayTitle(), formatted)

	result, err := s.ai.DuelAnalysis(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var poster1, poster2 *string
	wg.Add(2)
	go func() {
		defer wg.Done()
		poster1 = s.tmdb.BestEffortPosterURL(ctx, result.Title1.Title)
	}()
	go func() {
		defer wg.Done()
		poster2 = s.tmdb.BestEffortPosterURL(ctx, result.Title2.Title)
	}()
	wg.Wait()

	if poster1 != nil {
		result.Title1.PosterURL = *poster1
	}
	if poster2 != nil {
		result.Title2.PosterURL = *poster2
	}
	return result, nil
}

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

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const CHAT_TITLE_SOURCE_MESSAGES = 4

// ChatService orchestrates conversation turns: it assembles the full user
// context (taste profile, watchlist, both radars, challenge, weekly
// relevants) into the prompt, validates the tagged-union reply at the
// gateway boundary and enriches structured branches against the catalog.
type ChatService struct {
	db    database.DB
	repos repositories.Repository
	tmdb  *TMDBService
	ai    *AIGatewayService
	log   logger.Logger
}

func NewChatService(
	db database.DB,
	repos repositories.Repository,
	tmdb *TMDBService,
	ai *AIGatewayService,
) *ChatService {
	return &ChatService{
		db:    db,
		repos: repos,
		tmdb:  tmdb,
		ai:    ai,
		log:   logger.New("ChatService"),
	}
}

// SendMessage runs one conversation turn and persists the exchange. A nil
// sessionID starts a new session; its title is generated from the first
// exchange.
func (s *ChatService) SendMessage(
	ctx context.Context,
	sessionID *uuid.UUID,
	message string,
) (*ChatSession, error) {
	log := s.log.Function("SendMessage")

	var session *ChatSession
	var history []ChatMessage
	if sessionID != nil {
		existing, err := s.repos.Chat.GetByID(ctx, s.db.SQL, *sessionID)
		if err != nil {
			return nil, err
		}
		session = existing
		history, err = session.DecodeMessages()
		if err != nil {
			return nil, log.Err("failed to decode session transcript", err, "id", *sessionID)
		}
	}

	prompt, err := s.buildPrompt(ctx, history, message)
	if err != nil {
		return nil, err
	}

	response, err := s.ai.ChatTurn(ctx, prompt)
	if err != nil {
		return nil, err
	}

	answer := s.enrich(ctx, response)
	messages := append(history,
		ChatMessage{Role: ChatRoleUser, Text: message},
		answer,
	)

	if session == nil {
		session = &ChatSession{}
		session.Title = s.generateTitle(ctx, messages)
	}
	if err := session.EncodeMessages(messages); err != nil {
		return nil, log.Err("failed to encode session transcript", err)
	}

	if sessionID == nil {
		if err := s.repos.Chat.Create(ctx, s.db.SQL, session); err != nil {
			return nil, err
		}
	} else {
		if err := s.repos.Chat.Update(ctx, s.db.SQL, session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// buildPrompt assembles the full context block. Missing sections (no
// challenge this week, empty radar) render their textual placeholders
// instead of failing the turn.
func (s *ChatService) buildPrompt(
	ctx context.Context,
	history []ChatMessage,
	message string,
) (string, error) {
	watched, err := s.repos.Watched.GetAll(ctx, s.db.SQL)
	if err != nil {
		return "", err
	}
	tasteProfile := FormatTasteProfile(BuildTasteProfile(watched))

	watchlist, err := s.repos.Watchlist.GetAll(ctx, s.db.SQL)
	if err != nil {
		return "", err
	}
	watchlistText := "Nenhuma"
	if len(watchlist) > 0 {
		lines := make([]string, 0, len(watchlist))
		for _, item := range watchlist {
			lines = append(lines, fmt.Sprintf("- %s (ID: %d)", item.Title, item.ID))
		}
		watchlistText = strings.Join(lines, "\n")
	}

	challengeText := "Nenhum desafio ativo"
	challenge, err := s.repos.Challenge.GetByWeekID(ctx, s.db.SQL, WeekID(time.Now()))
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", err
	}
	if challenge != nil {
		steps, decodeErr := challenge.DecodeSteps()
		if decodeErr == nil {
			lines := make([]string, 0, len(steps))
			for _, step := range steps {
				lines = append(lines, fmt.Sprintf("- %s (ID: %d)", step.Title, step.TMDBID))
			}
			challengeText = fmt.Sprintf("Desafio %q: %s\nItens do desafio:\n%s",
				challenge.Theme, challenge.Reason, strings.Join(lines, "\n"))
		}
	}

	relevantsText := "Nenhuma lista de relevantes encontrada"
	relevants, err := s.repos.WeeklyRelevants.Get(ctx, s.db.SQL)
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", err
	}
	if relevants != nil {
		if categories, decodeErr := relevants.DecodeCategories(); decodeErr == nil {
			sections := make([]string, 0, len(categories))
			for _, category := range categories {
				lines := make([]string, 0, len(category.Items))
				for _, item := range category.Items {
					lines = append(lines, fmt.Sprintf("- %s (ID: %d)", item.Title, item.ID))
				}
				sections = append(sections, fmt.Sprintf("Categoria %q:\n%s",
					category.CategoryTitle, strings.Join(lines, "\n")))
			}
			if len(sections) > 0 {
				relevantsText = strings.Join(sections, "\n\n")
			}
		}
	}

	generalRadar, err := s.repos.Radar.GetByFlavor(ctx, s.db.SQL, RadarGeneral)
	if err != nil {
		return "", err
	}
	generalRadarText := "Nenhum item no radar geral."
	if len(generalRadar) > 0 {
		lines := make([]string, 0, len(generalRadar))
		for _, item := range generalRadar {
			lines = append(lines, fmt.Sprintf("- %s (%s)", item.Title, item.ListType))
		}
		generalRadarText = strings.Join(lines, "\n")
	}

	relevantRadar, err := s.repos.Radar.GetByFlavor(ctx, s.db.SQL, RadarRelevant)
	if err != nil {
		return "", err
	}
	relevantRadarText := "Nenhum item no radar personalizado."
	if len(relevantRadar) > 0 {
		lines := make([]string, 0, len(relevantRadar))
		for _, item := range relevantRadar {
			lines = append(lines, fmt.Sprintf("- %s (Motivo: %s)", item.Title, item.Reason))
		}
		relevantRadarText = strings.Join(lines, "\n")
	}

	historyLines := make([]string, 0, len(history))
	for _, msg := range history {
		historyLines = append(historyLines, fmt.Sprintf("%s: %s", msg.Role, msg.Text))
	}

	return fmt.Sprintf(`Você é o CineGênio, um assistente especialista.
Analise o contexto e o histórico para responder à última mensagem do usuário.
Sempre retorne no formato JSON definido. Decida o 'type' da resposta ('text', 'recommendation', 'list') com base na intenção.
**REGRA CRÍTICA:** Se o usuário pedir para listar itens de uma seção específica (ex: "quais os filmes do desafio?"), sua resposta DEVE ser do tipo 'list' e o campo 'data.list' DEVE conter os itens EXATOS daquela seção, usando os IDs fornecidos no contexto. NÃO invente itens.
**REGRA DE DUELO:** Se a mensagem do usuário for uma comparação ou duelo entre dois ou mais títulos, retorne sua resposta como type: 'recommendation', focando a análise e o 'title' no título vencedor.

### CONTEXTO DO USUÁRIO ###
# PERFIL DE GOSTO:
%s
# ITENS NA WATCHLIST:
%s
# DESAFIO DA SEMANA ATUAL:
%s
# RELEVANTES DESTA SEMANA:
%s
# RADAR - TENDÊNCIAS E TOP 10s:
%s
# RADAR - RELEVANTE PARA VOCÊ (IA):
%s

### HISTÓRICO DA CONVERSA RECENTE ###
%s

### MENSAGEM ATUAL DO USUÁRIO ###
user: %s`,
		tasteProfile, watchlistText, challengeText, relevantsText,
		generalRadarText, relevantRadarText,
		strings.Join(historyLines, "\n"), message), nil
}

// enrich grounds a structured reply against the catalog: a recommendation
// gains its id and poster via the tier-1 search, list items gain canonical
// titles and posters from detail lookups. Catalog misses are tolerated.
func (s *ChatService) enrich(ctx context.Context, response *AIChatResponse) ChatMessage {
	log := s.log.Function("enrich")

	answer := ChatMessage{Role: ChatRoleModel, Text: response.Data.Text}

	switch response.Type {
	case ChatResponseRecommendation:
		rec := response.Data.Recommendation
		recommendation := &Recommendation{
			ID:            rec.ID,
			MediaKind:     rec.MediaKind,
			Title:         rec.Title,
			Category:      rec.Category,
			Genre:         rec.Genre,
			Synopsis:      rec.Synopsis,
			Probabilities: rec.Probabilities,
			Analysis:      rec.Analysis,
		}
		if rec.Title != "" && rec.Year != 0 && rec.MediaKind.Valid() {
			result, err := s.tmdb.SearchByTitleAndYear(ctx, rec.Title, rec.Year, rec.MediaKind)
			if err == nil && result != nil {
				recommendation.ID = result.ID
				if poster := PosterURL(result.PosterPath); poster != nil {
					recommendation.PosterURL = *poster
				}
			} else {
				log.Warn("no catalog match for chat recommendation",
					"title", rec.Title, "year", rec.Year)
			}
		}
		answer.Recommendation = recommendation
		answer.Text = rec.Analysis

	case ChatResponseList:
		items := make([]ChatListItem, 0, len(response.Data.List))
		for _, aiItem := range response.Data.List {
			item := ChatListItem{
				ID:        aiItem.ID,
				MediaKind: aiItem.MediaKind,
				Title:     aiItem.Title,
			}
			if aiItem.ID != 0 && aiItem.MediaKind.Valid() {
				if details, err := s.tmdb.GetDetails(ctx, aiItem.ID, aiItem.MediaKind); err == nil {
					item.Title = details.DisplayTitle()
				}
			}
			items = append(items, item)
		}
		answer.List = items
	}
	return answer
}

// generateTitle asks the AI for a short session title from the opening
// exchange, falling back to a fixed label when the call fails.
func (s *ChatService) generateTitle(ctx context.Context, messages []ChatMessage) string {
	log := s.log.Function("generateTitle")

	texts := make([]string, 0, CHAT_TITLE_SOURCE_MESSAGES)
	for i, msg := range messages {
		if i >= CHAT_TITLE_SOURCE_MESSAGES {
			break
		}
		texts = append(texts, msg.Text)
	}

	prompt := fmt.Sprintf(
		"Gere um título curto e objetivo (máximo 5 palavras) para a seguinte conversa:\n\n---\n%s\n---",
		strings.Join(texts, "\n"))

	title, err := s.ai.ChatTitle(ctx, prompt)
	if err != nil {
		log.Warn("chat title generation failed, using fallback", "error", err)
		return "Novo Chat"
	}
	return title
}

func (s *ChatService) ListSessions(ctx context.Context) ([]ChatSession, error) {
	return s.repos.Chat.List(ctx, s.db.SQL)
}

func (s *ChatService) GetSession(ctx context.Context, id uuid.UUID) (*ChatSession, error) {
	return s.repos.Chat.GetByID(ctx, s.db.SQL, id)
}

func (s *ChatService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return s.repos.Chat.Delete(ctx, s.db.SQL, id)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinegenio/config"
	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Every provider call runs under this ceiling. The AI is the slowest and
// least predictable dependency; a hung vendor SDK must not hang a request
// forever. Malformed output is a hard error with no client-side retry.
const AI_CALL_TIMEOUT = 90 * time.Second

// ErrMalformedAIOutput marks structured output the provider returned but
// that failed boundary validation. Handlers map it to 502.
var ErrMalformedAIOutput = errors.New("ai returned malformed structured output")

// AIRecommendation is the raw recommendation payload before catalog
// resolution. Title may carry a "(YYYY)" suffix; Year is set only by the
// chat flow, whose schema asks for it separately.
type AIRecommendation struct {
	ID            int           `json:"id"`
	MediaKind     MediaKind     `json:"tmdbMediaType"`
	AltMediaKind  MediaKind     `json:"media_type,omitempty"`
	Title         string        `json:"title"`
	Year          int           `json:"year,omitempty"`
	Category      Category      `json:"type"`
	Genre         string        `json:"genre"`
	Synopsis      string        `json:"synopsis"`
	Probabilities Probabilities `json:"probabilities"`
	Analysis      string        `json:"analysis"`
}

// NormalizeKind folds the chat schema's media_type key into MediaKind.
// The two schemas name the discriminator differently and models sometimes
// answer with either one.
func (r *AIRecommendation) NormalizeKind() {
	if r.MediaKind == "" && r.AltMediaKind != "" {
		r.MediaKind = r.AltMediaKind
		r.AltMediaKind = ""
	}
}

type AIRelevantItem struct {
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	MediaKind MediaKind `json:"media_type"`
	Reason    string    `json:"reason"`
}

type AIRelevantCategory struct {
	CategoryTitle string           `json:"categoryTitle"`
	Items         []AIRelevantItem `json:"items"`
}

type AIWeeklyRelevants struct {
	Categories []AIRelevantCategory `json:"categories"`
}

type AIRadarRelease struct {
	ID        int       `json:"id"`
	MediaKind MediaKind `json:"tmdbMediaType"`
	Title     string    `json:"title"`
	Reason    string    `json:"reason"`
}

type AIPersonalizedRadar struct {
	Releases []AIRadarRelease `json:"releases"`
}

type AIChallengeStep struct {
	Title     string    `json:"title"`
	TMDBID    int       `json:"tmdbId"`
	MediaKind MediaKind `json:"tmdbMediaType"`
}

type AIChallengeIdea struct {
	Theme  string            `json:"challengeType"`
	Reason string            `json:"reason"`
	Steps  []AIChallengeStep `json:"steps"`
}

type AIChatResponseType string

const (
	ChatResponseText           AIChatResponseType = "text"
	ChatResponseRecommendation AIChatResponseType = "recommendation"
	ChatResponseList           AIChatResponseType = "list"
)

type AIChatListItem struct {
	ID        int       `json:"id"`
	MediaKind MediaKind `json:"tmdbMediaType"`
	Title     string    `json:"title"`
}

// AIChatResponse is the tagged union a chat turn produces. Exactly the
// branch named by Type is populated; Validate enforces that at the
// boundary so loosely shaped payloads never leak past the gateway.
type AIChatResponse struct {
	Type AIChatResponseType `json:"type"`
	Data struct {
		Text           string            `json:"text,omitempty"`
		Recommendation *AIRecommendation `json:"recommendation,omitempty"`
		List           []AIChatListItem  `json:"list,omitempty"`
	} `json:"data"`
}

// AIProvider is the strategy interface every vendor implements. One
// provider is selected at startup from config and injected everywhere;
// the selection is process-wide, never per call. With no credentials
// configured each operation returns a deterministic placeholder of the
// correct shape without touching the network.
type AIProvider interface {
	Name() string
	Recommendation(ctx context.Context, prompt string) (*AIRecommendation, error)
	DuelAnalysis(ctx context.Context, prompt string) (*DuelResult, error)
	WeeklyRelevants(ctx context.Context, prompt string) (*AIWeeklyRelevants, error)
	PersonalizedRadar(ctx context.Context, prompt string) (*AIPersonalizedRadar, error)
	LoveProbability(ctx context.Context, prompt string) (int, error)
	WeeklyChallenge(ctx context.Context, prompt string) (*AIChallengeIdea, error)
	ChatTurn(ctx context.Context, prompt string) (*AIChatResponse, error)
	ChatTitle(ctx context.Context, prompt string) (string, error)
}

// NewAIProvider selects the vendor implementation once, at startup.
func NewAIProvider(config config.Config) (AIProvider, error) {
	switch config.AIProvider {
	case "gemini":
		return newGeminiProvider(config)
	case "openai":
		return newOpenAIProvider(config), nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %s", config.AIProvider)
	}
}

// AIGatewayService wraps the selected provider with the call timeout. All
// orchestration code talks to the gateway, never to a provider directly.
type AIGatewayService struct {
	provider AIProvider
	log      logger.Logger
}

func NewAIGatewayService(provider AIProvider) *AIGatewayService {
	return &AIGatewayService{
		provider: provider,
		log:      logger.New("AIGatewayService"),
	}
}

func (g *AIGatewayService) ProviderName() string {
	return g.provider.Name()
}

func (g *AIGatewayService) Recommendation(
	ctx context.Context,
	prompt string,
) (*AIRecommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, AI_CALL_TIMEOUT)
	defer cancel()
	return g.provider.Recommendation(ctx, prompt)
}

func (g *AIGatewayService) DuelAnalysis(ctx context.Context, prompt string) (*DuelResult, error) {
	ctx, cancel := context.WithTimeout(ctx, AI_CALL_TIMEOUT)
	defer cancel()
	return g.provider.DuelAnalysis(ctx, prompt)
}

func (g *AIGatewayService) WeeklyRelevants(
	ctx context.Context,
	prompt string,
) (*AIWeeklyRelevants, error) {
	ctx, cancel := context.WithTimeout(ctx, AI_CALL_TIMEOUT)
	defer cancel()
	return g.provider.WeeklyRelevants(ctx, prompt)
}

func (g *AIGatewayService) PersonalizedRadar(
	ctx context.Context,
	prompt string,
) (*AIPersonalizedRadar, error) {
	ctx, cancel := context.WithTimeout(ctx, AI_CALL_TIMEOUT)
	defer cancel()
	return g.provider.PersonalizedRadar(ctx, prompt)
}

func (g *AIGatewayService) LoveProbability(ctx context.Context, prompt string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, AI_CALL_TIMEOUT)
	defer cancel()
	return g.provider.LoveProbability(ctx, prompt)
}

func (g *AIGatewayService) WeeklyChallenge(
	ctx context.Context,
	prompt string,
) (*AIChallengeIdea, error) {
	ctx, cancel := context.WithTimeout(ctx, AI_CALL_TIMEOUT)
	defer cancel()
	return g.provider.WeeklyChallenge(ctx, prompt)
}

func (g *AIGatewayService) ChatTurn(ctx context.Context, prompt string) (*AIChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, AI_CALL_TIMEOUT)
	defer cancel()
	return g.provider.ChatTurn(ctx, prompt)
}

func (g *AIGatewayService) ChatTitle(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, AI_CALL_TIMEOUT)
	defer cancel()
	return g.provider.ChatTitle(ctx, prompt)
}

// --- boundary validation, shared by both providers ---

func (r *AIRecommendation) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: recommendation missing title", ErrMalformedAIOutput)
	}
	if !r.MediaKind.Valid() {
		return fmt.Errorf("%w: recommendation has invalid media kind %q",
			ErrMalformedAIOutput, r.MediaKind)
	}
	if !validProbability(r.Probabilities.Loved) ||
		!validProbability(r.Probabilities.Liked) ||
		!validProbability(r.Probabilities.Neutral) ||
		!validProbability(r.Probabilities.Disliked) {
		return fmt.Errorf("%w: recommendation probabilities out of range", ErrMalformedAIOutput)
	}
	return nil
}

func validateDuel(result *DuelResult) error {
	if result.Title1.Title == "" || result.Title2.Title == "" {
		return fmt.Errorf("%w: duel side missing title", ErrMalformedAIOutput)
	}
	if !validProbability(result.Title1.Probability) ||
		!validProbability(result.Title2.Probability) {
		return fmt.Errorf("%w: duel probability out of range", ErrMalformedAIOutput)
	}
	return nil
}

func (w *AIWeeklyRelevants) Validate() error {
	for _, category := range w.Categories {
		if category.CategoryTitle == "" {
			return fmt.Errorf("%w: relevants category missing title", ErrMalformedAIOutput)
		}
		for _, item := range category.Items {
			if item.Title == "" || !item.MediaKind.Valid() {
				return fmt.Errorf("%w: relevants item %q invalid",
					ErrMalformedAIOutput, item.Title)
			}
		}
	}
	return nil
}

func (p *AIPersonalizedRadar) Validate() error {
	for _, release := range p.Releases {
		if release.ID == 0 || !release.MediaKind.Valid() {
			return fmt.Errorf("%w: radar release %q invalid",
				ErrMalformedAIOutput, release.Title)
		}
	}
	return nil
}

func (c *AIChallengeIdea) Validate() error {
	if c.Theme == "" {
		return fmt.Errorf("%w: challenge missing theme", ErrMalformedAIOutput)
	}
	for _, step := range c.Steps {
		if step.TMDBID == 0 || !step.MediaKind.Valid() {
			return fmt.Errorf("%w: challenge step %q invalid",
				ErrMalformedAIOutput, step.Title)
		}
	}
	return nil
}

func (c *AIChatResponse) Validate() error {
	switch c.Type {
	case ChatResponseText:
		if c.Data.Text == "" {
			return fmt.Errorf("%w: chat text response without text", ErrMalformedAIOutput)
		}
	case ChatResponseRecommendation:
		if c.Data.Recommendation == nil {
			return fmt.Errorf("%w: chat recommendation response without payload",
				ErrMalformedAIOutput)
		}
		if c.Data.Recommendation.Title == "" {
			return fmt.Errorf("%w: chat recommendation missing title", ErrMalformedAIOutput)
		}
	case ChatResponseList:
		if len(c.Data.List) == 0 {
			return fmt.Errorf("%w: chat list response without items", ErrMalformedAIOutput)
		}
	default:
		return fmt.Errorf("%w: unknown chat response type %q", ErrMalformedAIOutput, c.Type)
	}
	return nil
}

func validProbability(value int) bool {
	return value >= 0 && value <= 100
}

// --- credential-free placeholders ---
// Deterministic values of the correct shape so the rest of the system is
// exercisable offline. Never a network call.

const (
	mockLoveProbability = 85
	mockChatTitle       = "Nova Conversa"
)

func mockRecommendation(label string) *AIRecommendation {
	return &AIRecommendation{
		ID:        129,
		MediaKind: MediaKindMovie,
		Title:     label + ": A Viagem de Chihiro (2001)",
		Category:  CategoryAnime,
		Genre:     "Animação/Fantasia",
		Synopsis:  "Sinopse de exemplo gerada sem credenciais de IA.",
		Probabilities: Probabilities{
			Loved:    85,
			Liked:    10,
			Neutral:  4,
			Disliked: 1,
		},
		Analysis: "Análise de exemplo gerada sem credenciais de IA.",
	}
}

func mockDuelResult() *DuelResult {
	return &DuelResult{
		Title1:  DuelSide{Title: "Mock 1", Analysis: "Análise 1", Probability: 80},
		Title2:  DuelSide{Title: "Mock 2", Analysis: "Análise 2", Probability: 70},
		Verdict: "Veredito de exemplo gerado sem credenciais de IA.",
	}
}

func mockChallengeIdea(label string) *AIChallengeIdea {
	return &AIChallengeIdea{
		Theme:  "Maratona Clássicos do Terror (" + label + ")",
		Reason: "Desafio de exemplo gerado sem credenciais de IA.",
		Steps: []AIChallengeStep{
			{Title: "O Exorcista (1973)", TMDBID: 9552, MediaKind: MediaKindMovie},
			{Title: "O Iluminado (1980)", TMDBID: 694, MediaKind: MediaKindMovie},
			{Title: "Psicose (1960)", TMDBID: 539, MediaKind: MediaKindMovie},
		},
	}
}

func mockChatResponse(label string) *AIChatResponse {
	response := &AIChatResponse{Type: ChatResponseText}
	response.Data.Text = "Resposta de exemplo (" + label + "): a chave da API de IA não está configurada."
	return response
}

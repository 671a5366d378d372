package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cinegenio/config"
	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	geminiProModel   = "gemini-2.5-pro"
	geminiFlashModel = "gemini-2.5-flash"
)

// geminiProvider implements AIProvider over the Google genai SDK, forcing
// JSON output via the response MIME type plus a per-operation schema
// instruction. Without an API key every operation answers with a
// deterministic placeholder and never opens a connection.
type geminiProvider struct {
	client *genai.Client
	apiKey string
	log    logger.Logger
}

func newGeminiProvider(config config.Config) (*geminiProvider, error) {
	log := logger.New("geminiProvider")

	provider := &geminiProvider{
		apiKey: config.GeminiAPIKey,
		log:    log,
	}

	if config.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not set, gemini provider will serve placeholder responses")
		return provider, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(config.GeminiAPIKey))
	if err != nil {
		return nil, log.Err("failed to create gemini client", err)
	}
	provider.client = client
	return provider, nil
}

func (p *geminiProvider) Name() string {
	return "gemini"
}

func (p *geminiProvider) offline() bool {
	return p.client == nil
}

// generateJSON runs one JSON-mode completion and decodes the reply into out.
func (p *geminiProvider) generateJSON(
	ctx context.Context,
	modelName, schemaInstruction, prompt string,
	out any,
) error {
	log := p.log.Function("generateJSON")

	model := p.client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(schemaInstruction)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return log.Err("gemini generation failed", err, "model", modelName)
	}

	raw, err := firstTextPart(resp)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedAIOutput, err.Error())
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Er("gemini returned undecodable json", err, "model", modelName)
		return fmt.Errorf("%w: %s", ErrMalformedAIOutput, err.Error())
	}
	return nil
}

func firstTextPart(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty gemini response")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text), nil
		}
	}
	return "", fmt.Errorf("gemini response carries no text part")
}

func (p *geminiProvider) Recommendation(
	ctx context.Context,
	prompt string,
) (*AIRecommendation, error) {
	if p.offline() {
		return mockRecommendation("Mock Gemini"), nil
	}

	var result AIRecommendation
	schema := `Responda APENAS com um objeto JSON com a estrutura: { "id": number, "tmdbMediaType": "movie"|"tv", "title": string, "type": "Filme"|"Série"|"Anime"|"Programa", "genre": string, "synopsis": string, "probabilities": { "amei": number, "gostei": number, "meh": number, "naoGostei": number }, "analysis": string }`
	if err := p.generateJSON(ctx, geminiFlashModel, schema, prompt, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *geminiProvider) DuelAnalysis(ctx context.Context, prompt string) (*DuelResult, error) {
	if p.offline() {
		return mockDuelResult(), nil
	}

	var result DuelResult
	schema := `Responda APENAS com um objeto JSON com a estrutura: { "title1": { "title": string, "analysis": string, "probability": number }, "title2": { "title": string, "analysis": string, "probability": number }, "verdict": string }`
	if err := p.generateJSON(ctx, geminiFlashModel, schema, prompt, &result); err != nil {
		return nil, err
	}
	if err := validateDuel(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *geminiProvider) WeeklyRelevants(
	ctx context.Context,
	prompt string,
) (*AIWeeklyRelevants, error) {
	if p.offline() {
		return &AIWeeklyRelevants{Categories: []AIRelevantCategory{}}, nil
	}

	var result AIWeeklyRelevants
	schema := `Responda APENAS com um objeto JSON com a estrutura: { "categories": [{ "categoryTitle": string, "items": [{ "title": string, "year": number, "media_type": "movie"|"tv", "reason": string }] }] }`
	if err := p.generateJSON(ctx, geminiProModel, schema, prompt, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *geminiProvider) PersonalizedRadar(
	ctx context.Context,
	prompt string,
) (*AIPersonalizedRadar, error) {
	if p.offline() {
		return &AIPersonalizedRadar{Releases: []AIRadarRelease{}}, nil
	}

	var result AIPersonalizedRadar
	schema := `Responda APENAS com um objeto JSON com a estrutura: { "releases": [{ "id": number, "tmdbMediaType": "movie"|"tv", "title": string, "reason": string }] }`
	if err := p.generateJSON(ctx, geminiProModel, schema, prompt, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *geminiProvider) LoveProbability(ctx context.Context, prompt string) (int, error) {
	if p.offline() {
		return mockLoveProbability, nil
	}

	var result struct {
		LoveProbability int `json:"loveProbability"`
	}
	schema := `Responda APENAS com um objeto JSON com a estrutura: { "loveProbability": number }`
	if err := p.generateJSON(ctx, geminiFlashModel, schema, prompt, &result); err != nil {
		return 0, err
	}
	if !validProbability(result.LoveProbability) {
		return 0, fmt.Errorf("%w: love probability out of range", ErrMalformedAIOutput)
	}
	return result.LoveProbability, nil
}

func (p *geminiProvider) WeeklyChallenge(
	ctx context.Context,
	prompt string,
) (*AIChallengeIdea, error) {
	if p.offline() {
		return mockChallengeIdea("Gemini"), nil
	}

	var result AIChallengeIdea
	schema := `Responda APENAS com um objeto JSON com a estrutura: { "challengeType": string, "reason": string, "steps": [{ "title": string, "tmdbId": number, "tmdbMediaType": "movie"|"tv" }] }`
	if err := p.generateJSON(ctx, geminiProModel, schema, prompt, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *geminiProvider) ChatTurn(ctx context.Context, prompt string) (*AIChatResponse, error) {
	if p.offline() {
		return mockChatResponse("Gemini"), nil
	}

	var result AIChatResponse
	schema := `Responda APENAS com um objeto JSON com a estrutura: { "type": "text"|"recommendation"|"list", "data": { "text"?: string, "recommendation"?: { "title": string, "year": number, "media_type": "movie"|"tv", "analysis": string, "synopsis": string, "genre": string, "type": "Filme"|"Série"|"Anime"|"Programa", "probabilities": object }, "list"?: [{ "id": number, "tmdbMediaType": "movie"|"tv", "title": string }] } }`
	if err := p.generateJSON(ctx, geminiProModel, schema, prompt, &result); err != nil {
		return nil, err
	}
	if result.Data.Recommendation != nil {
		result.Data.Recommendation.NormalizeKind()
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *geminiProvider) ChatTitle(ctx context.Context, prompt string) (string, error) {
	if p.offline() {
		return mockChatTitle, nil
	}

	var result struct {
		Title string `json:"title"`
	}
	schema := `Responda APENAS com um objeto JSON com a estrutura: { "title": string }`
	if err := p.generateJSON(ctx, geminiProModel, schema, prompt, &result); err != nil {
		return "", err
	}
	if strings.TrimSpace(result.Title) == "" {
		return "", fmt.Errorf("%w: empty chat title", ErrMalformedAIOutput)
	}
	return result.Title, nil
}

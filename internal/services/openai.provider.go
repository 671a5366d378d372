package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cinegenio/config"
	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/sashabaranov/go-openai"
)

const (
	openaiMiniModel = "gpt-5-mini"
	openaiNanoModel = "gpt-5-nano"
)

// openaiProvider implements AIProvider over the OpenAI chat completions
// API in JSON-object mode. The per-operation system prompt names the
// expected structure since JSON mode alone does not pin a schema.
type openaiProvider struct {
	client *openai.Client
	log    logger.Logger
}

func newOpenAIProvider(config config.Config) *openaiProvider {
	log := logger.New("openaiProvider")

	provider := &openaiProvider{log: log}
	if config.OpenAIAPIKey == "" {
		log.Warn("OPENAI_API_KEY not set, openai provider will serve placeholder responses")
		return provider
	}

	provider.client = openai.NewClient(config.OpenAIAPIKey)
	return provider
}

func (p *openaiProvider) Name() string {
	return "openai"
}

func (p *openaiProvider) offline() bool {
	return p.client == nil
}

func (p *openaiProvider) completeJSON(
	ctx context.Context,
	modelName, systemPrompt, userPrompt string,
	out any,
) error {
	log := p.log.Function("completeJSON")

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return log.Err("openai completion failed", err, "model", modelName)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return fmt.Errorf("%w: openai returned an empty completion", ErrMalformedAIOutput)
	}

	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		log.Er("openai returned undecodable json", err, "model", modelName)
		return fmt.Errorf("%w: %s", ErrMalformedAIOutput, err.Error())
	}
	return nil
}

func (p *openaiProvider) Recommendation(
	ctx context.Context,
	prompt string,
) (*AIRecommendation, error) {
	if p.offline() {
		return mockRecommendation("Mock OpenAI"), nil
	}

	system := `Você é um especialista em cinema e séries. Sua tarefa é gerar uma recomendação. Responda APENAS com um objeto JSON válido com a estrutura: { "id": number, "tmdbMediaType": "movie"|"tv", "title": string, "type": "Filme"|"Série"|"Anime"|"Programa", "genre": string, "synopsis": string, "probabilities": { "amei": number, "gostei": number, "meh": number, "naoGostei": number }, "analysis": string }`
	var result AIRecommendation
	if err := p.completeJSON(ctx, openaiNanoModel, system, prompt, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *openaiProvider) DuelAnalysis(ctx context.Context, prompt string) (*DuelResult, error) {
	if p.offline() {
		return mockDuelResult(), nil
	}

	system := `Você é um crítico de cinema. Analise um duelo entre dois títulos. Responda APENAS com um objeto JSON válido com a estrutura: { "title1": { "title": string, "analysis": string, "probability": number }, "title2": { "title": string, "analysis": string, "probability": number }, "verdict": string }`
	var result DuelResult
	if err := p.completeJSON(ctx, openaiNanoModel, system, prompt, &result); err != nil {
		return nil, err
	}
	if err := validateDuel(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *openaiProvider) WeeklyRelevants(
	ctx context.Context,
	prompt string,
) (*AIWeeklyRelevants, error) {
	if p.offline() {
		return &AIWeeklyRelevants{Categories: []AIRelevantCategory{}}, nil
	}

	system := `Você é um curador de conteúdo. Gere categorias de itens relevantes. Responda APENAS com um objeto JSON válido com a estrutura: { "categories": [{ "categoryTitle": string, "items": [{ "title": string, "year": number, "media_type": "movie"|"tv", "reason": string }] }] }`
	var result AIWeeklyRelevants
	if err := p.completeJSON(ctx, openaiMiniModel, system, prompt, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *openaiProvider) PersonalizedRadar(
	ctx context.Context,
	prompt string,
) (*AIPersonalizedRadar, error) {
	if p.offline() {
		return &AIPersonalizedRadar{Releases: []AIRadarRelease{}}, nil
	}

	system := `Você é um recomendador de conteúdo. Gere uma lista de lançamentos futuros. Responda APENAS com um objeto JSON válido com a estrutura: { "releases": [{ "id": number, "tmdbMediaType": "movie"|"tv", "title": string, "reason": string }] }`
	var result AIPersonalizedRadar
	if err := p.completeJSON(ctx, openaiMiniModel, system, prompt, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *openaiProvider) LoveProbability(ctx context.Context, prompt string) (int, error) {
	if p.offline() {
		return mockLoveProbability, nil
	}

	system := `Analise o título e o perfil do usuário para calcular a probabilidade de ele AMAR o título. A probabilidade deve ser um número inteiro entre 0 e 100. Responda APENAS com um objeto JSON válido com a estrutura: { "loveProbability": number }`
	var result struct {
		LoveProbability int `json:"loveProbability"`
	}
	if err := p.completeJSON(ctx, openaiNanoModel, system, prompt, &result); err != nil {
		return 0, err
	}
	if !validProbability(result.LoveProbability) {
		return 0, fmt.Errorf("%w: love probability out of range", ErrMalformedAIOutput)
	}
	return result.LoveProbability, nil
}

func (p *openaiProvider) WeeklyChallenge(
	ctx context.Context,
	prompt string,
) (*AIChallengeIdea, error) {
	if p.offline() {
		return mockChallengeIdea("OpenAI"), nil
	}

	system := `Você é um criador de desafios. Gere um desafio semanal. Responda APENAS com um objeto JSON válido com a estrutura: { "challengeType": string, "reason": string, "steps": [{ "title": string, "tmdbId": number, "tmdbMediaType": "movie"|"tv" }] }`
	var result AIChallengeIdea
	if err := p.completeJSON(ctx, openaiMiniModel, system, prompt, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *openaiProvider) ChatTurn(ctx context.Context, prompt string) (*AIChatResponse, error) {
	if p.offline() {
		return mockChatResponse("OpenAI"), nil
	}

	system := `Você é o CineGênio. Sua tarefa é responder ao usuário. Analise o contexto e a mensagem e retorne APENAS um objeto JSON válido com a estrutura: { "type": "text"|"recommendation"|"list", "data": { "text"?: string, "recommendation"?: { "title": string, "year": number, "media_type": "movie"|"tv", "analysis": string, "synopsis": string, "genre": string, "type": "Filme"|"Série"|"Anime"|"Programa", "probabilities": object }, "list"?: [{ "id": number, "tmdbMediaType": "movie"|"tv", "title": string }] } }. Se o usuário pedir uma lista de algo que está no contexto (desafio, watchlist), use o tipo "list" e retorne os IDs exatos.`
	var result AIChatResponse
	if err := p.completeJSON(ctx, openaiMiniModel, system, prompt, &result); err != nil {
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

func (p *openaiProvider) ChatTitle(ctx context.Context, prompt string) (string, error) {
	if p.offline() {
		return mockChatTitle, nil
	}

	system := `Gere um título curto e objetivo (máximo 5 palavras) para a conversa. Responda APENAS com um objeto JSON válido com a estrutura: { "title": string }`
	var result struct {
		Title string `json:"title"`
	}
	if err := p.completeJSON(ctx, openaiMiniModel, system, prompt, &result); err != nil {
		return "", err
	}
	if strings.TrimSpace(result.Title) == "" {
		return "", fmt.Errorf("%w: empty chat title", ErrMalformedAIOutput)
	}
	return result.Title, nil
}

package services

import (
	"errors"
	"testing"

	"cinegenio/config"
	. "cinegenio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecommendation() *AIRecommendation {
	return &AIRecommendation{
		ID:        550,
		MediaKind: MediaKindMovie,
		Title:     "Clube da Luta (1999)",
		Category:  CategoryMovie,
		Genre:     "Drama",
		Probabilities: Probabilities{
			Loved:    70,
			Liked:    20,
			Neutral:  7,
			Disliked: 3,
		},
	}
}

func TestAIRecommendationValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AIRecommendation)
		wantErr bool
	}{
		{
			name:   "valid payload passes",
			mutate: func(r *AIRecommendation) {},
		},
		{
			name:    "missing title",
			mutate:  func(r *AIRecommendation) { r.Title = "" },
			wantErr: true,
		},
		{
			name:    "invalid media kind",
			mutate:  func(r *AIRecommendation) { r.MediaKind = "documentary" },
			wantErr: true,
		},
		{
			name:    "probability above 100",
			mutate:  func(r *AIRecommendation) { r.Probabilities.Loved = 101 },
			wantErr: true,
		},
		{
			name:    "negative probability",
			mutate:  func(r *AIRecommendation) { r.Probabilities.Disliked = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecommendation()
			tt.mutate(rec)

			err := rec.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedAIOutput))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAIRecommendationNormalizeKind(t *testing.T) {
	rec := &AIRecommendation{AltMediaKind: MediaKindTV, Title: "Dark"}
	rec.NormalizeKind()
	assert.Equal(t, MediaKindTV, rec.MediaKind)
	assert.Empty(t, rec.AltMediaKind)

	// An explicit primary kind wins over the chat schema key.
	rec = &AIRecommendation{MediaKind: MediaKindMovie, AltMediaKind: MediaKindTV}
	rec.NormalizeKind()
	assert.Equal(t, MediaKindMovie, rec.MediaKind)
}

func TestAIChatResponseValidate(t *testing.T) {
	textResponse := func(text string) *AIChatResponse {
		r := &AIChatResponse{Type: ChatResponseText}
		r.Data.Text = text
		return r
	}

	t.Run("text branch requires text", func(t *testing.T) {
		assert.NoError(t, textResponse("Olá!").Validate())
		assert.ErrorIs(t, textResponse("").Validate(), ErrMalformedAIOutput)
	})

	t.Run("recommendation branch requires payload", func(t *testing.T) {
		r := &AIChatResponse{Type: ChatResponseRecommendation}
		assert.ErrorIs(t, r.Validate(), ErrMalformedAIOutput)

		r.Data.Recommendation = &AIRecommendation{}
		assert.ErrorIs(t, r.Validate(), ErrMalformedAIOutput)

		r.Data.Recommendation = validRecommendation()
		assert.NoError(t, r.Validate())
	})

	t.Run("list branch requires items", func(t *testing.T) {
		r := &AIChatResponse{Type: ChatResponseList}
		assert.ErrorIs(t, r.Validate(), ErrMalformedAIOutput)

		r.Data.List = []AIChatListItem{{ID: 238, MediaKind: MediaKindMovie, Title: "O Poderoso Chefão"}}
		assert.NoError(t, r.Validate())
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		r := &AIChatResponse{Type: "poem"}
		assert.ErrorIs(t, r.Validate(), ErrMalformedAIOutput)
	})
}

func TestAIWeeklyRelevantsValidate(t *testing.T) {
	relevants := &AIWeeklyRelevants{
		Categories: []AIRelevantCategory{
			{
				CategoryTitle: "Filmes",
				Items: []AIRelevantItem{
					{Title: "Oppenheimer", Year: 2023, MediaKind: MediaKindMovie},
				},
			},
		},
	}
	assert.NoError(t, relevants.Validate())

	relevants.Categories[0].CategoryTitle = ""
	assert.ErrorIs(t, relevants.Validate(), ErrMalformedAIOutput)

	relevants.Categories[0].CategoryTitle = "Filmes"
	relevants.Categories[0].Items[0].MediaKind = "book"
	assert.ErrorIs(t, relevants.Validate(), ErrMalformedAIOutput)
}

func TestAIPersonalizedRadarValidate(t *testing.T) {
	radar := &AIPersonalizedRadar{
		Releases: []AIRadarRelease{
			{ID: 872585, MediaKind: MediaKindMovie, Title: "Oppenheimer", Reason: "Combina com seu gosto"},
		},
	}
	assert.NoError(t, radar.Validate())

	radar.Releases[0].ID = 0
	assert.ErrorIs(t, radar.Validate(), ErrMalformedAIOutput)
}

func TestAIChallengeIdeaValidate(t *testing.T) {
	idea := mockChallengeIdea("teste")
	assert.NoError(t, idea.Validate())

	idea.Steps[0].TMDBID = 0
	assert.ErrorIs(t, idea.Validate(), ErrMalformedAIOutput)

	idea = mockChallengeIdea("teste")
	idea.Theme = ""
	assert.ErrorIs(t, idea.Validate(), ErrMalformedAIOutput)
}

func TestValidateDuel(t *testing.T) {
	result := mockDuelResult()
	assert.NoError(t, validateDuel(result))

	result.Title2.Title = ""
	assert.ErrorIs(t, validateDuel(result), ErrMalformedAIOutput)

	result = mockDuelResult()
	result.Title1.Probability = 150
	assert.ErrorIs(t, validateDuel(result), ErrMalformedAIOutput)
}

func TestNewAIProviderUnknownName(t *testing.T) {
	_, err := NewAIProvider(config.Config{})
	assert.Error(t, err)

	_, err = NewAIProvider(config.Config{AIProvider: "grok"})
	assert.Error(t, err)
}

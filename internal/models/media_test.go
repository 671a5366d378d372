package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaKindOpposite(t *testing.T) {
	assert.Equal(t, MediaKindTV, MediaKindMovie.Opposite())
	assert.Equal(t, MediaKindMovie, MediaKindTV.Opposite())
}

func TestMediaKindValid(t *testing.T) {
	assert.True(t, MediaKindMovie.Valid())
	assert.True(t, MediaKindTV.Valid())
	assert.False(t, MediaKind("").Valid())
	assert.False(t, MediaKind("person").Valid())
}

func TestCategoryForKind(t *testing.T) {
	assert.Equal(t, CategoryMovie, CategoryForKind(MediaKindMovie))
	assert.Equal(t, CategorySeries, CategoryForKind(MediaKindTV))
}

func TestRatingValid(t *testing.T) {
	for _, rating := range []Rating{RatingLoved, RatingLiked, RatingNeutral, RatingDisliked} {
		assert.True(t, rating.Valid(), string(rating))
	}
	assert.False(t, Rating("adorei").Valid())
	assert.False(t, Rating("").Valid())
}

func TestDuelResultWinner(t *testing.T) {
	duel := DuelResult{
		Title1: DuelSide{Title: "Parasita", Probability: 70},
		Title2: DuelSide{Title: "Coringa", Probability: 85},
	}
	assert.Equal(t, "Coringa", duel.Winner().Title)

	duel.Title2.Probability = 70
	assert.Equal(t, "Parasita", duel.Winner().Title, "ties favor the first side")
}

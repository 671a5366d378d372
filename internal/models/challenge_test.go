package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestChallengeStepsSurviveStorage(t *testing.T) {
	challenge := &Challenge{WeekID: "2025-11", Theme: "Maratona Noir", Status: ChallengeActive}

	steps := []ChallengeStep{
		{Title: "Chinatown (1974)", TMDBID: 829, MediaKind: MediaKindMovie, Completed: true},
		{Title: "Os Suspeitos (1995)", TMDBID: 629, MediaKind: MediaKindMovie},
	}
	require.NoError(t, challenge.EncodeSteps(steps))

	decoded, err := challenge.DecodeSteps()
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.True(t, decoded[0].Completed)
	assert.False(t, decoded[1].Completed)
	assert.Equal(t, "Chinatown (1974)", decoded[0].Title)
}

func TestDecodeStepsRejectsCorruptPayload(t *testing.T) {
	challenge := &Challenge{WeekID: "2025-11"}
	challenge.Steps = datatypes.JSON(`{"not": "an array"`)

	_, err := challenge.DecodeSteps()
	assert.Error(t, err)
}

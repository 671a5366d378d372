package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type ChallengeStatus string

const (
	ChallengeActive    ChallengeStatus = "active"
	ChallengeCompleted ChallengeStatus = "completed"
	ChallengeLost      ChallengeStatus = "lost"
)

// ChallengeStep is one title of a weekly challenge. Stored embedded in
// the challenge row, never on its own.
type ChallengeStep struct {
	Title     string    `json:"title"`
	TMDBID    int       `json:"tmdbId"`
	MediaKind MediaKind `json:"tmdbMediaType"`
	PosterURL string    `json:"posterUrl,omitempty"`
	Completed bool      `json:"completed"`
}

// Challenge is the week-keyed themed watch challenge. The week id is the
// primary key, which is what makes generation idempotent: at most one
// challenge can exist per calendar week.
type Challenge struct {
	WeekID    string          `gorm:"primaryKey"                json:"id"`
	Theme     string          `gorm:"not null"                  json:"challengeType"`
	Reason    string          `gorm:"not null"                  json:"reason"`
	Status    ChallengeStatus `gorm:"type:varchar(12);not null" json:"status"`
	Steps     datatypes.JSON  `gorm:"not null"                  json:"steps"`
	CreatedAt time.Time       `gorm:"autoCreateTime"            json:"createdAt"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"            json:"updatedAt"`
}

func (c *Challenge) DecodeSteps() ([]ChallengeStep, error) {
	var steps []ChallengeStep
	if err := json.Unmarshal(c.Steps, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func (c *Challenge) EncodeSteps(steps []ChallengeStep) error {
	raw, err := json.Marshal(steps)
	if err != nil {
		return err
	}
	c.Steps = datatypes.JSON(raw)
	return nil
}

package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// WeeklyRelevantsID is the fixed primary key of the singleton row.
const WeeklyRelevantsID = 1

type WeeklyRelevantItem struct {
	ID        int       `json:"id"`
	MediaKind MediaKind `json:"tmdbMediaType"`
	Title     string    `json:"title"`
	PosterURL string    `json:"posterUrl,omitempty"`
	Genre     string    `json:"genre"`
	Synopsis  string    `json:"synopsis"`
	Reason    string    `json:"reason"`
}

type WeeklyRelevantCategory struct {
	CategoryTitle string               `json:"categoryTitle"`
	Items         []WeeklyRelevantItem `json:"items"`
}

// WeeklyRelevants is the AI-curated weekly list. A single row, fully
// overwritten on every refresh.
type WeeklyRelevants struct {
	ID          int            `gorm:"primaryKey"     json:"-"`
	GeneratedAt time.Time      `gorm:"not null"       json:"generatedAt"`
	Categories  datatypes.JSON `gorm:"not null"       json:"categories"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"-"`
}

func (w *WeeklyRelevants) DecodeCategories() ([]WeeklyRelevantCategory, error) {
	var categories []WeeklyRelevantCategory
	if err := json.Unmarshal(w.Categories, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (w *WeeklyRelevants) EncodeCategories(categories []WeeklyRelevantCategory) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	w.Categories = datatypes.JSON(raw)
	return nil
}

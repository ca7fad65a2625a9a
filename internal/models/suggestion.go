package models

import "time"

const (
	SuggestionDiet      = "diet"
	SuggestionLifestyle = "lifestyle"
)

// Suggestion is static per-phase dietary/lifestyle content, seeded by
// migration and never written at runtime.
type Suggestion struct {
	ID             uint   `gorm:"primaryKey"`
	Phase          string `gorm:"not null;index"`
	Category       string `gorm:"not null"`
	Recommendation string `gorm:"not null"`
	CreatedAt      time.Time
}

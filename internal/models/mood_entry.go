package models

import "time"

// MoodEntry is one mood/energy check-in. CyclePhase is captured at
// write time and never rewritten by later phase corrections.
type MoodEntry struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;index"`
	Date        time.Time `gorm:"not null;index"`
	Mood        string    `gorm:"not null"`
	EnergyLevel int       `gorm:"not null"`
	Notes       string
	CyclePhase  string   `gorm:"not null;default:Unknown"`
	EmotionTags []string `gorm:"serializer:json"`
	SymptomTags []string `gorm:"serializer:json"`
	CreatedAt   time.Time
}

package models

import "time"

const (
	PhaseMenstrual  = "Menstrual"
	PhaseFollicular = "Follicular"
	PhaseOvulation  = "Ovulation"
	PhaseLuteal     = "Luteal"
	PhaseUnknown    = "Unknown"
)

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
)

// Cycle is one menstrual cycle instance. EndDate stays nil while the
// cycle is open; the engine sets it exactly once when a successor cycle
// is detected.
type Cycle struct {
	ID           uint       `gorm:"primaryKey"`
	UserID       uint       `gorm:"not null;index"`
	StartDate    time.Time  `gorm:"type:date;not null"`
	EndDate      *time.Time `gorm:"type:date"`
	CurrentPhase string     `gorm:"not null;default:Menstrual"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func KnownPhase(phase string) bool {
	switch phase {
	case PhaseMenstrual, PhaseFollicular, PhaseOvulation, PhaseLuteal:
		return true
	}
	return false
}

package models

import (
	"strings"
	"time"
)

const (
	FlowSpotting = "spotting"
	FlowLight    = "light"
	FlowMedium   = "medium"
	FlowHeavy    = "heavy"
)

// FlowLog is one user-reported bleeding event inside a cycle.
type FlowLog struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	CycleID   uint      `gorm:"not null;uniqueIndex:uidx_cycle_date"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uidx_cycle_date"`
	Flow      string    `gorm:"not null"`
	Symptoms  []string  `gorm:"serializer:json"`
	CreatedAt time.Time
}

// FlowRank orders flow levels from spotting (0) to heavy (3). Unknown
// levels rank -1 so comparisons against them never signal a resurgence.
func FlowRank(flow string) int {
	switch strings.ToLower(flow) {
	case FlowSpotting:
		return 0
	case FlowLight:
		return 1
	case FlowMedium:
		return 2
	case FlowHeavy:
		return 3
	}
	return -1
}

func KnownFlow(flow string) bool {
	return FlowRank(flow) >= 0
}

func IsLightFlow(flow string) bool {
	rank := FlowRank(flow)
	return rank == 0 || rank == 1
}

package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	Cycles      *CycleRepository
	FlowLogs    *FlowLogRepository
	Moods       *MoodRepository
	Suggestions *SuggestionRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		Cycles:      NewCycleRepository(database),
		FlowLogs:    NewFlowLogRepository(database),
		Moods:       NewMoodRepository(database),
		Suggestions: NewSuggestionRepository(database),
	}
}

package services

import (
	"math"
	"time"

	"github.com/lunara-health/lunara/internal/models"
)

// defaultEnergyByPhase fills phases with no recorded data, using
// typical pattern values.
var defaultEnergyByPhase = map[string]float64{
	models.PhaseMenstrual:  4.2,
	models.PhaseFollicular: 7.6,
	models.PhaseOvulation:  8.3,
	models.PhaseLuteal:     5.8,
}

type AnalyticsMoodRepository interface {
	AverageEnergyByPhase(userID uint, since time.Time) (map[string]float64, error)
}

type AnalyticsFlowLogRepository interface {
	ListByUser(userID uint) ([]models.FlowLog, error)
}

type AnalyticsService struct {
	moods    AnalyticsMoodRepository
	flowLogs AnalyticsFlowLogRepository
}

func NewAnalyticsService(moods AnalyticsMoodRepository, flowLogs AnalyticsFlowLogRepository) *AnalyticsService {
	return &AnalyticsService{moods: moods, flowLogs: flowLogs}
}

// EnergyByPhase averages recorded energy levels per phase since the
// cutoff; phases without data fall back to defaults.
func (service *AnalyticsService) EnergyByPhase(userID uint, since time.Time) (map[string]float64, error) {
	recorded, err := service.moods.AverageEnergyByPhase(userID, since)
	if err != nil {
		return nil, err
	}

	levels := make(map[string]float64, len(defaultEnergyByPhase))
	for phase, fallback := range defaultEnergyByPhase {
		if average, tracked := recorded[phase]; tracked {
			levels[phase] = math.Round(average*10) / 10
			continue
		}
		levels[phase] = fallback
	}
	return levels, nil
}

// SymptomFrequency counts reported symptom tags across every flow log
// of the user.
func (service *AnalyticsService) SymptomFrequency(userID uint) (map[string]int, error) {
	logs, err := service.flowLogs.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	frequency := make(map[string]int)
	for _, logEntry := range logs {
		for _, symptom := range logEntry.Symptoms {
			frequency[symptom]++
		}
	}
	return frequency, nil
}

package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/lunara-health/lunara/internal/models"
)

const (
	minPlausibleCycleLength = 15
	maxPlausibleCycleLength = 40
	minPeriodLength         = 3
	maxPeriodLength         = 10
	closedCyclesConsidered  = 3
)

type StatusCycleRepository interface {
	FindOpen(userID uint) (models.Cycle, bool, error)
	ListClosed(userID uint, limit int) ([]models.Cycle, error)
	UpdatePhase(cycleID uint, phase string) error
}

type StatusFlowLogRepository interface {
	ListByCycle(cycleID uint) ([]models.FlowLog, error)
}

// StatusService derives the current cycle day, phase and next-period
// estimate from persisted cycles and flow logs.
type StatusService struct {
	cycles   StatusCycleRepository
	flowLogs StatusFlowLogRepository
}

func NewStatusService(cycles StatusCycleRepository, flowLogs StatusFlowLogRepository) *StatusService {
	return &StatusService{cycles: cycles, flowLogs: flowLogs}
}

type CycleStatus struct {
	CycleID             uint    `json:"cycle_id"`
	CycleDay            int     `json:"cycle_day"`
	Phase               string  `json:"cycle_phase"`
	DaysUntilNextPeriod int     `json:"days_until_next_period"`
	AverageCycleLength  float64 `json:"avg_cycle_length"`
	AveragePeriodLength int     `json:"avg_period_length"`
}

func defaultCycleStatus() CycleStatus {
	return CycleStatus{
		CycleDay:            1,
		Phase:               models.PhaseMenstrual,
		DaysUntilNextPeriod: models.DefaultCycleLength,
		AverageCycleLength:  models.DefaultCycleLength,
		AveragePeriodLength: models.DefaultPeriodLength,
	}
}

// Current never fails: any error or panic during computation yields the
// safe default so callers are not blocked by cycle inference.
func (service *StatusService) Current(userID uint, now time.Time) CycleStatus {
	status, err := service.compute(userID, now)
	if err != nil {
		log.Printf("cycle status for user %d fell back to default: %v", userID, err)
		return defaultCycleStatus()
	}
	return status
}

func (service *StatusService) compute(userID uint, now time.Time) (status CycleStatus, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("cycle status panic: %v", recovered)
		}
	}()

	openCycle, hasOpen, err := service.cycles.FindOpen(userID)
	if err != nil {
		return CycleStatus{}, fmt.Errorf("find open cycle: %w", err)
	}
	if !hasOpen {
		return defaultCycleStatus(), nil
	}

	closedCycles, err := service.cycles.ListClosed(userID, closedCyclesConsidered)
	if err != nil {
		return CycleStatus{}, fmt.Errorf("list closed cycles: %w", err)
	}

	avgCycleLength := service.averageCycleLength(closedCycles)
	avgPeriodLength, err := service.averagePeriodLength(closedCycles)
	if err != nil {
		return CycleStatus{}, err
	}

	logs, err := service.flowLogs.ListByCycle(openCycle.ID)
	if err != nil {
		return CycleStatus{}, fmt.Errorf("list flow logs: %w", err)
	}

	today := dateOnly(now)
	cycleStart := dateOnly(openCycle.StartDate)
	cycleDay := daysBetween(cycleStart, today) + 1

	stillInPeriod := false
	if len(logs) > 0 {
		daysSinceLatestLog := daysBetween(dateOnly(logs[len(logs)-1].Date), today)
		stillInPeriod = daysSinceLatestLog <= 1 && cycleDay <= avgPeriodLength+2

		if consecutive := consecutiveLogRun(logs); consecutive == len(logs) && len(logs) > 1 {
			cycleDay = len(logs) + daysSinceLatestLog
		}
	}

	phase := resolvePhase(cycleDay, avgCycleLength, avgPeriodLength, stillInPeriod)

	// Self-healing cache update: the stored phase may be stale between
	// requests. A failed write only logs.
	if openCycle.CurrentPhase != phase {
		if err := service.cycles.UpdatePhase(openCycle.ID, phase); err != nil {
			log.Printf("update stored phase for cycle %d: %v", openCycle.ID, err)
		}
	}

	daysUntilNextPeriod := int(math.Round(avgCycleLength)) - cycleDay
	if daysUntilNextPeriod < 0 {
		daysUntilNextPeriod = 0
	}

	return CycleStatus{
		CycleID:             openCycle.ID,
		CycleDay:            cycleDay,
		Phase:               phase,
		DaysUntilNextPeriod: daysUntilNextPeriod,
		AverageCycleLength:  avgCycleLength,
		AveragePeriodLength: avgPeriodLength,
	}, nil
}

// averageCycleLength is the mean of the last closed cycles whose length
// falls in the plausible range, defaulting to 28 when none qualify.
func (service *StatusService) averageCycleLength(closedCycles []models.Cycle) float64 {
	lengths := make([]int, 0, len(closedCycles))
	for _, cycle := range closedCycles {
		if cycle.EndDate == nil {
			continue
		}
		length := daysBetween(dateOnly(cycle.StartDate), dateOnly(*cycle.EndDate))
		if length >= minPlausibleCycleLength && length <= maxPlausibleCycleLength {
			lengths = append(lengths, length)
		}
	}
	if len(lengths) == 0 {
		return models.DefaultCycleLength
	}

	total := 0
	for _, length := range lengths {
		total += length
	}
	return float64(total) / float64(len(lengths))
}

// averagePeriodLength is the mean of the longest runs of flow logs
// spaced at most 2 days apart in recent closed cycles, clamped to a
// plausible range, defaulting to 5 with no history.
func (service *StatusService) averagePeriodLength(closedCycles []models.Cycle) (int, error) {
	runLengths := make([]int, 0, len(closedCycles))
	for _, cycle := range closedCycles {
		logs, err := service.flowLogs.ListByCycle(cycle.ID)
		if err != nil {
			return 0, fmt.Errorf("list flow logs for cycle %d: %w", cycle.ID, err)
		}
		if longest := longestLogRun(logs); longest > 0 {
			runLengths = append(runLengths, longest)
		}
	}
	if len(runLengths) == 0 {
		return models.DefaultPeriodLength, nil
	}

	total := 0
	for _, length := range runLengths {
		total += length
	}
	average := int(math.Round(float64(total) / float64(len(runLengths))))
	if average < minPeriodLength {
		average = minPeriodLength
	}
	if average > maxPeriodLength {
		average = maxPeriodLength
	}
	return average, nil
}

// longestLogRun counts the longest streak of logs spaced ≤2 days apart.
func longestLogRun(logs []models.FlowLog) int {
	if len(logs) == 0 {
		return 0
	}
	longest := 1
	current := 1
	for i := 1; i < len(logs); i++ {
		gap := daysBetween(dateOnly(logs[i-1].Date), dateOnly(logs[i].Date))
		if gap <= 2 {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

// consecutiveLogRun counts leading logs spaced ≤2 days apart; when the
// whole history is consecutive the cycle day is anchored on log count.
func consecutiveLogRun(logs []models.FlowLog) int {
	run := 1
	for i := 1; i < len(logs); i++ {
		if daysBetween(dateOnly(logs[i-1].Date), dateOnly(logs[i].Date)) > 2 {
			break
		}
		run++
	}
	return run
}

func resolvePhase(cycleDay int, avgCycleLength float64, avgPeriodLength int, stillInPeriod bool) string {
	_, ovulationStart, lutealStart := PhaseBoundaries(avgCycleLength, avgPeriodLength)

	switch {
	case cycleDay <= avgPeriodLength || stillInPeriod:
		return models.PhaseMenstrual
	case cycleDay < ovulationStart:
		return models.PhaseFollicular
	case cycleDay < lutealStart:
		return models.PhaseOvulation
	default:
		return models.PhaseLuteal
	}
}

// PhaseBoundaries exposes the derived thresholds for a given baseline;
// ovulationStart and lutealStart are first days of their phases.
func PhaseBoundaries(avgCycleLength float64, avgPeriodLength int) (menstrualEnd, ovulationStart, lutealStart int) {
	follicularStart := avgPeriodLength + 1
	ovulationStart = maxInt(follicularStart+3, int(math.Round(avgCycleLength*0.36)))
	lutealStart = maxInt(ovulationStart+3, int(math.Round(avgCycleLength*0.5)))
	return avgPeriodLength, ovulationStart, lutealStart
}

func maxInt(a int, b int) int {
	if a > b {
		return a
	}
	return b
}

package services

import (
	"errors"
	"strings"
	"time"

	"github.com/lunara-health/lunara/internal/models"
)

var (
	ErrUnknownFlow    = errors.New("unknown flow level")
	ErrEmptySymptom   = errors.New("symptoms must not be empty strings")
	ErrBackdatedLog   = errors.New("flow log predates the latest log of the open cycle")
	ErrDuplicateLog   = errors.New("flow already logged for this date")
	ErrInvalidLogDate = errors.New("invalid log date")
)

type EngineCycleRepository interface {
	FindOpen(userID uint) (models.Cycle, bool, error)
	Create(cycle *models.Cycle) error
	Close(cycleID uint, endDate time.Time) error
}

type EngineFlowLogRepository interface {
	ListByCycle(cycleID uint) ([]models.FlowLog, error)
	ExistsByCycleAndDate(cycleID uint, date time.Time) (bool, error)
	Create(entry *models.FlowLog) error
}

// CycleEngine decides whether an incoming flow log extends the open
// cycle or starts a new one, and appends exactly one flow log per call.
type CycleEngine struct {
	cycles   EngineCycleRepository
	flowLogs EngineFlowLogRepository
}

func NewCycleEngine(cycles EngineCycleRepository, flowLogs EngineFlowLogRepository) *CycleEngine {
	return &CycleEngine{cycles: cycles, flowLogs: flowLogs}
}

type FlowRecord struct {
	CycleID       uint   `json:"cycle_id"`
	AssignedPhase string `json:"assigned_phase"`
	IsNewCycle    bool   `json:"is_new_cycle"`
	RuleApplied   string `json:"rule_applied,omitempty"`
}

func (engine *CycleEngine) RecordFlow(userID uint, date time.Time, flow string, symptoms []string) (FlowRecord, error) {
	if date.IsZero() {
		return FlowRecord{}, ErrInvalidLogDate
	}
	normalizedFlow := strings.ToLower(strings.TrimSpace(flow))
	if !models.KnownFlow(normalizedFlow) {
		return FlowRecord{}, ErrUnknownFlow
	}
	for _, symptom := range symptoms {
		if strings.TrimSpace(symptom) == "" {
			return FlowRecord{}, ErrEmptySymptom
		}
	}

	day := dateOnly(date)

	openCycle, hasOpen, err := engine.cycles.FindOpen(userID)
	if err != nil {
		return FlowRecord{}, err
	}

	record := FlowRecord{AssignedPhase: models.PhaseMenstrual, IsNewCycle: true}
	switch {
	case !hasOpen:
		newCycle := models.Cycle{UserID: userID, StartDate: day, CurrentPhase: models.PhaseMenstrual}
		if err := engine.cycles.Create(&newCycle); err != nil {
			return FlowRecord{}, err
		}
		record.CycleID = newCycle.ID
	default:
		logs, err := engine.flowLogs.ListByCycle(openCycle.ID)
		if err != nil {
			return FlowRecord{}, err
		}
		if len(logs) > 0 {
			lastLogDay := dateOnly(logs[len(logs)-1].Date)
			if day.Before(lastLogDay) {
				return FlowRecord{}, ErrBackdatedLog
			}
		}
		duplicate, err := engine.flowLogs.ExistsByCycleAndDate(openCycle.ID, day)
		if err != nil {
			return FlowRecord{}, err
		}
		if duplicate {
			return FlowRecord{}, ErrDuplicateLog
		}

		isNewCycle, ruleName := EvaluateNewCycle(engine.buildRuleInput(openCycle, logs, day, normalizedFlow))
		if !isNewCycle {
			record.CycleID = openCycle.ID
			record.AssignedPhase = openCycle.CurrentPhase
			record.IsNewCycle = false
			break
		}

		// Closing the old cycle and opening the new one are two separate
		// writes; a crash in between can leave two open cycles. FindOpen
		// shadows the stale one by ordering on start date.
		if err := engine.cycles.Close(openCycle.ID, day); err != nil {
			return FlowRecord{}, err
		}
		newCycle := models.Cycle{UserID: userID, StartDate: day, CurrentPhase: models.PhaseMenstrual}
		if err := engine.cycles.Create(&newCycle); err != nil {
			return FlowRecord{}, err
		}
		record.CycleID = newCycle.ID
		record.RuleApplied = ruleName
	}

	entry := models.FlowLog{
		UserID:   userID,
		CycleID:  record.CycleID,
		Date:     day,
		Flow:     normalizedFlow,
		Symptoms: symptoms,
	}
	if err := engine.flowLogs.Create(&entry); err != nil {
		return FlowRecord{}, err
	}

	return record, nil
}

func (engine *CycleEngine) buildRuleInput(openCycle models.Cycle, logs []models.FlowLog, day time.Time, flow string) RuleInput {
	input := RuleInput{
		DaysSinceCycleStart: daysBetween(dateOnly(openCycle.StartDate), day),
		LogCount:            len(logs),
		CurrentRank:         models.FlowRank(flow),
		CurrentIsLight:      models.IsLightFlow(flow),
	}
	if len(logs) > 0 {
		input.DaysSinceLastLog = daysBetween(dateOnly(logs[len(logs)-1].Date), day)
	}
	input.FlowRanks = make([]int, 0, len(logs))
	for _, logEntry := range logs {
		input.FlowRanks = append(input.FlowRanks, models.FlowRank(logEntry.Flow))
	}
	return input
}

func daysBetween(from time.Time, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

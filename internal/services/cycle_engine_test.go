package services

import (
	"errors"
	"testing"
	"time"

	"github.com/lunara-health/lunara/internal/models"
)

// fakeCycleStore keeps cycles in memory with the same visible behavior
// as the SQLite repository: FindOpen prefers the latest start date and
// Close only touches a still-open row.
type fakeCycleStore struct {
	cycles []models.Cycle
	nextID uint
}

func newFakeCycleStore() *fakeCycleStore {
	return &fakeCycleStore{nextID: 1}
}

func (store *fakeCycleStore) FindOpen(userID uint) (models.Cycle, bool, error) {
	found := models.Cycle{}
	has := false
	for _, cycle := range store.cycles {
		if cycle.UserID != userID || cycle.EndDate != nil {
			continue
		}
		if !has || cycle.StartDate.After(found.StartDate) {
			found = cycle
			has = true
		}
	}
	return found, has, nil
}

func (store *fakeCycleStore) ListClosed(userID uint, limit int) ([]models.Cycle, error) {
	closed := make([]models.Cycle, 0)
	for i := len(store.cycles) - 1; i >= 0; i-- {
		cycle := store.cycles[i]
		if cycle.UserID == userID && cycle.EndDate != nil {
			closed = append(closed, cycle)
		}
		if len(closed) == limit {
			break
		}
	}
	return closed, nil
}

func (store *fakeCycleStore) Create(cycle *models.Cycle) error {
	cycle.ID = store.nextID
	store.nextID++
	store.cycles = append(store.cycles, *cycle)
	return nil
}

func (store *fakeCycleStore) Close(cycleID uint, endDate time.Time) error {
	for i := range store.cycles {
		if store.cycles[i].ID == cycleID && store.cycles[i].EndDate == nil {
			end := endDate
			store.cycles[i].EndDate = &end
			return nil
		}
	}
	return nil
}

func (store *fakeCycleStore) UpdatePhase(cycleID uint, phase string) error {
	for i := range store.cycles {
		if store.cycles[i].ID == cycleID {
			store.cycles[i].CurrentPhase = phase
		}
	}
	return nil
}

func (store *fakeCycleStore) openCount(userID uint) int {
	count := 0
	for _, cycle := range store.cycles {
		if cycle.UserID == userID && cycle.EndDate == nil {
			count++
		}
	}
	return count
}

type fakeFlowLogStore struct {
	logs   []models.FlowLog
	nextID uint
}

func newFakeFlowLogStore() *fakeFlowLogStore {
	return &fakeFlowLogStore{nextID: 1}
}

func (store *fakeFlowLogStore) ListByCycle(cycleID uint) ([]models.FlowLog, error) {
	logs := make([]models.FlowLog, 0)
	for _, entry := range store.logs {
		if entry.CycleID == cycleID {
			logs = append(logs, entry)
		}
	}
	return logs, nil
}

func (store *fakeFlowLogStore) ExistsByCycleAndDate(cycleID uint, date time.Time) (bool, error) {
	for _, entry := range store.logs {
		if entry.CycleID == cycleID && entry.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (store *fakeFlowLogStore) Create(entry *models.FlowLog) error {
	entry.ID = store.nextID
	store.nextID++
	store.logs = append(store.logs, *entry)
	return nil
}

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestRecordFlowFirstLogOpensCycle(t *testing.T) {
	cycles := newFakeCycleStore()
	engine := NewCycleEngine(cycles, newFakeFlowLogStore())

	record, err := engine.RecordFlow(1, day("2026-03-01"), models.FlowMedium, []string{"cramps"})
	if err != nil {
		t.Fatalf("RecordFlow failed: %v", err)
	}
	if !record.IsNewCycle {
		t.Fatalf("expected first log to open a cycle")
	}
	if record.AssignedPhase != models.PhaseMenstrual {
		t.Fatalf("expected Menstrual phase, got %q", record.AssignedPhase)
	}
	if record.RuleApplied != "" {
		t.Fatalf("no rule should fire on the first ever log, got %q", record.RuleApplied)
	}
	if cycles.openCount(1) != 1 {
		t.Fatalf("expected exactly one open cycle, got %d", cycles.openCount(1))
	}
}

func TestRecordFlowValidation(t *testing.T) {
	engine := NewCycleEngine(newFakeCycleStore(), newFakeFlowLogStore())

	if _, err := engine.RecordFlow(1, day("2026-03-01"), "torrential", nil); !errors.Is(err, ErrUnknownFlow) {
		t.Fatalf("expected ErrUnknownFlow, got %v", err)
	}
	if _, err := engine.RecordFlow(1, day("2026-03-01"), models.FlowLight, []string{"cramps", "  "}); !errors.Is(err, ErrEmptySymptom) {
		t.Fatalf("expected ErrEmptySymptom, got %v", err)
	}
	if _, err := engine.RecordFlow(1, time.Time{}, models.FlowLight, nil); !errors.Is(err, ErrInvalidLogDate) {
		t.Fatalf("expected ErrInvalidLogDate, got %v", err)
	}
}

func TestRecordFlowNormalizesFlowLevel(t *testing.T) {
	flowLogs := newFakeFlowLogStore()
	engine := NewCycleEngine(newFakeCycleStore(), flowLogs)

	if _, err := engine.RecordFlow(1, day("2026-03-01"), "  Heavy ", nil); err != nil {
		t.Fatalf("RecordFlow failed: %v", err)
	}
	if flowLogs.logs[0].Flow != models.FlowHeavy {
		t.Fatalf("expected normalized flow %q, got %q", models.FlowHeavy, flowLogs.logs[0].Flow)
	}
}

func TestRecordFlowRejectsDuplicateAndBackdated(t *testing.T) {
	cycles := newFakeCycleStore()
	flowLogs := newFakeFlowLogStore()
	engine := NewCycleEngine(cycles, flowLogs)

	if _, err := engine.RecordFlow(1, day("2026-03-02"), models.FlowMedium, nil); err != nil {
		t.Fatalf("seed log failed: %v", err)
	}

	if _, err := engine.RecordFlow(1, day("2026-03-02"), models.FlowLight, nil); !errors.Is(err, ErrDuplicateLog) {
		t.Fatalf("expected ErrDuplicateLog, got %v", err)
	}
	if _, err := engine.RecordFlow(1, day("2026-03-01"), models.FlowLight, nil); !errors.Is(err, ErrBackdatedLog) {
		t.Fatalf("expected ErrBackdatedLog, got %v", err)
	}
	if len(flowLogs.logs) != 1 {
		t.Fatalf("rejected logs must not be stored, have %d", len(flowLogs.logs))
	}
}

func TestRecordFlowGapClosesAndOpens(t *testing.T) {
	cycles := newFakeCycleStore()
	flowLogs := newFakeFlowLogStore()
	engine := NewCycleEngine(cycles, flowLogs)

	if _, err := engine.RecordFlow(1, day("2026-03-01"), models.FlowMedium, nil); err != nil {
		t.Fatalf("seed log failed: %v", err)
	}
	if _, err := engine.RecordFlow(1, day("2026-03-02"), models.FlowMedium, nil); err != nil {
		t.Fatalf("seed log failed: %v", err)
	}

	record, err := engine.RecordFlow(1, day("2026-03-28"), models.FlowHeavy, nil)
	if err != nil {
		t.Fatalf("RecordFlow failed: %v", err)
	}
	if !record.IsNewCycle || record.RuleApplied != "significant_gap" {
		t.Fatalf("expected significant_gap new cycle, got new=%v rule=%q", record.IsNewCycle, record.RuleApplied)
	}
	if cycles.openCount(1) != 1 {
		t.Fatalf("expected exactly one open cycle, got %d", cycles.openCount(1))
	}

	closed, _ := cycles.ListClosed(1, 10)
	if len(closed) != 1 {
		t.Fatalf("expected one closed cycle, got %d", len(closed))
	}
	if !closed[0].EndDate.Equal(day("2026-03-28")) {
		t.Fatalf("closed cycle should end on the new start date, got %v", closed[0].EndDate)
	}

	logs, _ := flowLogs.ListByCycle(record.CycleID)
	if len(logs) != 1 {
		t.Fatalf("new cycle should hold exactly the triggering log, got %d", len(logs))
	}
}

func TestRecordFlowResurgenceStartsNewCycle(t *testing.T) {
	cycles := newFakeCycleStore()
	engine := NewCycleEngine(cycles, newFakeFlowLogStore())

	seed := []struct {
		date string
		flow string
	}{
		{"2026-03-01", models.FlowHeavy},
		{"2026-03-02", models.FlowLight},
	}
	for _, entry := range seed {
		if _, err := engine.RecordFlow(1, day(entry.date), entry.flow, nil); err != nil {
			t.Fatalf("seed log %s failed: %v", entry.date, err)
		}
	}

	record, err := engine.RecordFlow(1, day("2026-03-03"), models.FlowMedium, nil)
	if err != nil {
		t.Fatalf("RecordFlow failed: %v", err)
	}
	if !record.IsNewCycle || record.RuleApplied != "flow_resurgence" {
		t.Fatalf("expected flow_resurgence new cycle, got new=%v rule=%q", record.IsNewCycle, record.RuleApplied)
	}
}

func TestRecordFlowContinuesOpenCycle(t *testing.T) {
	cycles := newFakeCycleStore()
	engine := NewCycleEngine(cycles, newFakeFlowLogStore())

	first, err := engine.RecordFlow(1, day("2026-03-01"), models.FlowHeavy, nil)
	if err != nil {
		t.Fatalf("seed log failed: %v", err)
	}
	second, err := engine.RecordFlow(1, day("2026-03-02"), models.FlowMedium, nil)
	if err != nil {
		t.Fatalf("RecordFlow failed: %v", err)
	}
	if second.IsNewCycle {
		t.Fatalf("declining flow a day later must extend the cycle")
	}
	if second.CycleID != first.CycleID {
		t.Fatalf("expected cycle %d, got %d", first.CycleID, second.CycleID)
	}
}

// Whatever sequence of valid logs arrives, a user never holds more than
// one open cycle and every log lands in exactly one cycle.
func TestRecordFlowSingleOpenCycleInvariant(t *testing.T) {
	cycles := newFakeCycleStore()
	flowLogs := newFakeFlowLogStore()
	engine := NewCycleEngine(cycles, flowLogs)

	flows := []string{
		models.FlowHeavy, models.FlowMedium, models.FlowLight,
		models.FlowSpotting, models.FlowMedium, models.FlowHeavy,
		models.FlowLight, models.FlowSpotting, models.FlowMedium,
	}
	offsets := []int{0, 1, 2, 3, 9, 10, 11, 20, 31}

	start := day("2026-01-01")
	accepted := 0
	for i, offset := range offsets {
		_, err := engine.RecordFlow(7, start.AddDate(0, 0, offset), flows[i], nil)
		if err != nil {
			continue
		}
		accepted++
		if open := cycles.openCount(7); open != 1 {
			t.Fatalf("after log %d: %d open cycles, want 1", i, open)
		}
	}
	if len(flowLogs.logs) != accepted {
		t.Fatalf("stored %d logs, accepted %d", len(flowLogs.logs), accepted)
	}
}

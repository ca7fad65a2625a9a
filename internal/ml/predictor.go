package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	snapshotFileName = "mood_patterns.json"
	// Confidence ramps linearly and saturates at this many cycles of
	// observations for a phase.
	confidenceSaturationCycles = 3
)

var ErrNoTrainingData = errors.New("no training data")

// TrainingRow is one (phase, mood) observation with its owning cycle.
type TrainingRow struct {
	CycleStart  time.Time
	Date        time.Time
	Mood        string
	EnergyLevel int
	Phase       string
}

type TrainingReport struct {
	Accuracy float64 `json:"accuracy"`
	Samples  int     `json:"samples"`
	Cycles   int     `json:"cycles"`
}

type Prediction struct {
	PredictedMood     string  `json:"predicted_mood"`
	Confidence        float64 `json:"confidence"`
	HasSufficientData bool    `json:"has_sufficient_data"`
	CyclesTracked     int     `json:"cycles_tracked"`
	MinCyclesNeeded   int     `json:"min_cycles_needed"`
}

// Predictor learns per-phase mood distributions and predicts the most
// likely mood for a phase. The trained snapshot is process-wide state
// behind an atomically swapped pointer; a concurrent Predict may see
// the previous snapshot but never a half-written one.
type Predictor struct {
	path      string
	minCycles int
	current   atomic.Pointer[Snapshot]

	// Guards the lazy disk load so concurrent first predictions do not
	// race each other.
	loadMu sync.Mutex
}

func NewPredictor(modelDir string) *Predictor {
	return &Predictor{
		path:      filepath.Join(modelDir, snapshotFileName),
		minCycles: 1,
	}
}

// Train rebuilds the whole model from the given rows and atomically
// replaces the previous snapshot, both in memory and on disk.
func (predictor *Predictor) Train(rows []TrainingRow) (TrainingReport, error) {
	usable := make([]TrainingRow, 0, len(rows))
	for _, row := range rows {
		if row.Mood == "" || row.Phase == "" {
			continue
		}
		usable = append(usable, row)
	}
	if len(usable) == 0 {
		return TrainingReport{}, ErrNoTrainingData
	}

	type phaseCounts struct {
		moodCounts map[string]int
		cycles     map[string]struct{}
		total      int
	}

	countsByPhase := make(map[string]*phaseCounts)
	allCycles := make(map[string]struct{})
	for _, row := range usable {
		counts, exists := countsByPhase[row.Phase]
		if !exists {
			counts = &phaseCounts{
				moodCounts: make(map[string]int),
				cycles:     make(map[string]struct{}),
			}
			countsByPhase[row.Phase] = counts
		}
		cycleKey := row.CycleStart.Format("2006-01-02")
		counts.moodCounts[row.Mood]++
		counts.cycles[cycleKey] = struct{}{}
		counts.total++
		allCycles[cycleKey] = struct{}{}
	}

	patterns := make(map[string]PhasePattern, len(countsByPhase))
	for phase, counts := range countsByPhase {
		probabilities := make(map[string]float64, len(counts.moodCounts))
		for mood, count := range counts.moodCounts {
			probabilities[mood] = float64(count) / float64(counts.total)
		}
		patterns[phase] = PhasePattern{
			Probabilities: probabilities,
			Samples:       counts.total,
			Cycles:        len(counts.cycles),
		}
	}

	snapshot := &Snapshot{
		Version:      uuid.NewString(),
		Patterns:     patterns,
		TotalCycles:  len(allCycles),
		TotalSamples: len(usable),
		TrainedAt:    time.Now(),
	}

	if err := predictor.persist(snapshot); err != nil {
		return TrainingReport{}, err
	}
	predictor.current.Store(snapshot)

	// Naive majority self-check: the fraction of training samples whose
	// mood matches their phase's most frequent mood.
	correct := 0
	for _, row := range usable {
		majorityMood, _ := patterns[row.Phase].topMood()
		if row.Mood == majorityMood {
			correct++
		}
	}

	return TrainingReport{
		Accuracy: float64(correct) / float64(len(usable)),
		Samples:  len(usable),
		Cycles:   len(allCycles),
	}, nil
}

// Predict answers with the most likely mood for the phase. Missing
// model, unseen phase or too few cycles yield a structured low
// confidence result instead of an error.
func (predictor *Predictor) Predict(phase string) Prediction {
	snapshot := predictor.snapshot()
	if snapshot == nil {
		return predictor.insufficient("Not enough data", 0)
	}

	pattern, known := snapshot.Patterns[phase]
	if !known {
		return predictor.insufficient("Unknown phase", snapshot.TotalCycles)
	}
	if pattern.Cycles < predictor.minCycles {
		return predictor.insufficient("Need more cycle data", pattern.Cycles)
	}

	mood, probability := pattern.topMood()
	if mood == "" {
		return predictor.insufficient("No mood data for this phase", snapshot.TotalCycles)
	}

	confidenceMultiplier := float64(pattern.Cycles) / confidenceSaturationCycles
	if confidenceMultiplier > 1 {
		confidenceMultiplier = 1
	}

	return Prediction{
		PredictedMood:     mood,
		Confidence:        probability * confidenceMultiplier,
		HasSufficientData: true,
		CyclesTracked:     snapshot.TotalCycles,
		MinCyclesNeeded:   predictor.minCycles,
	}
}

func (predictor *Predictor) insufficient(reason string, cyclesTracked int) Prediction {
	return Prediction{
		PredictedMood:     reason,
		Confidence:        0,
		HasSufficientData: false,
		CyclesTracked:     cyclesTracked,
		MinCyclesNeeded:   predictor.minCycles,
	}
}

// snapshot returns the in-memory model, lazily loading a persisted one
// on first use.
func (predictor *Predictor) snapshot() *Snapshot {
	if loaded := predictor.current.Load(); loaded != nil {
		return loaded
	}

	predictor.loadMu.Lock()
	defer predictor.loadMu.Unlock()
	if loaded := predictor.current.Load(); loaded != nil {
		return loaded
	}

	restored, err := predictor.loadFromDisk()
	if err != nil {
		return nil
	}
	predictor.current.Store(restored)
	return restored
}

func (predictor *Predictor) loadFromDisk() (*Snapshot, error) {
	raw, err := os.ReadFile(predictor.path)
	if err != nil {
		return nil, err
	}
	snapshot := &Snapshot{}
	if err := json.Unmarshal(raw, snapshot); err != nil {
		return nil, fmt.Errorf("decode model snapshot: %w", err)
	}
	return snapshot, nil
}

// persist writes the snapshot to a temp file and renames it into place
// so a concurrent load never reads a partial file.
func (predictor *Predictor) persist(snapshot *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(predictor.path), 0o755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode model snapshot: %w", err)
	}

	tempPath := predictor.path + ".tmp"
	if err := os.WriteFile(tempPath, raw, 0o644); err != nil {
		return fmt.Errorf("write model snapshot: %w", err)
	}
	if err := os.Rename(tempPath, predictor.path); err != nil {
		return fmt.Errorf("replace model snapshot: %w", err)
	}
	return nil
}

package ml

import "time"

// PhasePattern is the empirical mood distribution observed for one
// cycle phase.
type PhasePattern struct {
	Probabilities map[string]float64 `json:"probabilities"`
	Samples       int                `json:"samples"`
	Cycles        int                `json:"cycles"`
}

// Snapshot is one immutable trained model. Training replaces the whole
// snapshot; readers never see a partial update.
type Snapshot struct {
	Version      string                  `json:"version"`
	Patterns     map[string]PhasePattern `json:"mood_patterns"`
	TotalCycles  int                     `json:"total_cycles"`
	TotalSamples int                     `json:"total_samples"`
	TrainedAt    time.Time               `json:"last_trained"`
}

// topMood is the arg-max mood for a phase with a deterministic
// lexicographic tie-break.
func (pattern PhasePattern) topMood() (string, float64) {
	bestMood := ""
	bestProbability := 0.0
	for mood, probability := range pattern.Probabilities {
		if probability > bestProbability || (probability == bestProbability && (bestMood == "" || mood < bestMood)) {
			bestMood = mood
			bestProbability = probability
		}
	}
	return bestMood, bestProbability
}

package scoring

import (
	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
)

// ScoreState is a point-in-time copy of live score statistics
type ScoreState struct {
	Statistics Statistics
	Combo      int
	MaxCombo   int
	Accuracy   float64
	Mods       difficulty.Modifier
}

// SimulatePerfect returns a copy that assumes the rest of the play is flawless:
// every hit so far is moved to Great, accuracy is 1 and combo equals the hit count.
func (s *ScoreState) SimulatePerfect() *ScoreState {
	totalHits := s.Statistics.Total()

	stats := make(Statistics, len(AllResults))
	for _, r := range AllResults {
		stats[r] = 0
	}

	stats[Great] = totalHits

	return &ScoreState{
		Statistics: stats,
		Combo:      totalHits,
		MaxCombo:   totalHits,
		Accuracy:   1.0,
		Mods:       s.Mods,
	}
}

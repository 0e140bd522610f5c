package skills

import (
	"math"

	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/preprocessing"
)

// strain is a value that decays exponentially between objects: decayBase is what's left after one second
type strain struct {
	value     float64
	decayBase float64
}

func (s *strain) decay(ms float64) {
	s.value *= math.Pow(s.decayBase, ms/1000)
}

// add decays the strain by ms and adds amount to it
func (s *strain) add(ms, amount float64) float64 {
	s.decay(ms)
	s.value += amount

	return s.value
}

// initial is the strain left at the start of a new section
func (s *strain) initial(time float64, current *preprocessing.DifficultyObject) float64 {
	prev := current.Previous(0)
	if prev == nil {
		return 0
	}

	return s.value * math.Pow(s.decayBase, (time-prev.StartTime)/1000)
}

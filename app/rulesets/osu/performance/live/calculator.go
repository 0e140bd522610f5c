package live

import (
	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/api"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/scoring"
)

// Calculator converts a score snapshot and the attributes in effect into a total pp value.
// It must be deterministic.
type Calculator interface {
	Calculate(state *scoring.ScoreState, attribs *api.Attributes) float64
}

type CalculatorFunc func(state *scoring.ScoreState, attribs *api.Attributes) float64

func (f CalculatorFunc) Calculate(state *scoring.ScoreState, attribs *api.Attributes) float64 {
	return f(state, attribs)
}

// PerformanceCalculator adapts an api.IPerformanceCalculator. The snapshot's mods are applied
// to the beatmap's base difficulty.
type PerformanceCalculator struct {
	pp   api.IPerformanceCalculator
	diff *difficulty.Difficulty
}

func NewPerformanceCalculator(pp api.IPerformanceCalculator, base *difficulty.Difficulty) *PerformanceCalculator {
	return &PerformanceCalculator{
		pp:   pp,
		diff: base.Clone(),
	}
}

func (c *PerformanceCalculator) Calculate(state *scoring.ScoreState, attribs *api.Attributes) float64 {
	if c.diff.Mods != state.Mods {
		c.diff = c.diff.Clone()
		c.diff.SetMods(state.Mods)
	}

	stats := state.Statistics

	return c.pp.Calculate(*attribs, state.MaxCombo, stats[scoring.Great], stats[scoring.Ok], stats[scoring.Meh], stats[scoring.Miss], state.Accuracy, c.diff).Total
}

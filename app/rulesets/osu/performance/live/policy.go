package live

import (
	"fmt"
	"strings"

	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/api"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/scoring"
	"github.com/Givikap120/danser-livepp/framework/math/mutils"
)

type Policy int

const (
	// Absolute shows the pp of the play so far
	Absolute Policy = iota

	// Incremental shows a running total that only grows: drops in pp are skipped, rises are added
	Incremental

	// SimulatedPerfect shows the pp the play would have if every judgement so far was a Great
	SimulatedPerfect
)

var policyNames = map[Policy]string{
	Absolute:         "absolute",
	Incremental:      "incremental",
	SimulatedPerfect: "perfect",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}

	return fmt.Sprintf("Policy(%d)", int(p))
}

func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}

	return Absolute, fmt.Errorf("unknown policy %q", s)
}

// evaluator turns snapshots into displayed values according to a Policy.
type evaluator struct {
	policy Policy

	hasBaseline  bool
	lastAbsolute float64
	accumulated  float64
}

// evaluate returns the value to display and false if there's nothing valid to show.
// Invalid calls leave the evaluator untouched.
func (e *evaluator) evaluate(calc Calculator, state *scoring.ScoreState, attribs *api.Attributes) (int64, bool) {
	if calc == nil || state == nil || attribs == nil {
		return 0, false
	}

	switch e.policy {
	case Incremental:
		value := total(calc, state, attribs)

		// the first evaluation only sets the baseline
		if e.hasBaseline {
			if delta := value - e.lastAbsolute; delta > 0 {
				e.accumulated += delta
			}
		}

		// baseline moves down too, so a later rise is measured from the dip
		e.lastAbsolute = value
		e.hasBaseline = true

		return mutils.RoundHalfAwayFromZero(e.accumulated), true
	case SimulatedPerfect:
		return mutils.RoundHalfAwayFromZero(total(calc, state.SimulatePerfect(), attribs)), true
	default:
		return mutils.RoundHalfAwayFromZero(total(calc, state, attribs)), true
	}
}

// total treats a non-finite calculator result as 0
func total(calc Calculator, state *scoring.ScoreState, attribs *api.Attributes) float64 {
	return mutils.SanitizeFloat(calc.Calculate(state, attribs))
}

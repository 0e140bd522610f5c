package evaluators

import (
	"math"

	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/preprocessing"
)

// EvaluateDensityOf counts how many earlier objects had to be clicked while current was already on screen,
// weighted by current's opacity at that moment
func EvaluateDensityOf(current *preprocessing.DifficultyObject) float64 {
	density := 0.0

	for i := 0; i < current.Index; i++ {
		prev := current.Previous(i)

		if prev == nil || prev.StartTime < current.StartTime-current.Preempt {
			break
		}

		density += current.OpacityAt(prev.BaseObject.GetStartTime())
	}

	return density
}

func EvaluateReadingLowARDifficultyOf(current *preprocessing.DifficultyObject) float64 {
	// If the current object is a Spinner or it's the first object (index 0), return 0 difficulty
	if current.IsSpinner || current.Index == 0 {
		return 0
	}

	density := math.Max(1, EvaluateDensityOf(current))

	return math.Pow(4*math.Log(density), 2.5)
}

func EvaluateHiddenDifficultyOf(current *preprocessing.DifficultyObject) float64 {
	density := EvaluateDensityOf(current)
	preempt := current.Preempt / 1000

	densityFactor := math.Pow(density/6.2, 1.5)

	var invisibilityFactor float64

	// AR11+DT and faster = 0 HD pp unless density is big
	if preempt < 0.2 {
		invisibilityFactor = 0
	} else {
		// Accelerating growth until around AR0, then linear, starting from AR5 it's 3 times faster to buff AR0 +HD
		invisibilityFactor = math.Min(math.Pow(preempt*2.4-0.2, 5), math.Max(preempt, preempt*3-2.4))
	}

	return invisibilityFactor + densityFactor
}

// EvaluateAimingDensityFactorOf scales aim strain by how crowded the screen is
func EvaluateAimingDensityFactorOf(current *preprocessing.DifficultyObject) float64 {
	difficulty := EvaluateDensityOf(current)

	return math.Max(0, math.Pow(math.Max(0, difficulty-2.5), 1.5)/12)
}

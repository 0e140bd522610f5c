package evaluators

import (
	"math"

	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/preprocessing"
)

const (
	maxOpacityBonus float64 = 0.4
	hiddenBonus     float64 = 0.2
	flashlightDepth         = 10
)

// EvaluateFlashlight sums distances to recent objects, which are hard to memorize under a small flashlight
func EvaluateFlashlight(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner {
		return 0
	}

	scalingFactor := 52.0 / current.Diff.CircleRadiusU
	startPosition := current.BaseObject.GetStackedStartPositionMod(current.Diff.Mods)

	smallDistNerf := 1.0
	cumulativeStrainTime := 0.0
	result := 0.0

	last := current

	for i := 0; i < min(current.Index, flashlightDepth); i++ {
		currentObj := current.Previous(i)

		if !currentObj.IsSpinner {
			jumpDistance := startPosition.Sub(currentObj.BaseObject.GetStackedEndPositionMod(current.Diff.Mods)).Len()

			cumulativeStrainTime += last.StrainTime

			// We want to nerf objects that can be easily seen within the Flashlight circle radius.
			if i == 0 {
				smallDistNerf = min(1.0, jumpDistance/75.0)
			}

			// We also want to nerf stacks so that only the first object of the stack is accounted for.
			stackNerf := min(1.0, (currentObj.LazyJumpDistance/scalingFactor)/25.0)

			// Bonus based on how visible the object is.
			opacityBonus := 1.0 + maxOpacityBonus*(1.0-current.OpacityAt(currentObj.BaseObject.GetStartTime()))

			result += stackNerf * opacityBonus * scalingFactor * jumpDistance / cumulativeStrainTime
		}

		last = currentObj
	}

	result = math.Pow(smallDistNerf*result, 2.0)

	if current.Diff.CheckModActive(difficulty.Hidden) {
		result *= 1.0 + hiddenBonus
	}

	return result
}

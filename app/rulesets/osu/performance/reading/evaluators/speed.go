package evaluators

import (
	"math"

	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/Givikap120/danser-livepp/framework/math/mutils"
)

const (
	singleSpacingThreshold float64 = 125.0
	minSpeedBonus          float64 = 75.0
	speedBalancingFactor   float64 = 40.0
	distanceMultiplier     float64 = 0.9
)

// EvaluateSpeed measures tapping difficulty of current
func EvaluateSpeed(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner {
		return 0
	}

	strainTime := current.StrainTime
	doubletapness := 1 - current.GetDoubletapness(current.Next(0))

	// Cap deltatime to the OD 300 hitwindow
	strainTime /= mutils.Clamp((strainTime/current.GreatWindow)/0.93, 0.92, 1)

	speedBonus := 0.0
	if strainTime < minSpeedBonus {
		speedBonus = 0.75 * math.Pow((minSpeedBonus-strainTime)/speedBalancingFactor, 2)
	}

	travelDistance := 0.0
	if prev := current.Previous(0); prev != nil {
		travelDistance = prev.TravelDistance
	}

	distance := min(singleSpacingThreshold, travelDistance+current.MinimumJumpDistance)
	distanceBonus := math.Pow(distance/singleSpacingThreshold, 3.95) * distanceMultiplier

	return (1 + speedBonus + distanceBonus) * 1000 / strainTime * doubletapness
}

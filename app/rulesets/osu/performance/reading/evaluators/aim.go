package evaluators

import (
	"math"

	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/preprocessing"
)

const (
	wideAngleMultiplier  float64 = 1.5
	acuteAngleMultiplier float64 = 1.95
	sliderMultiplier     float64 = 1.35
	velocityChangeMult   float64 = 0.75
)

// EvaluateAim measures how hard it is to move the cursor to current
func EvaluateAim(current *preprocessing.DifficultyObject, withSliders bool) float64 {
	last := current.Previous(0)

	if current.IsSpinner || current.Index <= 1 || last == nil || last.IsSpinner {
		return 0
	}

	lastLast := current.Previous(1)

	currVelocity := current.LazyJumpDistance / current.StrainTime

	if last.IsSlider && withSliders {
		travelVelocity := last.TravelDistance / last.TravelTime
		movementVelocity := current.MinimumJumpDistance / current.MinimumJumpTime

		currVelocity = max(currVelocity, movementVelocity+travelVelocity)
	}

	prevVelocity := last.LazyJumpDistance / last.StrainTime

	if lastLast != nil && lastLast.IsSlider && withSliders {
		travelVelocity := lastLast.TravelDistance / lastLast.TravelTime
		movementVelocity := last.MinimumJumpDistance / last.MinimumJumpTime

		prevVelocity = max(prevVelocity, movementVelocity+travelVelocity)
	}

	aimStrain := currVelocity

	angleBonus := 0.0

	// Angle bonuses only make sense for evenly spaced rhythm
	if max(current.StrainTime, last.StrainTime) < 1.25*min(current.StrainTime, last.StrainTime) &&
		!math.IsNaN(current.Angle) && !math.IsNaN(last.Angle) {
		bonusBase := min(currVelocity, prevVelocity)

		wideAngleBonus := calcWideAngleBonus(current.Angle) * bonusBase
		acuteAngleBonus := calcAcuteAngleBonus(current.Angle) * bonusBase

		// Acute angles only matter for jumps, not for streams
		acuteAngleBonus *= min(1, 100/current.StrainTime) * smoothstep(current.LazyJumpDistance, preprocessing.NormalizedRadius, preprocessing.NormalizedRadius*2)

		angleBonus = max(acuteAngleBonus*acuteAngleMultiplier, wideAngleBonus*wideAngleMultiplier)
	}

	velocityChangeBonus := 0.0

	if max(prevVelocity, currVelocity) != 0 {
		distRatio := math.Pow(math.Sin(math.Pi/2*math.Abs(prevVelocity-currVelocity)/max(prevVelocity, currVelocity)), 2)
		overlapVelocityBuff := min(preprocessing.NormalizedRadius*2/min(current.StrainTime, last.StrainTime), math.Abs(prevVelocity-currVelocity))

		velocityChangeBonus = overlapVelocityBuff * distRatio * math.Pow(min(current.StrainTime, last.StrainTime)/max(current.StrainTime, last.StrainTime), 2)
	}

	aimStrain += max(angleBonus, velocityChangeBonus*velocityChangeMult)

	if last.IsSlider && withSliders {
		aimStrain += last.TravelDistance / last.TravelTime * sliderMultiplier
	}

	return aimStrain
}

func calcWideAngleBonus(angle float64) float64 {
	return math.Pow(math.Sin(3.0/4*(min(5.0/6*math.Pi, max(math.Pi/6, angle))-math.Pi/6)), 2)
}

func calcAcuteAngleBonus(angle float64) float64 {
	return 1 - calcWideAngleBonus(angle)
}

func smoothstep(x, start, end float64) float64 {
	x = min(1, max(0, (x-start)/(end-start)))
	return x * x * (3 - 2*x)
}

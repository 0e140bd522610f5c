package reading

import (
	"math"

	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/api"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/skills"
	"github.com/Givikap120/danser-livepp/framework/math/mutils"
)

const (
	PerformanceBaseMultiplier float64 = 1.15
)

// PPv2 holds the score being evaluated. It is not safe for concurrent use, create one per goroutine.
type PPv2 struct {
	attribs api.Attributes

	scoreMaxCombo      int
	countGreat         int
	countOk            int
	countMeh           int
	countMiss          int
	effectiveMissCount float64

	diff *difficulty.Difficulty

	totalHits                    int
	accuracy                     float64
	amountHitObjectsWithAccuracy int
}

func NewPPCalculator() api.IPerformanceCalculator {
	return &PPv2{}
}

// Calculate evaluates a (possibly partial) score against attributes describing the same portion of the map.
// Negative combo or n300 are derived from the attributes.
func (pp *PPv2) Calculate(attribs api.Attributes, combo, n300, n100, n50, nmiss int, acc float64, diff *difficulty.Difficulty) api.PPv2Results {
	pp.setScore(attribs, combo, n300, n100, n50, nmiss, acc, diff)

	multiplier := PerformanceBaseMultiplier * pp.modMultiplier()

	if diff.Mods.Active(difficulty.Relax) {
		pp.effectiveMissCount = pp.relaxMissCount()
	}

	result := pp.calculatePPv2Results()

	// balance multiplier is judged on the full combo version of the play
	pp.effectiveMissCount, pp.countMiss, pp.scoreMaxCombo = 0, 0, pp.attribs.MaxCombo

	result.Total *= multiplier * pp.balanceMultiplier()

	return result
}

func (pp *PPv2) setScore(attribs api.Attributes, combo, n300, n100, n50, nmiss int, acc float64, diff *difficulty.Difficulty) {
	attribs.MaxCombo = max(1, attribs.MaxCombo)

	if combo < 0 {
		combo = attribs.MaxCombo
	}

	if n300 < 0 {
		n300 = max(0, attribs.ObjectCount-n100-n50-nmiss)
	}

	*pp = PPv2{
		attribs:                      attribs,
		diff:                         diff,
		accuracy:                     acc,
		scoreMaxCombo:                combo,
		countGreat:                   n300,
		countOk:                      n100,
		countMeh:                     n50,
		countMiss:                    nmiss,
		totalHits:                    n300 + n100 + n50 + nmiss,
		amountHitObjectsWithAccuracy: attribs.Circles,
	}

	// slider heads are judged on timing too
	if diff.CheckModActive(difficulty.ScoreV2 | difficulty.Lazer) {
		pp.amountHitObjectsWithAccuracy += attribs.Sliders
	}

	pp.effectiveMissCount = pp.calculateEffectiveMissCount()
}

func (pp *PPv2) modMultiplier() float64 {
	multiplier := 1.0

	if pp.diff.Mods.Active(difficulty.NoFail) {
		multiplier *= max(0.9, 1-0.02*pp.effectiveMissCount)
	}

	if pp.diff.Mods.Active(difficulty.SpunOut) && pp.totalHits > 0 {
		spinnerRatio := float64(pp.attribs.Spinners) / float64(pp.totalHits)
		multiplier *= 1 - math.Pow(spinnerRatio, 0.85)
	}

	return multiplier
}

// relaxMissCount counts 100s and 50s as partial misses, less so on low OD
func (pp *PPv2) relaxMissCount() float64 {
	okWeight, mehWeight := 1.0, 1.0

	if od := pp.diff.ODReal; od > 0 {
		okWeight = max(0, 1-math.Pow(od/13.33, 1.8))
		mehWeight = max(0, 1-math.Pow(od/13.33, 5))
	}

	misses := pp.effectiveMissCount + float64(pp.countOk)*okWeight + float64(pp.countMeh)*mehWeight

	return min(misses, float64(pp.totalHits))
}

func (pp *PPv2) calculatePPv2Results() api.PPv2Results {
	aim := pp.computeAimValue()
	speed := pp.computeSpeedValue()
	acc := pp.computeAccuracyValue()
	lowAR := pp.computeLowARValue()
	hidden := pp.computeHiddenValue()

	// flashlight difficulty raises the cognition cap even without the mod
	potentialFlashlight := pp.computeFlashlightValue()

	flashlight := 0.0
	if pp.diff.Mods.Active(difficulty.Flashlight) {
		flashlight = potentialFlashlight
	}

	mechanical := pnorm(1.1, aim, speed)
	cognition := AdjustCognitionPerformance(pnorm(1.5, lowAR, flashlight)+hidden, mechanical, potentialFlashlight)
	reading := AdjustCognitionPerformance(lowAR+hidden, mechanical, flashlight)

	return api.PPv2Results{
		Aim:        aim,
		Speed:      speed,
		Acc:        acc,
		Flashlight: cognition - reading,
		Reading:    reading,
		Total:      cognition + pnorm(1.1, mechanical, acc),
	}
}

// pnorm sums values as a p-norm, the higher p the closer it is to the largest value
func pnorm(p float64, values ...float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += math.Pow(v, p)
	}

	return math.Pow(sum, 1/p)
}

func (pp *PPv2) lengthBonus() float64 {
	hits := float64(pp.totalHits)

	bonus := 0.95 + 0.4*min(1.0, hits/2000.0)
	if hits > 2000 {
		bonus += 0.5 * math.Log10(hits/2000.0)
	}

	return bonus
}

// odScaling rewards aim and reading skills on maps with tight hit windows
func (pp *PPv2) odScaling() float64 {
	return 0.98 + pp.diff.ODReal*pp.diff.ODReal/2500
}

// arBonus is the extra value of very high AR, and of low AR too if lowAR is set
func (pp *PPv2) arBonus(lowAR bool) float64 {
	ar := pp.diff.ARReal

	switch {
	case ar > 10.33:
		return 0.3 * (ar - 10.33)
	case lowAR && ar < 8.0:
		return 0.05 * (8.0 - ar)
	}

	return 0
}

// hiddenBonus makes lower AR with Hidden worth more
func (pp *PPv2) hiddenBonus() float64 {
	if !pp.diff.Mods.Active(difficulty.Hidden) {
		return 1
	}

	return 1.0 + 0.04*(12.0-pp.diff.ARReal)
}

func (pp *PPv2) missPenalty(difficultStrainCount float64) float64 {
	if pp.effectiveMissCount <= 0 {
		return 1
	}

	return pp.calculateMissPenalty(pp.effectiveMissCount, difficultStrainCount)
}

// 15% of sliders are assumed to be difficult, there's no way to tell from the attributes alone.
func (pp *PPv2) sliderNerfFactor() float64 {
	if pp.attribs.Sliders == 0 {
		return 1
	}

	difficultSliders := 0.15 * float64(pp.attribs.Sliders)
	droppedEnds := min(pp.countOk+pp.countMeh+pp.countMiss, pp.attribs.MaxCombo-pp.scoreMaxCombo)
	droppedFraction := mutils.Clamp(float64(droppedEnds), 0, difficultSliders) / difficultSliders

	return mutils.Lerp(math.Pow(1-droppedFraction, 3), 1, pp.attribs.SliderFactor)
}

func (pp *PPv2) computeAimValue() float64 {
	length := pp.lengthBonus()

	arBonus := pp.arBonus(true)
	if pp.diff.CheckModActive(difficulty.Relax) {
		arBonus = 0
	}

	return skills.DefaultDifficultyToPerformance(pp.attribs.Aim) *
		length *
		pp.missPenalty(pp.attribs.AimDifficultStrainCount) *
		(1 + arBonus*length) *
		pp.hiddenBonus() *
		pp.sliderNerfFactor() *
		pp.accuracy *
		pp.odScaling()
}

func (pp *PPv2) computeSpeedValue() float64 {
	if pp.diff.CheckModActive(difficulty.Relax) {
		return 0
	}

	length := pp.lengthBonus()
	od := pp.diff.ODReal

	value := skills.DefaultDifficultyToPerformance(pp.attribs.Speed) *
		length *
		pp.missPenalty(pp.attribs.SpeedDifficultStrainCount) *
		(1 + pp.arBonus(false)*length) *
		pp.hiddenBonus()

	value *= (0.95 + od*od/750) * math.Pow((pp.accuracy+pp.relevantAccuracy())/2.0, (14.5-od)/2)

	// doubletapping leaves 50s behind
	if allowedMehs := float64(pp.totalHits) / 500; float64(pp.countMeh) >= allowedMehs {
		value *= math.Pow(0.99, float64(pp.countMeh)-allowedMehs)
	}

	return value
}

// relevantAccuracy is the accuracy on notes that counted towards speed difficulty, assuming the worst judgements landed there.
func (pp *PPv2) relevantAccuracy() float64 {
	speedNotes := pp.attribs.SpeedNoteCount
	if speedNotes == 0 {
		return 0
	}

	irrelevant := float64(pp.totalHits) - speedNotes

	great := max(0, float64(pp.countGreat)-irrelevant)
	irrelevant = max(0, irrelevant-float64(pp.countGreat))

	ok := max(0, float64(pp.countOk)-irrelevant)
	irrelevant = max(0, irrelevant-float64(pp.countOk))

	meh := max(0, float64(pp.countMeh)-irrelevant)

	return (great*6 + ok*2 + meh) / (speedNotes * 6)
}

func (pp *PPv2) computeAccuracyValue() float64 {
	if pp.diff.Mods.Active(difficulty.Relax) || pp.amountHitObjectsWithAccuracy <= 0 {
		return 0
	}

	timed := float64(pp.amountHitObjectsWithAccuracy)

	// greats on objects without timing judgement don't count
	timedGreats := pp.countGreat - (pp.totalHits - pp.amountHitObjectsWithAccuracy)
	timedAccuracy := max(0, float64(timedGreats*6+pp.countOk*2+pp.countMeh)/(timed*6))

	value := 2.83 * math.Pow(1.52163, pp.diff.ODReal) * math.Pow(timedAccuracy, 24)
	value *= min(1.15, math.Pow(timed/1000.0, 0.3))

	if pp.diff.Mods.Active(difficulty.Hidden) {
		value *= 1.08
	}

	if pp.diff.Mods.Active(difficulty.Flashlight) {
		value *= 1.02
	}

	return value
}

func (pp *PPv2) computeFlashlightValue() float64 {
	value := skills.FlashlightDifficultyToPerformance(pp.attribs.Flashlight)

	if pp.effectiveMissCount > 0 && pp.totalHits > 0 {
		missRatio := pp.effectiveMissCount / float64(pp.totalHits)
		value *= 0.97 * math.Pow(1-math.Pow(missRatio, 0.775), math.Pow(pp.effectiveMissCount, 0.875))
	}

	// the flashlight radius shrinks at 100 and 200 combo, short maps spend more of their time in the big radius
	hits := float64(pp.totalHits)
	radius := 0.7 + 0.1*min(1.0, hits/200.0)
	if hits > 200 {
		radius += 0.2 * min(1.0, (hits-200)/200.0)
	}

	return value *
		pp.getComboScalingFactor() *
		radius *
		(0.5 + pp.accuracy/2.0) *
		pp.odScaling()
}

func (pp *PPv2) computeLowARValue() float64 {
	od := pp.odScaling()

	return skills.LowARDifficultyToPerformance(pp.attribs.ReadingDifficultyLowAR) *
		pp.missPenalty(pp.attribs.LowArDifficultStrainCount) *
		pp.accuracy * pp.accuracy *
		od * od
}

func (pp *PPv2) computeHiddenValue() float64 {
	if !pp.diff.CheckModActive(difficulty.Hidden) {
		return 0
	}

	return skills.HiddenDifficultyToPerformance(pp.attribs.HiddenDifficulty) *
		pp.lengthBonus() *
		pp.missPenalty(pp.attribs.HiddenDifficultStrainCount) *
		pp.accuracy * pp.accuracy *
		pp.odScaling()
}

// calculateEffectiveMissCount guesses misses + slider breaks from combo
func (pp *PPv2) calculateEffectiveMissCount() float64 {
	misses := float64(pp.countMiss)

	if pp.attribs.Sliders == 0 {
		return misses
	}

	threshold := float64(pp.attribs.MaxCombo) - 0.1*float64(pp.attribs.Sliders)
	if float64(pp.scoreMaxCombo) >= threshold {
		return misses
	}

	// can't break more often than there are non-great judgements
	breaks := min(threshold/max(1.0, float64(pp.scoreMaxCombo)), float64(pp.countOk+pp.countMeh+pp.countMiss))

	return max(misses, breaks)
}

// calculateMissPenalty is a 4% reduction for the first miss, scaled by how many difficult strains the map has.
// Early in a map the strain count can be below e, so it's floored at 2 to keep the logarithm positive.
func (pp *PPv2) calculateMissPenalty(missCount, difficultStrainCount float64) float64 {
	strainFactor := 4 * math.Pow(math.Log(max(difficultStrainCount, 2)), 0.94)

	return 0.96 / (missCount/strainFactor + 1)
}

func (pp *PPv2) getComboScalingFactor() float64 {
	if pp.attribs.MaxCombo <= 0 {
		return 1.0
	}

	return min(1.0, math.Pow(float64(pp.scoreMaxCombo)/float64(pp.attribs.MaxCombo), 0.8))
}

// AdjustCognitionPerformance caps cognition (reading + memory) relative to mechanical skill.
// The cap always leaves room for 25pp of memory.
func AdjustCognitionPerformance(cognition, mechanical, flashlight float64) float64 {
	limit := mechanical + flashlight + 25

	ratio := cognition / limit
	if ratio > 50 {
		return limit
	}

	return limit * softmin(ratio*10, 10, 5) / 10
}

// balanceMultiplier boosts plays above 600pp a little
func (pp *PPv2) balanceMultiplier() float64 {
	total := PerformanceBaseMultiplier * pp.calculatePPv2Results().Total
	if total < 600 {
		return 1
	}

	excess := (total - 600) / 1000

	return 1 + min(0.06*excess, 0.088*math.Pow(excess, 0.4))
}

// softmin is a soft minimum between a and b, sharper with higher power
func softmin(a, b, power float64) float64 {
	return a * b / math.Log(math.Pow(power, a)+math.Pow(power, b))
}

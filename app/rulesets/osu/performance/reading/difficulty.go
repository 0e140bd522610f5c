package reading

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/beatmap/objects"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/api"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/skills"
)

const (
	// StarScalingFactor is a global stars multiplier
	StarScalingFactor float64 = 0.0668
	CurrentVersion    int     = 20241018
)

type DifficultyCalculator struct{}

func NewDifficultyCalculator() api.IDifficultyCalculator {
	return &DifficultyCalculator{}
}

// getStarsFromRawValues converts raw skill values to Attributes
func (diffCalc *DifficultyCalculator) getStarsFromRawValues(rawAim, rawAimNoSliders, rawSpeed, rawFlashlight, rawLowAR, rawHidden float64, diff *difficulty.Difficulty, attr api.Attributes) api.Attributes {
	aimRating := math.Sqrt(rawAim) * StarScalingFactor
	aimRatingNoSliders := math.Sqrt(rawAimNoSliders) * StarScalingFactor
	speedRating := math.Sqrt(rawSpeed) * StarScalingFactor
	flashlightRating := math.Sqrt(rawFlashlight) * StarScalingFactor

	lowARRating := math.Sqrt(rawLowAR) * StarScalingFactor
	hiddenRating := math.Sqrt(rawHidden) * StarScalingFactor

	sliderFactor := 1.0
	if aimRating > 0.00001 {
		sliderFactor = aimRatingNoSliders / aimRating
	}

	if diff.CheckModActive(difficulty.TouchDevice) {
		aimRating = math.Pow(aimRating, 0.8)
		flashlightRating = math.Pow(flashlightRating, 0.8)

		lowARRating = math.Pow(lowARRating, 0.8)
		hiddenRating = math.Pow(hiddenRating, 0.8)
	}

	if diff.CheckModActive(difficulty.Relax) {
		aimRating *= 0.9
		speedRating = 0
		flashlightRating *= 0.7

		lowARRating *= 0.95
		hiddenRating *= 0.7
	}

	var total float64

	baseAimPerformance := skills.DefaultDifficultyToPerformance(aimRating)
	baseSpeedPerformance := skills.DefaultDifficultyToPerformance(speedRating)

	baseLowARPerformance := skills.LowARDifficultyToPerformance(lowARRating)

	potentialFlashlightPerformance := skills.FlashlightDifficultyToPerformance(flashlightRating)

	baseFlashlightPerformance := 0.0
	baseHiddenPerformance := 0.0

	if diff.CheckModActive(difficulty.Flashlight) {
		baseFlashlightPerformance = potentialFlashlightPerformance
	}

	if diff.CheckModActive(difficulty.Hidden) {
		baseHiddenPerformance = skills.HiddenDifficultyToPerformance(hiddenRating)
	}

	baseFlashlightARPerformance := math.Pow(
		math.Pow(baseLowARPerformance, 1.5)+
			math.Pow(baseFlashlightPerformance, 1.5),
		1.0/1.5,
	)

	baseCognitionPerformance := baseFlashlightARPerformance + baseHiddenPerformance
	baseMechanicalPerformance := math.Pow(
		math.Pow(baseAimPerformance, 1.1)+
			math.Pow(baseSpeedPerformance, 1.1),
		1.0/1.1,
	)

	baseCognitionPerformance = AdjustCognitionPerformance(baseCognitionPerformance, baseMechanicalPerformance, potentialFlashlightPerformance)
	basePerformance := baseMechanicalPerformance + baseCognitionPerformance

	if basePerformance > 0.00001 {
		total = math.Cbrt(PerformanceBaseMultiplier) * 0.027 * (math.Cbrt(100000/math.Pow(2, 1/1.1)*basePerformance) + 4)
	}

	attr.Total = total
	attr.Aim = aimRating
	attr.SliderFactor = sliderFactor
	attr.Speed = speedRating
	attr.Flashlight = flashlightRating

	attr.ReadingDifficultyLowAR = lowARRating
	attr.HiddenDifficulty = hiddenRating

	return attr
}

// Retrieves skill values and converts to Attributes
func (diffCalc *DifficultyCalculator) getStars(skills *SkillsProcessor, diff *difficulty.Difficulty, attr api.Attributes) api.Attributes {
	attr = diffCalc.getStarsFromRawValues(
		skills.Aim.DifficultyValue(),
		skills.AimWithoutSliders.DifficultyValue(),
		skills.Speed.DifficultyValue(),
		skills.Flashlight.DifficultyValue(),
		skills.ReadingLowAR.DifficultyValue(),
		skills.ReadingHidden.DifficultyValue(),
		diff,
		attr,
	)

	attr.SpeedNoteCount = skills.Speed.RelevantNoteCount()
	attr.AimDifficultStrainCount = skills.Aim.CountDifficultStrains()
	attr.SpeedDifficultStrainCount = skills.Speed.CountDifficultStrains()

	attr.LowArDifficultStrainCount = skills.ReadingLowAR.CountDifficultStrains()
	attr.HiddenDifficultStrainCount = skills.ReadingHidden.CountDifficultStrains()

	return attr
}

func (diffCalc *DifficultyCalculator) addObjectToAttribs(o objects.IHitObject, attr *api.Attributes) {
	if s, ok := o.(*objects.Slider); ok {
		attr.Sliders++
		attr.MaxCombo += len(s.ScorePoints)
	} else if _, ok := o.(*objects.Circle); ok {
		attr.Circles++
	} else if _, ok := o.(*objects.Spinner); ok {
		attr.Spinners++
	}

	attr.MaxCombo++
	attr.ObjectCount++
}

// CalculateSingle calculates the final Attributes of a map
func (diffCalc *DifficultyCalculator) CalculateSingle(objs []objects.IHitObject, diff *difficulty.Difficulty) api.Attributes {
	attr := api.Attributes{}

	if len(objs) == 0 {
		return attr
	}

	diffObjects := preprocessing.CreateDifficultyObjects(objs, diff)

	skills := NewSkillsProcessor(diff)

	diffCalc.addObjectToAttribs(objs[0], &attr)

	for i, o := range diffObjects {
		diffCalc.addObjectToAttribs(objs[i+1], &attr)

		skills.Process(o)
	}

	return diffCalc.getStars(skills, diff, attr)
}

// CalculateStep calculates successive star ratings for every part of a beatmap
func (diffCalc *DifficultyCalculator) CalculateStep(objs []objects.IHitObject, diff *difficulty.Difficulty) []api.Attributes {
	timed, _ := diffCalc.CalculateTimed(context.Background(), objs, diff)

	stars := make([]api.Attributes, len(timed))
	for i, t := range timed {
		stars[i] = *t.Attributes
	}

	return stars
}

// CalculateTimed calculates attributes after every object, keyed by the object's end time.
// It stops with ctx's error if ctx is cancelled mid-way.
func (diffCalc *DifficultyCalculator) CalculateTimed(ctx context.Context, objs []objects.IHitObject, diff *difficulty.Difficulty) ([]api.TimedAttributes, error) {
	if len(objs) == 0 {
		return nil, nil
	}

	modString := difficulty.GetDiffMaskedMods(diff.Mods).String()
	if modString == "" {
		modString = "NM"
	}

	log.Println("Calculating step SR for mods:", modString)

	startTime := time.Now()

	diffObjects := preprocessing.CreateDifficultyObjects(objs, diff)

	skills := NewSkillsProcessor(diff)

	first := api.Attributes{}
	diffCalc.addObjectToAttribs(objs[0], &first)

	timed := make([]api.TimedAttributes, 1, len(objs))
	timed[0] = api.TimedAttributes{Time: objs[0].GetEndTime(), Attributes: &first}

	for i, o := range diffObjects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attr := *timed[i].Attributes
		diffCalc.addObjectToAttribs(objs[i+1], &attr)

		skills.Process(o)

		attr = diffCalc.getStars(skills, diff, attr)

		timed = append(timed, api.TimedAttributes{Time: objs[i+1].GetEndTime(), Attributes: &attr})
	}

	log.Println("Calculations finished! Took", time.Since(startTime).Truncate(time.Millisecond).String())

	return timed, nil
}

func (diffCalc *DifficultyCalculator) GetVersion() int {
	return CurrentVersion
}

func (diffCalc *DifficultyCalculator) GetVersionMessage() string {
	return "2024-10-18: reading rework"
}

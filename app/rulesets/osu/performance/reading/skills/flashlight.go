package skills

import (
	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/evaluators"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/preprocessing"
)

const (
	flashlightSkillMultiplier float64 = 0.05512
	flashlightStrainDecayBase float64 = 0.15
)

type Flashlight struct {
	*Skill
	strain
}

func NewFlashlightSkill(d *difficulty.Difficulty) *Flashlight {
	skill := &Flashlight{
		Skill:  NewSkill(d),
		strain: strain{decayBase: flashlightStrainDecayBase},
	}

	skill.StrainValueOf = func(current *preprocessing.DifficultyObject) float64 {
		return skill.add(current.DeltaTime, evaluators.EvaluateFlashlight(current)*flashlightSkillMultiplier)
	}

	skill.CalculateInitialStrain = skill.initial

	return skill
}

// DifficultyValue for flashlight is a plain sum, memorization gets harder with length
func (skill *Flashlight) DifficultyValue() float64 {
	skill.difficulty = 0

	for _, p := range skill.GetCurrentStrainPeaks() {
		skill.difficulty += p
	}

	skill.difficulty *= 1.06

	return skill.difficulty
}

func FlashlightDifficultyToPerformance(difficulty float64) float64 {
	return 25 * difficulty * difficulty
}

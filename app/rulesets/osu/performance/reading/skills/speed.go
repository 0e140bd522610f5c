package skills

import (
	"math"

	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/evaluators"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/preprocessing"
)

const (
	speedSkillMultiplier float64 = 1.430
	speedStrainDecayBase float64 = 0.3
)

type SpeedSkill struct {
	*Skill
	strain
}

func NewSpeedSkill(d *difficulty.Difficulty) *SpeedSkill {
	skill := &SpeedSkill{
		Skill:  NewSkill(d),
		strain: strain{decayBase: speedStrainDecayBase},
	}

	skill.ReducedSectionCount = 5

	skill.StrainValueOf = func(current *preprocessing.DifficultyObject) float64 {
		return skill.add(current.StrainTime, evaluators.EvaluateSpeed(current)*speedSkillMultiplier)
	}

	skill.CalculateInitialStrain = skill.initial

	return skill
}

// RelevantNoteCount estimates how many notes contribute to speed difficulty
func (skill *SpeedSkill) RelevantNoteCount() float64 {
	maxStrain := 0.0
	for _, s := range skill.objectStrains {
		maxStrain = max(maxStrain, s)
	}

	if maxStrain == 0 {
		return 0
	}

	count := 0.0
	for _, s := range skill.objectStrains {
		count += 1.0 / (1.0 + math.Exp(-(s/maxStrain*12.0 - 6.0)))
	}

	return count
}

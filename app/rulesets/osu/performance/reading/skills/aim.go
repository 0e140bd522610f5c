package skills

import (
	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/evaluators"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/preprocessing"
)

const (
	aimSkillMultiplier float64 = 25.18
	aimStrainDecayBase float64 = 0.15

	readingHiddenSkillMultiplier float64 = 7.632
)

type AimSkill struct {
	*Skill
	strain

	withSliders bool
}

func NewAimSkill(d *difficulty.Difficulty, withSliders bool) *AimSkill {
	skill := &AimSkill{
		Skill:       NewSkill(d),
		strain:      strain{decayBase: aimStrainDecayBase},
		withSliders: withSliders,
	}

	skill.StrainValueOf = func(current *preprocessing.DifficultyObject) float64 {
		return skill.add(current.DeltaTime, evaluators.EvaluateAim(current, skill.withSliders)*aimSkillMultiplier)
	}

	skill.CalculateInitialStrain = skill.initial

	return skill
}

// ReadingHidden is aim without slider travel, scaled by how hard objects are to see with Hidden
type ReadingHidden struct {
	*AimSkill
}

func NewReadingHidden(d *difficulty.Difficulty) *ReadingHidden {
	skill := &ReadingHidden{AimSkill: NewAimSkill(d, false)}

	skill.StrainValueOf = func(current *preprocessing.DifficultyObject) float64 {
		hidden := evaluators.EvaluateAim(current, false) * evaluators.EvaluateHiddenDifficultyOf(current)
		return skill.add(current.DeltaTime, hidden*readingHiddenSkillMultiplier)
	}

	return skill
}

func HiddenDifficultyToPerformance(difficulty float64) float64 {
	return max(difficulty*16, difficulty*difficulty*10, difficulty*difficulty*difficulty*4)
}

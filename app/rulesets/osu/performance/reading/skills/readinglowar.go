package skills

import (
	"math"

	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/evaluators"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/preprocessing"
)

const (
	readingLowARSkillMultiplier        float64 = 1.23
	readingLowARAimComponentMultiplier float64 = 0.4
	readingLowARStrainDecayBase        float64 = 0.15
)

// ReadingLowAR measures difficulty of reading dense patterns
type ReadingLowAR struct {
	*Skill
	densityAim strain
}

func NewReadingLowAR(d *difficulty.Difficulty) *ReadingLowAR {
	skill := &ReadingLowAR{
		Skill:      NewSkill(d),
		densityAim: strain{decayBase: readingLowARStrainDecayBase},
	}

	skill.ReducedSectionCount = 5
	skill.ReducedStrainBaseline = 0.7

	skill.StrainValueOf = skill.readingLowARStrainValue

	return skill
}

// Density strain doesn't carry over to new sections, each section starts from zero
func (skill *ReadingLowAR) readingLowARStrainValue(current *preprocessing.DifficultyObject) float64 {
	densityReadingDifficulty := evaluators.EvaluateReadingLowARDifficultyOf(current)
	densityAimingFactor := evaluators.EvaluateAimingDensityFactorOf(current)

	densityAim := skill.densityAim.add(current.DeltaTime, densityAimingFactor*evaluators.EvaluateAim(current, true)*readingLowARAimComponentMultiplier)

	return (densityAim + densityReadingDifficulty) * readingLowARSkillMultiplier
}

func LowARDifficultyToPerformance(difficulty float64) float64 {
	return math.Max(
		math.Max(math.Pow(difficulty, 1.5)*20, math.Pow(difficulty, 2)*17.0),
		math.Max(math.Pow(difficulty, 3)*10.5, math.Pow(difficulty, 4)*6.00),
	)
}

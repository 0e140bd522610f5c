package skills

import (
	"math"
	"slices"

	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/Givikap120/danser-livepp/framework/math/mutils"
)

// Skill accumulates strain peaks over fixed-length sections of a beatmap
type Skill struct {
	// Length of a single strain section in milliseconds
	SectionLength float64

	// Weight decay of successively weaker sections
	DecayWeight float64

	// Number of hardest sections reduced to account for outlier difficulty spikes
	ReducedSectionCount int

	// Multiplier applied to the hardest section after reduction
	ReducedStrainBaseline float64

	diff *difficulty.Difficulty

	strainPeaks        []float64
	currentSectionPeak float64
	currentSectionEnd  float64

	objectStrains []float64

	peakWeights []float64

	difficulty float64

	StrainValueOf          func(current *preprocessing.DifficultyObject) float64
	CalculateInitialStrain func(time float64, current *preprocessing.DifficultyObject) float64
}

func NewSkill(d *difficulty.Difficulty) *Skill {
	return &Skill{
		SectionLength:         400,
		DecayWeight:           0.9,
		ReducedSectionCount:   10,
		ReducedStrainBaseline: 0.75,
		diff:                  d,
	}
}

func (skill *Skill) Process(current *preprocessing.DifficultyObject) {
	if current.Index == 0 {
		skill.currentSectionEnd = math.Ceil(current.StartTime/skill.SectionLength) * skill.SectionLength
	}

	for current.StartTime > skill.currentSectionEnd {
		skill.strainPeaks = append(skill.strainPeaks, skill.currentSectionPeak)
		skill.startNewSectionFrom(skill.currentSectionEnd, current)
		skill.currentSectionEnd += skill.SectionLength
	}

	strain := skill.StrainValueOf(current)

	skill.addStrain(strain)
}

func (skill *Skill) addStrain(strain float64) {
	skill.objectStrains = append(skill.objectStrains, strain)
	skill.currentSectionPeak = max(strain, skill.currentSectionPeak)
}

func (skill *Skill) startNewSectionFrom(end float64, current *preprocessing.DifficultyObject) {
	if skill.CalculateInitialStrain == nil {
		skill.currentSectionPeak = 0
		return
	}

	skill.currentSectionPeak = skill.CalculateInitialStrain(end, current)
}

// GetCurrentStrainPeaks returns section peaks including the one still in progress
func (skill *Skill) GetCurrentStrainPeaks() []float64 {
	peaks := make([]float64, len(skill.strainPeaks), len(skill.strainPeaks)+1)
	copy(peaks, skill.strainPeaks)

	return append(peaks, skill.currentSectionPeak)
}

func (skill *Skill) DifficultyValue() float64 {
	if skill.peakWeights == nil {
		skill.peakWeights = make([]float64, skill.ReducedSectionCount)
		for i := range skill.ReducedSectionCount {
			scale := math.Log10(mutils.Lerp(1.0, 10.0, mutils.Clamp(float64(i)/float64(skill.ReducedSectionCount), 0, 1)))
			skill.peakWeights[i] = mutils.Lerp(skill.ReducedStrainBaseline, 1.0, scale)
		}
	}

	strains := make([]float64, 0, len(skill.strainPeaks)+1)

	for _, p := range skill.GetCurrentStrainPeaks() {
		if p > 0 {
			strains = append(strains, p)
		}
	}

	slices.SortFunc(strains, func(a, b float64) int {
		return compareDesc(a, b)
	})

	for i := range min(len(strains), skill.ReducedSectionCount) {
		strains[i] *= skill.peakWeights[i]
	}

	slices.SortFunc(strains, func(a, b float64) int {
		return compareDesc(a, b)
	})

	skill.difficulty = 0.0
	weight := 1.0

	for _, strain := range strains {
		skill.difficulty += strain * weight
		weight *= skill.DecayWeight
	}

	return skill.difficulty
}

// CountDifficultStrains returns a weighted count of strains close to the top difficulty.
// Must be called after DifficultyValue.
func (skill *Skill) CountDifficultStrains() float64 {
	if skill.difficulty == 0 {
		return 0
	}

	// What would the top strain be if all strain values were identical
	consistentTopStrain := skill.difficulty / 10

	count := 0.0
	for _, s := range skill.objectStrains {
		count += 1.1 / (1 + math.Exp(-10*(s/consistentTopStrain-0.88)))
	}

	return count
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}

	return 0
}

func DefaultDifficultyToPerformance(difficulty float64) float64 {
	return math.Pow(5.0*max(1.0, difficulty/0.0675)-4.0, 3.0) / 100000.0
}

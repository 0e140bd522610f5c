package reading

import (
	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading/skills"
)

type SkillsProcessor struct {
	Aim               *skills.AimSkill
	AimWithoutSliders *skills.AimSkill
	Speed             *skills.SpeedSkill
	Flashlight        *skills.Flashlight
	ReadingLowAR      *skills.ReadingLowAR
	ReadingHidden     *skills.ReadingHidden

	isHidden bool
}

func NewSkillsProcessor(d *difficulty.Difficulty) *SkillsProcessor {
	return &SkillsProcessor{
		Aim:               skills.NewAimSkill(d, true),
		AimWithoutSliders: skills.NewAimSkill(d, false),
		Speed:             skills.NewSpeedSkill(d),
		Flashlight:        skills.NewFlashlightSkill(d),
		ReadingLowAR:      skills.NewReadingLowAR(d),
		ReadingHidden:     skills.NewReadingHidden(d),
		isHidden:          d.CheckModActive(difficulty.Hidden),
	}
}

func (skills *SkillsProcessor) Process(current *preprocessing.DifficultyObject) {
	skills.Aim.Process(current)
	skills.AimWithoutSliders.Process(current)
	skills.Speed.Process(current)
	skills.Flashlight.Process(current)
	skills.ReadingLowAR.Process(current)

	if skills.isHidden {
		skills.ReadingHidden.Process(current)
	}
}

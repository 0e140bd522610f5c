package difficulty

import (
	"math"
	"strconv"
)

const (
	HitFadeIn = 400.0
)

type Difficulty struct {
	baseHP, baseCS, baseOD, baseAR float64

	Mods Modifier

	HPMod float64
	CSMod float64
	ODMod float64
	ARMod float64

	ARReal float64
	ODReal float64

	PreemptU float64
	Preempt  float64

	TimeFadeIn float64

	Hit50U  float64
	Hit100U float64
	Hit300U float64

	CircleRadiusU float64

	Speed float64
}

func NewDifficulty(hp, cs, od, ar float64) *Difficulty {
	diff := &Difficulty{
		baseHP: hp,
		baseCS: cs,
		baseOD: od,
		baseAR: ar,
	}

	diff.calculate()

	return diff
}

func (diff *Difficulty) calculate() {
	hp, cs, od, ar := diff.baseHP, diff.baseCS, diff.baseOD, diff.baseAR

	if diff.CheckModActive(HardRock) {
		ar = min(ar*1.4, 10)
		cs = min(cs*1.3, 10)
		od = min(od*1.4, 10)
		hp = min(hp*1.4, 10)
	}

	if diff.CheckModActive(Easy) {
		ar /= 2
		cs /= 2
		od /= 2
		hp /= 2
	}

	diff.HPMod = hp
	diff.CSMod = cs
	diff.ODMod = od
	diff.ARMod = ar

	diff.Speed = 1.0

	if diff.CheckModActive(DoubleTime | Nightcore) {
		diff.Speed = 1.5
	} else if diff.CheckModActive(HalfTime) {
		diff.Speed = 0.75
	}

	diff.CircleRadiusU = 54.4 - 4.48*cs

	diff.PreemptU = DifficultyRate(ar, 1800, 1200, 450)
	diff.Preempt = diff.PreemptU / diff.Speed

	diff.TimeFadeIn = HitFadeIn * min(1, diff.PreemptU/450)

	diff.Hit50U = 200 - 10*od
	diff.Hit100U = 140 - 8*od
	diff.Hit300U = 80 - 6*od

	if diff.Preempt > 1200 {
		diff.ARReal = (1800 - diff.Preempt) / 120
	} else {
		diff.ARReal = (1200-diff.Preempt)/150 + 5
	}

	diff.ODReal = (80 - diff.Hit300U/diff.Speed) / 6
}

func (diff *Difficulty) SetMods(mods Modifier) {
	diff.Mods = mods
	diff.calculate()
}

func (diff *Difficulty) CheckModActive(mods Modifier) bool {
	return diff.Mods.Active(mods)
}

func (diff *Difficulty) GetBaseHP() float64 { return diff.baseHP }
func (diff *Difficulty) GetBaseCS() float64 { return diff.baseCS }
func (diff *Difficulty) GetBaseOD() float64 { return diff.baseOD }
func (diff *Difficulty) GetBaseAR() float64 { return diff.baseAR }

func (diff *Difficulty) Clone() *Difficulty {
	c := *diff
	return &c
}

// DifficultyRate maps a 0-10 difficulty value onto a min/mid/max range.
func DifficultyRate(diff, min, mid, max float64) float64 {
	diff = float64(float32(diff))

	if diff > 5 {
		return mid + (max-mid)*(diff-5)/5
	}

	if diff < 5 {
		return mid - (mid-min)*(5-diff)/5
	}

	return mid
}

func (diff *Difficulty) GetModifiedTime(time float64) float64 {
	return time / diff.Speed
}

// String mirrors the osu! song select style, e.g. "AR9.3 OD8 CS4".
func (diff *Difficulty) String() string {
	return "AR" + formatValue(diff.ARReal) + " OD" + formatValue(diff.ODReal) + " CS" + formatValue(diff.CSMod)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

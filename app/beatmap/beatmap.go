package beatmap

import (
	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/beatmap/objects"
)

type TimingPoint struct {
	Time       float64
	BeatLength float64
	Inherited  bool
}

type BeatMap struct {
	Artist  string
	Title   string
	Version string
	Creator string
	Mode    int

	File string
	MD5  string

	Diff *difficulty.Difficulty

	SliderMultiplier float64
	TickRate         float64

	Timings    []TimingPoint
	HitObjects []objects.IHitObject
}

func (bm *BeatMap) String() string {
	return bm.Artist + " - " + bm.Title + " [" + bm.Version + "]"
}

// MaxCombo is the combo of a full combo play: one per object plus one per slider score point
func (bm *BeatMap) MaxCombo() int {
	combo := 0

	for _, o := range bm.HitObjects {
		combo++

		if s, ok := o.(*objects.Slider); ok {
			combo += len(s.ScorePoints)
		}
	}

	return combo
}

const (
	minBeatLength = 6
	maxBeatLength = 60000

	minTickRate = 0.5
	maxTickRate = 8
)

// timingAt returns the active uninherited beat length and slider velocity multiplier at time
func (bm *BeatMap) timingAt(time float64) (beatLength, svMultiplier float64) {
	beatLength = 500
	svMultiplier = 1

	for _, p := range bm.Timings {
		if p.Time > time {
			break
		}

		if p.Inherited {
			svMultiplier = min(10, max(0.1, -100/p.BeatLength))
		} else {
			beatLength = min(maxBeatLength, max(minBeatLength, p.BeatLength))
			svMultiplier = 1
		}
	}

	return
}

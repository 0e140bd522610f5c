package preprocessing

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/beatmap/objects"
	"github.com/Givikap120/danser-livepp/framework/math/mutils"
)

const (
	NormalizedRadius        = 50.0
	CircleSizeBuffThreshold = 30.0
	MinDeltaTime            = 25

	maximumSliderRadius = NormalizedRadius * 2.4
	assumedSliderRadius = NormalizedRadius * 1.8
)

type DifficultyObject struct {
	listOfDiffs *[]*DifficultyObject
	Index       int

	Diff *difficulty.Difficulty

	BaseObject objects.IHitObject

	IsSlider  bool
	IsSpinner bool

	lastObject     objects.IHitObject
	lastLastObject objects.IHitObject

	DeltaTime float64
	StartTime float64
	EndTime   float64

	LazyJumpDistance    float64
	MinimumJumpDistance float64
	MinimumJumpTime     float64

	TravelDistance float64
	TravelTime     float64

	Angle float64

	StrainTime  float64
	GreatWindow float64
	ClockRate   float64
	Preempt     float64
}

// CreateDifficultyObjects wraps every object except the first one, which has nothing to be compared against
func CreateDifficultyObjects(objs []objects.IHitObject, d *difficulty.Difficulty) []*DifficultyObject {
	diffObjects := make([]*DifficultyObject, 0, max(0, len(objs)-1))

	for i := 1; i < len(objs); i++ {
		var lastLast objects.IHitObject
		if i > 1 {
			lastLast = objs[i-2]
		}

		diffObjects = append(diffObjects, NewDifficultyObject(objs[i], lastLast, objs[i-1], d, &diffObjects, i-1))
	}

	return diffObjects
}

func NewDifficultyObject(hitObject, lastLastObject, lastObject objects.IHitObject, d *difficulty.Difficulty, listOfDiffs *[]*DifficultyObject, index int) *DifficultyObject {
	obj := &DifficultyObject{
		listOfDiffs:    listOfDiffs,
		Index:          index,
		Diff:           d,
		BaseObject:     hitObject,
		lastObject:     lastObject,
		lastLastObject: lastLastObject,
		DeltaTime:      (hitObject.GetStartTime() - lastObject.GetStartTime()) / d.Speed,
		StartTime:      hitObject.GetStartTime() / d.Speed,
		EndTime:        hitObject.GetEndTime() / d.Speed,
		Angle:          math.NaN(),
		GreatWindow:    2 * d.Hit300U / d.Speed,
		ClockRate:      d.Speed,
		Preempt:        d.PreemptU / d.Speed,
	}

	if _, ok := hitObject.(*objects.Spinner); ok {
		obj.IsSpinner = true
	}

	if _, ok := hitObject.(*objects.Slider); ok {
		obj.IsSlider = true
	}

	obj.StrainTime = max(obj.DeltaTime, MinDeltaTime)

	obj.setDistances()

	return obj
}

func (o *DifficultyObject) GetDoubletapness(osuNextObj *DifficultyObject) float64 {
	if osuNextObj != nil {
		currDeltaTime := max(1, o.DeltaTime)
		nextDeltaTime := max(1, osuNextObj.DeltaTime)
		deltaDifference := math.Abs(nextDeltaTime - currDeltaTime)
		speedRatio := currDeltaTime / max(currDeltaTime, deltaDifference)
		windowRatio := math.Pow(min(1, currDeltaTime/o.GreatWindow), 2)
		return 1 - math.Pow(speedRatio, 1-windowRatio)
	}

	return 0
}

// OpacityAt returns how visible this object is at the given (unscaled) time
func (o *DifficultyObject) OpacityAt(time float64) float64 {
	if time > o.BaseObject.GetStartTime() {
		return 0
	}

	fadeInStartTime := o.BaseObject.GetStartTime() - o.Diff.PreemptU
	fadeInDuration := o.Diff.TimeFadeIn

	if o.Diff.CheckModActive(difficulty.Hidden) {
		fadeOutStartTime := o.BaseObject.GetStartTime() - o.Diff.PreemptU + o.Diff.TimeFadeIn
		fadeOutDuration := o.Diff.PreemptU * 0.3

		return min(
			mutils.Clamp((time-fadeInStartTime)/fadeInDuration, 0.0, 1.0),
			1.0-mutils.Clamp((time-fadeOutStartTime)/fadeOutDuration, 0.0, 1.0),
		)
	}

	return mutils.Clamp((time-fadeInStartTime)/fadeInDuration, 0.0, 1.0)
}

func (o *DifficultyObject) Previous(backwardsIndex int) *DifficultyObject {
	index := o.Index - (backwardsIndex + 1)

	if index < 0 {
		return nil
	}

	return (*o.listOfDiffs)[index]
}

func (o *DifficultyObject) Next(forwardsIndex int) *DifficultyObject {
	index := o.Index + (forwardsIndex + 1)

	if index >= len(*o.listOfDiffs) {
		return nil
	}

	return (*o.listOfDiffs)[index]
}

func (o *DifficultyObject) setDistances() {
	if currentSlider, ok := o.BaseObject.(*objects.Slider); ok {
		// RepeatCount includes the first span
		o.TravelDistance = currentSlider.LazyTravelDistance * math.Pow(1+float64(currentSlider.RepeatCount-1)/2.5, 1.0/2.5)
		o.TravelTime = max(currentSlider.GetDuration()/o.Diff.Speed, MinDeltaTime)
	}

	_, ok1 := o.BaseObject.(*objects.Spinner)
	_, ok2 := o.lastObject.(*objects.Spinner)

	if ok1 || ok2 {
		return
	}

	scalingFactor := NormalizedRadius / o.Diff.CircleRadiusU

	if o.Diff.CircleRadiusU < CircleSizeBuffThreshold {
		smallCircleBonus := min(CircleSizeBuffThreshold-o.Diff.CircleRadiusU, 5.0) / 50.0
		scalingFactor *= 1.0 + smallCircleBonus
	}

	startPosition := o.BaseObject.GetStackedStartPositionMod(o.Diff.Mods)
	lastCursorPosition := getEndCursorPosition(o.lastObject, o.Diff)

	o.LazyJumpDistance = startPosition.Mul(scalingFactor).Sub(lastCursorPosition.Mul(scalingFactor)).Len()
	o.MinimumJumpTime = o.StrainTime
	o.MinimumJumpDistance = o.LazyJumpDistance

	if lastSlider, ok := o.lastObject.(*objects.Slider); ok {
		lastTravelTime := max(lastSlider.GetDuration()/o.Diff.Speed, MinDeltaTime)
		o.MinimumJumpTime = max(o.StrainTime-lastTravelTime, MinDeltaTime)

		// Players either cut the slider short (lazy jump) or follow it to the tail (tail jump), assume the shorter one
		tailJumpDistance := lastSlider.GetStackedEndPositionMod(o.Diff.Mods).Sub(startPosition).Len() * scalingFactor
		o.MinimumJumpDistance = max(0, min(o.LazyJumpDistance-(maximumSliderRadius-assumedSliderRadius), tailJumpDistance-maximumSliderRadius))
	}

	if o.lastLastObject != nil {
		if _, ok := o.lastLastObject.(*objects.Spinner); ok {
			return
		}

		lastLastCursorPosition := getEndCursorPosition(o.lastLastObject, o.Diff)

		v1 := lastLastCursorPosition.Sub(o.lastObject.GetStackedStartPositionMod(o.Diff.Mods))
		v2 := startPosition.Sub(lastCursorPosition)
		dot := v1.Dot(v2)
		det := v1[0]*v2[1] - v1[1]*v2[0]
		o.Angle = math.Abs(math.Atan2(det, dot))
	}
}

func getEndCursorPosition(obj objects.IHitObject, d *difficulty.Difficulty) mgl64.Vec2 {
	if s, ok := obj.(*objects.Slider); ok {
		return s.GetStackedEndPositionMod(d.Mods)
	}

	return obj.GetStackedStartPositionMod(d.Mods)
}

package objects

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
)

const PlayfieldHeight = 384.0

type IHitObject interface {
	GetID() int
	SetID(id int)

	GetStartTime() float64
	GetEndTime() float64
	GetDuration() float64

	GetStartPosition() mgl64.Vec2
	GetEndPosition() mgl64.Vec2

	GetStackedStartPositionMod(mods difficulty.Modifier) mgl64.Vec2
	GetStackedEndPositionMod(mods difficulty.Modifier) mgl64.Vec2

	IsNewCombo() bool
}

type HitObject struct {
	ID int

	StartTime float64
	EndTime   float64

	StartPosition mgl64.Vec2
	EndPosition   mgl64.Vec2

	NewCombo bool
}

func (o *HitObject) GetID() int                   { return o.ID }
func (o *HitObject) SetID(id int)                 { o.ID = id }
func (o *HitObject) GetStartTime() float64        { return o.StartTime }
func (o *HitObject) GetEndTime() float64          { return o.EndTime }
func (o *HitObject) GetDuration() float64         { return o.EndTime - o.StartTime }
func (o *HitObject) GetStartPosition() mgl64.Vec2 { return o.StartPosition }
func (o *HitObject) GetEndPosition() mgl64.Vec2   { return o.EndPosition }
func (o *HitObject) IsNewCombo() bool             { return o.NewCombo }

func (o *HitObject) GetStackedStartPositionMod(mods difficulty.Modifier) mgl64.Vec2 {
	return modifyPosition(o.StartPosition, mods)
}

func (o *HitObject) GetStackedEndPositionMod(mods difficulty.Modifier) mgl64.Vec2 {
	return modifyPosition(o.EndPosition, mods)
}

func modifyPosition(pos mgl64.Vec2, mods difficulty.Modifier) mgl64.Vec2 {
	if mods.Active(difficulty.HardRock) {
		pos[1] = PlayfieldHeight - pos[1]
	}

	return pos
}

type Circle struct {
	*HitObject
}

func NewCircle(time float64, position mgl64.Vec2, newCombo bool) *Circle {
	return &Circle{
		HitObject: &HitObject{
			StartTime:     time,
			EndTime:       time,
			StartPosition: position,
			EndPosition:   position,
			NewCombo:      newCombo,
		},
	}
}

type Spinner struct {
	*HitObject
}

func NewSpinner(startTime, endTime float64, newCombo bool) *Spinner {
	center := mgl64.Vec2{256, 192}

	return &Spinner{
		HitObject: &HitObject{
			StartTime:     startTime,
			EndTime:       endTime,
			StartPosition: center,
			EndPosition:   center,
			NewCombo:      newCombo,
		},
	}
}

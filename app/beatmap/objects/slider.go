package objects

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ScorePointKind tells what kind of judgement a slider score point produces
type ScorePointKind int

const (
	Tick ScorePointKind = iota
	Repeat
	Tail
)

const (
	MaxRepeats     = 9000
	MaxPixelLength = 100000

	// maxSliderTicks bounds the ticks of one slider across all of its spans
	maxSliderTicks = 1 << 16
)

type ScorePoint struct {
	Time float64
	Kind ScorePointKind
}

type Slider struct {
	*HitObject

	PixelLength float64
	RepeatCount int

	// ControlPoints are raw curve points, the head included
	ControlPoints []mgl64.Vec2

	// ScorePoints hold ticks, repeats and the tail, sorted by time
	ScorePoints []ScorePoint

	// LazyTravelDistance approximates the cursor path length over a single span
	LazyTravelDistance float64
}

func NewSlider(startTime float64, controlPoints []mgl64.Vec2, repeats int, pixelLength float64, newCombo bool) *Slider {
	return &Slider{
		HitObject: &HitObject{
			StartTime:     startTime,
			EndTime:       startTime,
			StartPosition: controlPoints[0],
			EndPosition:   controlPoints[0],
			NewCombo:      newCombo,
		},
		PixelLength:   min(MaxPixelLength, max(0, pixelLength)),
		RepeatCount:   min(MaxRepeats, max(1, repeats)),
		ControlPoints: controlPoints,
	}
}

// SetTiming fills end time, end position and score points. velocity is in osu!pixels per millisecond,
// tickInterval is the time between ticks in milliseconds.
func (s *Slider) SetTiming(velocity, tickInterval float64) {
	spanDuration := 0.0
	if velocity > 0 {
		spanDuration = s.PixelLength / velocity
	}

	s.EndTime = s.StartTime + spanDuration*float64(s.RepeatCount)

	tailPosition := s.pointAtProgress(1)
	if s.RepeatCount%2 == 0 {
		s.EndPosition = s.StartPosition
	} else {
		s.EndPosition = tailPosition
	}

	s.LazyTravelDistance = tailPosition.Sub(s.StartPosition).Len()

	s.ScorePoints = s.ScorePoints[:0]

	if tickInterval > 0 {
		spanTicks := maxSliderTicks / s.RepeatCount
		tickInterval = max(tickInterval, spanDuration/float64(spanTicks+1))
	}

	for span := 0; span < s.RepeatCount; span++ {
		spanStart := s.StartTime + float64(span)*spanDuration
		spanEnd := spanStart + spanDuration

		if tickInterval > 0 {
			for t := tickInterval; t < spanDuration-10; t += tickInterval {
				tickTime := spanStart + t
				if span%2 == 1 {
					tickTime = spanEnd - t
				}

				s.ScorePoints = append(s.ScorePoints, ScorePoint{Time: tickTime, Kind: Tick})
			}

			// reversed spans generate ticks backwards
			if span%2 == 1 {
				reverseLastTicks(s.ScorePoints, spanStart)
			}
		}

		kind := Repeat
		if span == s.RepeatCount-1 {
			kind = Tail
		}

		s.ScorePoints = append(s.ScorePoints, ScorePoint{Time: spanEnd, Kind: kind})
	}
}

func reverseLastTicks(points []ScorePoint, since float64) {
	i := len(points)
	for i > 0 && points[i-1].Kind == Tick && points[i-1].Time > since {
		i--
	}

	for l, r := i, len(points)-1; l < r; l, r = l+1, r-1 {
		points[l], points[r] = points[r], points[l]
	}
}

// pointAtProgress walks the control polygon, which is close enough for difficulty purposes
func (s *Slider) pointAtProgress(progress float64) mgl64.Vec2 {
	if len(s.ControlPoints) < 2 || s.PixelLength == 0 {
		return s.StartPosition
	}

	target := s.PixelLength * progress
	walked := 0.0

	for i := 1; i < len(s.ControlPoints); i++ {
		segment := s.ControlPoints[i].Sub(s.ControlPoints[i-1])
		length := segment.Len()

		if walked+length >= target && length > 0 {
			return s.ControlPoints[i-1].Add(segment.Mul((target - walked) / length))
		}

		walked += length
	}

	// the curve is longer than the control polygon, extend the last segment
	last := s.ControlPoints[len(s.ControlPoints)-1]
	prev := s.ControlPoints[len(s.ControlPoints)-2]

	direction := last.Sub(prev)
	if direction.Len() == 0 {
		return last
	}

	return last.Add(direction.Normalize().Mul(target - walked))
}

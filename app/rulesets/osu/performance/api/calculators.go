package api

import (
	"context"

	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/beatmap/objects"
)

type IDifficultyCalculator interface {
	// CalculateSingle calculates the final Attributes of a map
	CalculateSingle(objects []objects.IHitObject, diff *difficulty.Difficulty) Attributes

	// CalculateStep calculates successive Attributes for every object of a map
	CalculateStep(objects []objects.IHitObject, diff *difficulty.Difficulty) []Attributes

	// CalculateTimed is a cancellable CalculateStep keyed by object end times
	CalculateTimed(ctx context.Context, objects []objects.IHitObject, diff *difficulty.Difficulty) ([]TimedAttributes, error)

	GetVersion() int
	GetVersionMessage() string
}

type IPerformanceCalculator interface {
	// Calculate returns pp values of a play. Negative combo or n300 are replaced with full combo / remaining objects.
	Calculate(attribs Attributes, combo, n300, n100, n50, nmiss int, acc float64, diff *difficulty.Difficulty) PPv2Results
}

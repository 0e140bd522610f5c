package play

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/Givikap120/danser-livepp/app/beatmap"
	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/beatmap/objects"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/scoring"
	"github.com/wieku/rplpa"
)

var ErrBeatmapMismatch = errors.New("replay was not played on this beatmap")

// Plan is an ordered list of judgements to feed into a session
type Plan []scoring.JudgementResult

// PerfectPlan judges every object and score point as hit.
func PerfectPlan(bm *beatmap.BeatMap) Plan {
	results := make([]scoring.HitResult, len(bm.HitObjects))
	for i := range results {
		results[i] = scoring.Great
	}

	return buildPlan(bm.HitObjects, results)
}

// PlanFromCounts spreads the given non-Great results evenly over the map's objects, the rest are Greats.
// Misses come first in the spread, then 100s, then 50s.
func PlanFromCounts(bm *beatmap.BeatMap, n100, n50, nmiss int) (Plan, error) {
	total := len(bm.HitObjects)
	bad := n100 + n50 + nmiss

	if n100 < 0 || n50 < 0 || nmiss < 0 {
		return nil, fmt.Errorf("negative judgement count: %d/%d/%d", n100, n50, nmiss)
	}

	if bad > total {
		return nil, fmt.Errorf("%d non-great judgements for %d objects", bad, total)
	}

	results := make([]scoring.HitResult, total)
	for i := range results {
		results[i] = scoring.Great
	}

	kinds := make([]scoring.HitResult, 0, bad)
	kinds = appendN(kinds, scoring.Miss, nmiss)
	kinds = appendN(kinds, scoring.Ok, n100)
	kinds = appendN(kinds, scoring.Meh, n50)

	for k, kind := range kinds {
		// middle of the k-th of bad equal segments
		results[(2*k+1)*total/(2*bad)] = kind
	}

	return buildPlan(bm.HitObjects, results), nil
}

// PlanFromReplay derives a plan from a replay's judgement counts. Returns the replay's mods too.
func PlanFromReplay(bm *beatmap.BeatMap, replay *rplpa.Replay) (Plan, difficulty.Modifier, error) {
	if replay.BeatmapMD5 != "" && bm.MD5 != "" && replay.BeatmapMD5 != bm.MD5 {
		return nil, 0, ErrBeatmapMismatch
	}

	plan, err := PlanFromCounts(bm, int(replay.Count100), int(replay.Count50), int(replay.CountMiss))
	if err != nil {
		return nil, 0, fmt.Errorf("replay by %s: %w", replay.Username, err)
	}

	return plan, difficulty.Modifier(replay.Mods), nil
}

func LoadReplay(path string) (*rplpa.Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	replay, err := rplpa.ParseReplay(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse replay %s: %w", path, err)
	}

	return replay, nil
}

func appendN(s []scoring.HitResult, r scoring.HitResult, n int) []scoring.HitResult {
	for i := 0; i < n; i++ {
		s = append(s, r)
	}

	return s
}

// buildPlan expands per-object results into judgements in time order.
// Slider score points are hit unless the slider is missed; the slider's own judgement lands at its end.
func buildPlan(objs []objects.IHitObject, results []scoring.HitResult) Plan {
	plan := make(Plan, 0, len(objs))

	for i, o := range objs {
		if s, ok := o.(*objects.Slider); ok {
			tick := scoring.LargeTickHit
			if results[i] == scoring.Miss {
				tick = scoring.LargeTickMiss
			}

			for _, p := range s.ScorePoints {
				plan = append(plan, scoring.JudgementResult{HitObject: o, Type: tick, Time: p.Time})
			}
		}

		plan = append(plan, scoring.JudgementResult{HitObject: o, Type: results[i], Time: o.GetEndTime()})
	}

	slices.SortStableFunc(plan, func(a, b scoring.JudgementResult) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}

		return 0
	})

	return plan
}

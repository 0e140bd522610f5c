package play

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Givikap120/danser-livepp/app/beatmap"
	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/api"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/live"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/timed"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/scoring"
	"github.com/wieku/rplpa"
)

const testMap = `osu file format v14

[General]
Mode: 0

[Metadata]
Title:Test Song
Artist:Someone
Version:Insane

[Difficulty]
HPDrainRate:5
CircleSize:4
OverallDifficulty:8
ApproachRate:9
SliderMultiplier:1
SliderTickRate:1

[TimingPoints]
0,500,4,2,0,100,1,0

[HitObjects]
256,192,1000,5,0,0:0:0:0:
100,100,1500,2,0,L|300:100,1,200
256,192,3000,12,0,4000,0:0:0:0:
`

func loadMap(t *testing.T) *beatmap.BeatMap {
	t.Helper()

	bm, err := beatmap.Parse(strings.NewReader(testMap))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	return bm
}

func types(plan Plan) []scoring.HitResult {
	out := make([]scoring.HitResult, len(plan))
	for i, j := range plan {
		out[i] = j.Type
	}

	return out
}

func sameResults(a, b []scoring.HitResult) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func TestPerfectPlan(t *testing.T) {
	bm := loadMap(t)
	plan := PerfectPlan(bm)

	want := []scoring.HitResult{scoring.Great, scoring.LargeTickHit, scoring.LargeTickHit, scoring.Great, scoring.Great}
	if !sameResults(types(plan), want) {
		t.Fatalf("plan = %v", types(plan))
	}

	for i := 1; i < len(plan); i++ {
		if plan[i].Time < plan[i-1].Time {
			t.Errorf("plan out of order at %d", i)
		}
	}

	p := scoring.NewScoreProcessor()
	for _, j := range plan {
		p.ApplyResult(j)
	}

	if p.MaxCombo() != bm.MaxCombo() || p.Accuracy() != 1 {
		t.Errorf("max combo %d (map %d), accuracy %v", p.MaxCombo(), bm.MaxCombo(), p.Accuracy())
	}
}

func TestPlanFromCounts(t *testing.T) {
	bm := loadMap(t)

	plan, err := PlanFromCounts(bm, 1, 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	want := []scoring.HitResult{scoring.Miss, scoring.LargeTickHit, scoring.LargeTickHit, scoring.Great, scoring.Ok}
	if !sameResults(types(plan), want) {
		t.Errorf("plan = %v", types(plan))
	}

	plan, _ = PlanFromCounts(bm, 0, 0, 3)
	for _, j := range plan {
		if j.Type.IsHit() {
			t.Errorf("%v in an all-miss plan", j.Type)
		}
	}

	if _, err = PlanFromCounts(bm, 2, 1, 1); err == nil {
		t.Error("expected an error for more judgements than objects")
	}

	if _, err = PlanFromCounts(bm, -1, 0, 0); err == nil {
		t.Error("expected an error for a negative count")
	}
}

func TestPlanFromReplay(t *testing.T) {
	bm := loadMap(t)

	replay := &rplpa.Replay{
		BeatmapMD5: bm.MD5,
		Username:   "player",
		Count300:   2,
		Count50:    1,
		Mods:       uint32(difficulty.Hidden | difficulty.HardRock),
	}

	plan, mods, err := PlanFromReplay(bm, replay)
	if err != nil {
		t.Fatal(err)
	}

	if mods != difficulty.Hidden|difficulty.HardRock {
		t.Errorf("mods = %v", mods)
	}

	mehs := 0
	for _, j := range plan {
		if j.Type == scoring.Meh {
			mehs++
		}
	}

	if mehs != 1 {
		t.Errorf("got %d mehs", mehs)
	}

	replay.BeatmapMD5 = "something else"
	if _, _, err = PlanFromReplay(bm, replay); !errors.Is(err, ErrBeatmapMismatch) {
		t.Errorf("err = %v", err)
	}
}

// objectProvider gives every object an entry at its end time with Total = index + 1
type objectProvider struct{}

func (objectProvider) ComputeTimed(_ context.Context, req timed.Request) ([]api.TimedAttributes, error) {
	entries := make([]api.TimedAttributes, len(req.BeatMap.HitObjects))
	for i, o := range req.BeatMap.HitObjects {
		entries[i] = api.TimedAttributes{Time: o.GetEndTime(), Attributes: &api.Attributes{Total: float64(i + 1)}}
	}

	return entries, nil
}

type scaledPP struct{}

func (scaledPP) Calculate(attribs api.Attributes, _, _, _, _, _ int, _ float64, _ *difficulty.Difficulty) api.PPv2Results {
	return api.PPv2Results{Total: attribs.Total * 10}
}

func TestSession(t *testing.T) {
	bm := loadMap(t)

	s := NewSession(bm, Options{
		Policies:    []live.Policy{live.Absolute, live.Incremental, live.SimulatedPerfect},
		Ruleset:     "osu",
		Mods:        difficulty.Hidden,
		Provider:    objectProvider{},
		Performance: scaledPP{},
	})
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.Start(ctx)

	if err := s.WaitReady(ctx); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}

	steps, err := s.Play(ctx, PerfectPlan(bm))
	if err != nil {
		t.Fatal(err)
	}

	want := [][]int64{
		{10, 0, 10},
		{20, 10, 20},
		{20, 10, 20},
		{20, 10, 20},
		{30, 20, 30},
	}

	if len(steps) != len(want) {
		t.Fatalf("got %d steps", len(steps))
	}

	for i, step := range steps {
		for k, d := range step.Values {
			if !d.Valid || d.Value != want[i][k] {
				t.Errorf("step %d estimator %d = %+v, want %d", i, k, d, want[i][k])
			}
		}
	}

	if bm.Diff.Mods != difficulty.None || s.Diff.Mods != difficulty.Hidden {
		t.Error("session mods leaked into the beatmap")
	}
}

func TestSessionRevertEvery(t *testing.T) {
	bm := loadMap(t)

	s := NewSession(bm, Options{
		Policies:    []live.Policy{live.Incremental},
		Provider:    objectProvider{},
		Performance: scaledPP{},
		RevertEvery: 2,
	})
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.Start(ctx)
	s.WaitReady(ctx)

	steps, _ := s.Play(ctx, PerfectPlan(bm))

	if s.MaxCombo() != bm.MaxCombo() || s.Accuracy() != 1 {
		t.Errorf("max combo %d accuracy %v after reverts", s.MaxCombo(), s.Accuracy())
	}

	// reapplying the same judgement doesn't add to the running total
	if last := steps[len(steps)-1].Values[0]; last.Value != 20 {
		t.Errorf("final incremental value = %d", last.Value)
	}
}

func TestSessionCancelled(t *testing.T) {
	bm := loadMap(t)

	s := NewSession(bm, Options{Policies: []live.Policy{live.Absolute}, Provider: objectProvider{}})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	steps, err := s.Play(ctx, PerfectPlan(bm))
	if !errors.Is(err, context.Canceled) || len(steps) != 0 {
		t.Errorf("Play on cancelled context = %d steps, %v", len(steps), err)
	}
}

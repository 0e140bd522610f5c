package live

import (
	"context"
	"testing"
	"time"

	"github.com/Givikap120/danser-livepp/app/beatmap"
	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/api"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/timed"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/scoring"
	"github.com/Givikap120/danser-livepp/framework/events"
	"github.com/Givikap120/danser-livepp/framework/scheduler"
)

type providerFunc func(ctx context.Context, req timed.Request) ([]api.TimedAttributes, error)

func (f providerFunc) ComputeTimed(ctx context.Context, req timed.Request) ([]api.TimedAttributes, error) {
	return f(ctx, req)
}

func staticProvider(entries ...api.TimedAttributes) providerFunc {
	return func(context.Context, timed.Request) ([]api.TimedAttributes, error) {
		return entries, nil
	}
}

// fakeProcessor lets tests raise judgements without the bookkeeping of a real processor
type fakeProcessor struct {
	state     scoring.ScoreState
	results   []scoring.JudgementResult
	added     events.Event[scoring.JudgementResult]
	reverted  events.Event[scoring.JudgementResult]
	populated int
}

func (p *fakeProcessor) OnNewJudgement(fn func(scoring.JudgementResult)) *events.Subscription {
	return p.added.Subscribe(fn)
}

func (p *fakeProcessor) OnJudgementReverted(fn func(scoring.JudgementResult)) *events.Subscription {
	return p.reverted.Subscribe(fn)
}

func (p *fakeProcessor) LastResult() (scoring.JudgementResult, bool) {
	if len(p.results) == 0 {
		return scoring.JudgementResult{}, false
	}

	return p.results[len(p.results)-1], true
}

func (p *fakeProcessor) Populate(target *scoring.ScoreState) {
	p.populated++
	*target = p.state
	target.Statistics = p.state.Statistics.Clone()
}

func (p *fakeProcessor) judge(at float64) {
	result := scoring.JudgementResult{Type: scoring.Great, Time: at}

	p.results = append(p.results, result)
	p.added.Raise(result)
}

func testGameplay(processor ScoreProcessor) Gameplay {
	d := difficulty.NewDifficulty(5, 4, 8, 9)
	d.SetMods(difficulty.Hidden | difficulty.DoubleTime)

	return Gameplay{
		Processor: processor,
		Request: timed.Request{
			BeatMap: &beatmap.BeatMap{Title: "test", Diff: d},
			Ruleset: "osu",
			Diff:    d,
		},
	}
}

func waitAndUpdate(t *testing.T, s *scheduler.Scheduler) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Wait(ctx); err != nil {
		t.Fatalf("table was never delivered: %v", err)
	}

	s.Update()
}

func newReadyEstimator(t *testing.T, policy Policy, calc Calculator, processor ScoreProcessor, entries ...api.TimedAttributes) *Estimator {
	t.Helper()

	sched := scheduler.New()

	est := NewEstimator(policy, timed.NewBuilder(staticProvider(entries...), sched), calc)
	est.Attach(context.Background(), testGameplay(processor))

	waitAndUpdate(t, sched)

	if est.State() != Ready {
		t.Fatalf("state = %v, want ready", est.State())
	}

	return est
}

func TestScenario(t *testing.T) {
	tests := []struct {
		policy Policy
		want   []int64
	}{
		{Absolute, []int64{50, 52, 49}},
		{Incremental, []int64{0, 2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			processor := &fakeProcessor{}
			est := newReadyEstimator(t, tt.policy, sequence(50, 52, 49), processor, api.TimedAttributes{Time: 0, Attributes: &api.Attributes{}})
			defer est.Close()

			if est.IsValid() {
				t.Error("valid before any judgement")
			}

			for i, at := range []float64{10, 20, 30} {
				processor.judge(at)

				if !est.IsValid() || est.Value() != tt.want[i] {
					t.Errorf("after judgement %d: value %d valid %v, want %d", i, est.Value(), est.IsValid(), tt.want[i])
				}
			}
		})
	}
}

func TestLookupUsesHitObjectEndTime(t *testing.T) {
	a, b := &api.Attributes{Total: 1}, &api.Attributes{Total: 2}

	var used *api.Attributes
	calc := CalculatorFunc(func(_ *scoring.ScoreState, attribs *api.Attributes) float64 {
		used = attribs
		return attribs.Total
	})

	processor := scoring.NewScoreProcessor()
	est := newReadyEstimator(t, Absolute, calc, processor,
		api.TimedAttributes{Time: 0, Attributes: a},
		api.TimedAttributes{Time: 500, Attributes: b},
	)
	defer est.Close()

	slider := &fakeObject{start: 100, end: 600}

	// a tick judged before 500 still uses the slider's end time
	processor.ApplyResult(scoring.JudgementResult{HitObject: slider, Type: scoring.LargeTickHit, Time: 300})

	if used != b {
		t.Errorf("used %v, want attributes at the slider end", used)
	}
}

func TestPendingJudgementEvaluatedOnReady(t *testing.T) {
	a, b := &api.Attributes{Total: 1}, &api.Attributes{Total: 2}

	release := make(chan struct{})
	provider := providerFunc(func(ctx context.Context, _ timed.Request) ([]api.TimedAttributes, error) {
		<-release
		return []api.TimedAttributes{{Time: 0, Attributes: a}, {Time: 25, Attributes: b}}, nil
	})

	calls := 0
	var used *api.Attributes
	calc := CalculatorFunc(func(_ *scoring.ScoreState, attribs *api.Attributes) float64 {
		calls++
		used = attribs
		return 42
	})

	sched := scheduler.New()
	processor := &fakeProcessor{}

	est := NewEstimator(Absolute, timed.NewBuilder(provider, sched), calc)
	est.Attach(context.Background(), testGameplay(processor))
	defer est.Close()

	if est.State() != TableLoading {
		t.Fatalf("state = %v, want loading", est.State())
	}

	for _, at := range []float64{10, 20, 30} {
		processor.judge(at)
	}

	if calls != 0 || est.IsValid() {
		t.Fatalf("evaluated while loading")
	}

	close(release)
	waitAndUpdate(t, sched)

	if calls != 1 {
		t.Errorf("calculator called %d times on ready, want 1", calls)
	}

	if used != b {
		t.Errorf("pending evaluation used %v, want the latest judgement's bucket", used)
	}

	if !est.IsValid() || est.Value() != 42 {
		t.Errorf("value %d valid %v", est.Value(), est.IsValid())
	}
}

func TestAttachMidPlayEvaluatesLastJudgement(t *testing.T) {
	a, b := &api.Attributes{Total: 1}, &api.Attributes{Total: 2}

	var used *api.Attributes
	calc := CalculatorFunc(func(state *scoring.ScoreState, attribs *api.Attributes) float64 {
		used = attribs
		return float64(state.MaxCombo * 10)
	})

	processor := scoring.NewScoreProcessor()
	processor.ApplyResult(scoring.JudgementResult{HitObject: &fakeObject{start: 10, end: 10}, Type: scoring.Great, Time: 10})
	processor.ApplyResult(scoring.JudgementResult{HitObject: &fakeObject{start: 300, end: 600}, Type: scoring.Great, Time: 600})

	est := newReadyEstimator(t, Absolute, calc, processor,
		api.TimedAttributes{Time: 0, Attributes: a},
		api.TimedAttributes{Time: 500, Attributes: b},
	)
	defer est.Close()

	if !est.IsValid() || est.Value() != 20 {
		t.Errorf("value %d valid %v, want 20", est.Value(), est.IsValid())
	}

	if used != b {
		t.Errorf("used %v, want the last judgement's bucket", used)
	}
}

func TestReadyWithoutJudgementsStaysInvalid(t *testing.T) {
	calls := 0
	calc := CalculatorFunc(func(*scoring.ScoreState, *api.Attributes) float64 {
		calls++
		return 1
	})

	est := newReadyEstimator(t, Absolute, calc, &fakeProcessor{}, api.TimedAttributes{Time: 0, Attributes: &api.Attributes{}})
	defer est.Close()

	if calls != 0 || est.IsValid() {
		t.Errorf("evaluated without a judgement")
	}
}

func TestCloseBeforeReady(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{})

	provider := providerFunc(func(ctx context.Context, _ timed.Request) ([]api.TimedAttributes, error) {
		defer close(done)

		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		return []api.TimedAttributes{{Time: 0, Attributes: &api.Attributes{}}}, nil
	})

	calls := 0
	calc := CalculatorFunc(func(*scoring.ScoreState, *api.Attributes) float64 {
		calls++
		return 1
	})

	sched := scheduler.New()
	processor := &fakeProcessor{}

	est := NewEstimator(Absolute, timed.NewBuilder(provider, sched), calc)
	est.Attach(context.Background(), testGameplay(processor))

	processor.judge(10)

	if processor.added.Len() != 1 || processor.reverted.Len() != 1 {
		t.Fatalf("not subscribed")
	}

	est.Close()
	est.Close()

	if processor.added.Len() != 0 || processor.reverted.Len() != 0 {
		t.Errorf("still subscribed after Close")
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("builder ignored cancellation")
	}

	time.Sleep(10 * time.Millisecond)
	sched.Update()

	processor.judge(20)

	if calls != 0 || est.IsValid() || est.State() != Closed {
		t.Errorf("estimator active after Close: calls %d state %v", calls, est.State())
	}
}

func TestCloseAfterResultQueued(t *testing.T) {
	calls := 0
	calc := CalculatorFunc(func(*scoring.ScoreState, *api.Attributes) float64 {
		calls++
		return 1
	})

	sched := scheduler.New()
	processor := &fakeProcessor{}

	est := NewEstimator(Absolute, timed.NewBuilder(staticProvider(api.TimedAttributes{Time: 0, Attributes: &api.Attributes{}}), sched), calc)
	est.Attach(context.Background(), testGameplay(processor))

	processor.judge(10)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sched.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	est.Close()
	sched.Update()

	if calls != 0 || est.State() != Closed {
		t.Errorf("table delivered after Close")
	}
}

func TestNoProcessor(t *testing.T) {
	sched := scheduler.New()

	est := NewEstimator(Absolute, timed.NewBuilder(staticProvider(), sched), sequence(1))
	est.Attach(context.Background(), testGameplay(nil))
	defer est.Close()

	if est.IsValid() || est.State() != Uninitialized {
		t.Errorf("state %v valid %v", est.State(), est.IsValid())
	}

	if n := sched.Update(); n != 0 {
		t.Errorf("a build was started without a processor")
	}
}

func TestNullAttributesToggleInvalid(t *testing.T) {
	processor := &fakeProcessor{}

	est := newReadyEstimator(t, Incremental, sequence(10, 20, 1000, 25), processor,
		api.TimedAttributes{Time: 0, Attributes: &api.Attributes{}},
		api.TimedAttributes{Time: 100, Attributes: nil},
		api.TimedAttributes{Time: 200, Attributes: &api.Attributes{}},
	)
	defer est.Close()

	processor.judge(10)
	processor.judge(20)

	if !est.IsValid() || est.Value() != 10 {
		t.Fatalf("value %d valid %v", est.Value(), est.IsValid())
	}

	processor.judge(150)

	if est.IsValid() || est.Value() != 10 {
		t.Errorf("placeholder bucket: value %d valid %v", est.Value(), est.IsValid())
	}

	// the calculator wasn't consulted for the placeholder, so the next total is 1000
	processor.judge(250)

	if !est.IsValid() || est.Value() != 990 {
		t.Errorf("value %d valid %v", est.Value(), est.IsValid())
	}
}

func TestNilCalculator(t *testing.T) {
	processor := &fakeProcessor{}
	est := newReadyEstimator(t, Absolute, nil, processor, api.TimedAttributes{Time: 0, Attributes: &api.Attributes{}})
	defer est.Close()

	processor.judge(10)

	if est.IsValid() {
		t.Error("valid without a calculator")
	}
}

func TestRevertReevaluates(t *testing.T) {
	var combos []int
	calc := CalculatorFunc(func(state *scoring.ScoreState, _ *api.Attributes) float64 {
		combos = append(combos, state.MaxCombo)
		return float64(state.MaxCombo * 10)
	})

	processor := scoring.NewScoreProcessor()
	est := newReadyEstimator(t, Absolute, calc, processor, api.TimedAttributes{Time: 0, Attributes: &api.Attributes{}})
	defer est.Close()

	obj := &fakeObject{start: 10, end: 10}
	processor.ApplyResult(scoring.JudgementResult{HitObject: obj, Type: scoring.Great, Time: 10})
	processor.ApplyResult(scoring.JudgementResult{HitObject: obj, Type: scoring.Great, Time: 10})
	processor.RevertResult()

	if len(combos) != 3 || combos[2] != 1 {
		t.Errorf("combos seen = %v", combos)
	}

	if est.Value() != 10 {
		t.Errorf("value after revert = %d", est.Value())
	}
}

func TestModsAreClonedAtAttach(t *testing.T) {
	var mods []difficulty.Modifier
	calc := CalculatorFunc(func(state *scoring.ScoreState, _ *api.Attributes) float64 {
		mods = append(mods, state.Mods)
		return 1
	})

	sched := scheduler.New()
	processor := &fakeProcessor{}
	gp := testGameplay(processor)

	est := NewEstimator(Absolute, timed.NewBuilder(staticProvider(api.TimedAttributes{Time: 0, Attributes: &api.Attributes{}}), sched), calc)
	est.Attach(context.Background(), gp)
	defer est.Close()

	gp.Request.Diff.SetMods(difficulty.Easy)

	waitAndUpdate(t, sched)
	processor.judge(10)

	if len(mods) != 1 || mods[0] != difficulty.Hidden|difficulty.DoubleTime {
		t.Errorf("mods seen = %v", mods)
	}
}

func TestOnChange(t *testing.T) {
	processor := &fakeProcessor{}
	est := newReadyEstimator(t, Absolute, sequence(5, 5, 7), processor, api.TimedAttributes{Time: 0, Attributes: &api.Attributes{}})
	defer est.Close()

	var seen []Display
	sub := est.OnChange(func(d Display) { seen = append(seen, d) })

	processor.judge(1)
	processor.judge(2)
	processor.judge(3)

	sub.Unsubscribe()

	if len(seen) != 2 || seen[0] != (Display{5, true}) || seen[1] != (Display{7, true}) {
		t.Errorf("changes = %v", seen)
	}
}

// Package play drives a simulated gameplay session: judgements go into a score processor
// and every attached estimator reports its displayed value after each one.
package play

import (
	"context"
	"log"

	"github.com/Givikap120/danser-livepp/app/beatmap"
	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/api"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/live"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/timed"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/scoring"
	"github.com/Givikap120/danser-livepp/framework/scheduler"
	"github.com/google/uuid"
)

type Options struct {
	Policies []live.Policy
	Ruleset  string
	Mods     difficulty.Modifier

	Provider    timed.Provider
	Performance api.IPerformanceCalculator

	// RevertEvery > 0 reverts and reapplies every N-th judgement
	RevertEvery int
}

// Step is the state of every estimator after one judgement
type Step struct {
	Time   float64
	Result scoring.HitResult
	Values []live.Display
}

type Session struct {
	ID      uuid.UUID
	BeatMap *beatmap.BeatMap
	Diff    *difficulty.Difficulty

	processor  *scoring.ScoreProcessor
	scheduler  *scheduler.Scheduler
	estimators []*live.Estimator

	revertEvery int
	ruleset     string
}

func NewSession(bm *beatmap.BeatMap, opts Options) *Session {
	diff := bm.Diff.Clone()
	diff.SetMods(opts.Mods)

	sched := scheduler.New()
	builder := timed.NewBuilder(timed.NewSharedProvider(opts.Provider), sched)

	s := &Session{
		ID:          uuid.New(),
		BeatMap:     bm,
		Diff:        diff,
		processor:   scoring.NewScoreProcessor(),
		scheduler:   sched,
		revertEvery: opts.RevertEvery,
		ruleset:     opts.Ruleset,
	}

	for _, policy := range opts.Policies {
		var calc live.Calculator
		if opts.Performance != nil {
			calc = live.NewPerformanceCalculator(opts.Performance, bm.Diff)
		}

		s.estimators = append(s.estimators, live.NewEstimator(policy, builder, calc))
	}

	return s
}

// Start attaches every estimator, which kicks off attribute computation.
func (s *Session) Start(ctx context.Context) {
	mods := s.Diff.Mods.String()
	if mods == "" {
		mods = "NM"
	}

	log.Printf("Session %s: %s +%s with %d estimators", s.ID, s.BeatMap.String(), mods, len(s.estimators))

	gp := live.Gameplay{
		Processor: s.processor,
		Request: timed.Request{
			BeatMap: s.BeatMap,
			Ruleset: s.ruleset,
			Diff:    s.Diff,
		},
	}

	for _, e := range s.estimators {
		e.Attach(ctx, gp)
	}
}

// WaitReady runs the update loop until every estimator has its attributes or ctx is done.
func (s *Session) WaitReady(ctx context.Context) error {
	for !s.ready() {
		if err := s.scheduler.Wait(ctx); err != nil {
			return err
		}

		s.scheduler.Update()
	}

	return nil
}

func (s *Session) ready() bool {
	for _, e := range s.estimators {
		if e.State() != live.Ready {
			return false
		}
	}

	return true
}

// Play feeds plan into the score processor in order, running the update loop after every judgement.
func (s *Session) Play(ctx context.Context, plan Plan) ([]Step, error) {
	steps := make([]Step, 0, len(plan))

	for i, j := range plan {
		if err := ctx.Err(); err != nil {
			return steps, err
		}

		s.processor.ApplyResult(j)

		if s.revertEvery > 0 && (i+1)%s.revertEvery == 0 {
			s.processor.RevertResult()
			s.processor.ApplyResult(j)
		}

		s.scheduler.Update()

		steps = append(steps, Step{
			Time:   j.Time,
			Result: j.Type,
			Values: s.Values(),
		})
	}

	return steps, nil
}

// Values returns the current display of every estimator, in policy order
func (s *Session) Values() []live.Display {
	values := make([]live.Display, len(s.estimators))

	for i, e := range s.estimators {
		values[i] = live.Display{Value: e.Value(), Valid: e.IsValid()}
	}

	return values
}

func (s *Session) Estimators() []*live.Estimator {
	return s.estimators
}

func (s *Session) Accuracy() float64 {
	return s.processor.Accuracy()
}

func (s *Session) MaxCombo() int {
	return s.processor.MaxCombo()
}

// Close tears every estimator down
func (s *Session) Close() {
	for _, e := range s.estimators {
		e.Close()
	}
}

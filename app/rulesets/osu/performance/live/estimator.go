// Package live keeps a running pp estimate of a play in progress.
package live

import (
	"context"

	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/timed"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/scoring"
	"github.com/Givikap120/danser-livepp/framework/events"
)

// ScoreProcessor is the live scoring stream an Estimator listens to.
type ScoreProcessor interface {
	OnNewJudgement(fn func(scoring.JudgementResult)) *events.Subscription
	OnJudgementReverted(fn func(scoring.JudgementResult)) *events.Subscription
	LastResult() (scoring.JudgementResult, bool)
	Populate(target *scoring.ScoreState)
}

// Gameplay is what an Estimator needs from the session it attaches to.
type Gameplay struct {
	Processor ScoreProcessor
	Request   timed.Request
}

type State int

const (
	Uninitialized State = iota
	TableLoading
	Ready
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case TableLoading:
		return "loading"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	}

	return "unknown"
}

// Display is the value shown to the player. Value keeps the last valid number while Valid is false.
type Display struct {
	Value int64
	Valid bool
}

// Estimator maintains the displayed pp of one play with one Policy.
// Everything except the Builder's computation runs on the update thread, it is not safe for concurrent use.
type Estimator struct {
	evaluator  evaluator
	calculator Calculator
	builder    *timed.Builder

	state     State
	processor ScoreProcessor
	mods      difficulty.Modifier
	table     *timed.Table

	pendingTime float64
	hasPending  bool

	display Display

	cancel        context.CancelFunc
	subscriptions []*events.Subscription

	changed events.Event[Display]
}

func NewEstimator(policy Policy, builder *timed.Builder, calculator Calculator) *Estimator {
	return &Estimator{
		evaluator:  evaluator{policy: policy},
		calculator: calculator,
		builder:    builder,
	}
}

// Attach subscribes to the score processor and starts building attributes for gp.Request.
// If the play is already underway, its last judgement is evaluated as soon as the attributes are ready.
// Mods are cloned here and stay fixed for the rest of the session. Attaching twice or after Close does nothing.
func (e *Estimator) Attach(ctx context.Context, gp Gameplay) {
	if e.state != Uninitialized {
		return
	}

	if gp.Processor == nil || gp.Request.Diff == nil {
		e.setDisplay(e.display.Value, false)
		return
	}

	req := gp.Request
	req.Diff = req.Diff.Clone()

	e.processor = gp.Processor
	e.mods = req.Diff.Mods

	e.subscriptions = append(e.subscriptions,
		gp.Processor.OnNewJudgement(e.onJudgement),
		gp.Processor.OnJudgementReverted(e.onJudgement),
	)

	if last, ok := gp.Processor.LastResult(); ok {
		e.pendingTime = judgementTime(last)
		e.hasPending = true
	}

	ctx, e.cancel = context.WithCancel(ctx)

	e.state = TableLoading

	e.builder.Build(ctx, req, e.onTableReady)
}

func (e *Estimator) onTableReady(table *timed.Table) {
	if e.state != TableLoading {
		return
	}

	e.table = table
	e.state = Ready

	if e.hasPending {
		e.hasPending = false
		e.evaluate(e.pendingTime)
	}
}

// onJudgement handles both new and reverted judgements, the bucket is chosen by the hit object's end time either way.
func (e *Estimator) onJudgement(result scoring.JudgementResult) {
	time := judgementTime(result)

	switch e.state {
	case TableLoading:
		e.pendingTime = time
		e.hasPending = true
	case Ready:
		e.evaluate(time)
	}
}

func judgementTime(result scoring.JudgementResult) float64 {
	if result.HitObject != nil {
		return result.HitObject.GetEndTime()
	}

	return result.Time
}

func (e *Estimator) evaluate(time float64) {
	if e.processor == nil {
		e.setDisplay(e.display.Value, false)
		return
	}

	state := &scoring.ScoreState{}
	e.processor.Populate(state)
	state.Mods = e.mods

	value, ok := e.evaluator.evaluate(e.calculator, state, e.table.Lookup(time))
	if !ok {
		e.setDisplay(e.display.Value, false)
		return
	}

	e.setDisplay(value, true)
}

func (e *Estimator) setDisplay(value int64, valid bool) {
	next := Display{Value: value, Valid: valid}
	if next == e.display {
		return
	}

	e.display = next
	e.changed.Raise(next)
}

// Close unsubscribes from the score processor and cancels the attribute build. It is idempotent.
func (e *Estimator) Close() {
	if e.state == Closed {
		return
	}

	e.state = Closed

	for _, s := range e.subscriptions {
		s.Unsubscribe()
	}

	e.subscriptions = nil

	if e.cancel != nil {
		e.cancel()
	}
}

// OnChange is raised whenever the displayed value or its validity changes.
func (e *Estimator) OnChange(fn func(Display)) *events.Subscription {
	return e.changed.Subscribe(fn)
}

func (e *Estimator) Value() int64 {
	return e.display.Value
}

func (e *Estimator) IsValid() bool {
	return e.display.Valid
}

func (e *Estimator) State() State {
	return e.state
}

func (e *Estimator) Policy() Policy {
	return e.evaluator.policy
}

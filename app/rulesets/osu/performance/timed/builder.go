package timed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Givikap120/danser-livepp/app/beatmap"
	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/api"
)

var ErrCancelled = errors.New("timed: attribute computation cancelled")

// Request describes one beatmap + ruleset + mods combination.
// Diff must already carry the mods and must not be mutated while a build is running.
type Request struct {
	BeatMap *beatmap.BeatMap
	Ruleset string
	Diff    *difficulty.Difficulty
}

// Provider computes timed attributes, observing ctx.
type Provider interface {
	ComputeTimed(ctx context.Context, req Request) ([]api.TimedAttributes, error)
}

// CalculatorProvider computes attributes directly with a difficulty calculator.
type CalculatorProvider struct {
	Calculator api.IDifficultyCalculator
}

func NewCalculatorProvider(calc api.IDifficultyCalculator) *CalculatorProvider {
	return &CalculatorProvider{Calculator: calc}
}

func (p *CalculatorProvider) ComputeTimed(ctx context.Context, req Request) ([]api.TimedAttributes, error) {
	if req.BeatMap == nil {
		return nil, beatmap.ErrNoHitObjects
	}

	return p.Calculator.CalculateTimed(ctx, req.BeatMap.HitObjects, req.Diff)
}

func (p *CalculatorProvider) Version() int {
	return p.Calculator.GetVersion()
}

// Scheduler runs functions on the update thread.
type Scheduler interface {
	Schedule(fn func())
}

// Builder produces Tables off the update thread and hands them back through a Scheduler.
type Builder struct {
	provider  Provider
	scheduler Scheduler
}

func NewBuilder(provider Provider, scheduler Scheduler) *Builder {
	return &Builder{
		provider:  provider,
		scheduler: scheduler,
	}
}

// Compute builds a Table synchronously. A cancelled ctx yields an error wrapping ErrCancelled.
func (b *Builder) Compute(ctx context.Context, req Request) (*Table, error) {
	entries, err := b.provider.ComputeTimed(ctx, req)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, ctxErr)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to compute attributes: %w", err)
	}

	return NewTable(entries), nil
}

// Build starts computing on a new goroutine. deliver runs on the scheduler once the Table is ready.
// Failures are logged and nothing is delivered. deliver is never called once ctx is done.
func (b *Builder) Build(ctx context.Context, req Request, deliver func(*Table)) {
	go func() {
		startTime := time.Now()

		table, err := b.Compute(ctx, req)
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				log.Println("Attribute calculation cancelled for", describe(req))
			} else {
				log.Println("Attribute calculation failed for", describe(req)+":", err)
			}

			return
		}

		log.Printf("Attributes for %s ready (%d entries), took %s", describe(req), table.Len(), time.Since(startTime).Truncate(time.Millisecond).String())

		b.scheduler.Schedule(func() {
			// cancellation happens on the update thread too, so this check can't race with teardown
			if ctx.Err() != nil {
				return
			}

			deliver(table)
		})
	}()
}

func describe(req Request) string {
	name := "<no beatmap>"
	if req.BeatMap != nil {
		name = req.BeatMap.String()
	}

	if req.Diff != nil {
		if mods := req.Diff.Mods.String(); mods != "" {
			name += " +" + mods
		}
	}

	return name
}

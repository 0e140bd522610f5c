package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Givikap120/danser-livepp/app/beatmap"
	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/play"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/live"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/timed"
	"github.com/Givikap120/danser-livepp/app/settings"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type simulateOptions struct {
	beatmap string
	replay  string
	mods    string
	all     bool
}

func simulate(ctx context.Context, cfg *settings.Config, provider timed.Provider, opts simulateOptions, out io.Writer) error {
	bm, err := beatmap.ParseFile(opts.beatmap)
	if err != nil {
		return err
	}

	plan := play.PerfectPlan(bm)
	mods := difficulty.None

	if opts.replay != "" {
		replay, err := play.LoadReplay(opts.replay)
		if err != nil {
			return err
		}

		if plan, mods, err = play.PlanFromReplay(bm, replay); err != nil {
			return err
		}
	}

	if opts.mods != "" {
		mods = difficulty.ParseMods(opts.mods)
	}

	return runSession(ctx, cfg, provider, bm, plan, mods, opts.all, out)
}

func runSession(ctx context.Context, cfg *settings.Config, provider timed.Provider, bm *beatmap.BeatMap, plan play.Plan, mods difficulty.Modifier, all bool, out io.Writer) error {
	policies, err := cfg.ParsedPolicies()
	if err != nil {
		return err
	}

	session := play.NewSession(bm, play.Options{
		Policies:    policies,
		Ruleset:     cfg.Performance.Ruleset,
		Mods:        mods,
		Provider:    provider,
		Performance: reading.NewPPCalculator(),
		RevertEvery: cfg.Playback.RevertEvery,
	})
	defer session.Close()

	startTime := time.Now()

	session.Start(ctx)

	if cfg.Playback.WaitForAttributes {
		if err = session.WaitReady(ctx); err != nil {
			return fmt.Errorf("attributes never became ready: %w", err)
		}
	}

	steps, err := session.Play(ctx, plan)
	if err != nil {
		return err
	}

	render(out, bm, session, policies, steps, all)

	fmt.Fprintln(out, "Simulated", humanize.Comma(int64(len(steps))), "judgements in", time.Since(startTime).Truncate(time.Millisecond).String())

	return nil
}

func render(out io.Writer, bm *beatmap.BeatMap, session *play.Session, policies []live.Policy, steps []play.Step, all bool) {
	mods := session.Diff.Mods.String()
	if mods == "" {
		mods = "NM"
	}

	fmt.Fprintf(out, "%s +%s\n", bm.String(), mods)

	header := []string{"#", "Time", "Judgement"}
	for _, p := range policies {
		header = append(header, p.String())
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	var previous []live.Display

	for i, step := range steps {
		if !all && i != len(steps)-1 && sameDisplay(previous, step.Values) {
			continue
		}

		previous = step.Values

		row := []string{strconv.Itoa(i + 1), formatTime(step.Time), step.Result.String()}
		for _, d := range step.Values {
			row = append(row, formatDisplay(d))
		}

		table.Append(row)
	}

	table.Render()

	p := message.NewPrinter(language.English)

	fmt.Fprintln(out, p.Sprintf("Accuracy: %.2f%%, max combo: %d/%d", session.Accuracy()*100, session.MaxCombo(), bm.MaxCombo()))

	for i, d := range session.Values() {
		fmt.Fprintln(out, p.Sprintf("%-12s %s", policies[i].String()+":", formatDisplay(d)))
	}
}

func sameDisplay(a, b []live.Display) bool {
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

func formatDisplay(d live.Display) string {
	if !d.Valid {
		return "-"
	}

	return humanize.Comma(d.Value) + "pp"
}

func formatTime(ms float64) string {
	return (time.Duration(ms) * time.Millisecond).Truncate(time.Millisecond).String()
}

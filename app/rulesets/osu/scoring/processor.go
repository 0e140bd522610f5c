package scoring

import (
	"github.com/Givikap120/danser-livepp/app/beatmap/objects"
	"github.com/Givikap120/danser-livepp/framework/events"
)

type JudgementResult struct {
	HitObject objects.IHitObject
	Type      HitResult

	// Time when the judgement happened, for ticks it differs from the object's end time
	Time float64

	ComboAtJudgement        int
	HighestComboAtJudgement int
}

// ScoreProcessor tracks live statistics of a play. It is not safe for concurrent use.
type ScoreProcessor struct {
	statistics Statistics

	combo    int
	maxCombo int

	baseScore    float64
	maxBaseScore float64

	results []JudgementResult

	newJudgement      events.Event[JudgementResult]
	judgementReverted events.Event[JudgementResult]
}

func NewScoreProcessor() *ScoreProcessor {
	return &ScoreProcessor{
		statistics: make(Statistics),
	}
}

func (p *ScoreProcessor) OnNewJudgement(fn func(JudgementResult)) *events.Subscription {
	return p.newJudgement.Subscribe(fn)
}

func (p *ScoreProcessor) OnJudgementReverted(fn func(JudgementResult)) *events.Subscription {
	return p.judgementReverted.Subscribe(fn)
}

func (p *ScoreProcessor) ApplyResult(result JudgementResult) {
	result.ComboAtJudgement = p.combo
	result.HighestComboAtJudgement = p.maxCombo

	p.statistics[result.Type]++

	if result.Type.AffectsCombo() {
		if result.Type.IsHit() {
			p.combo++
		} else {
			p.combo = 0
		}
	}

	p.maxCombo = max(p.maxCombo, p.combo)

	p.baseScore += result.Type.BaseScore()
	p.maxBaseScore += result.Type.MaxBaseScore()

	p.results = append(p.results, result)

	p.newJudgement.Raise(result)
}

// RevertResult undoes the most recent judgement. It returns false if there is nothing to revert.
func (p *ScoreProcessor) RevertResult() (JudgementResult, bool) {
	if len(p.results) == 0 {
		return JudgementResult{}, false
	}

	result := p.results[len(p.results)-1]
	p.results = p.results[:len(p.results)-1]

	p.statistics[result.Type]--
	if p.statistics[result.Type] == 0 {
		delete(p.statistics, result.Type)
	}

	p.combo = result.ComboAtJudgement
	p.maxCombo = result.HighestComboAtJudgement

	p.baseScore -= result.Type.BaseScore()
	p.maxBaseScore -= result.Type.MaxBaseScore()

	p.judgementReverted.Raise(result)

	return result, true
}

func (p *ScoreProcessor) Accuracy() float64 {
	if p.maxBaseScore <= 0 {
		return 1
	}

	return p.baseScore / p.maxBaseScore
}

func (p *ScoreProcessor) Combo() int    { return p.combo }
func (p *ScoreProcessor) MaxCombo() int { return p.maxCombo }

// JudgedHits is the number of judgements applied so far
func (p *ScoreProcessor) JudgedHits() int {
	return len(p.results)
}

// LastResult returns the most recent judgement that hasn't been reverted
func (p *ScoreProcessor) LastResult() (JudgementResult, bool) {
	if len(p.results) == 0 {
		return JudgementResult{}, false
	}

	return p.results[len(p.results)-1], true
}

// Populate fills target with a copy of the current state
func (p *ScoreProcessor) Populate(target *ScoreState) {
	target.Statistics = p.statistics.Clone()
	target.Combo = p.combo
	target.MaxCombo = p.maxCombo
	target.Accuracy = p.Accuracy()
}

package scoring

type HitResult uint8

const (
	None HitResult = iota
	Miss
	Meh
	Ok
	Great
	LargeTickMiss
	LargeTickHit
	SmallTickMiss
	SmallTickHit
)

// AllResults lists every judgement kind that can appear in Statistics
var AllResults = [...]HitResult{Great, Ok, Meh, Miss, LargeTickHit, LargeTickMiss, SmallTickHit, SmallTickMiss}

func (r HitResult) String() string {
	switch r {
	case Miss:
		return "Miss"
	case Meh:
		return "Meh"
	case Ok:
		return "Ok"
	case Great:
		return "Great"
	case LargeTickMiss:
		return "LargeTickMiss"
	case LargeTickHit:
		return "LargeTickHit"
	case SmallTickMiss:
		return "SmallTickMiss"
	case SmallTickHit:
		return "SmallTickHit"
	}

	return "None"
}

func (r HitResult) IsHit() bool {
	switch r {
	case Meh, Ok, Great, LargeTickHit, SmallTickHit:
		return true
	}

	return false
}

// AffectsCombo is false for small ticks, they neither build nor break combo
func (r HitResult) AffectsCombo() bool {
	switch r {
	case Miss, Meh, Ok, Great, LargeTickMiss, LargeTickHit:
		return true
	}

	return false
}

// BaseScore is the accuracy weight of a result
func (r HitResult) BaseScore() float64 {
	switch r {
	case Great:
		return 300
	case Ok:
		return 100
	case Meh:
		return 50
	case LargeTickHit:
		return 30
	case SmallTickHit:
		return 10
	}

	return 0
}

// MaxBaseScore is the accuracy weight a perfect judgement of the same object would have
func (r HitResult) MaxBaseScore() float64 {
	switch r {
	case Miss, Meh, Ok, Great:
		return 300
	case LargeTickMiss, LargeTickHit:
		return 30
	case SmallTickMiss, SmallTickHit:
		return 10
	}

	return 0
}

// Statistics maps judgement kinds to counts
type Statistics map[HitResult]int

func (s Statistics) Clone() Statistics {
	c := make(Statistics, len(s))

	for k, v := range s {
		c[k] = v
	}

	return c
}

func (s Statistics) Total() int {
	total := 0

	for _, r := range AllResults {
		total += s[r]
	}

	return total
}

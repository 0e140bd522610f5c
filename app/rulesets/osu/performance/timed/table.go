// Package timed holds time-bucketed difficulty attributes and the machinery that builds them.
package timed

import (
	"slices"
	"sort"

	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/api"
)

// Table is an immutable, time-sorted sequence of attributes for one beatmap and mod combination.
// It is safe to share between goroutines once built.
type Table struct {
	entries []api.TimedAttributes
}

// NewTable copies entries and sorts them by time. Entries with equal times keep their relative order.
func NewTable(entries []api.TimedAttributes) *Table {
	sorted := slices.Clone(entries)

	slices.SortStableFunc(sorted, func(a, b api.TimedAttributes) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}

		return 0
	})

	return &Table{entries: sorted}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.entries)
}

// Lookup returns the attributes in effect at time: the last entry with Time <= time,
// or the first entry if time precedes all of them. Returns nil for an empty table or a placeholder entry.
func (t *Table) Lookup(time float64) *api.Attributes {
	if t.Len() == 0 {
		return nil
	}

	// insertion point, first entry strictly after time
	ip := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Time > time
	})

	index := min(max(ip-1, 0), len(t.entries)-1)

	return t.entries[index].Attributes
}

// Entries returns a copy of the table contents
func (t *Table) Entries() []api.TimedAttributes {
	if t == nil {
		return nil
	}

	return slices.Clone(t.entries)
}

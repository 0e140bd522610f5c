package timed

import (
	"testing"

	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/api"
)

func TestLookup(t *testing.T) {
	a, b, c := &api.Attributes{Total: 1}, &api.Attributes{Total: 2}, &api.Attributes{Total: 3}

	table := NewTable([]api.TimedAttributes{
		{Time: 0, Attributes: a},
		{Time: 100, Attributes: b},
		{Time: 250, Attributes: c},
	})

	tests := []struct {
		time float64
		want *api.Attributes
	}{
		{50, a},
		{100, b},
		{99.999, a},
		{10000, c},
		{-5, a},
		{0, a},
		{250, c},
		{249.9, b},
	}

	for _, tt := range tests {
		if got := table.Lookup(tt.time); got != tt.want {
			t.Errorf("Lookup(%v) = %v, want %v", tt.time, got, tt.want)
		}
	}
}

func TestLookupEmpty(t *testing.T) {
	if got := NewTable(nil).Lookup(10); got != nil {
		t.Errorf("Lookup on empty table = %v", got)
	}

	var table *Table
	if got := table.Lookup(10); got != nil {
		t.Errorf("Lookup on nil table = %v", got)
	}
}

func TestLookupPlaceholder(t *testing.T) {
	a := &api.Attributes{Total: 1}

	table := NewTable([]api.TimedAttributes{
		{Time: 0, Attributes: nil},
		{Time: 100, Attributes: a},
	})

	if got := table.Lookup(50); got != nil {
		t.Errorf("Lookup(50) = %v, want placeholder", got)
	}

	if got := table.Lookup(150); got != a {
		t.Errorf("Lookup(150) = %v", got)
	}
}

func TestLookupDuplicateTimes(t *testing.T) {
	a, b, c := &api.Attributes{Total: 1}, &api.Attributes{Total: 2}, &api.Attributes{Total: 3}

	table := NewTable([]api.TimedAttributes{
		{Time: 0, Attributes: a},
		{Time: 100, Attributes: b},
		{Time: 100, Attributes: c},
	})

	// last entry at or before the query
	if got := table.Lookup(100); got != c {
		t.Errorf("Lookup(100) = %v, want %v", got, c)
	}
}

func TestNewTableSortsAndCopies(t *testing.T) {
	a, b := &api.Attributes{Total: 1}, &api.Attributes{Total: 2}

	entries := []api.TimedAttributes{
		{Time: 200, Attributes: b},
		{Time: 100, Attributes: a},
	}

	table := NewTable(entries)
	entries[0].Attributes = nil

	if got := table.Lookup(150); got != a {
		t.Errorf("Lookup(150) = %v, want %v", got, a)
	}

	if got := table.Lookup(200); got != b {
		t.Errorf("table was mutated through input slice")
	}

	if table.Len() != 2 || len(table.Entries()) != 2 {
		t.Errorf("Len() = %d", table.Len())
	}
}

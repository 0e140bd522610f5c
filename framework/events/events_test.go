package events

import "testing"

func TestSubscribeRaise(t *testing.T) {
	var ev Event[int]

	var got []int

	sub1 := ev.Subscribe(func(v int) { got = append(got, v) })
	ev.Subscribe(func(v int) { got = append(got, v*10) })

	ev.Raise(1)

	if len(got) != 2 || got[0] != 1 || got[1] != 10 {
		t.Fatalf("unexpected handler calls: %v", got)
	}

	sub1.Unsubscribe()
	sub1.Unsubscribe()

	ev.Raise(2)

	if len(got) != 3 || got[2] != 20 {
		t.Fatalf("unexpected handler calls after unsubscribe: %v", got)
	}

	if ev.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ev.Len())
	}
}

func TestUnsubscribeDuringRaise(t *testing.T) {
	var ev Event[string]

	calls := 0

	var sub *Subscription
	sub = ev.Subscribe(func(string) {
		calls++
		sub.Unsubscribe()
	})
	ev.Subscribe(func(string) { calls++ })

	ev.Raise("a")
	ev.Raise("b")

	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestNilSubscription(t *testing.T) {
	var sub *Subscription
	sub.Unsubscribe()
}

package event

import (
	"testing"

	"github.com/lox/holdem-engine/internal/phase"
)

func TestPublishDeliversInPriorityOrder(t *testing.T) {
	bus := New()
	var order []string

	bus.Subscribe(TypePlayerFolded, 0, nil, func(e Event) { order = append(order, "low") })
	bus.Subscribe(TypePlayerFolded, 10, nil, func(e Event) { order = append(order, "high") })
	bus.Subscribe(TypePlayerFolded, 5, nil, func(e Event) { order = append(order, "mid") })

	bus.Publish(Event{Type: TypePlayerFolded, SourcePhase: phase.PreFlop})

	want := []string{"high", "mid", "low"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestWildcardSubscriptionReceivesEveryType(t *testing.T) {
	bus := New()
	var received []Type
	bus.Subscribe(Any, 0, nil, func(e Event) { received = append(received, e.Type) })

	bus.Publish(Event{Type: TypeHandStarted})
	bus.Publish(Event{Type: TypePlayerRaised})

	if len(received) != 2 || received[0] != TypeHandStarted || received[1] != TypePlayerRaised {
		t.Fatalf("received = %v, want [HandStarted PlayerRaised]", received)
	}
}

func TestFilterExcludesNonMatchingEvents(t *testing.T) {
	bus := New()
	var received int
	bus.Subscribe(TypeBetPlaced, 0, func(e Event) bool {
		amount, _ := e.Data["amount"].(int)
		return amount > 50
	}, func(e Event) { received++ })

	bus.Publish(Event{Type: TypeBetPlaced, Data: map[string]any{"amount": 10}})
	bus.Publish(Event{Type: TypeBetPlaced, Data: map[string]any{"amount": 100}})

	if received != 1 {
		t.Fatalf("received = %d, want 1", received)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()
	var received int
	id := bus.Subscribe(TypeHandEnded, 0, nil, func(e Event) { received++ })

	bus.Publish(Event{Type: TypeHandEnded})
	bus.Unsubscribe(id)
	bus.Publish(Event{Type: TypeHandEnded})

	if received != 1 {
		t.Fatalf("received = %d, want 1", received)
	}
}

func TestHandlerPanicIsIsolated(t *testing.T) {
	bus := New()
	var secondRan bool
	bus.Subscribe(TypeInvalidAction, 10, nil, func(e Event) { panic("boom") })
	bus.Subscribe(TypeInvalidAction, 0, nil, func(e Event) { secondRan = true })

	bus.Publish(Event{Type: TypeInvalidAction})

	if !secondRan {
		t.Fatal("second handler did not run after first handler panicked")
	}
	if bus.PanicCount() != 1 {
		t.Fatalf("PanicCount() = %d, want 1", bus.PanicCount())
	}
}

func TestHistoryIsBoundedAndFilterable(t *testing.T) {
	bus := NewWithHistoryLimit(3)
	bus.Publish(Event{Type: TypeBetPlaced})
	bus.Publish(Event{Type: TypePotUpdated})
	bus.Publish(Event{Type: TypeBetPlaced})
	bus.Publish(Event{Type: TypeBetPlaced})

	if bus.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (bounded)", bus.Len())
	}

	betPlaced := bus.History(TypeBetPlaced, 0)
	if len(betPlaced) != 2 {
		t.Fatalf("History(TypeBetPlaced) = %d events, want 2", len(betPlaced))
	}

	all := bus.History(Any, 2)
	if len(all) != 2 {
		t.Fatalf("History(Any, 2) = %d events, want 2", len(all))
	}
}

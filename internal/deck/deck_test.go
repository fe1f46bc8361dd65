package deck

import (
	"testing"

	"github.com/lox/holdem-engine/internal/card"
	"github.com/lox/holdem-engine/internal/randutil"
)

func TestNewDeckHas52DistinctCards(t *testing.T) {
	d := New(randutil.New(1))
	if d.Remaining() != 52 {
		t.Fatalf("Remaining() = %d, want 52", d.Remaining())
	}

	seen := make(map[card.Card]bool)
	for {
		c, ok := d.Deal()
		if !ok {
			break
		}
		if seen[c] {
			t.Fatalf("duplicate card dealt: %v", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Fatalf("dealt %d distinct cards, want 52", len(seen))
	}
}

func TestShuffleDeterministicGivenSeed(t *testing.T) {
	d1 := New(randutil.New(42))
	d1.Shuffle()
	seq1 := d1.DealN(52)

	d2 := New(randutil.New(42))
	d2.Shuffle()
	seq2 := d2.DealN(52)

	for i := range seq1 {
		if seq1[i] != seq2[i] {
			t.Fatalf("deck sequences diverge at index %d: %v != %v", i, seq1[i], seq2[i])
		}
	}
}

func TestDealNNeverExceedsRemaining(t *testing.T) {
	d := New(randutil.New(7))
	drawn := d.DealN(60)
	if len(drawn) != 52 {
		t.Fatalf("DealN(60) returned %d cards, want 52", len(drawn))
	}
	if d.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", d.Remaining())
	}
	if more := d.DealN(1); len(more) != 0 {
		t.Fatalf("expected no cards left to deal, got %v", more)
	}
}

func TestResetRestoresFullDeck(t *testing.T) {
	d := New(randutil.New(3))
	d.DealN(30)
	d.Reset()
	if d.Remaining() != 52 {
		t.Fatalf("Remaining() after Reset() = %d, want 52", d.Remaining())
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	d := New(randutil.New(9))
	top, ok := d.Peek()
	if !ok {
		t.Fatal("Peek() ok = false on full deck")
	}
	dealt, _ := d.Deal()
	if top != dealt {
		t.Fatalf("Peek() = %v, but Deal() returned %v", top, dealt)
	}
}

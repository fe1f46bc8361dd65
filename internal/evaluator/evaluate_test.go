package evaluator

import (
	"testing"

	"github.com/lox/holdem-engine/internal/card"
)

func c(suit card.Suit, rank card.Rank) card.Card { return card.New(suit, rank) }

func TestEvaluateRejectsInvalidCardCounts(t *testing.T) {
	hole := []card.Card{c(card.Spades, card.Ace), c(card.Hearts, card.King)}

	if _, err := Evaluate(hole[:1], nil); err != ErrInvalidCardCount {
		t.Errorf("1 hole card: err = %v, want ErrInvalidCardCount", err)
	}
	if _, err := Evaluate(hole, nil); err != ErrInvalidCardCount {
		t.Errorf("0 community (total 2): err = %v, want ErrInvalidCardCount", err)
	}
	community := []card.Card{
		c(card.Clubs, card.Two), c(card.Diamonds, card.Three),
		c(card.Spades, card.Four), c(card.Hearts, card.Five), c(card.Clubs, card.Six),
	}
	if _, err := Evaluate(hole, append(community, c(card.Diamonds, card.Seven))); err != ErrInvalidCardCount {
		t.Errorf("6 community (total 8): err = %v, want ErrInvalidCardCount", err)
	}
}

func TestWheelStraightHighCardIsFive(t *testing.T) {
	hole := []card.Card{c(card.Spades, card.Ace), c(card.Hearts, card.Two)}
	community := []card.Card{
		c(card.Clubs, card.Three), c(card.Diamonds, card.Four), c(card.Spades, card.Five),
		c(card.Hearts, card.King), c(card.Clubs, card.Queen),
	}
	result, err := Evaluate(hole, community)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if result.Category != Straight {
		t.Fatalf("Category = %v, want Straight", result.Category)
	}
	if result.Primary != 5 {
		t.Fatalf("Primary = %d, want 5 (wheel high card)", result.Primary)
	}
}

func TestRoyalFlushOutranksStraightFlush(t *testing.T) {
	royal, err := Evaluate(
		[]card.Card{c(card.Spades, card.Ace), c(card.Spades, card.King)},
		[]card.Card{c(card.Spades, card.Queen), c(card.Spades, card.Jack), c(card.Spades, card.Ten), c(card.Hearts, card.Two), c(card.Clubs, card.Three)},
	)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if royal.Category != RoyalFlush {
		t.Fatalf("Category = %v, want RoyalFlush", royal.Category)
	}

	straightFlush, err := Evaluate(
		[]card.Card{c(card.Hearts, card.Nine), c(card.Hearts, card.Eight)},
		[]card.Card{c(card.Hearts, card.Seven), c(card.Hearts, card.Six), c(card.Hearts, card.Five), c(card.Clubs, card.Two), c(card.Diamonds, card.Three)},
	)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if straightFlush.Category != StraightFlush {
		t.Fatalf("Category = %v, want StraightFlush", straightFlush.Category)
	}

	if Compare(royal, straightFlush) <= 0 {
		t.Fatalf("expected royal flush to outrank straight flush")
	}
}

func TestEvaluateSameInputTwiceIsEqual(t *testing.T) {
	hole := []card.Card{c(card.Clubs, card.King), c(card.Clubs, card.Queen)}
	community := []card.Card{
		c(card.Clubs, card.Jack), c(card.Clubs, card.Ten), c(card.Clubs, card.Nine),
		c(card.Hearts, card.Two), c(card.Diamonds, card.Three),
	}
	first, err := Evaluate(hole, community)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	second, err := Evaluate(hole, community)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if Compare(first, second) != 0 {
		t.Fatalf("repeated evaluation of identical cards diverged: %+v != %+v", first, second)
	}
}

func TestCompareIsAntisymmetricAndTotal(t *testing.T) {
	pairHole := []card.Card{c(card.Spades, card.Two), c(card.Hearts, card.Two)}
	pairCommunity := []card.Card{
		c(card.Clubs, card.Nine), c(card.Diamonds, card.Seven), c(card.Spades, card.Five),
		c(card.Hearts, card.Four), c(card.Clubs, card.Three),
	}
	pair, err := Evaluate(pairHole, pairCommunity)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	highCardHole := []card.Card{c(card.Spades, card.King), c(card.Hearts, card.Jack)}
	highCard, err := Evaluate(highCardHole, pairCommunity)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if Compare(pair, highCard) != -Compare(highCard, pair) {
		t.Fatalf("Compare is not antisymmetric: %d != -%d", Compare(pair, highCard), Compare(highCard, pair))
	}
	if Compare(pair, highCard) <= 0 {
		t.Fatalf("expected a pair to outrank high card")
	}
}

func TestFullHouseBeatsFlush(t *testing.T) {
	fullHouseHole := []card.Card{c(card.Spades, card.King), c(card.Hearts, card.King)}
	fullHouseCommunity := []card.Card{
		c(card.Clubs, card.King), c(card.Diamonds, card.Two), c(card.Spades, card.Two),
		c(card.Hearts, card.Nine), c(card.Clubs, card.Four),
	}
	fullHouse, err := Evaluate(fullHouseHole, fullHouseCommunity)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if fullHouse.Category != FullHouse {
		t.Fatalf("Category = %v, want FullHouse", fullHouse.Category)
	}

	flushHole := []card.Card{c(card.Diamonds, card.Ace), c(card.Diamonds, card.Jack)}
	flushCommunity := []card.Card{
		c(card.Diamonds, card.Nine), c(card.Diamonds, card.Six), c(card.Diamonds, card.Two),
		c(card.Hearts, card.King), c(card.Clubs, card.Four),
	}
	flush, err := Evaluate(flushHole, flushCommunity)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if flush.Category != Flush {
		t.Fatalf("Category = %v, want Flush", flush.Category)
	}

	if Compare(fullHouse, flush) <= 0 {
		t.Fatalf("expected full house to outrank flush")
	}
}

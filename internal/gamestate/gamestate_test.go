package gamestate

import (
	"testing"

	"github.com/lox/holdem-engine/internal/card"
	"github.com/lox/holdem-engine/internal/phase"
)

func newTestContext() *GameContext {
	p0 := &PlayerState{ID: "p0", Name: "Alice", Chips: 900, Status: StatusActive, IsActive: true,
		HoleCards: []card.Card{card.New(card.Spades, card.Ace), card.New(card.Hearts, card.King)}}
	p1 := &PlayerState{ID: "p1", Name: "Bob", Chips: 950, Status: StatusActive, IsActive: true}
	return &GameContext{
		GameID:       "g1",
		CurrentPhase: phase.PreFlop,
		PlayerOrder:  []string{"p0", "p1"},
		Players:      map[string]*PlayerState{"p0": p0, "p1": p1},
		PotTotal:     150,
		CurrentBet:   100,
		SmallBlind:   50,
		BigBlind:     100,
	}
}

func TestCloneIsDeepNotShallow(t *testing.T) {
	ctx := newTestContext()
	clone := ctx.Clone()

	clone.Players["p0"].Chips = 0
	clone.Players["p0"].HoleCards[0] = card.New(card.Clubs, card.Two)
	clone.PlayerOrder[0] = "mutated"

	if ctx.Players["p0"].Chips != 900 {
		t.Fatalf("original mutated via clone: Chips = %d, want 900", ctx.Players["p0"].Chips)
	}
	if ctx.Players["p0"].HoleCards[0] != card.New(card.Spades, card.Ace) {
		t.Fatalf("original hole card mutated via clone: %v", ctx.Players["p0"].HoleCards[0])
	}
	if ctx.PlayerOrder[0] != "p0" {
		t.Fatalf("original PlayerOrder mutated via clone: %v", ctx.PlayerOrder)
	}
}

func TestTotalChipsSumsPlayersAndPot(t *testing.T) {
	ctx := newTestContext()
	if got, want := ctx.TotalChips(), 2000; got != want {
		t.Fatalf("TotalChips() = %d, want %d", got, want)
	}
}

func TestRedactedForHidesOtherPlayersHoleCards(t *testing.T) {
	ctx := newTestContext()
	ctx.Players["p1"].HoleCards = []card.Card{card.New(card.Clubs, card.Queen), card.New(card.Diamonds, card.Jack)}

	view := ctx.RedactedFor("p0")

	if len(view.Players["p0"].HoleCards) != 2 {
		t.Fatalf("viewer's own hole cards were redacted: %v", view.Players["p0"].HoleCards)
	}
	if view.Players["p1"].HoleCards != nil {
		t.Fatalf("other player's hole cards leaked: %v", view.Players["p1"].HoleCards)
	}
	if ctx.Players["p1"].HoleCards == nil {
		t.Fatal("RedactedFor mutated the original context instead of a copy")
	}
}

func TestRedactedForRevealsAllHoleCardsAtShowdown(t *testing.T) {
	ctx := newTestContext()
	ctx.Players["p1"].HoleCards = []card.Card{card.New(card.Clubs, card.Queen), card.New(card.Diamonds, card.Jack)}
	ctx.ShowdownComplete = true

	view := ctx.RedactedFor("p0")

	if len(view.Players["p1"].HoleCards) != 2 {
		t.Fatalf("showdown should reveal every hole card, got %v", view.Players["p1"].HoleCards)
	}
}

func TestIsActionableExcludesFoldedAndOut(t *testing.T) {
	active := &PlayerState{IsActive: true, Chips: 100, Status: StatusActive}
	folded := &PlayerState{IsActive: true, Chips: 100, Status: StatusFolded}
	out := &PlayerState{IsActive: false, Chips: 0, Status: StatusOut}
	broke := &PlayerState{IsActive: true, Chips: 0, Status: StatusAllIn}

	if !active.IsActionable() {
		t.Error("active player should be actionable")
	}
	if folded.IsActionable() {
		t.Error("folded player should not be actionable")
	}
	if out.IsActionable() {
		t.Error("out player should not be actionable")
	}
	if broke.IsActionable() {
		t.Error("all-in player with 0 chips should not be actionable")
	}
}

func TestResetForNewHandClearsFlagsPreservesChips(t *testing.T) {
	p := &PlayerState{ID: "p0", Chips: 500, Status: StatusFolded, IsActive: false,
		HoleCards: []card.Card{card.New(card.Spades, card.Ace)}, TotalBetThisHand: 300, IsDealer: true}
	p.ResetForNewHand()

	if p.Chips != 500 {
		t.Errorf("Chips = %d, want 500 (preserved)", p.Chips)
	}
	if p.Status != StatusActive || !p.IsActive {
		t.Errorf("status not reset to active: %+v", p)
	}
	if len(p.HoleCards) != 0 || p.TotalBetThisHand != 0 || p.IsDealer {
		t.Errorf("per-hand flags not cleared: %+v", p)
	}
}

func TestResetForNewHandBustPlayerBecomesOut(t *testing.T) {
	p := &PlayerState{ID: "p0", Chips: 0, Status: StatusAllIn, IsActive: true}
	p.ResetForNewHand()

	if p.Status != StatusOut || p.IsActive {
		t.Errorf("busted player should become out/inactive, got %+v", p)
	}
}

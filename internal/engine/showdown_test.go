package engine

import (
	"testing"

	"github.com/lox/holdem-engine/internal/card"
	"github.com/lox/holdem-engine/internal/gamestate"
	"github.com/lox/holdem-engine/internal/phase"
)

// TestEnterShowdownThreeWayAllInSidePots exercises spec.md §8's S2/B2: three
// contributions of 25, 50, 100 decompose into a 75-chip main pot (eligible
// p0,p1,p2), a 50-chip side pot (eligible p1,p2), and 50 chips returned
// uncontested to p2. p1 holds the best hand at both tiers and so wins both
// pots outright; the returned amount reaches p2 regardless of hand strength.
func TestEnterShowdownThreeWayAllInSidePots(t *testing.T) {
	community := []card.Card{
		card.New(card.Spades, card.Two),
		card.New(card.Diamonds, card.Seven),
		card.New(card.Clubs, card.Nine),
		card.New(card.Hearts, card.Jack),
		card.New(card.Spades, card.King),
	}

	p0 := &gamestate.PlayerState{ // pair of aces
		ID: "p0", Chips: 0, TotalBetThisHand: 25, Status: gamestate.StatusAllIn, IsActive: true,
		HoleCards: []card.Card{card.New(card.Spades, card.Ace), card.New(card.Diamonds, card.Ace)},
	}
	p1 := &gamestate.PlayerState{ // three kings (pairs with the community king)
		ID: "p1", Chips: 0, TotalBetThisHand: 50, Status: gamestate.StatusAllIn, IsActive: true,
		HoleCards: []card.Card{card.New(card.Diamonds, card.King), card.New(card.Clubs, card.King)},
	}
	p2 := &gamestate.PlayerState{ // pair of queens
		ID: "p2", Chips: 0, TotalBetThisHand: 100, Status: gamestate.StatusAllIn, IsActive: true,
		HoleCards: []card.Card{card.New(card.Spades, card.Queen), card.New(card.Diamonds, card.Queen)},
	}

	ctx := &gamestate.GameContext{
		GameID:         "g1",
		CurrentPhase:   phase.River,
		PlayerOrder:    []string{"p0", "p1", "p2"},
		Players:        map[string]*gamestate.PlayerState{"p0": p0, "p1": p1, "p2": p2},
		CommunityCards: community,
		PotTotal:       175,
		ActivePlayerID: "p0",
	}

	initialTotal := ctx.TotalChips()
	enterShowdown(ctx)

	if ctx.PotTotal != 0 {
		t.Fatalf("PotTotal after showdown = %d, want 0", ctx.PotTotal)
	}
	if ctx.TotalChips() != initialTotal {
		t.Fatalf("TotalChips after showdown = %d, want %d (conservation)", ctx.TotalChips(), initialTotal)
	}
	if p0.Chips != 0 {
		t.Errorf("p0.Chips = %d, want 0 (lost its 25-chip all-in)", p0.Chips)
	}
	if p1.Chips != 125 {
		t.Errorf("p1.Chips = %d, want 125 (won main 75 + side 50)", p1.Chips)
	}
	if p2.Chips != 50 {
		t.Errorf("p2.Chips = %d, want 50 (uncontested excess returned)", p2.Chips)
	}
	for _, p := range ctx.Players {
		if p.CurrentBet != 0 || p.TotalBetThisHand != 0 {
			t.Errorf("player %s bet fields not reset after showdown: current=%d total=%d", p.ID, p.CurrentBet, p.TotalBetThisHand)
		}
	}
}

// TestEnterFinishedAwardsSolePlayerAndZeroesPot covers spec §4.8's
// auto-finish entry effect directly.
func TestEnterFinishedAwardsSolePlayerAndZeroesPot(t *testing.T) {
	winner := &gamestate.PlayerState{ID: "p1", Chips: 900, Status: gamestate.StatusActive, IsActive: true}
	loser := &gamestate.PlayerState{ID: "p0", Chips: 950, Status: gamestate.StatusFolded, IsActive: false}

	ctx := &gamestate.GameContext{
		PlayerOrder: []string{"p0", "p1"},
		Players:     map[string]*gamestate.PlayerState{"p0": loser, "p1": winner},
		PotTotal:    150,
	}

	enterFinished(ctx)

	if ctx.PotTotal != 0 {
		t.Fatalf("PotTotal after finish = %d, want 0", ctx.PotTotal)
	}
	if winner.Chips != 1050 {
		t.Errorf("winner.Chips = %d, want 1050", winner.Chips)
	}
}

// Package gamestate holds the mutable data model shared by the engine,
// invariant, and snapshot packages: PlayerState and GameContext. It is
// grounded on the teacher's internal/game/player.go (Player struct, status
// flags, Call/Raise/Fold/AllIn mutators) and internal/game/table_actions.go
// (TableState), generalized from the teacher's concrete uppercase-field
// struct into the spec's tagged Status enum plus an explicit join-order
// list so the engine never depends on Go map iteration order.
package gamestate

import (
	"fmt"

	"github.com/lox/holdem-engine/internal/card"
	"github.com/lox/holdem-engine/internal/evaluator"
	"github.com/lox/holdem-engine/internal/phase"
)

// Status is a player's standing within the current hand.
type Status int

const (
	StatusActive Status = iota
	StatusFolded
	StatusAllIn
	StatusOut
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all_in"
	case StatusOut:
		return "out"
	default:
		return "unknown"
	}
}

// PlayerState is one player's seat, chips, and per-hand betting state, per
// spec §3.
type PlayerState struct {
	ID               string
	Name             string
	Chips            int
	CurrentBet       int
	TotalBetThisHand int
	Status           Status
	IsActive         bool
	HoleCards        []card.Card

	IsDealer     bool
	IsSmallBlind bool
	IsBigBlind   bool
	Position     Position
}

// IsActionable reports whether the player can be the active_player_id: per
// spec's glossary, active=true, chips>0, status ∉ {folded, out}.
func (p *PlayerState) IsActionable() bool {
	return p.IsActive && p.Chips > 0 && p.Status != StatusFolded && p.Status != StatusOut
}

// IsInHand reports whether the player still holds a stake in the hand's
// outcome (has not folded and has not been removed from play).
func (p *PlayerState) IsInHand() bool {
	return p.IsActive && p.Status != StatusFolded && p.Status != StatusOut
}

// Clone returns a deep copy; HoleCards is a distinct backing array so
// mutating the clone never aliases the original (spec §9's deep-copy note).
func (p *PlayerState) Clone() *PlayerState {
	clone := *p
	if p.HoleCards != nil {
		clone.HoleCards = make([]card.Card, len(p.HoleCards))
		copy(clone.HoleCards, p.HoleCards)
	}
	return &clone
}

// ResetForNewHand clears per-hand flags while preserving chips, per spec §3
// ("PlayerState flags are re-initialized at each HandStart; chips persist").
func (p *PlayerState) ResetForNewHand() {
	p.HoleCards = nil
	p.CurrentBet = 0
	p.TotalBetThisHand = 0
	p.IsDealer = false
	p.IsSmallBlind = false
	p.IsBigBlind = false
	p.Position = PositionUnknown
	if p.Chips > 0 {
		p.IsActive = true
		p.Status = StatusActive
	} else {
		p.IsActive = false
		p.Status = StatusOut
	}
}

// ResetForNewRound clears the per-betting-round bet marker, leaving
// TotalBetThisHand intact, per spec §4.2's Flop/Turn/River entry effects.
func (p *PlayerState) ResetForNewRound() {
	p.CurrentBet = 0
}

// WinnerInfo records one player's award from a pot at showdown.
type WinnerInfo struct {
	PlayerID string
	Amount   int
	Hand     evaluator.HandResult
}

// GameContext is the full mutable state of one table's current hand, per
// spec §3. PlayerOrder is the stable join order; Players is keyed by ID for
// O(1) lookup, but iteration must always go through PlayerOrder so
// behavior never depends on Go's randomized map iteration.
type GameContext struct {
	GameID         string
	CurrentPhase   phase.Phase
	PlayerOrder    []string
	Players        map[string]*PlayerState
	CommunityCards []card.Card
	PotTotal       int
	CurrentBet     int
	ActivePlayerID string // "" means none
	SmallBlind     int
	BigBlind       int
	LastRaiseSize  int
	HandNumber     int
	DealerSeat     int // index into PlayerOrder, rotated each hand

	WinnerInfo       []WinnerInfo
	ShowdownComplete bool
}

// OrderedPlayers returns every player in join order.
func (ctx *GameContext) OrderedPlayers() []*PlayerState {
	players := make([]*PlayerState, len(ctx.PlayerOrder))
	for i, id := range ctx.PlayerOrder {
		players[i] = ctx.Players[id]
	}
	return players
}

// Player looks up a player by id, returning nil if absent.
func (ctx *GameContext) Player(id string) *PlayerState {
	return ctx.Players[id]
}

// ActivePlayer returns the player whose turn it is, or nil if none.
func (ctx *GameContext) ActivePlayer() *PlayerState {
	if ctx.ActivePlayerID == "" {
		return nil
	}
	return ctx.Players[ctx.ActivePlayerID]
}

// TotalChips sums every player's chips plus the pot, the quantity invariant
// I1 holds constant across a hand.
func (ctx *GameContext) TotalChips() int {
	total := ctx.PotTotal
	for _, p := range ctx.Players {
		total += p.Chips
	}
	return total
}

// RedactedFor returns a deep copy of ctx with every player's HoleCards
// blanked out except viewerID's own, unless ShowdownComplete (hole cards are
// public once a hand reaches showdown). This is the view handed to an
// ai.Strategy: a strategy that only ever reads the Snapshot it is given can
// never observe another seat's cards, per spec §4's Anti-cheat Guards.
func (ctx *GameContext) RedactedFor(viewerID string) *GameContext {
	clone := ctx.Clone()
	if clone.ShowdownComplete {
		return clone
	}
	for id, p := range clone.Players {
		if id != viewerID {
			p.HoleCards = nil
		}
	}
	return clone
}

// Clone performs a full structural deep copy, used for rollback snapshots
// (spec §4.9) and the Snapshot Manager (spec §4.11). No substructure is
// shared between ctx and the returned copy.
func (ctx *GameContext) Clone() *GameContext {
	clone := *ctx

	clone.PlayerOrder = append([]string(nil), ctx.PlayerOrder...)

	clone.Players = make(map[string]*PlayerState, len(ctx.Players))
	for id, p := range ctx.Players {
		clone.Players[id] = p.Clone()
	}

	clone.CommunityCards = append([]card.Card(nil), ctx.CommunityCards...)
	clone.WinnerInfo = append([]WinnerInfo(nil), ctx.WinnerInfo...)

	return &clone
}

// String renders a short diagnostic summary, useful in error messages and
// invariant failure reports.
func (ctx *GameContext) String() string {
	return fmt.Sprintf("GameContext{game_id=%s phase=%s pot=%d current_bet=%d active=%s}",
		ctx.GameID, ctx.CurrentPhase, ctx.PotTotal, ctx.CurrentBet, ctx.ActivePlayerID)
}

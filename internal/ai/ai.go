// Package ai defines the AI Strategy Port collaborator interface from spec
// §6, grounded on the teacher's internal/game/agent.go Agent interface
// (MakeDecision(player, table) Decision) but adapted to the snapshot-based
// read-only view the core hands out: a strategy receives an immutable
// Snapshot and the acting player's id, and must return an action without
// ever mutating the snapshot or reading another player's hole cards.
package ai

import (
	"github.com/lox/holdem-engine/internal/gamestate"
	"github.com/lox/holdem-engine/internal/snapshot"
)

// Strategy decides what action a seat takes when it is an AI seat's turn.
// Implementations must treat snap as read-only and must not access any
// player's HoleCards other than playerID's own — the engine's test suite
// includes an anti-cheat guard (spec §4's "Anti-cheat Guards") that asserts
// this by construction rather than trusting implementations.
type Strategy interface {
	Decide(snap *snapshot.Snapshot, playerID string) (gamestate.Action, error)
}

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc func(snap *snapshot.Snapshot, playerID string) (gamestate.Action, error)

// Decide calls f.
func (f StrategyFunc) Decide(snap *snapshot.Snapshot, playerID string) (gamestate.Action, error) {
	return f(snap, playerID)
}

// AlwaysFold is a trivial reference strategy useful in tests and as a
// fallback for a seat with no assigned strategy, grounded on the teacher's
// auto-fold-on-timeout behavior (internal/client uses a similar fallback
// when a human player's decision deadline elapses).
var AlwaysFold Strategy = StrategyFunc(func(*snapshot.Snapshot, string) (gamestate.Action, error) {
	return gamestate.Action{Type: gamestate.ActionFold}, nil
})

// CallStation is a reference strategy that checks when possible and calls
// any outstanding bet otherwise, never folding or raising. Useful for
// exercising side-pot and all-in paths in tests without real strategy logic.
var CallStation Strategy = StrategyFunc(func(snap *snapshot.Snapshot, playerID string) (gamestate.Action, error) {
	player := snap.Context.Player(playerID)
	if player == nil {
		return gamestate.Action{}, ErrUnknownPlayer
	}
	if snap.Context.CurrentBet <= player.CurrentBet {
		return gamestate.Action{Type: gamestate.ActionCheck}, nil
	}
	return gamestate.Action{Type: gamestate.ActionCall}, nil
})

// ErrUnknownPlayer is returned by reference strategies when playerID is not
// present in the snapshot's context.
var ErrUnknownPlayer = errUnknownPlayer{}

type errUnknownPlayer struct{}

func (errUnknownPlayer) Error() string { return "ai: unknown player_id in snapshot" }

// Package phase defines the GamePhase state machine's legal transition
// graph (spec §4.2), grounded on the teacher's BettingRound enum in
// internal/game/player.go but extended with Init and Finished as the
// source lacks a full hand lifecycle outside active betting rounds.
package phase

import "fmt"

// Phase is one stage of a hand's lifecycle.
type Phase int

const (
	Init Phase = iota
	PreFlop
	Flop
	Turn
	River
	Showdown
	Finished
)

// String renders the phase name.
func (p Phase) String() string {
	switch p {
	case Init:
		return "Init"
	case PreFlop:
		return "PreFlop"
	case Flop:
		return "Flop"
	case Turn:
		return "Turn"
	case River:
		return "River"
	case Showdown:
		return "Showdown"
	case Finished:
		return "Finished"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// legalNext is the transition graph from spec §4.2.
var legalNext = map[Phase]map[Phase]bool{
	Init:     {PreFlop: true},
	PreFlop:  {Flop: true, Showdown: true, Finished: true},
	Flop:     {Turn: true, Showdown: true, Finished: true},
	Turn:     {River: true, Showdown: true, Finished: true},
	River:    {Showdown: true, Finished: true},
	Showdown: {Finished: true},
	Finished: {PreFlop: true, Init: true},
}

// CanTransition reports whether from → to is a legal transition per the
// graph in spec §4.2 (invariant I5).
func CanTransition(from, to Phase) bool {
	return legalNext[from][to]
}

// CommunityCardCount returns how many community cards should be visible
// once a hand has reached phase p (0 in Init/PreFlop, 3 after Flop, 4 after
// Turn, 5 from River onward).
func CommunityCardCount(p Phase) int {
	switch p {
	case Flop:
		return 3
	case Turn:
		return 4
	case River, Showdown, Finished:
		return 5
	default:
		return 0
	}
}

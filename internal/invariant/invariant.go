// Package invariant implements the pure validator functions from spec
// §4.10, grounded on the teacher's table_actions.go ValidateChipConservation
// and GetTotalChips but split into separate named checks for I1-I4 and I6,
// each returning a diagnostic-rich error instead of the teacher's single
// conservation-only check. I5 (transition legality) is phase.CanTransition
// and I7 (side-pot totals) is sidepot.Total; neither is checked here.
package invariant

import (
	"fmt"

	"github.com/lox/holdem-engine/internal/gamestate"
	"github.com/lox/holdem-engine/internal/phase"
)

// Violation describes one invariant failure with enough detail to diagnose
// it without re-inspecting the context (spec §4.10's "full diagnostic").
type Violation struct {
	Invariant string
	Message   string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Invariant, v.Message)
}

func violation(invariant, format string, args ...any) *Violation {
	return &Violation{Invariant: invariant, Message: fmt.Sprintf(format, args...)}
}

// ValidatePotConsistency checks I2 (pot_total == Σ total_bet_this_hand).
// It is skipped in Showdown/Finished per spec §4.10, since award +
// conservation-reset happens atomically within those phases' entry effect
// and momentarily breaks the equality before it is restored.
func ValidatePotConsistency(ctx *gamestate.GameContext) error {
	if ctx.CurrentPhase == phase.Showdown || ctx.CurrentPhase == phase.Finished {
		return nil
	}
	sum := 0
	detail := make(map[string]int, len(ctx.PlayerOrder))
	for _, id := range ctx.PlayerOrder {
		p := ctx.Players[id]
		sum += p.TotalBetThisHand
		detail[id] = p.TotalBetThisHand
	}
	if sum != ctx.PotTotal {
		return violation("I2", "pot_total=%d but Σ total_bet_this_hand=%d (phase=%s, per-player=%v)",
			ctx.PotTotal, sum, ctx.CurrentPhase, detail)
	}
	return nil
}

// ValidatePlayerBetConsistency checks a single player's bet fields are
// internally sane: current_bet never exceeds total_bet_this_hand, and
// neither is negative (part of I2/I3 scoped to one player).
func ValidatePlayerBetConsistency(ctx *gamestate.GameContext, playerID string) error {
	p := ctx.Players[playerID]
	if p == nil {
		return violation("I2", "unknown player_id %q", playerID)
	}
	if p.CurrentBet < 0 || p.TotalBetThisHand < 0 {
		return violation("I3", "player %s has negative bet field: current_bet=%d total_bet_this_hand=%d",
			playerID, p.CurrentBet, p.TotalBetThisHand)
	}
	if p.CurrentBet > p.TotalBetThisHand {
		return violation("I2", "player %s current_bet=%d exceeds total_bet_this_hand=%d",
			playerID, p.CurrentBet, p.TotalBetThisHand)
	}
	return nil
}

// ValidateBettingAction checks a proposed action is shape-legal before it is
// applied: non-negative amount, and (for raise) a target strictly above the
// current bet. This does not duplicate every rule in §4.3 (those are
// enforced by the phase handler, which has the betting context). The
// Command Service does not call it; raiseAction applies its own
// raise-above-current-bet check.
func ValidateBettingAction(ctx *gamestate.GameContext, playerID string, actionType string, amount int) error {
	if amount < 0 {
		return violation("I3", "action amount %d is negative (player=%s, action=%s)", amount, playerID, actionType)
	}
	if actionType == "raise" && amount <= ctx.CurrentBet {
		return violation("I2", "raise target %d does not exceed current_bet %d", amount, ctx.CurrentBet)
	}
	return nil
}

// ValidateTotalChipConservation checks I1: the sum of every player's chips
// plus the pot never changes across a hand from its starting total.
func ValidateTotalChipConservation(ctx *gamestate.GameContext, initialTotal int) error {
	actual := ctx.TotalChips()
	if actual != initialTotal {
		return violation("I1", "total chips = %d, want %d (difference %d)", actual, initialTotal, actual-initialTotal)
	}
	return nil
}

// ValidateNonNegative checks I3 across every chip-bearing field in ctx.
func ValidateNonNegative(ctx *gamestate.GameContext) error {
	if ctx.PotTotal < 0 {
		return violation("I3", "pot_total=%d is negative", ctx.PotTotal)
	}
	if ctx.CurrentBet < 0 {
		return violation("I3", "current_bet=%d is negative", ctx.CurrentBet)
	}
	for _, id := range ctx.PlayerOrder {
		p := ctx.Players[id]
		if p.Chips < 0 {
			return violation("I3", "player %s chips=%d is negative", id, p.Chips)
		}
		if p.CurrentBet < 0 {
			return violation("I3", "player %s current_bet=%d is negative", id, p.CurrentBet)
		}
		if p.TotalBetThisHand < 0 {
			return violation("I3", "player %s total_bet_this_hand=%d is negative", id, p.TotalBetThisHand)
		}
	}
	return nil
}

// ValidateActivePlayer checks I4: active_player_id is either empty or
// refers to an actionable player.
func ValidateActivePlayer(ctx *gamestate.GameContext) error {
	if ctx.ActivePlayerID == "" {
		return nil
	}
	p := ctx.Players[ctx.ActivePlayerID]
	if p == nil {
		return violation("I4", "active_player_id %q refers to an unknown player", ctx.ActivePlayerID)
	}
	if !p.IsActionable() {
		return violation("I4", "active_player_id %q is not actionable (active=%v chips=%d status=%s)",
			ctx.ActivePlayerID, p.IsActive, p.Chips, p.Status)
	}
	return nil
}

// ValidateDeckDiscipline checks I6: no card appears twice across hole cards
// and community cards (the deck itself is opaque to the engine, so this
// checks only the cards the engine can see: duplicates there imply a
// duplicate in the deck too).
func ValidateDeckDiscipline(ctx *gamestate.GameContext) error {
	seen := make(map[string]bool)
	check := func(where string, c fmt.Stringer) error {
		key := c.String()
		if seen[key] {
			return violation("I6", "card %s appears more than once (%s)", key, where)
		}
		seen[key] = true
		return nil
	}
	for _, id := range ctx.PlayerOrder {
		for _, c := range ctx.Players[id].HoleCards {
			if err := check(fmt.Sprintf("hole cards of %s", id), c); err != nil {
				return err
			}
		}
	}
	for _, c := range ctx.CommunityCards {
		if err := check("community cards", c); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAll runs every at-rest invariant (I1-I4, I6; I2 respects the
// Showdown/Finished exemption) and returns the first violation found, or nil.
func ValidateAll(ctx *gamestate.GameContext, initialTotal int) error {
	checks := []func() error{
		func() error { return ValidatePotConsistency(ctx) },
		func() error { return ValidateNonNegative(ctx) },
		func() error { return ValidateActivePlayer(ctx) },
		func() error { return ValidateDeckDiscipline(ctx) },
		func() error { return ValidateTotalChipConservation(ctx, initialTotal) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

package engine

import (
	"github.com/lox/holdem-engine/internal/event"
	"github.com/lox/holdem-engine/internal/gamestate"
)

// applyPlayerAction mutates ctx according to spec §4.3's betting semantics
// for the given actor, returning the domain events it produced. It never
// advances active_player_id or inspects round-completion itself — callers
// do that afterward so auto-finish detection sees the post-action state.
func applyPlayerAction(ctx *gamestate.GameContext, player *gamestate.PlayerState, action gamestate.Action) ([]event.Event, *engineError) {
	switch action.Type {
	case gamestate.ActionFold:
		return foldAction(ctx, player), nil
	case gamestate.ActionCheck:
		return checkAction(ctx, player)
	case gamestate.ActionCall:
		return callAction(ctx, player)
	case gamestate.ActionRaise:
		return raiseAction(ctx, player, action.Amount)
	case gamestate.ActionAllIn:
		return allInAction(ctx, player), nil
	default:
		return nil, newError(ErrInvalidInput, "unknown action type %q", action.Type)
	}
}

func foldAction(ctx *gamestate.GameContext, player *gamestate.PlayerState) []event.Event {
	player.Status = gamestate.StatusFolded
	player.IsActive = false
	player.CurrentBet = 0
	return []event.Event{
		{Type: event.TypePlayerFolded, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID}},
		{Type: event.TypePlayerActionExecuted, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID, "action": "fold"}},
	}
}

// checkAction converts an actual check request, or a call issued when
// need==0, into a PlayerChecked event (spec §9's resolved open question).
func checkAction(ctx *gamestate.GameContext, player *gamestate.PlayerState) ([]event.Event, *engineError) {
	need := ctx.CurrentBet - player.CurrentBet
	if need != 0 {
		return nil, newError(ErrIllegalAction, "player %s cannot check with %d outstanding to call", player.ID, need)
	}
	return []event.Event{
		{Type: event.TypePlayerChecked, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID}},
		{Type: event.TypePlayerActionExecuted, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID, "action": "check"}},
	}, nil
}

func callAction(ctx *gamestate.GameContext, player *gamestate.PlayerState) ([]event.Event, *engineError) {
	need := ctx.CurrentBet - player.CurrentBet
	if need == 0 {
		return checkAction(ctx, player)
	}
	transfer := need
	wentAllIn := false
	if transfer >= player.Chips {
		transfer = player.Chips
		wentAllIn = true
	}
	transferChips(ctx, player, transfer)
	if wentAllIn {
		player.Status = gamestate.StatusAllIn
	}
	events := []event.Event{
		{Type: event.TypePlayerCalled, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID, "amount": transfer}},
		{Type: event.TypeBetPlaced, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID, "amount": transfer}},
		{Type: event.TypePotUpdated, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"pot_total": ctx.PotTotal}},
		{Type: event.TypePlayerActionExecuted, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID, "action": "call"}},
	}
	if wentAllIn {
		events = append(events, event.Event{Type: event.TypePlayerAllIn, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID}})
	}
	return events, nil
}

func raiseAction(ctx *gamestate.GameContext, player *gamestate.PlayerState, targetTotal int) ([]event.Event, *engineError) {
	if targetTotal <= ctx.CurrentBet {
		return nil, newError(ErrIllegalAction, "raise target %d does not exceed current_bet %d", targetTotal, ctx.CurrentBet)
	}
	minRaiseTotal := ctx.CurrentBet + ctx.LastRaiseSize
	affordableTotal := player.CurrentBet + player.Chips
	if targetTotal < minRaiseTotal && targetTotal < affordableTotal {
		return nil, newError(ErrIllegalAction, "raise to %d is below the minimum of %d", targetTotal, minRaiseTotal)
	}

	transfer := targetTotal - player.CurrentBet
	wentAllIn := false
	if transfer >= player.Chips {
		transfer = player.Chips
		wentAllIn = true
		targetTotal = player.CurrentBet + transfer
	}

	raiseSize := targetTotal - ctx.CurrentBet
	transferChips(ctx, player, transfer)
	if raiseSize > 0 {
		ctx.CurrentBet = targetTotal
		if raiseSize >= ctx.LastRaiseSize {
			ctx.LastRaiseSize = raiseSize
		}
	}
	if wentAllIn {
		player.Status = gamestate.StatusAllIn
	}

	events := []event.Event{
		{Type: event.TypePlayerRaised, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID, "amount": targetTotal}},
		{Type: event.TypeBetPlaced, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID, "amount": transfer}},
		{Type: event.TypePotUpdated, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"pot_total": ctx.PotTotal}},
		{Type: event.TypePlayerActionExecuted, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID, "action": "raise"}},
	}
	if wentAllIn {
		events = append(events, event.Event{Type: event.TypePlayerAllIn, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID}})
	}
	return events, nil
}

func allInAction(ctx *gamestate.GameContext, player *gamestate.PlayerState) []event.Event {
	transfer := player.Chips
	targetTotal := player.CurrentBet + transfer
	transferChips(ctx, player, transfer)
	player.Status = gamestate.StatusAllIn

	raiseSize := targetTotal - ctx.CurrentBet
	if targetTotal > ctx.CurrentBet {
		ctx.CurrentBet = targetTotal
		if raiseSize >= ctx.LastRaiseSize {
			ctx.LastRaiseSize = raiseSize
		}
	}

	return []event.Event{
		{Type: event.TypePlayerAllIn, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID, "amount": targetTotal}},
		{Type: event.TypeBetPlaced, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID, "amount": transfer}},
		{Type: event.TypePotUpdated, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"pot_total": ctx.PotTotal}},
		{Type: event.TypePlayerActionExecuted, SourcePhase: ctx.CurrentPhase, Data: map[string]any{"player_id": player.ID, "action": "all_in"}},
	}
}

func transferChips(ctx *gamestate.GameContext, player *gamestate.PlayerState, amount int) {
	player.Chips -= amount
	player.CurrentBet += amount
	player.TotalBetThisHand += amount
	ctx.PotTotal += amount
}

// actionablePlayers returns every player who can currently act, in seat
// order (spec glossary: active=true, chips>0, status ∉ {folded, out}).
func actionablePlayers(ctx *gamestate.GameContext) []*gamestate.PlayerState {
	var out []*gamestate.PlayerState
	for _, p := range ctx.OrderedPlayers() {
		if p.IsActionable() {
			out = append(out, p)
		}
	}
	return out
}

// nonFoldedPlayers returns every player still contesting the pot (not
// folded, not removed from the session), in seat order.
func nonFoldedPlayers(ctx *gamestate.GameContext) []*gamestate.PlayerState {
	var out []*gamestate.PlayerState
	for _, p := range ctx.OrderedPlayers() {
		if p.IsInHand() {
			out = append(out, p)
		}
	}
	return out
}

// advanceActivePlayer scans from the seat after fromID's seat through the
// ordered player list, wrapping once, and sets active_player_id to the
// first actionable seat found, or "" if none (spec §4.4).
func advanceActivePlayer(ctx *gamestate.GameContext, fromID string) {
	order := ctx.PlayerOrder
	n := len(order)
	if n == 0 {
		ctx.ActivePlayerID = ""
		return
	}
	start := indexOf(order, fromID)
	for i := 1; i <= n; i++ {
		idx := (start + i) % n
		candidate := ctx.Players[order[idx]]
		if candidate.IsActionable() {
			ctx.ActivePlayerID = candidate.ID
			return
		}
	}
	ctx.ActivePlayerID = ""
}

func indexOf(order []string, id string) int {
	for i, candidate := range order {
		if candidate == id {
			return i
		}
	}
	return -1
}

// isBettingRoundComplete reports whether the current betting round is over:
// either at most one actionable player remains, or every actionable
// player's current_bet is equal (spec §4.4).
func isBettingRoundComplete(ctx *gamestate.GameContext) bool {
	actionable := actionablePlayers(ctx)
	if len(actionable) <= 1 {
		return true
	}
	for _, p := range actionable {
		if p.CurrentBet != ctx.CurrentBet {
			return false
		}
	}
	return true
}

// isHandOverByFold reports whether at most one non-folded player remains,
// triggering auto-finish per spec §4.8.
func isHandOverByFold(ctx *gamestate.GameContext) bool {
	return len(nonFoldedPlayers(ctx)) <= 1
}

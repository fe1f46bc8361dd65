package engine

import (
	"github.com/lox/holdem-engine/internal/card"
	"github.com/lox/holdem-engine/internal/deck"
	"github.com/lox/holdem-engine/internal/event"
	"github.com/lox/holdem-engine/internal/gamestate"
	"github.com/lox/holdem-engine/internal/phase"
)

// rotateDealer advances ctx.DealerSeat to the next player (in PlayerOrder)
// with chips>0, wrapping once, and returns that player's id.
func rotateDealer(ctx *gamestate.GameContext) string {
	n := len(ctx.PlayerOrder)
	idx := ctx.DealerSeat
	for i := 0; i < n; i++ {
		idx = (idx + 1) % n
		id := ctx.PlayerOrder[idx]
		if ctx.Players[id].Chips > 0 {
			ctx.DealerSeat = idx
			return id
		}
	}
	return ""
}

// buildHandOrder returns every player with chips>0, starting at the dealer
// seat and proceeding clockwise through PlayerOrder.
func buildHandOrder(ctx *gamestate.GameContext) []string {
	n := len(ctx.PlayerOrder)
	order := make([]string, 0, n)
	for i := 0; i < n; i++ {
		idx := (ctx.DealerSeat + i) % n
		id := ctx.PlayerOrder[idx]
		if ctx.Players[id].Chips > 0 {
			order = append(order, id)
		}
	}
	return order
}

// assignPositionsAndPostBlinds rotates the dealer button, assigns
// dealer/SB/BB flags, and posts blinds, per spec §4.4's heads-up
// convention: with exactly two eligible players the dealer also posts the
// small blind and acts first pre-flop.
func assignPositionsAndPostBlinds(ctx *gamestate.GameContext) []event.Event {
	rotateDealer(ctx)
	order := buildHandOrder(ctx)
	gamestate.AssignPositions(order, ctx.Players)

	var sbID, bbID, firstToActID string
	switch {
	case len(order) == 2:
		sbID, bbID = order[0], order[1]
		firstToActID = order[0]
	default:
		sbID, bbID = order[1], order[2]
		firstToActID = order[3%len(order)]
	}

	ctx.Players[order[0]].IsDealer = true
	sbPlayer := ctx.Players[sbID]
	bbPlayer := ctx.Players[bbID]
	sbPlayer.IsSmallBlind = true
	bbPlayer.IsBigBlind = true

	postBlind(ctx, sbPlayer, ctx.SmallBlind)
	postBlind(ctx, bbPlayer, ctx.BigBlind)

	ctx.CurrentBet = bbPlayer.CurrentBet
	ctx.LastRaiseSize = ctx.BigBlind
	ctx.ActivePlayerID = firstToActID

	return []event.Event{
		{Type: event.TypeBetPlaced, Data: map[string]any{"player_id": sbID, "amount": sbPlayer.CurrentBet, "blind": "small"}},
		{Type: event.TypeBetPlaced, Data: map[string]any{"player_id": bbID, "amount": bbPlayer.CurrentBet, "blind": "big"}},
		{Type: event.TypePotUpdated, Data: map[string]any{"pot_total": ctx.PotTotal}},
	}
}

func postBlind(ctx *gamestate.GameContext, player *gamestate.PlayerState, amount int) {
	transfer := amount
	if transfer > player.Chips {
		transfer = player.Chips
	}
	transferChips(ctx, player, transfer)
	if player.Chips == 0 {
		player.Status = gamestate.StatusAllIn
	}
}

// enterPreFlop deals 2 hole cards to every active, chip-holding player
// (spec §4.2's PreFlop entry effect). Position/blind assignment has
// already happened in assignPositionsAndPostBlinds.
func enterPreFlop(ctx *gamestate.GameContext, dk *deck.Deck) []event.Event {
	ctx.CommunityCards = nil
	for _, p := range ctx.OrderedPlayers() {
		if p.IsActive && p.Chips >= 0 && p.Status != gamestate.StatusOut {
			p.HoleCards = dk.DealN(2)
		}
	}
	return []event.Event{
		{Type: event.TypeCardsDealt, SourcePhase: phase.PreFlop, Data: map[string]any{"target": "hole_cards"}},
	}
}

// enterStreet reveals n additional community cards and resets the betting
// round, per spec §4.2's Flop/Turn/River entry effect. It does not check pot
// consistency itself: the atomic wrapper runs invariant.ValidateAll over the
// whole command after it returns.
func enterStreet(ctx *gamestate.GameContext, dk *deck.Deck, n int, newPhase phase.Phase) []event.Event {
	revealed := dk.DealN(n)
	ctx.CommunityCards = append(ctx.CommunityCards, revealed...)

	for _, p := range ctx.OrderedPlayers() {
		p.ResetForNewRound()
	}
	ctx.CurrentBet = 0
	ctx.LastRaiseSize = ctx.BigBlind

	ctx.ActivePlayerID = firstActionableAfterButton(ctx)

	return []event.Event{
		{Type: event.TypeCommunityCardsRevealed, SourcePhase: newPhase, Data: map[string]any{
			"community_cards": append([]card.Card(nil), ctx.CommunityCards...),
		}},
	}
}

// firstActionableAfterButton returns the first actionable player starting
// just after the dealer button in seat order, or "" if none (post-flop
// first-to-act per spec §4.4).
func firstActionableAfterButton(ctx *gamestate.GameContext) string {
	n := len(ctx.PlayerOrder)
	for i := 1; i <= n; i++ {
		id := ctx.PlayerOrder[(ctx.DealerSeat+i)%n]
		if ctx.Players[id].IsActionable() {
			return id
		}
	}
	return ""
}

// enterFinished awards any remaining pot to the sole non-folded player
// (spec §4.8's auto-finish) then clears per-hand player flags. Pot must be
// zero by the time this returns.
func enterFinished(ctx *gamestate.GameContext) []event.Event {
	var events []event.Event
	remaining := nonFoldedPlayers(ctx)
	if ctx.PotTotal > 0 {
		switch len(remaining) {
		case 1:
			winner := remaining[0]
			winner.Chips += ctx.PotTotal
			ctx.WinnerInfo = append(ctx.WinnerInfo, gamestate.WinnerInfo{PlayerID: winner.ID, Amount: ctx.PotTotal})
			events = append(events, event.Event{Type: event.TypeHandAutoFinish, Data: map[string]any{"winner_id": winner.ID, "amount": ctx.PotTotal}})
		default:
			// Defensive path (spec §4.8): split evenly among whoever is left,
			// remainder to the earliest in seat order.
			split := ctx.PotTotal / max(len(remaining), 1)
			for i, p := range remaining {
				amount := split
				if i == 0 {
					amount += ctx.PotTotal - split*len(remaining)
				}
				p.Chips += amount
				ctx.WinnerInfo = append(ctx.WinnerInfo, gamestate.WinnerInfo{PlayerID: p.ID, Amount: amount})
			}
		}
		ctx.PotTotal = 0
	}

	for _, p := range ctx.OrderedPlayers() {
		p.CurrentBet = 0
		p.TotalBetThisHand = 0
	}
	ctx.CurrentBet = 0
	ctx.ActivePlayerID = ""

	events = append(events, event.Event{Type: event.TypeHandEnded, Data: map[string]any{"winners": ctx.WinnerInfo}})
	return events
}

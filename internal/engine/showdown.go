package engine

import (
	"sort"

	"github.com/lox/holdem-engine/internal/evaluator"
	"github.com/lox/holdem-engine/internal/event"
	"github.com/lox/holdem-engine/internal/gamestate"
	"github.com/lox/holdem-engine/internal/sidepot"
)

// enterShowdown determines winners per spec §4.7, awards chips, and
// atomically re-establishes I2 by zeroing pot_total and every player's
// current_bet/total_bet_this_hand before returning.
func enterShowdown(ctx *gamestate.GameContext) []event.Event {
	ctx.ActivePlayerID = ""

	contributions := make([]sidepot.Contribution, 0, len(ctx.PlayerOrder))
	for _, id := range ctx.PlayerOrder {
		p := ctx.Players[id]
		if p.TotalBetThisHand <= 0 {
			continue
		}
		contributions = append(contributions, sidepot.Contribution{
			PlayerID: id,
			Amount:   p.TotalBetThisHand,
			Folded:   p.Status == gamestate.StatusFolded,
		})
	}
	pots, returned := sidepot.Calculate(contributions)

	var events []event.Event
	for playerID, amount := range returned {
		ctx.Players[playerID].Chips += amount
	}

	for _, pot := range pots {
		winners := bestHandWinners(ctx, pot.Eligible)
		if len(winners) == 0 {
			continue
		}
		share := pot.Amount / len(winners)
		remainder := pot.Amount - share*len(winners)
		for i, winnerID := range winners {
			amount := share
			if i < remainder {
				amount++
			}
			ctx.Players[winnerID].Chips += amount
			ctx.WinnerInfo = append(ctx.WinnerInfo, gamestate.WinnerInfo{PlayerID: winnerID, Amount: amount})
		}
	}

	ctx.PotTotal = 0
	for _, p := range ctx.OrderedPlayers() {
		p.CurrentBet = 0
		p.TotalBetThisHand = 0
	}
	ctx.ShowdownComplete = true

	events = append(events, event.Event{Type: event.TypeHandEnded, Data: map[string]any{"winners": ctx.WinnerInfo}})
	return events
}

// bestHandWinners returns the eligible player ids with the best hand,
// ties included, in seat order (deterministic remainder distribution
// favors the earliest entry in this slice, per spec §4.7).
func bestHandWinners(ctx *gamestate.GameContext, eligible []string) []string {
	sort.SliceStable(eligible, func(i, j int) bool {
		return indexOf(ctx.PlayerOrder, eligible[i]) < indexOf(ctx.PlayerOrder, eligible[j])
	})

	var best evaluator.HandResult
	var winners []string
	for i, id := range eligible {
		p := ctx.Players[id]
		result, err := evaluator.Evaluate(p.HoleCards, ctx.CommunityCards)
		if err != nil {
			continue
		}
		switch {
		case i == 0 || len(winners) == 0:
			best = result
			winners = []string{id}
		case evaluator.Compare(result, best) > 0:
			best = result
			winners = []string{id}
		case evaluator.Compare(result, best) == 0:
			winners = append(winners, id)
		}
	}
	return winners
}

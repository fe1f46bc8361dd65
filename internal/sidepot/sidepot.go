// Package sidepot implements the side-pot decomposition algorithm from
// spec §4.7, grounded on the teacher's internal/game/pot_utils.go
// CalculateSidePots (contribution-tier walk) but restructured to return the
// uncalled top-tier amount to its sole contributor instead of forming a
// single-player pot, and to keep contributions separate from eligibility so
// folded players still back earlier tiers without being able to win them.
package sidepot

import "sort"

// Contribution is one player's total chips committed to the pot this hand.
type Contribution struct {
	PlayerID string
	Amount   int
	Folded   bool
}

// Pot is one main or side pot: an amount and the players eligible to win it.
type Pot struct {
	Amount   int
	Eligible []string
}

// Calculate decomposes contributions into main/side pots in ascending
// contribution-tier order (pots[0] is the main pot), plus any amount
// returned uncontested to a player because nobody else could contest it
// (spec §4.7 step 4: a lone top-tier contributor gets their excess back
// rather than it forming an uncontested pot).
func Calculate(contributions []Contribution) (pots []Pot, returned map[string]int) {
	returned = make(map[string]int)

	type entry struct {
		playerID string
		amount   int
		folded   bool
	}
	var active []entry
	for _, c := range contributions {
		if c.Amount > 0 {
			active = append(active, entry{c.PlayerID, c.Amount, c.Folded})
		}
	}
	if len(active) == 0 {
		return nil, returned
	}

	levelSet := make(map[int]bool)
	for _, e := range active {
		levelSet[e.amount] = true
	}
	levels := make([]int, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	type tier struct {
		level            int
		amount           int
		eligible         []string
		contributorCount int
	}
	tiers := make([]tier, 0, len(levels))
	previous := 0
	for _, level := range levels {
		contributorCount := 0
		var eligible []string
		for _, e := range active {
			if e.amount >= level {
				contributorCount++
				if !e.folded {
					eligible = append(eligible, e.playerID)
				}
			}
		}
		tiers = append(tiers, tier{
			level:            level,
			amount:           (level - previous) * contributorCount,
			eligible:         eligible,
			contributorCount: contributorCount,
		})
		previous = level
	}

	last := len(tiers) - 1
	if tiers[last].contributorCount == 1 {
		topLevel := levels[last]
		for _, e := range active {
			if e.amount >= topLevel {
				returned[e.playerID] += tiers[last].amount
				break
			}
		}
		tiers = tiers[:last]
	}

	for _, t := range tiers {
		if t.amount <= 0 {
			continue
		}
		if len(t.eligible) == 0 {
			// Every contributor at this tier folded; nobody can win it.
			// Conservation (I7) still holds: the whole tier amount is
			// tracked as returned to the first contributor at this tier in
			// contribution order.
			for _, e := range active {
				if e.amount >= t.level {
					returned[e.playerID] += t.amount
					break
				}
			}
			continue
		}
		pots = append(pots, Pot{Amount: t.amount, Eligible: t.eligible})
	}

	return pots, returned
}

// Total sums pot amounts and returned amounts, useful for verifying I7.
func Total(pots []Pot, returned map[string]int) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	for _, r := range returned {
		total += r
	}
	return total
}

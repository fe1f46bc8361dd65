package evaluator

import (
	"errors"
	"sort"

	"github.com/lox/holdem-engine/internal/card"
)

// ErrInvalidCardCount is returned when Evaluate is called with a card count
// outside the contract in spec §4.1: exactly 2 hole cards, 0..5 community
// cards, total at least 5.
var ErrInvalidCardCount = errors.New("evaluator: invalid card count")

// Evaluate returns the best 5-card HandResult obtainable from hole combined
// with community. hole must have exactly 2 cards; community must have 0..5
// cards; their combined length must be at least 5.
func Evaluate(hole, community []card.Card) (HandResult, error) {
	if len(hole) != 2 {
		return HandResult{}, ErrInvalidCardCount
	}
	if len(community) > 5 {
		return HandResult{}, ErrInvalidCardCount
	}
	all := make([]card.Card, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)
	if len(all) < 5 {
		return HandResult{}, ErrInvalidCardCount
	}

	var best HandResult
	first := true
	forEachCombination(all, 5, func(combo []card.Card) {
		result := classify5(combo)
		if first || Compare(result, best) > 0 {
			best = result
			first = false
		}
	})
	return best, nil
}

// forEachCombination invokes fn with every k-element subset of cards, in a
// scratch slice fn must not retain past the call.
func forEachCombination(cards []card.Card, k int, fn func([]card.Card)) {
	n := len(cards)
	if k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	combo := make([]card.Card, k)
	for {
		for i, j := range idx {
			combo[i] = cards[j]
		}
		fn(combo)

		// advance to the next combination in lexicographic index order
		i := k - 1
		for i >= 0 && idx[i] == i+n-k {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// classify5 ranks exactly 5 cards.
func classify5(cards []card.Card) HandResult {
	var rankCounts [15]int
	var suitCounts [4]int
	for _, c := range cards {
		rankCounts[c.Rank]++
		suitCounts[c.Suit]++
	}

	isFlush := false
	for _, n := range suitCounts {
		if n == 5 {
			isFlush = true
			break
		}
	}

	straightHigh := straightHigh(rankCounts)

	if isFlush && straightHigh > 0 {
		if straightHigh == int(card.Ace) {
			return HandResult{Category: RoyalFlush, Primary: straightHigh}
		}
		return HandResult{Category: StraightFlush, Primary: straightHigh}
	}

	// descending ranks present, grouped by count
	type group struct {
		rank  int
		count int
	}
	var groups []group
	for r := int(card.Ace); r >= int(card.Two); r-- {
		if rankCounts[r] > 0 {
			groups = append(groups, group{rank: r, count: rankCounts[r]})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	switch {
	case groups[0].count == 4:
		return HandResult{Category: FourKind, Primary: groups[0].rank, Kickers: []int{groups[1].rank}}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandResult{Category: FullHouse, Primary: groups[0].rank, Secondary: groups[1].rank}
	case isFlush:
		ranks := descendingRanks(cards)
		return HandResult{Category: Flush, Primary: ranks[0], Kickers: ranks[1:]}
	case straightHigh > 0:
		return HandResult{Category: Straight, Primary: straightHigh}
	case groups[0].count == 3:
		return HandResult{Category: ThreeKind, Primary: groups[0].rank, Kickers: []int{groups[1].rank, groups[2].rank}}
	case groups[0].count == 2 && groups[1].count == 2:
		hi, lo := groups[0].rank, groups[1].rank
		return HandResult{Category: TwoPair, Primary: hi, Secondary: lo, Kickers: []int{groups[2].rank}}
	case groups[0].count == 2:
		return HandResult{Category: Pair, Primary: groups[0].rank, Kickers: []int{groups[1].rank, groups[2].rank, groups[3].rank}}
	default:
		ranks := descendingRanks(cards)
		return HandResult{Category: HighCard, Primary: ranks[0], Kickers: ranks[1:]}
	}
}

// straightHigh returns the high card rank of a straight present in the
// 5-card rank-count table, 0 if none. The wheel (A-2-3-4-5) returns 5.
func straightHigh(rankCounts [15]int) int {
	present := func(r int) bool { return rankCounts[r] > 0 }
	if present(int(card.Ace)) && present(2) && present(3) && present(4) && present(5) {
		return 5
	}
	for high := int(card.Ace); high >= 6; high-- {
		ok := true
		for r := high; r > high-5; r-- {
			if !present(r) {
				ok = false
				break
			}
		}
		if ok {
			return high
		}
	}
	return 0
}

func descendingRanks(cards []card.Card) []int {
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = int(c.Rank)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))
	return ranks
}

// Package deck models the 52-card deck and its shuffle/deal discipline.
// Randomness is always injected (spec §9 "Determinism"): the deck never
// reaches for process-global randomness.
package deck

import "github.com/lox/holdem-engine/internal/card"

// RNG is the shuffle source the engine injects into a Deck. It matches the
// signature of *math/rand.Rand and *math/rand/v2.Rand so either can be used
// directly; tests can also supply a fixed-permutation fake for exact control.
type RNG interface {
	Shuffle(n int, swap func(i, j int))
}

// Deck is an ordered sequence of distinct cards backed by an injected RNG.
type Deck struct {
	cards []card.Card
	rng   RNG
}

// New builds a freshly ordered, unshuffled 52-card deck using rng for all
// future shuffles.
func New(rng RNG) *Deck {
	d := &Deck{
		cards: make([]card.Card, 0, 52),
		rng:   rng,
	}
	d.fill()
	return d
}

func (d *Deck) fill() {
	d.cards = d.cards[:0]
	for suit := card.Spades; suit <= card.Clubs; suit++ {
		for rank := card.Two; rank <= card.Ace; rank++ {
			d.cards = append(d.cards, card.New(suit, rank))
		}
	}
}

// Shuffle randomizes the remaining cards in place using the injected RNG.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the top card, or ok=false if the deck is empty.
func (d *Deck) Deal() (card.Card, bool) {
	if len(d.cards) == 0 {
		return card.Card{}, false
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// DealN deals up to n cards; fewer are returned if the deck runs out.
func (d *Deck) DealN(n int) []card.Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	out := make([]card.Card, 0, n)
	for i := 0; i < n; i++ {
		c, ok := d.Deal()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}

// Peek returns the top card without removing it.
func (d *Deck) Peek() (card.Card, bool) {
	if len(d.cards) == 0 {
		return card.Card{}, false
	}
	return d.cards[0], true
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Reset restores the full 52-card deck in canonical order and reshuffles it.
func (d *Deck) Reset() {
	d.fill()
	d.Shuffle()
}

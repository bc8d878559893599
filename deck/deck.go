// Package deck implements a mutable, shuffleable sequence of cards over the
// 52-card universe, with a permanently-removed set that survives Reset.
package deck

import (
	"math/rand"

	"github.com/lox/holdem-equity/card"
	"github.com/lox/holdem-equity/pokererr"
)

// Deck is a mutable sequence of cards plus a pseudo-random source. Cards
// removed with Remove stay out of the deck across Reset; cards dealt with
// Deal/DealN return to the deck on Reset.
type Deck struct {
	rng     *rand.Rand
	removed map[card.Card]struct{}
	cards   []card.Card
}

// New creates a deck over the full 52-card universe, seeded deterministically
// so that two decks built with the same seed deal identical sequences.
func New(seed int64) *Deck {
	d := &Deck{
		rng:     rand.New(rand.NewSource(seed)),
		removed: make(map[card.Card]struct{}),
	}
	d.rebuild()
	return d
}

func (d *Deck) rebuild() {
	all := card.All52()
	d.cards = d.cards[:0]
	for _, c := range all {
		if _, dead := d.removed[c]; !dead {
			d.cards = append(d.cards, c)
		}
	}
}

// Shuffle randomizes the order of the remaining cards in place.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the top card of the deck.
func (d *Deck) Deal() (card.Card, bool) {
	if len(d.cards) == 0 {
		return card.Card{}, false
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// DealN deals up to n cards from the top of the deck. A negative n deals none.
func (d *Deck) DealN(n int) []card.Card {
	if n < 0 {
		n = 0
	}
	if n > len(d.cards) {
		n = len(d.cards)
	}
	dealt := make([]card.Card, n)
	copy(dealt, d.cards[:n])
	d.cards = d.cards[n:]
	return dealt
}

// Peek returns the top card without removing it.
func (d *Deck) Peek() (card.Card, bool) {
	if len(d.cards) == 0 {
		return card.Card{}, false
	}
	return d.cards[0], true
}

// Remove permanently takes a specific card out of the deck. It stays out
// across Reset. Removing a card not currently present is an UnavailableCard
// error.
func (d *Deck) Remove(c card.Card) error {
	for i, existing := range d.cards {
		if existing == c {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			d.removed[c] = struct{}{}
			return nil
		}
	}
	return pokererr.New(pokererr.UnavailableCard, "card %s is not in the deck", c)
}

// RemoveAll permanently removes every card in cs, stopping at the first one
// not present.
func (d *Deck) RemoveAll(cs []card.Card) error {
	for _, c := range cs {
		if err := d.Remove(c); err != nil {
			return err
		}
	}
	return nil
}

// CardsRemaining returns the number of cards left to deal.
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// Reset restores every dealt (but not removed) card and reshuffles.
func (d *Deck) Reset() {
	d.rebuild()
	d.Shuffle()
}

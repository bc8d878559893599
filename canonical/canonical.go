// Package canonical implements the 169-class quotient of the 1,326 possible
// starting hole-card pairs, with combo enumeration and dead-card filtering.
package canonical

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lox/holdem-equity/card"
	"github.com/lox/holdem-equity/pokererr"
)

// Hand is a canonical starting-hand class: (high_rank, low_rank, suited).
// A pair always has high_rank == low_rank and suited == false.
type Hand struct {
	High   card.Rank
	Low    card.Rank
	Suited bool
}

// IsPair reports whether the class is a pocket pair.
func (h Hand) IsPair() bool { return h.High == h.Low }

// Canonize maps two hole cards to their canonical class.
func Canonize(c1, c2 card.Card) Hand {
	high, low := c1.Rank, c2.Rank
	if low > high {
		high, low = low, high
	}
	return Hand{
		High:   high,
		Low:    low,
		Suited: c1.Suit == c2.Suit && high != low,
	}
}

// NumCombos returns the number of 2-card realizations of this class: 6 for a
// pair, 4 for suited, 12 for offsuit.
func (h Hand) NumCombos() int {
	switch {
	case h.IsPair():
		return 6
	case h.Suited:
		return 4
	default:
		return 12
	}
}

// String renders the canonical notation: high rank, low rank, then "s" or
// "o" for non-pairs (pairs carry no suffix).
func (h Hand) String() string {
	if h.IsPair() {
		return h.High.String() + h.Low.String()
	}
	if h.Suited {
		return h.High.String() + h.Low.String() + "s"
	}
	return h.High.String() + h.Low.String() + "o"
}

// Parse parses canonical notation ("AA", "AKs", "AKo"; either rank order
// accepted). A pair with an "s"/"o" suffix is rejected, and a non-pair
// without one is rejected, per the notation's suffix-required rule.
func Parse(s string) (Hand, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 3 {
		return Hand{}, pokererr.New(pokererr.InvalidInput, "canonical hand %q has invalid length", s)
	}

	r1, err := parseRankChar(s[0])
	if err != nil {
		return Hand{}, pokererr.Wrap(pokererr.InvalidInput, err, "canonical hand %q", s)
	}
	r2, err := parseRankChar(s[1])
	if err != nil {
		return Hand{}, pokererr.Wrap(pokererr.InvalidInput, err, "canonical hand %q", s)
	}

	high, low := r1, r2
	if low > high {
		high, low = low, high
	}

	if len(s) == 2 {
		if high == low {
			return Hand{High: high, Low: low, Suited: false}, nil
		}
		return Hand{}, pokererr.New(pokererr.InvalidInput, "canonical hand %q is missing a suited/offsuit suffix", s)
	}

	suffix := s[2]
	if high == low {
		return Hand{}, pokererr.New(pokererr.InvalidInput, "pocket pair %q cannot carry a suited/offsuit suffix", s)
	}
	switch suffix {
	case 's', 'S':
		return Hand{High: high, Low: low, Suited: true}, nil
	case 'o', 'O':
		return Hand{High: high, Low: low, Suited: false}, nil
	default:
		return Hand{}, pokererr.New(pokererr.InvalidInput, "canonical hand %q has unrecognized suffix %q", s, suffix)
	}
}

func parseRankChar(b byte) (card.Rank, error) {
	c, err := card.Parse(string(b) + "s")
	if err != nil {
		return 0, fmt.Errorf("unrecognized rank %q", b)
	}
	return c.Rank, nil
}

// ParseRange parses a list of canonical-hand tokens into a de-duplicated
// set. A malformed token fails the whole parse.
func ParseRange(tokens []string) ([]Hand, error) {
	seen := make(map[Hand]struct{}, len(tokens))
	out := make([]Hand, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		h, err := Parse(tok)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out, nil
}

// GetAllCombos returns every 2-card realization of the canonical hand.
func (h Hand) GetAllCombos() [][2]card.Card {
	if h.IsPair() {
		combos := make([][2]card.Card, 0, 6)
		for s1 := card.Spades; s1 <= card.Clubs; s1++ {
			for s2 := s1 + 1; s2 <= card.Clubs; s2++ {
				combos = append(combos, [2]card.Card{card.New(h.High, s1), card.New(h.High, s2)})
			}
		}
		return combos
	}
	if h.Suited {
		combos := make([][2]card.Card, 0, 4)
		for s := card.Spades; s <= card.Clubs; s++ {
			combos = append(combos, [2]card.Card{card.New(h.High, s), card.New(h.Low, s)})
		}
		return combos
	}
	combos := make([][2]card.Card, 0, 12)
	for s1 := card.Spades; s1 <= card.Clubs; s1++ {
		for s2 := card.Spades; s2 <= card.Clubs; s2++ {
			if s1 == s2 {
				continue
			}
			combos = append(combos, [2]card.Card{card.New(h.High, s1), card.New(h.Low, s2)})
		}
	}
	return combos
}

// GetCombosExcluding returns only the combos whose two cards are both absent
// from dead.
func (h Hand) GetCombosExcluding(dead map[card.Card]struct{}) [][2]card.Card {
	all := h.GetAllCombos()
	out := make([][2]card.Card, 0, len(all))
	for _, combo := range all {
		_, d1 := dead[combo[0]]
		_, d2 := dead[combo[1]]
		if !d1 && !d2 {
			out = append(out, combo)
		}
	}
	return out
}

var (
	allHandsOnce sync.Once
	allHandsTbl  []Hand
)

// GetAllCanonicalHands returns all 169 classes in the mandated order: pairs
// high-to-low, then suited high-to-low (by high rank then low rank), then
// offsuit likewise. The table is memoized; callers must not mutate the
// returned slice.
func GetAllCanonicalHands() []Hand {
	allHandsOnce.Do(func() {
		hands := make([]Hand, 0, 169)
		for r := card.Ace; r >= card.Two; r-- {
			hands = append(hands, Hand{High: r, Low: r, Suited: false})
		}
		ranksDesc := descendingRanks()
		for _, hi := range ranksDesc {
			for _, lo := range ranksDesc {
				if lo >= hi {
					continue
				}
				hands = append(hands, Hand{High: hi, Low: lo, Suited: true})
			}
		}
		for _, hi := range ranksDesc {
			for _, lo := range ranksDesc {
				if lo >= hi {
					continue
				}
				hands = append(hands, Hand{High: hi, Low: lo, Suited: false})
			}
		}
		allHandsTbl = hands
	})
	return allHandsTbl
}

func descendingRanks() []card.Rank {
	ranks := make([]card.Rank, 0, 13)
	for r := card.Ace; r >= card.Two; r-- {
		ranks = append(ranks, r)
	}
	return ranks
}

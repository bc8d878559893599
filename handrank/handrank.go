// Package handrank implements a high-performance Texas Hold'em hand
// evaluator.
//
// The approach follows the classic poker-engine recipe, inspired by
// Cactus Kev's and TwoPlusTwo's lookup-table evaluators but expressed with
// Go's bit-manipulation primitives instead of generated tables:
//
//  1. Preprocessing: count each rank (2-A) and suit occurrence, build a
//     13-bit rank-presence mask.
//  2. Flush detection: the five cards form a flush when they share a suit.
//  3. Straight-flush detection: if the hand is a flush, look for 5
//     consecutive ranks in the rank-presence mask.
//  4. Classification: walk the nine categories from strongest to weakest,
//     using rank multiplicities to find quads/trips/pairs.
//  5. Encoding: category and up to five tiebreak ranks pack into a single
//     integer (see Score) so two hands compare with one integer comparison.
//
// Evaluate7 enumerates the 21 five-card subsets of a 7-card hand and returns
// the best, which is the textbook-correct approach; nothing here depends on
// generated tables, so the package has no build step.
package handrank

import (
	"sort"

	"github.com/lox/holdem-equity/card"
	"github.com/lox/holdem-equity/pokererr"
)

// Category is one of the nine totally ordered poker hand strengths.
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandRank is the totally ordered (category, primary_ranks, kickers) triple
// from the spec, plus a packed integer Score for O(1) comparison.
//
// Score layout, most significant bits first: category (4 bits), then five
// 4-bit rank slots holding primary_ranks followed by kickers, zero-padded.
// Because stronger categories and higher ranks both produce larger integers,
// Score order is exactly HandRank order.
type HandRank struct {
	Category Category
	Primary  []card.Rank
	Kickers  []card.Rank
}

// IsRoyal reports whether a straight-flush HandRank is specifically the
// royal flush (ace-high). Comparison never needs this; it exists purely for
// display, per the spec.
func (h HandRank) IsRoyal() bool {
	return h.Category == StraightFlush && len(h.Primary) == 1 && h.Primary[0] == card.Ace
}

// Score packs the HandRank into a single comparable integer.
func (h HandRank) Score() uint32 {
	score := uint32(h.Category) << 24
	slot := 20
	for _, r := range h.Primary {
		score |= uint32(r) << slot
		slot -= 4
	}
	for _, r := range h.Kickers {
		score |= uint32(r) << slot
		slot -= 4
	}
	return score
}

// Compare returns -1, 0, or 1 as h is weaker than, equal to, or stronger than
// other.
func (h HandRank) Compare(other HandRank) int {
	hs, os := h.Score(), other.Score()
	switch {
	case hs < os:
		return -1
	case hs > os:
		return 1
	default:
		return 0
	}
}

func (h HandRank) String() string {
	if h.IsRoyal() {
		return "Royal Flush"
	}
	return h.Category.String()
}

// Evaluate5 maps exactly 5 distinct cards to their HandRank.
func Evaluate5(cards []card.Card) (HandRank, error) {
	if len(cards) != 5 {
		return HandRank{}, pokererr.New(pokererr.InvalidInput, "evaluate5 requires exactly 5 cards, got %d", len(cards))
	}
	return evaluate5Unchecked(cards), nil
}

// Evaluate7 maps 5 to 7 cards to the maximum HandRank over every 5-subset.
func Evaluate7(cards []card.Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandRank{}, pokererr.New(pokererr.InvalidInput, "evaluate7 requires 5-7 cards, got %d", len(cards))
	}
	if len(cards) == 5 {
		return evaluate5Unchecked(cards), nil
	}

	best := HandRank{}
	bestScore := uint32(0)
	first := true
	forEachFiveSubset(cards, func(subset []card.Card) {
		hr := evaluate5Unchecked(subset)
		if s := hr.Score(); first || s > bestScore {
			best, bestScore, first = hr, s, false
		}
	})
	return best, nil
}

// forEachFiveSubset invokes fn once per 5-card combination of cards (21 of
// them for 7 cards, 1 for 5, 6 for 6).
func forEachFiveSubset(cards []card.Card, fn func([]card.Card)) {
	n := len(cards)
	idx := make([]int, 5)
	for i := range idx {
		idx[i] = i
	}
	subset := make([]card.Card, 5)
	for {
		for i, pos := range idx {
			subset[i] = cards[pos]
		}
		fn(subset)

		i := 4
		for i >= 0 && idx[i] == i+n-5 {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < 5; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// FindWinners returns every index in hands tied for the maximum HandRank.
// hands must be non-empty.
func FindWinners(hands []HandRank) []int {
	if len(hands) == 0 {
		return nil
	}
	best := hands[0].Score()
	for _, h := range hands[1:] {
		if s := h.Score(); s > best {
			best = s
		}
	}
	winners := make([]int, 0, len(hands))
	for i, h := range hands {
		if h.Score() == best {
			winners = append(winners, i)
		}
	}
	return winners
}

func evaluate5Unchecked(cards []card.Card) HandRank {
	var rankCounts [15]int // index 2..14
	var suitCounts [4]int
	var rankMask uint16

	for _, c := range cards {
		rankCounts[c.Rank]++
		suitCounts[c.Suit]++
		rankMask |= 1 << uint(c.Rank-card.Two)
	}

	isFlush := false
	flushSuit := card.Suit(0)
	for s, n := range suitCounts {
		if n == 5 {
			isFlush = true
			flushSuit = card.Suit(s)
			break
		}
	}

	straightHigh := straightHigh(rankMask)

	if isFlush && straightHigh > 0 {
		return HandRank{Category: StraightFlush, Primary: []card.Rank{straightHigh}}
	}

	// Group ranks by multiplicity, highest rank first within each group.
	var quads, trips, pairs, singles []card.Rank
	for r := card.Ace; r >= card.Two; r-- {
		switch rankCounts[r] {
		case 4:
			quads = append(quads, r)
		case 3:
			trips = append(trips, r)
		case 2:
			pairs = append(pairs, r)
		case 1:
			singles = append(singles, r)
		}
	}

	switch {
	case len(quads) == 1:
		kicker := highestOf(append(append([]card.Rank{}, trips...), append(pairs, singles...)...))
		return HandRank{Category: FourOfAKind, Primary: []card.Rank{quads[0]}, Kickers: []card.Rank{kicker}}

	case len(trips) == 2:
		return HandRank{Category: FullHouse, Primary: []card.Rank{trips[0], trips[1]}}

	case len(trips) == 1 && len(pairs) >= 1:
		return HandRank{Category: FullHouse, Primary: []card.Rank{trips[0], pairs[0]}}

	case isFlush:
		ranks := make([]card.Rank, 0, 5)
		for _, c := range cards {
			if c.Suit == flushSuit {
				ranks = append(ranks, c.Rank)
			}
		}
		sort.Sort(sort.Reverse(rankSlice(ranks)))
		return HandRank{Category: Flush, Kickers: ranks}

	case straightHigh > 0:
		return HandRank{Category: Straight, Primary: []card.Rank{straightHigh}}

	case len(trips) == 1:
		return HandRank{Category: ThreeOfAKind, Primary: []card.Rank{trips[0]}, Kickers: firstN(append(pairs, singles...), 2)}

	case len(pairs) == 2:
		return HandRank{Category: TwoPair, Primary: []card.Rank{pairs[0], pairs[1]}, Kickers: firstN(singles, 1)}

	case len(pairs) == 1:
		return HandRank{Category: OnePair, Primary: []card.Rank{pairs[0]}, Kickers: firstN(singles, 3)}

	default:
		return HandRank{Category: HighCard, Kickers: firstN(singles, 5)}
	}
}

// straightHigh returns the high card of the straight represented by a
// 13-bit rank-presence mask (bit 0 = Two ... bit 12 = Ace), or 0 if none.
// The wheel (A-2-3-4-5) reports high card Five.
func straightHigh(mask uint16) card.Rank {
	const wheelMask = uint16(1<<0 | 1<<1 | 1<<2 | 1<<3 | 1<<12) // 2,3,4,5,A
	if mask&wheelMask == wheelMask {
		return card.Five
	}
	// 5 consecutive set bits, scanning from the high end.
	for lowBit := 8; lowBit >= 0; lowBit-- {
		window := uint16(0x1F) << uint(lowBit)
		if mask&window == window {
			return card.Two + card.Rank(lowBit+4)
		}
	}
	return 0
}

func highestOf(ranks []card.Rank) card.Rank {
	best := card.Rank(0)
	for _, r := range ranks {
		if r > best {
			best = r
		}
	}
	return best
}

func firstN(ranks []card.Rank, n int) []card.Rank {
	sort.Sort(sort.Reverse(rankSlice(ranks)))
	if len(ranks) > n {
		ranks = ranks[:n]
	}
	out := make([]card.Rank, len(ranks))
	copy(out, ranks)
	return out
}

type rankSlice []card.Rank

func (r rankSlice) Len() int           { return len(r) }
func (r rankSlice) Less(i, j int) bool { return r[i] < r[j] }
func (r rankSlice) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }

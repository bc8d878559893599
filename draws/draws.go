// Package draws classifies flush and straight drawing potential for a
// partial hand (hole cards plus a partial board) and computes the
// deduplicated set of outs that complete any of them.
package draws

import (
	"fmt"
	"sort"

	"github.com/lox/holdem-equity/card"
	"github.com/lox/holdem-equity/handrank"
	"github.com/lox/holdem-equity/pokererr"
)

// StraightKind distinguishes the quality of a straight draw.
type StraightKind int

const (
	OpenEnded StraightKind = iota
	Gutshot
	DoubleGutshot
	BackdoorStraight
)

func (k StraightKind) String() string {
	switch k {
	case OpenEnded:
		return "open-ended"
	case Gutshot:
		return "gutshot"
	case DoubleGutshot:
		return "double gutshot"
	case BackdoorStraight:
		return "backdoor straight"
	default:
		return "unknown"
	}
}

// FlushDraw describes drawing potential toward a single suit.
type FlushDraw struct {
	Suit      card.Suit
	CardsHeld int // 3 (backdoor, flop only) or 4 (live draw)
	Outs      []card.Card
	IsNut     bool
}

// StraightDraw describes one distinct way to complete a straight.
type StraightDraw struct {
	Kind        StraightKind
	NeededRanks []card.Rank
	Outs        []card.Card
	HighCard    card.Rank
	IsNut       bool
}

// Analysis is the full draw picture for a (hole, board, dead) situation.
type Analysis struct {
	HasFlush      bool
	HasStraight   bool
	FlushDraws    []FlushDraw
	StraightDraws []StraightDraw
	AllOuts       []card.Card
	TotalOuts     int
}

// IsComboDraw reports whether the hand has two or more independent draws,
// matching the spec's informal "combo draw" notion used in scenario S6.
func (a Analysis) IsComboDraw() bool {
	return len(a.FlushDraws)+len(a.StraightDraws) >= 2
}

// Analyze classifies draws given exactly 2 hole cards, 0-5 board cards, and
// an optional dead-card set. A card repeated among the hole and board cards,
// or a dead card that is also a hole or board card, fails; a card repeated
// within the dead set is accepted.
func Analyze(hole [2]card.Card, board []card.Card, dead []card.Card) (Analysis, error) {
	if len(board) > 5 {
		return Analysis{}, pokererr.New(pokererr.InvalidInput, "board has %d cards, max is 5", len(board))
	}

	known := make([]card.Card, 0, 2+len(board))
	known = append(known, hole[0], hole[1])
	known = append(known, board...)

	seen := make(map[card.Card]struct{}, len(known)+len(dead))
	for _, c := range known {
		if _, dup := seen[c]; dup {
			return Analysis{}, pokererr.New(pokererr.InvalidInput, "duplicate card %s", c)
		}
		seen[c] = struct{}{}
	}
	deadSet := make(map[card.Card]struct{}, len(dead))
	for _, c := range dead {
		if _, dup := seen[c]; dup {
			return Analysis{}, pokererr.New(pokererr.InvalidInput, "dead card %s already known", c)
		}
		deadSet[c] = struct{}{}
	}

	var result Analysis
	if len(known) >= 5 {
		hr, err := handrank.Evaluate7(known)
		if err != nil {
			return Analysis{}, fmt.Errorf("draws: %w", err)
		}
		result.HasFlush = hr.Category == handrank.Flush || hr.Category == handrank.StraightFlush
		result.HasStraight = hr.Category == handrank.Straight || hr.Category == handrank.StraightFlush
	}

	knownSet := seen
	if !result.HasFlush {
		result.FlushDraws = detectFlushDraws(known, board, knownSet, deadSet)
	}
	if !result.HasStraight {
		result.StraightDraws = detectStraightDraws(known, board, knownSet, deadSet)
	}

	outSet := make(map[card.Card]struct{})
	for _, fd := range result.FlushDraws {
		for _, c := range fd.Outs {
			outSet[c] = struct{}{}
		}
	}
	for _, sd := range result.StraightDraws {
		for _, c := range sd.Outs {
			outSet[c] = struct{}{}
		}
	}
	result.AllOuts = sortedCards(outSet)
	result.TotalOuts = len(outSet)
	return result, nil
}

func detectFlushDraws(known []card.Card, board []card.Card, knownSet, deadSet map[card.Card]struct{}) []FlushDraw {
	var counts [4]int
	for _, c := range known {
		counts[c.Suit]++
	}

	var draws []FlushDraw
	for s := card.Spades; s <= card.Clubs; s++ {
		count := counts[s]
		switch {
		case count < 3:
			continue
		case count == 3 && len(board) != 3:
			continue // turn/river: requires two running cards, impossible
		case count >= 5:
			continue // made hand, handled by the pre-check
		}

		outs := liveCardsOfSuit(s, knownSet, deadSet)
		ace := card.New(card.Ace, s)
		_, aceKnown := knownSet[ace]
		_, aceDead := deadSet[ace]

		draws = append(draws, FlushDraw{
			Suit:      s,
			CardsHeld: count,
			Outs:      outs,
			IsNut:     aceKnown || aceDead,
		})
	}
	return draws
}

func liveCardsOfSuit(s card.Suit, knownSet, deadSet map[card.Card]struct{}) []card.Card {
	var outs []card.Card
	for r := card.Two; r <= card.Ace; r++ {
		c := card.New(r, s)
		if _, known := knownSet[c]; known {
			continue
		}
		if _, dead := deadSet[c]; dead {
			continue
		}
		outs = append(outs, c)
	}
	return outs
}

// rankMask packs rank presence into bits 1..13 (rank r at bit r-1) plus bit 0
// mirroring the Ace, so a 5-bit window starting at 0 sees the wheel.
func rankMask(cards []card.Card) uint16 {
	var mask uint16
	for _, c := range cards {
		mask |= 1 << uint(c.Rank-card.Two+1)
	}
	if mask&(1<<13) != 0 {
		mask |= 1 // mirror ace into the wheel's low-ace slot
	}
	return mask
}

func bitToRank(pos int) card.Rank {
	if pos == 0 {
		return card.Ace
	}
	return card.Rank(pos + 1)
}

func detectStraightDraws(known []card.Card, board []card.Card, knownSet, deadSet map[card.Card]struct{}) []StraightDraw {
	mask := rankMask(known)

	type group struct {
		held   []card.Rank
		needed map[card.Rank]struct{}
	}
	groups := make(map[string]*group)

	// 5-bit windows, one per possible straight high card 5..14.
	for h := 5; h <= 14; h++ {
		lo := h - 5
		var present, missing []int
		for pos := lo; pos <= lo+4; pos++ {
			if mask&(1<<uint(pos)) != 0 {
				present = append(present, pos)
			} else {
				missing = append(missing, pos)
			}
		}
		if len(present) != 4 || len(missing) != 1 {
			continue
		}

		held := make([]card.Rank, 0, 4)
		for _, pos := range present {
			held = append(held, bitToRank(pos))
		}
		held = dedupRanks(held)
		key := rankSetKey(held)

		g, ok := groups[key]
		if !ok {
			g = &group{held: held, needed: make(map[card.Rank]struct{})}
			groups[key] = g
		}
		g.needed[bitToRank(missing[0])] = struct{}{}
	}

	var draws []StraightDraw
	for _, g := range groups {
		needed := sortedRanks(g.needed)
		kind := Gutshot
		if len(needed) >= 2 {
			kind = OpenEnded
		}
		draws = append(draws, buildStraightDraw(kind, needed, g.held, knownSet, deadSet))
	}

	if doubleGutshot, ok := detectDoubleGutshot(mask, len(board), knownSet, deadSet); ok {
		draws = append(draws, doubleGutshot)
	}

	hasStrongerDraw := len(draws) > 0
	if !hasStrongerDraw && len(board) <= 3 {
		draws = append(draws, detectBackdoorStraights(mask, knownSet, deadSet)...)
	}

	return dedupStraightDraws(draws)
}

func buildStraightDraw(kind StraightKind, needed []card.Rank, held []card.Rank, knownSet, deadSet map[card.Card]struct{}) StraightDraw {
	var outs []card.Card
	highCard := card.Rank(0)
	isNut := false
	for _, nr := range needed {
		completion := append(append([]card.Rank{}, held...), nr)
		high := straightHighOf(completion)
		if high > highCard {
			highCard = high
		}
		if high == card.Ace {
			isNut = true
		}
		for s := card.Spades; s <= card.Clubs; s++ {
			c := card.New(nr, s)
			if _, known := knownSet[c]; known {
				continue
			}
			if _, dead := deadSet[c]; dead {
				continue
			}
			outs = append(outs, c)
		}
	}
	return StraightDraw{Kind: kind, NeededRanks: needed, Outs: outs, HighCard: highCard, IsNut: isNut}
}

// straightHighOf returns the high card of the straight formed by 5 ranks
// (4 held plus the completing rank), honoring the wheel. Backdoor draws pass
// only 4 ranks (3 held plus one flanking rank); it then returns the highest
// of them.
func straightHighOf(ranks []card.Rank) card.Rank {
	set := make(map[card.Rank]bool, len(ranks))
	hasAce := false
	for _, r := range ranks {
		set[r] = true
		if r == card.Ace {
			hasAce = true
		}
	}
	if hasAce && set[card.Two] && set[card.Three] && set[card.Four] && set[card.Five] {
		return card.Five
	}
	high := card.Rank(0)
	for r := range set {
		if r > high {
			high = r
		}
	}
	return high
}

func detectDoubleGutshot(mask uint16, boardLen int, knownSet, deadSet map[card.Card]struct{}) (StraightDraw, bool) {
	if boardLen >= 5 {
		return StraightDraw{}, false
	}
	for start := 0; start <= 8; start++ {
		var present, gaps []int
		for pos := start; pos <= start+5; pos++ {
			if mask&(1<<uint(pos)) != 0 {
				present = append(present, pos)
			} else {
				gaps = append(gaps, pos)
			}
		}
		if len(present) != 4 || len(gaps) != 2 {
			continue
		}
		internal := true
		for _, g := range gaps {
			if g == start || g == start+5 {
				internal = false
			}
		}
		if !internal {
			continue
		}

		held := make([]card.Rank, 0, 4)
		for _, pos := range present {
			held = append(held, bitToRank(pos))
		}
		needed := make([]card.Rank, 0, 2)
		for _, pos := range gaps {
			needed = append(needed, bitToRank(pos))
		}
		sort.Slice(needed, func(i, j int) bool { return needed[i] > needed[j] })
		return buildStraightDraw(DoubleGutshot, needed, dedupRanks(held), knownSet, deadSet), true
	}
	return StraightDraw{}, false
}

func detectBackdoorStraights(mask uint16, knownSet, deadSet map[card.Card]struct{}) []StraightDraw {
	var draws []StraightDraw
	for start := 0; start <= 11; start++ {
		allSet := true
		for pos := start; pos <= start+2; pos++ {
			if mask&(1<<uint(pos)) == 0 {
				allSet = false
				break
			}
		}
		if !allSet {
			continue
		}

		held := []card.Rank{bitToRank(start), bitToRank(start + 1), bitToRank(start + 2)}
		var needed []card.Rank
		if start-1 >= 0 {
			needed = append(needed, bitToRank(start-1))
		}
		if start+3 <= 13 {
			needed = append(needed, bitToRank(start + 3))
		}
		if len(needed) == 0 {
			continue
		}
		draws = append(draws, buildStraightDraw(BackdoorStraight, needed, held, knownSet, deadSet))
	}
	return draws
}

func dedupStraightDraws(draws []StraightDraw) []StraightDraw {
	best := make(map[string]StraightDraw)
	var order []string
	for _, d := range draws {
		key := fmt.Sprintf("%d|%s", d.Kind, rankSetKey(d.NeededRanks))
		if existing, ok := best[key]; !ok || len(d.Outs) > len(existing.Outs) {
			if !ok {
				order = append(order, key)
			}
			best[key] = d
		}
	}
	out := make([]StraightDraw, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

func dedupRanks(ranks []card.Rank) []card.Rank {
	seen := make(map[card.Rank]struct{}, len(ranks))
	out := make([]card.Rank, 0, len(ranks))
	for _, r := range ranks {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

func rankSetKey(ranks []card.Rank) string {
	sorted := append([]card.Rank{}, ranks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
	s := ""
	for _, r := range sorted {
		s += r.String() + ","
	}
	return s
}

func sortedRanks(set map[card.Rank]struct{}) []card.Rank {
	out := make([]card.Rank, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

func sortedCards(set map[card.Card]struct{}) []card.Card {
	out := make([]card.Card, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank > out[j].Rank
		}
		return out[i].Suit < out[j].Suit
	})
	return out
}

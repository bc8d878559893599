package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-equity/card"
)

func mustCard(t *testing.T, s string) card.Card {
	t.Helper()
	c, err := card.Parse(s)
	require.NoError(t, err)
	return c
}

func TestCanonizeSuited(t *testing.T) {
	h1 := Canonize(mustCard(t, "Ah"), mustCard(t, "Kh"))
	h2 := Canonize(mustCard(t, "As"), mustCard(t, "Ks"))
	assert.Equal(t, h1, h2)
	assert.Equal(t, "AKs", h1.String())
}

func TestCanonizeOffsuit(t *testing.T) {
	h := Canonize(mustCard(t, "Kd"), mustCard(t, "Ah"))
	assert.Equal(t, card.Ace, h.High)
	assert.Equal(t, card.King, h.Low)
	assert.False(t, h.Suited)
	assert.Equal(t, "AKo", h.String())
}

func TestCanonizePair(t *testing.T) {
	h := Canonize(mustCard(t, "Ah"), mustCard(t, "Ad"))
	assert.True(t, h.IsPair())
	assert.False(t, h.Suited)
	assert.Equal(t, "AA", h.String())
}

func TestCanonizeIdempotent(t *testing.T) {
	h1 := Canonize(mustCard(t, "7c"), mustCard(t, "2d"))
	// Any two cards of the same ranks/suited-ness canonize identically.
	h2 := Canonize(mustCard(t, "2d"), mustCard(t, "7c"))
	assert.Equal(t, h1, h2)
}

func TestParseRoundTrip(t *testing.T) {
	cases := []string{"AA", "AKs", "AKo", "72o", "T9s"}
	for _, s := range cases {
		h, err := Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, h.String())
	}
}

func TestParseAcceptsEitherOrder(t *testing.T) {
	h, err := Parse("KAs")
	require.NoError(t, err)
	assert.Equal(t, "AKs", h.String())
}

func TestParseRejectsPairSuffix(t *testing.T) {
	_, err := Parse("AAs")
	assert.Error(t, err)
}

func TestParseRejectsMissingSuffix(t *testing.T) {
	_, err := Parse("AK")
	assert.Error(t, err)
}

func TestParseRangeDeduplicates(t *testing.T) {
	hands, err := ParseRange([]string{"AA", "AKs", "AA"})
	require.NoError(t, err)
	assert.Len(t, hands, 2)
}

func TestParseRangeFailsOnBadToken(t *testing.T) {
	_, err := ParseRange([]string{"AA", "XY"})
	assert.Error(t, err)
}

func TestNumCombos(t *testing.T) {
	pair, _ := Parse("AA")
	suited, _ := Parse("AKs")
	offsuit, _ := Parse("AKo")
	assert.Equal(t, 6, pair.NumCombos())
	assert.Equal(t, 4, suited.NumCombos())
	assert.Equal(t, 12, offsuit.NumCombos())
}

func TestGetAllCombosCounts(t *testing.T) {
	pair, _ := Parse("AA")
	assert.Len(t, pair.GetAllCombos(), 6)

	suited, _ := Parse("AKs")
	assert.Len(t, suited.GetAllCombos(), 4)

	offsuit, _ := Parse("AKo")
	assert.Len(t, offsuit.GetAllCombos(), 12)
}

func TestGetAllCombosDistinct(t *testing.T) {
	hand, _ := Parse("AKo")
	combos := hand.GetAllCombos()
	seen := make(map[card.Card]map[card.Card]bool)
	for _, combo := range combos {
		if seen[combo[0]] == nil {
			seen[combo[0]] = make(map[card.Card]bool)
		}
		assert.False(t, seen[combo[0]][combo[1]], "duplicate combo %v", combo)
		seen[combo[0]][combo[1]] = true
		assert.NotEqual(t, combo[0], combo[1])
	}
}

func TestGetCombosExcluding(t *testing.T) {
	hand, _ := Parse("AA")
	dead := map[card.Card]struct{}{
		mustCard(t, "Ah"): {},
		mustCard(t, "Ad"): {},
	}
	combos := hand.GetCombosExcluding(dead)
	require.Len(t, combos, 1)
	remaining := map[card.Card]bool{combos[0][0]: true, combos[0][1]: true}
	assert.True(t, remaining[mustCard(t, "Ac")])
	assert.True(t, remaining[mustCard(t, "As")])
}

func TestGetAllCanonicalHandsCount(t *testing.T) {
	hands := GetAllCanonicalHands()
	require.Len(t, hands, 169)

	var pairs, suited, offsuit, totalCombos int
	for _, h := range hands {
		totalCombos += h.NumCombos()
		switch {
		case h.IsPair():
			pairs++
		case h.Suited:
			suited++
		default:
			offsuit++
		}
	}
	assert.Equal(t, 13, pairs)
	assert.Equal(t, 78, suited)
	assert.Equal(t, 78, offsuit)
	assert.Equal(t, 1326, totalCombos)
}

func TestGetAllCanonicalHandsOrder(t *testing.T) {
	hands := GetAllCanonicalHands()
	// First 13 are pairs, descending.
	for i := 0; i < 13; i++ {
		assert.True(t, hands[i].IsPair())
	}
	assert.Equal(t, card.Ace, hands[0].High)
	assert.Equal(t, card.Two, hands[12].High)

	// Next 78 are suited, then 78 offsuit.
	for i := 13; i < 91; i++ {
		assert.True(t, hands[i].Suited)
	}
	for i := 91; i < 169; i++ {
		assert.False(t, hands[i].Suited)
		assert.False(t, hands[i].IsPair())
	}
}

package draws

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

func mustCards(t *testing.T, s string) []card.Card {
	t.Helper()
	cards, err := card.ParseList(s)
	require.NoError(t, err)
	return cards
}

// S6: combo draw with overlapping outs between a flush draw and an OESD.
func TestComboDrawOverlap(t *testing.T) {
	hole := [2]card.Card{mustCard(t, "9h"), mustCard(t, "8h")}
	board := mustCards(t, "7h 6c 2h")

	analysis, err := Analyze(hole, board, nil)
	require.NoError(t, err)

	assert.False(t, analysis.HasFlush)
	assert.False(t, analysis.HasStraight)
	require.Len(t, analysis.FlushDraws, 1)
	assert.Equal(t, card.Hearts, analysis.FlushDraws[0].Suit)
	assert.Len(t, analysis.FlushDraws[0].Outs, 9)

	require.Len(t, analysis.StraightDraws, 1)
	assert.Equal(t, OpenEnded, analysis.StraightDraws[0].Kind)
	assert.Len(t, analysis.StraightDraws[0].Outs, 8)

	assert.True(t, analysis.IsComboDraw())
	assert.Equal(t, 15, analysis.TotalOuts)
}

func TestMadeFlushSkipsFlushDraw(t *testing.T) {
	hole := [2]card.Card{mustCard(t, "Ah"), mustCard(t, "Kh")}
	board := mustCards(t, "Qh Jh 2h")

	analysis, err := Analyze(hole, board, nil)
	require.NoError(t, err)
	assert.True(t, analysis.HasFlush)
	assert.Empty(t, analysis.FlushDraws)
}

func TestMadeStraightSkipsStraightDraw(t *testing.T) {
	hole := [2]card.Card{mustCard(t, "9c"), mustCard(t, "5d")}
	board := mustCards(t, "8s 7h 6c")

	analysis, err := Analyze(hole, board, nil)
	require.NoError(t, err)
	assert.True(t, analysis.HasStraight)
	assert.Empty(t, analysis.StraightDraws)
}

func TestGutshotFourOuts(t *testing.T) {
	hole := [2]card.Card{mustCard(t, "9c"), mustCard(t, "Tc")}
	board := mustCards(t, "Qs Kh 2d")

	analysis, err := Analyze(hole, board, nil)
	require.NoError(t, err)
	require.Len(t, analysis.StraightDraws, 1)
	assert.Equal(t, Gutshot, analysis.StraightDraws[0].Kind)
	assert.Len(t, analysis.StraightDraws[0].Outs, 4)
	assert.Equal(t, []card.Rank{card.Jack}, analysis.StraightDraws[0].NeededRanks)
}

func TestBackdoorFlushOnFlop(t *testing.T) {
	hole := [2]card.Card{mustCard(t, "Ah"), mustCard(t, "2h")}
	board := mustCards(t, "Kh 3c 9s")

	analysis, err := Analyze(hole, board, nil)
	require.NoError(t, err)
	require.Len(t, analysis.FlushDraws, 1)
	assert.Equal(t, 3, analysis.FlushDraws[0].CardsHeld)
}

func TestOutsExcludeDeadCards(t *testing.T) {
	hole := [2]card.Card{mustCard(t, "9h"), mustCard(t, "8h")}
	board := mustCards(t, "7h 6c 2h")
	dead := mustCards(t, "Ah 3h")

	analysis, err := Analyze(hole, board, dead)
	require.NoError(t, err)
	require.Len(t, analysis.FlushDraws, 1)
	for _, c := range analysis.FlushDraws[0].Outs {
		assert.NotEqual(t, mustCard(t, "Ah"), c)
		assert.NotEqual(t, mustCard(t, "3h"), c)
	}
}

func TestAnalyzeRejectsDuplicateCards(t *testing.T) {
	hole := [2]card.Card{mustCard(t, "9h"), mustCard(t, "9h")}
	_, err := Analyze(hole, nil, nil)
	assert.Error(t, err)
}

func TestAnalyzeRejectsOversizedBoard(t *testing.T) {
	hole := [2]card.Card{mustCard(t, "9h"), mustCard(t, "8h")}
	board := mustCards(t, "2c 3c 4c 5c 6c 7c")
	_, err := Analyze(hole, board, nil)
	assert.Error(t, err)
}

func TestNutFlushDraw(t *testing.T) {
	hole := [2]card.Card{mustCard(t, "Ah"), mustCard(t, "Kh")}
	board := mustCards(t, "Qh 9h 3d")

	analysis, err := Analyze(hole, board, nil)
	require.NoError(t, err)
	require.Len(t, analysis.FlushDraws, 1)
	assert.True(t, analysis.FlushDraws[0].IsNut)
}

func TestAllOutsDisjointFromKnownAndDead(t *testing.T) {
	hole := [2]card.Card{mustCard(t, "9h"), mustCard(t, "8h")}
	board := mustCards(t, "7h 6c 2h")
	dead := mustCards(t, "3s")

	analysis, err := Analyze(hole, board, dead)
	require.NoError(t, err)

	known := map[card.Card]bool{
		hole[0]: true, hole[1]: true,
		board[0]: true, board[1]: true, board[2]: true,
		dead[0]: true,
	}
	for _, c := range analysis.AllOuts {
		assert.False(t, known[c], "out %s overlaps known/dead", c)
	}
	assert.Equal(t, len(analysis.AllOuts), analysis.TotalOuts)
}

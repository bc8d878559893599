package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-equity/card"
)

func TestNewDeckHas52Cards(t *testing.T) {
	d := New(1)
	assert.Equal(t, 52, d.CardsRemaining())
}

func TestDealReducesRemaining(t *testing.T) {
	d := New(1)
	_, ok := d.Deal()
	require.True(t, ok)
	assert.Equal(t, 51, d.CardsRemaining())
}

func TestDealEmptyDeckReturnsFalse(t *testing.T) {
	d := New(1)
	d.DealN(52)
	_, ok := d.Deal()
	assert.False(t, ok)
}

func TestDealNNegativeDealsNone(t *testing.T) {
	d := New(1)
	dealt := d.DealN(-1)
	assert.Empty(t, dealt)
	assert.Equal(t, 52, d.CardsRemaining())
}

func TestDealNCapsAtRemaining(t *testing.T) {
	d := New(1)
	dealt := d.DealN(60)
	assert.Len(t, dealt, 52)
	assert.Equal(t, 0, d.CardsRemaining())
}

func TestPeekDoesNotRemove(t *testing.T) {
	d := New(1)
	top, ok := d.Peek()
	require.True(t, ok)
	dealt, ok := d.Deal()
	require.True(t, ok)
	assert.Equal(t, top, dealt)
	assert.Equal(t, 51, d.CardsRemaining())
}

func TestSameSeedDealsIdenticalSequence(t *testing.T) {
	d1 := New(7)
	d1.Shuffle()
	d2 := New(7)
	d2.Shuffle()
	assert.Equal(t, d1.DealN(52), d2.DealN(52))
}

// Cards permanently removed via Remove stay out of the deck across Reset;
// cards merely dealt return to the deck on Reset.
func TestRemovedCardsStayOutAcrossReset(t *testing.T) {
	d := New(3)
	ace := card.New(card.Ace, card.Spades)
	require.NoError(t, d.Remove(ace))
	assert.Equal(t, 51, d.CardsRemaining())

	d.DealN(10)
	d.Reset()

	assert.Equal(t, 51, d.CardsRemaining())
	remaining := d.DealN(51)
	for _, c := range remaining {
		assert.NotEqual(t, ace, c)
	}
}

func TestDealtCardsReturnOnReset(t *testing.T) {
	d := New(3)
	d.DealN(20)
	require.Equal(t, 32, d.CardsRemaining())

	d.Reset()
	assert.Equal(t, 52, d.CardsRemaining())
}

func TestRemoveUnavailableCardFails(t *testing.T) {
	d := New(3)
	ace := card.New(card.Ace, card.Spades)
	require.NoError(t, d.Remove(ace))
	err := d.Remove(ace)
	assert.Error(t, err)
}

func TestRemoveAllStopsAtFirstMissing(t *testing.T) {
	d := New(3)
	ace := card.New(card.Ace, card.Spades)
	king := card.New(card.King, card.Hearts)
	require.NoError(t, d.Remove(ace))

	err := d.RemoveAll([]card.Card{king, ace})
	assert.Error(t, err)
	assert.Equal(t, 50, d.CardsRemaining())
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	d1 := New(99)
	d2 := New(99)
	d1.Shuffle()
	d2.Shuffle()
	assert.Equal(t, d1.DealN(5), d2.DealN(5))
}

package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpread_BothSidesPresent(t *testing.T) {
	s := Summary{
		Bids: []Level{{Exchange: "binance", Price: 1.11, Quantity: 1}},
		Asks: []Level{{Exchange: "binance", Price: 2.1, Quantity: 1}},
	}
	assert.InDelta(t, 0.99, s.Spread(), 1e-9)
}

func TestSpread_EmptySide(t *testing.T) {
	assert.True(t, math.IsNaN(Summary{}.Spread()))
	assert.True(t, math.IsNaN(Summary{Bids: []Level{{Price: 1}}}.Spread()))
	assert.True(t, math.IsNaN(Summary{Asks: []Level{{Price: 1}}}.Spread()))
}

func TestTruncate(t *testing.T) {
	s := Summary{
		Bids: []Level{{Price: 3}, {Price: 2}, {Price: 1}},
		Asks: []Level{{Price: 1}, {Price: 2}},
	}
	out := s.Truncate(2)
	assert.Len(t, out.Bids, 2)
	assert.Len(t, out.Asks, 2)
}

func TestEmpty(t *testing.T) {
	assert.True(t, Summary{}.Empty())
	assert.False(t, Summary{Bids: []Level{{Price: 1}}}.Empty())
}

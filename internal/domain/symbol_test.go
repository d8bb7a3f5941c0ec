package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbol_RoundTrip(t *testing.T) {
	s, err := ParseSymbol("ETH/BTC")
	require.NoError(t, err)
	assert.Equal(t, ETH, s.Base)
	assert.Equal(t, BTC, s.Quote)
	assert.Equal(t, "ethbtc", s.String())
}

func TestParseSymbol_CaseInsensitive(t *testing.T) {
	s, err := ParseSymbol("eth/btc")
	require.NoError(t, err)
	assert.Equal(t, "ethbtc", s.String())
}

func TestParseSymbol_MissingSlash(t *testing.T) {
	_, err := ParseSymbol("ethbtc")
	require.Error(t, err)
	var invalid *InvalidPairError
	assert.ErrorAs(t, err, &invalid)
}

func TestParseSymbol_UnknownSide(t *testing.T) {
	_, err := ParseSymbol("ETH/XYZ")
	require.Error(t, err)
}

func TestParseSymbol_SameSides(t *testing.T) {
	_, err := ParseSymbol("ETH/ETH")
	require.Error(t, err)
}

// Package domain holds the pure value types shared by every component of
// the book-watch pipeline: assets, symbols, levels and summaries.
package domain

import (
	"fmt"
	"strings"
)

// Asset is a recognized ticker code. The enumeration is closed: parsing
// anything outside this set fails with InvalidAssetError.
type Asset string

const (
	ADA  Asset = "ADA"
	BTC  Asset = "BTC"
	DOT  Asset = "DOT"
	ETH  Asset = "ETH"
	LINK Asset = "LINK"
	LTC  Asset = "LTC"
	SOL  Asset = "SOL"
	USD  Asset = "USD"
	USDC Asset = "USDC"
	USDT Asset = "USDT"
)

var knownAssets = map[Asset]struct{}{
	ADA: {}, BTC: {}, DOT: {}, ETH: {}, LINK: {}, LTC: {}, SOL: {}, USD: {}, USDC: {}, USDT: {},
}

// InvalidAssetError is returned when ParseAsset is given an unrecognized
// ticker code.
type InvalidAssetError struct {
	Text string
}

func (e *InvalidAssetError) Error() string {
	return fmt.Sprintf("invalid asset: %q", e.Text)
}

// ParseAsset parses a ticker code case-insensitively, e.g. "btc", "BTC"
// and "Btc" all yield BTC.
func ParseAsset(text string) (Asset, error) {
	a := Asset(strings.ToUpper(strings.TrimSpace(text)))
	if _, ok := knownAssets[a]; !ok {
		return "", &InvalidAssetError{Text: text}
	}
	return a, nil
}

// String renders the asset in its lowercase wire form, e.g. for use in
// exchange stream names.
func (a Asset) String() string {
	return strings.ToLower(string(a))
}

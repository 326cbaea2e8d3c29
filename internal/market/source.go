// Package market provides the price source adapters: crypto asset prices from
// CoinGecko and official FX rates from the NBU, plus the converter built on
// both. Prices are quoted in USD for crypto symbols and in UAH for FX pairs.
package market

import (
	"context"
	"errors"
)

// ErrPriceUnavailable means the upstream had no usable price for a symbol.
// It is routine: callers treat it as "no price this cycle", not a failure.
var ErrPriceUnavailable = errors.New("price unavailable")

// CoinIDs maps the supported crypto symbols to CoinGecko asset ids.
var CoinIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"SOL":  "solana",
	"USDT": "tether",
}

// FXPairs is the set of supported FX pair symbols, each priced as the NBU
// official rate of the base currency against UAH.
var FXPairs = map[string]string{
	"USDUAH": "USD",
	"EURUAH": "EUR",
}

// KnownSymbol reports whether sym belongs to the supported vocabulary.
func KnownSymbol(sym string) bool {
	if _, ok := CoinIDs[sym]; ok {
		return true
	}
	_, ok := FXPairs[sym]
	return ok
}

// Source resolves a symbol to its current price, routing crypto symbols to
// CoinGecko and FX pairs to the NBU.
type Source struct {
	crypto *CoinGecko
	fx     *NBU
}

// NewSource creates a Source over the two upstream clients.
func NewSource(crypto *CoinGecko, fx *NBU) *Source {
	return &Source{crypto: crypto, fx: fx}
}

// Price returns the current price for a symbol: USD for crypto symbols,
// UAH for FX pairs. An unknown symbol returns ErrPriceUnavailable.
func (s *Source) Price(ctx context.Context, symbol string) (float64, error) {
	if coinID, ok := CoinIDs[symbol]; ok {
		return s.crypto.SimplePrice(ctx, coinID, "usd")
	}
	if code, ok := FXPairs[symbol]; ok {
		return s.fx.Rate(ctx, code)
	}
	return 0, ErrPriceUnavailable
}

package market

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrPairUnsupported means the requested conversion pair is outside the
// supported vocabulary.
var ErrPairUnsupported = errors.New("conversion pair not supported")

// CryptoQuoter is the slice of the CoinGecko client the converter needs.
type CryptoQuoter interface {
	SimplePrice(ctx context.Context, coinID, vs string) (float64, error)
}

// FXQuoter is the slice of the NBU client the converter needs.
type FXQuoter interface {
	Rate(ctx context.Context, code string) (float64, error)
}

// Converter turns an amount in one currency into another, combining NBU
// official rates and CoinGecko crypto prices. It is stateless.
type Converter struct {
	crypto CryptoQuoter
	fx     FXQuoter
}

// NewConverter creates a Converter over the two quote sources.
func NewConverter(crypto CryptoQuoter, fx FXQuoter) *Converter {
	return &Converter{crypto: crypto, fx: fx}
}

func isFiat(code string) bool {
	return code == "USD" || code == "EUR"
}

// Convert converts amount from src to dst and returns the result together
// with a human-readable note naming the rate(s) used.
func (c *Converter) Convert(ctx context.Context, amount float64, src, dst string) (float64, string, error) {
	src = strings.ToUpper(strings.TrimSpace(src))
	dst = strings.ToUpper(strings.TrimSpace(dst))

	if amount < 0 {
		return 0, "", fmt.Errorf("negative amount")
	}
	if src == dst {
		return amount, "identity", nil
	}

	// USD/EUR <-> UAH via the official rate.
	if isFiat(src) && dst == "UAH" {
		rate, err := c.fx.Rate(ctx, src)
		if err != nil {
			return 0, "", err
		}
		return amount * rate, fmt.Sprintf("NBU %s/UAH=%.4f", src, rate), nil
	}
	if src == "UAH" && isFiat(dst) {
		rate, err := c.fx.Rate(ctx, dst)
		if err != nil {
			return 0, "", err
		}
		return amount / rate, fmt.Sprintf("NBU %s/UAH=%.4f", dst, rate), nil
	}

	// USD <-> EUR via the NBU cross-rate.
	if isFiat(src) && isFiat(dst) {
		srcRate, err := c.fx.Rate(ctx, src)
		if err != nil {
			return 0, "", err
		}
		dstRate, err := c.fx.Rate(ctx, dst)
		if err != nil {
			return 0, "", err
		}
		return amount * srcRate / dstRate, fmt.Sprintf("NBU cross %s->%s", src, dst), nil
	}

	// Crypto <-> USD/EUR directly from CoinGecko.
	if coinID, ok := CoinIDs[src]; ok && isFiat(dst) {
		price, err := c.crypto.SimplePrice(ctx, coinID, strings.ToLower(dst))
		if err != nil {
			return 0, "", err
		}
		return amount * price, fmt.Sprintf("CoinGecko %s/%s=%.6f", src, dst, price), nil
	}
	if coinID, ok := CoinIDs[dst]; ok && isFiat(src) {
		price, err := c.crypto.SimplePrice(ctx, coinID, strings.ToLower(src))
		if err != nil {
			return 0, "", err
		}
		if price == 0 {
			return 0, "", fmt.Errorf("zero %s price for %s: %w", src, dst, ErrPriceUnavailable)
		}
		return amount / price, fmt.Sprintf("CoinGecko %s/%s=%.6f (inverted)", dst, src, price), nil
	}

	// Crypto <-> UAH through USD plus the official USD/UAH rate.
	if coinID, ok := CoinIDs[src]; ok && dst == "UAH" {
		priceUSD, err := c.crypto.SimplePrice(ctx, coinID, "usd")
		if err != nil {
			return 0, "", err
		}
		usdUAH, err := c.fx.Rate(ctx, "USD")
		if err != nil {
			return 0, "", err
		}
		return amount * priceUSD * usdUAH, "CoinGecko (->USD) + NBU USD/UAH", nil
	}
	if coinID, ok := CoinIDs[dst]; ok && src == "UAH" {
		priceUSD, err := c.crypto.SimplePrice(ctx, coinID, "usd")
		if err != nil {
			return 0, "", err
		}
		if priceUSD == 0 {
			return 0, "", fmt.Errorf("zero USD price for %s: %w", dst, ErrPriceUnavailable)
		}
		usdUAH, err := c.fx.Rate(ctx, "USD")
		if err != nil {
			return 0, "", err
		}
		return amount / usdUAH / priceUSD, "NBU USD/UAH + CoinGecko (USD->coin)", nil
	}

	return 0, "", fmt.Errorf("%s -> %s: %w", src, dst, ErrPairUnsupported)
}

// ParseConvertQuery parses free-form converter input like "100 UAH USD",
// "0.5 BTC UAH" or "BTC UAH" (amount defaults to 1). Filler words "to"/"в"
// between the currencies are ignored. Returns false if the text does not
// parse; currency validity is checked later by Convert.
func ParseConvertQuery(text string) (amount float64, src, dst string, ok bool) {
	fields := strings.Fields(strings.TrimSpace(text))

	parts := fields[:0:0]
	for _, f := range fields {
		lower := strings.ToLower(f)
		if lower == "to" || lower == "в" {
			continue
		}
		parts = append(parts, f)
	}

	switch {
	case len(parts) == 2:
		return 1, parts[0], parts[1], true
	case len(parts) >= 3:
		value, err := strconv.ParseFloat(strings.ReplaceAll(parts[0], ",", "."), 64)
		if err != nil {
			return 0, "", "", false
		}
		return value, parts[1], parts[2], true
	default:
		return 0, "", "", false
	}
}

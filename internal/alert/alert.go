// Package alert implements the price alert engine: the alert model and rule
// parser, the file-backed store, the pure threshold evaluator and the
// background checker loop that re-prices active alerts against live market
// data and fires one-shot notifications.
package alert

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"kursbot/internal/market"
)

// Direction is the crossing direction that triggers an alert.
type Direction string

const (
	Above Direction = "ABOVE"
	Below Direction = "BELOW"
)

// ErrMalformedRule means user-entered alert text does not parse into a
// (symbol, direction, target) rule. It is surfaced to the user with a
// format example and causes no state change.
var ErrMalformedRule = errors.New("malformed alert rule")

// Alert is one user-defined threshold rule. Records are retained after
// deactivation as history; Active is monotonic true->false.
type Alert struct {
	OwnerID   int64     `json:"owner_id"`
	Symbol    string    `json:"symbol"`
	Direction Direction `json:"direction"`
	Target    float64   `json:"target"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates an active alert owned by owner.
func New(owner int64, symbol string, direction Direction, target float64) Alert {
	return Alert{
		OwnerID:   owner,
		Symbol:    strings.ToUpper(symbol),
		Direction: direction,
		Target:    target,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
}

// ParseRule parses user alert input like "BTC below 65000" or
// "USDUAH above 42". A split pair like "USD UAH above 42" is folded into
// the pair symbol. The symbol must belong to the supported vocabulary and
// the target must be a positive finite number.
func ParseRule(text string) (symbol string, direction Direction, target float64, err error) {
	parts := strings.Fields(strings.ToUpper(strings.ReplaceAll(text, ",", ".")))

	// "USD UAH ABOVE 42" -> "USDUAH ABOVE 42"
	if len(parts) >= 4 && (parts[0] == "USD" || parts[0] == "EUR") && parts[1] == "UAH" {
		parts = append([]string{parts[0] + parts[1]}, parts[2:]...)
	}

	if len(parts) != 3 {
		return "", "", 0, ErrMalformedRule
	}

	symbol = parts[0]
	if !market.KnownSymbol(symbol) {
		return "", "", 0, fmt.Errorf("unknown symbol %s: %w", symbol, ErrMalformedRule)
	}

	switch Direction(parts[1]) {
	case Above:
		direction = Above
	case Below:
		direction = Below
	default:
		return "", "", 0, fmt.Errorf("bad direction %s: %w", parts[1], ErrMalformedRule)
	}

	target, parseErr := strconv.ParseFloat(parts[2], 64)
	if parseErr != nil {
		return "", "", 0, fmt.Errorf("bad target %s: %w", parts[2], ErrMalformedRule)
	}
	if target <= 0 || math.IsInf(target, 0) || math.IsNaN(target) {
		return "", "", 0, fmt.Errorf("target must be positive: %w", ErrMalformedRule)
	}

	return symbol, direction, target, nil
}

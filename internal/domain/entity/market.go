package entity

import (
	"fmt"
	"strings"
)

// Currency is the quote currency for market data and formatting.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// SupportedCurrencies lists the currencies the selector offers.
var SupportedCurrencies = []Currency{USD, EUR, GBP}

// ParseCurrency parses a currency code case-insensitively.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	for _, supported := range SupportedCurrencies {
		if c == supported {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
}

// Lower returns the lower-case code used as the vs_currency query parameter.
func (c Currency) Lower() string {
	return strings.ToLower(string(c))
}

func (c Currency) String() string {
	return string(c)
}

// MarketSnapshot is a point-in-time market record for one coin.
type MarketSnapshot struct {
	ID                       string    `json:"id"`
	Symbol                   string    `json:"symbol"`
	Name                     string    `json:"name"`
	Image                    string    `json:"image"`
	CurrentPrice             float64   `json:"current_price"`
	PriceChangePercentage24h float64   `json:"price_change_percentage_24h"`
	MarketCapRank            int       `json:"market_cap_rank"`
	TotalVolume              float64   `json:"total_volume"`
	Sparkline7d              []float64 `json:"sparkline_7d,omitempty"`
}

// MissingSnapshot returns the neutral record used while a coin's market data
// has not been loaded yet.
func MissingSnapshot(coinID string) MarketSnapshot {
	return MarketSnapshot{
		ID:     coinID,
		Symbol: "?",
		Name:   "Loading...",
	}
}

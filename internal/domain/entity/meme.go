package entity

import "time"

// MemeToken is a normalized DEXScreener pair for a boosted token.
// Numeric fields are nil when the upstream pair did not report them.
type MemeToken struct {
	ID             string   `json:"id"`
	ChainID        string   `json:"chainId"`
	DexID          string   `json:"dexId"`
	URL            string   `json:"url"`
	BaseSymbol     string   `json:"baseSymbol"`
	BaseName       string   `json:"baseName"`
	PriceUsd       *float64 `json:"priceUsd"`
	PriceChange24h *float64 `json:"priceChange24h"`
	Volume24hUsd   *float64 `json:"volume24hUsd"`
	LiquidityUsd   *float64 `json:"liquidityUsd"`
	Fdv            *float64 `json:"fdv"`
	MarketCap      *float64 `json:"marketCap"`
	PairCreatedAt  *int64   `json:"pairCreatedAt"`
	ImageURL       *string  `json:"imageUrl"`
	Labels         []string `json:"labels"`
	BoostsActive   *int     `json:"boostsActive"`
}

// MemeFeed is the payload served by the meme token endpoint.
type MemeFeed struct {
	Items  []MemeToken `json:"items"`
	AsOf   time.Time   `json:"asOf"`
	Source string      `json:"source"`
	Cache  string      `json:"cache,omitempty"`
}

// ChainDefinition describes a chain known to DEXScreener.
type ChainDefinition struct {
	Identifier   string `json:"identifier" yaml:"identifier"`
	Name         string `json:"name" yaml:"name"`
	NativeSymbol string `json:"nativeSymbol" yaml:"nativeSymbol"`
	ExplorerURL  string `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
}

// CoinDefinition maps a market-data coin id to its chart widget symbol.
type CoinDefinition struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	ChartSymbol string `json:"chartSymbol" yaml:"chartSymbol"`
}

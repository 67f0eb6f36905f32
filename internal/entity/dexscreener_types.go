package entity

// TokenBoost is one entry of the DEX Screener latest token boosts feed.
type TokenBoost struct {
	URL          string   `json:"url"`
	ChainID      string   `json:"chainId"`
	TokenAddress string   `json:"tokenAddress"`
	Amount       *float64 `json:"amount"`
	TotalAmount  *float64 `json:"totalAmount"`
	Icon         string   `json:"icon"`
	Description  string   `json:"description"`
}

// TokenBoostsEnvelope is the wrapped form of the boosts response.
// The endpoint has been seen returning a bare array, {"items": [...]} and a single object.
type TokenBoostsEnvelope struct {
	Items []TokenBoost `json:"items"`
}

// PairData contains detailed information about a trading pair.
// Numeric fields the API may omit are pointers so that "missing" stays distinguishable from zero.
type PairData struct {
	ChainID       string                `json:"chainId"`
	DexID         string                `json:"dexId"`
	URL           string                `json:"url"`
	PairAddress   string                `json:"pairAddress"`
	Labels        []string              `json:"labels"`
	BaseToken     DEXToken              `json:"baseToken"`
	QuoteToken    DEXToken              `json:"quoteToken"`
	PriceNative   string                `json:"priceNative"`
	PriceUsd      string                `json:"priceUsd"`
	Txns          map[string]TxnSummary `json:"txns"`
	Volume        map[string]float64    `json:"volume"`
	PriceChange   map[string]float64    `json:"priceChange"`
	Liquidity     *DEXLiquidity         `json:"liquidity"`
	Fdv           *float64              `json:"fdv"`
	MarketCap     *float64              `json:"marketCap"`
	PairCreatedAt *int64                `json:"pairCreatedAt"`
	Info          *PairInfo             `json:"info"`
	Boosts        *PairBoosts           `json:"boosts"`
}

// DEXToken represents a token in a trading pair.
type DEXToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// DEXLiquidity represents the liquidity information for a pair.
type DEXLiquidity struct {
	Usd   *float64 `json:"usd"`
	Base  float64  `json:"base"`
	Quote float64  `json:"quote"`
}

// TxnSummary contains buy and sell counts.
type TxnSummary struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// PairInfo holds presentation metadata of a pair.
type PairInfo struct {
	ImageURL string `json:"imageUrl"`
}

// PairBoosts holds the number of active boosts on a pair.
type PairBoosts struct {
	Active *int `json:"active"`
}

// Period keys used by the txns, volume and priceChange maps.
const (
	PeriodM5  = "m5"
	PeriodH1  = "h1"
	PeriodH6  = "h6"
	PeriodH24 = "h24"
)

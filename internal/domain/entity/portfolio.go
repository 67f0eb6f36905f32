package entity

import "time"

// AssetView is the derived per-holding row of a portfolio valuation.
type AssetView struct {
	HoldingID       string  `json:"id"`
	CoinID          string  `json:"coin_id"`
	CommittedAmount float64 `json:"committed_amount"`
	AvgBuyPrice     float64 `json:"avg_buy_price"`

	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	MarketCapRank            int     `json:"market_cap_rank"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	Loaded                   bool    `json:"loaded"`

	// Amount is the effective amount: the in-progress edit if any, else the committed amount.
	Amount        float64 `json:"amount"`
	CurrentPrice  float64 `json:"current_price"`
	SnapshotPrice float64 `json:"snapshot_price"`
	PreviousPrice float64 `json:"previous_price"`
	CurrentValue  float64 `json:"current_value"`
	Cost          float64 `json:"cost"`
	Profit        float64 `json:"profit"`
	ProfitPct     float64 `json:"profit_pct"`
	Delta24h      float64 `json:"delta_24h"`
	Volume24h     float64 `json:"volume_24h"`
}

// PortfolioAggregate holds the portfolio-wide totals and the sorted asset rows.
type PortfolioAggregate struct {
	Assets         []AssetView `json:"assets"`
	TotalValue     float64     `json:"total_value"`
	TotalCost      float64     `json:"total_cost"`
	TotalProfit    float64     `json:"total_profit"`
	TotalProfitPct float64     `json:"total_profit_pct"`
	Delta24h       float64     `json:"delta_24h"`
	Delta24hPct    float64     `json:"delta_24h_pct"`
	Currency       Currency    `json:"currency"`
	ComputedAt     time.Time   `json:"computed_at"`
}

// Asset returns the row for the given coin id.
func (p PortfolioAggregate) Asset(coinID string) (AssetView, bool) {
	for _, a := range p.Assets {
		if a.CoinID == coinID {
			return a, true
		}
	}
	return AssetView{}, false
}

// GoalProgress tracks total profit against a user-set profit goal.
type GoalProgress struct {
	Goal        float64 `json:"goal"`
	Profit      float64 `json:"profit"`
	ProgressPct float64 `json:"progress_pct"`
	Remaining   float64 `json:"remaining"`
}

// AllocationSlice is one asset's share of the total portfolio value.
type AllocationSlice struct {
	CoinID string  `json:"coin_id"`
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

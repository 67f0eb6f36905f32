// Package valuation turns holdings, market snapshots, live tick factors and
// in-progress amount edits into a portfolio aggregate.
//
// Compute is pure and total: it performs no I/O, never panics on malformed
// input and returns identical output for identical input.
package valuation

import (
	"math"
	"sort"

	"livetrack/internal/domain/entity"
)

// Inputs is everything a valuation depends on.
type Inputs struct {
	Holdings  []entity.Holding
	Snapshots map[string]entity.MarketSnapshot
	Ticks     map[string]float64
	Overrides map[string]string
	Currency  entity.Currency
}

// Compute values every holding and aggregates the portfolio totals.
// Assets are sorted by current value, highest first; equal values keep
// their holdings order.
func Compute(in Inputs) entity.PortfolioAggregate {
	agg := entity.PortfolioAggregate{
		Assets:   make([]entity.AssetView, 0, len(in.Holdings)),
		Currency: in.Currency,
	}

	for _, h := range in.Holdings {
		a := valueHolding(h, in)
		agg.Assets = append(agg.Assets, a)
		agg.TotalValue += a.CurrentValue
		agg.TotalCost += a.Cost
		agg.Delta24h += a.Delta24h
	}

	agg.TotalProfit = agg.TotalValue - agg.TotalCost
	agg.TotalProfitPct = percentOf(agg.TotalProfit, agg.TotalCost)
	if agg.TotalValue > 0 {
		// totalValue - delta24h approximates the portfolio value 24h ago.
		agg.Delta24hPct = ratioPct(agg.Delta24h, agg.TotalValue-agg.Delta24h)
	}

	sort.SliceStable(agg.Assets, func(i, j int) bool {
		return agg.Assets[i].CurrentValue > agg.Assets[j].CurrentValue
	})
	return agg
}

func valueHolding(h entity.Holding, in Inputs) entity.AssetView {
	m, loaded := in.Snapshots[h.CoinID]
	if !loaded {
		m = entity.MissingSnapshot(h.CoinID)
	}

	price := finite(m.CurrentPrice)
	pct := finite(m.PriceChangePercentage24h)
	livePrice := price * tickFactor(in.Ticks, h.CoinID)
	amount := ResolveAmount(h.ID, h.Amount, in.Overrides)
	avgBuy := finite(h.AvgBuyPrice)

	value := finite(amount * livePrice)
	cost := finite(amount * avgBuy)
	prev := PreviousPrice(price, pct)

	return entity.AssetView{
		HoldingID:       h.ID,
		CoinID:          h.CoinID,
		CommittedAmount: h.Amount,
		AvgBuyPrice:     avgBuy,

		Symbol:                   m.Symbol,
		Name:                     m.Name,
		Image:                    m.Image,
		MarketCapRank:            m.MarketCapRank,
		PriceChangePercentage24h: pct,
		Loaded:                   loaded,

		Amount:        amount,
		CurrentPrice:  livePrice,
		SnapshotPrice: price,
		PreviousPrice: prev,
		CurrentValue:  value,
		Cost:          cost,
		Profit:        value - cost,
		ProfitPct:     percentOf(value-cost, cost),
		Delta24h:      finite(value - amount*prev),
		Volume24h:     finite(math.Abs(pct / 100 * value)),
	}
}

// PreviousPrice derives the price 24h ago from the current price and the 24h
// percentage change. A -100% change has no defined previous price and yields 0.
func PreviousPrice(current, pct24h float64) float64 {
	divisor := 1 + pct24h/100
	if divisor == 0 {
		return 0
	}
	return finite(current / divisor)
}

func tickFactor(ticks map[string]float64, coinID string) float64 {
	f, ok := ticks[coinID]
	if !ok || f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}
	return f
}

// percentOf returns part/base*100 for a positive base, else 0.
func percentOf(part, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return finite(part / base * 100)
}

func ratioPct(num, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return finite(num / denom * 100)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

package valuation

import (
	"math"

	"livetrack/internal/domain/entity"
)

// GoalProgress measures total profit against a profit goal. Progress is
// clamped to [0, 100] and the remaining amount never goes negative.
func GoalProgress(totalProfit, goal float64) entity.GoalProgress {
	p := entity.GoalProgress{Goal: goal, Profit: totalProfit}
	if goal > 0 {
		p.ProgressPct = math.Min(math.Max(finite(totalProfit/goal*100), 0), 100)
	}
	p.Remaining = math.Max(finite(goal-totalProfit), 0)
	return p
}

// Allocation returns each asset's share of the total value, in aggregate order.
func Allocation(agg entity.PortfolioAggregate) []entity.AllocationSlice {
	out := make([]entity.AllocationSlice, 0, len(agg.Assets))
	for _, a := range agg.Assets {
		weight := 0.0
		if agg.TotalValue > 0 {
			weight = finite(a.CurrentValue / agg.TotalValue * 100)
		}
		out = append(out, entity.AllocationSlice{
			CoinID: a.CoinID,
			Symbol: a.Symbol,
			Value:  a.CurrentValue,
			Weight: weight,
		})
	}
	return out
}

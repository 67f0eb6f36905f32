package valuation

import (
	"testing"

	"livetrack/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalProgress(t *testing.T) {
	p := GoalProgress(250, 1000)
	assert.Equal(t, 25.0, p.ProgressPct)
	assert.Equal(t, 750.0, p.Remaining)

	p = GoalProgress(1500, 1000)
	assert.Equal(t, 100.0, p.ProgressPct)
	assert.Equal(t, 0.0, p.Remaining)

	p = GoalProgress(-300, 1000)
	assert.Equal(t, 0.0, p.ProgressPct)
	assert.Equal(t, 1300.0, p.Remaining)

	p = GoalProgress(100, 0)
	assert.Equal(t, 0.0, p.ProgressPct)
	assert.Equal(t, 0.0, p.Remaining)
}

func TestAllocation(t *testing.T) {
	agg := entity.PortfolioAggregate{
		TotalValue: 400,
		Assets: []entity.AssetView{
			{CoinID: "bitcoin", Symbol: "btc", CurrentValue: 300},
			{CoinID: "ethereum", Symbol: "eth", CurrentValue: 100},
		},
	}
	slices := Allocation(agg)
	require.Len(t, slices, 2)
	assert.Equal(t, 75.0, slices[0].Weight)
	assert.Equal(t, 25.0, slices[1].Weight)

	empty := Allocation(entity.PortfolioAggregate{Assets: []entity.AssetView{{CoinID: "x"}}})
	assert.Equal(t, 0.0, empty[0].Weight)
}

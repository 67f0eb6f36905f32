package valuation

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"livetrack/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approx(t *testing.T, want, got float64, msgAndArgs ...interface{}) {
	t.Helper()
	tol := 1e-9 * math.Max(1, math.Abs(want))
	assert.InDelta(t, want, got, tol, msgAndArgs...)
}

func assertFinite(t *testing.T, agg entity.PortfolioAggregate) {
	t.Helper()
	values := []float64{agg.TotalValue, agg.TotalCost, agg.TotalProfit, agg.TotalProfitPct, agg.Delta24h, agg.Delta24hPct}
	for _, a := range agg.Assets {
		values = append(values, a.Amount, a.CurrentPrice, a.PreviousPrice, a.CurrentValue, a.Cost, a.Profit, a.ProfitPct, a.Delta24h, a.Volume24h)
	}
	for i, v := range values {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "value %d is not finite: %v", i, v)
	}
}

func TestCompute_EndToEnd(t *testing.T) {
	agg := Compute(Inputs{
		Holdings: []entity.Holding{{ID: "h1", CoinID: "bitcoin", Amount: 2, AvgBuyPrice: 20000}},
		Snapshots: map[string]entity.MarketSnapshot{
			"bitcoin": {ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 25000, PriceChangePercentage24h: 10},
		},
		Ticks:    map[string]float64{"bitcoin": 1.0},
		Currency: entity.USD,
	})

	require.Len(t, agg.Assets, 1)
	a := agg.Assets[0]
	assert.Equal(t, 2.0, a.Amount)
	approx(t, 50000, a.CurrentValue)
	approx(t, 40000, a.Cost)
	approx(t, 10000, a.Profit)
	approx(t, 25, a.ProfitPct)
	approx(t, 25000/1.1, a.PreviousPrice)
	assert.InDelta(t, 22727.27, a.PreviousPrice, 0.01)
	assert.InDelta(t, 4545.45, a.Delta24h, 0.01)
	assert.True(t, a.Loaded)
	assert.Equal(t, "Bitcoin", a.Name)

	approx(t, 50000, agg.TotalValue)
	approx(t, 40000, agg.TotalCost)
	approx(t, 10000, agg.TotalProfit)
	approx(t, 25, agg.TotalProfitPct)
	assert.InDelta(t, 4545.45, agg.Delta24h, 0.01)
	assert.InDelta(t, 10.0, agg.Delta24hPct, 1e-9)
	assert.Equal(t, entity.USD, agg.Currency)
}

func TestCompute_MissingSnapshot(t *testing.T) {
	agg := Compute(Inputs{
		Holdings: []entity.Holding{{ID: "h1", CoinID: "dogecoin", Amount: 100, AvgBuyPrice: 0.1}},
	})

	require.Len(t, agg.Assets, 1)
	a := agg.Assets[0]
	assert.Equal(t, 0.0, a.CurrentPrice)
	assert.Equal(t, 0.0, a.CurrentValue)
	assert.False(t, a.Loaded)
	assert.Equal(t, "?", a.Symbol)
	assert.Equal(t, "Loading...", a.Name)
	assert.Equal(t, "", a.Image)
	assert.Equal(t, 0, a.MarketCapRank)
	approx(t, 10, a.Cost)
	approx(t, -10, agg.TotalProfit)
	assert.Equal(t, 0.0, agg.Delta24hPct)
	assertFinite(t, agg)
}

func TestCompute_MalformedOverride(t *testing.T) {
	agg := Compute(Inputs{
		Holdings:  []entity.Holding{{ID: "h1", CoinID: "bitcoin", Amount: 2, AvgBuyPrice: 100}},
		Snapshots: map[string]entity.MarketSnapshot{"bitcoin": {CurrentPrice: 25000}},
		Overrides: map[string]string{"h1": "abc"},
	})

	a := agg.Assets[0]
	assert.Equal(t, 0.0, a.Amount)
	assert.Equal(t, 0.0, a.CurrentValue)
	assert.Equal(t, 2.0, a.CommittedAmount)
	assertFinite(t, agg)
}

func TestCompute_LocaleDecimalOverride(t *testing.T) {
	agg := Compute(Inputs{
		Holdings:  []entity.Holding{{ID: "h1", CoinID: "ethereum", Amount: 0, AvgBuyPrice: 1000}},
		Snapshots: map[string]entity.MarketSnapshot{"ethereum": {CurrentPrice: 2000}},
		Overrides: map[string]string{"h1": "1,5"},
	})

	a := agg.Assets[0]
	assert.Equal(t, 1.5, a.Amount)
	approx(t, 3000, a.CurrentValue)
	approx(t, 1500, a.Cost)
}

func TestCompute_MinusHundredPercentChange(t *testing.T) {
	agg := Compute(Inputs{
		Holdings:  []entity.Holding{{ID: "h1", CoinID: "rug", Amount: 10, AvgBuyPrice: 1}},
		Snapshots: map[string]entity.MarketSnapshot{"rug": {CurrentPrice: 0.5, PriceChangePercentage24h: -100}},
	})

	a := agg.Assets[0]
	assert.Equal(t, 0.0, a.PreviousPrice)
	approx(t, 5, a.Delta24h)
	assertFinite(t, agg)
}

func TestCompute_ZeroDenominatorForDeltaPct(t *testing.T) {
	// Value that appeared entirely within 24h: previous price 0, so the
	// value 24h ago is 0 and the percentage is undefined.
	agg := Compute(Inputs{
		Holdings:  []entity.Holding{{ID: "h1", CoinID: "new", Amount: 1, AvgBuyPrice: 1}},
		Snapshots: map[string]entity.MarketSnapshot{"new": {CurrentPrice: 2, PriceChangePercentage24h: -100}},
	})

	approx(t, 2, agg.Delta24h)
	approx(t, 2, agg.TotalValue)
	assert.Equal(t, 0.0, agg.Delta24hPct)
	assertFinite(t, agg)
}

func TestCompute_TickFactorAdjustsLivePriceOnly(t *testing.T) {
	agg := Compute(Inputs{
		Holdings:  []entity.Holding{{ID: "h1", CoinID: "bitcoin", Amount: 1, AvgBuyPrice: 100}},
		Snapshots: map[string]entity.MarketSnapshot{"bitcoin": {CurrentPrice: 100, PriceChangePercentage24h: 0}},
		Ticks:     map[string]float64{"bitcoin": 1.01},
	})

	a := agg.Assets[0]
	approx(t, 101, a.CurrentPrice)
	approx(t, 100, a.SnapshotPrice)
	approx(t, 100, a.PreviousPrice)
	approx(t, 1, a.Delta24h)
}

func TestCompute_ZeroTickFactorTreatedAsUnset(t *testing.T) {
	agg := Compute(Inputs{
		Holdings:  []entity.Holding{{ID: "h1", CoinID: "bitcoin", Amount: 1}},
		Snapshots: map[string]entity.MarketSnapshot{"bitcoin": {CurrentPrice: 100}},
		Ticks:     map[string]float64{"bitcoin": 0},
	})
	approx(t, 100, agg.Assets[0].CurrentPrice)
}

func TestCompute_NegativeAmountPropagates(t *testing.T) {
	agg := Compute(Inputs{
		Holdings:  []entity.Holding{{ID: "h1", CoinID: "bitcoin", Amount: 1, AvgBuyPrice: 100}},
		Snapshots: map[string]entity.MarketSnapshot{"bitcoin": {CurrentPrice: 150}},
		Overrides: map[string]string{"h1": "-2"},
	})

	a := agg.Assets[0]
	assert.Equal(t, -2.0, a.Amount)
	approx(t, -300, a.CurrentValue)
	approx(t, -200, a.Cost)
	approx(t, -100, a.Profit)
	assert.Equal(t, 0.0, a.ProfitPct)
	approx(t, -100, agg.TotalProfit)
	assert.Equal(t, 0.0, agg.TotalProfitPct)
	assert.Equal(t, 0.0, agg.Delta24hPct)
}

func TestCompute_NonFiniteSnapshotValues(t *testing.T) {
	agg := Compute(Inputs{
		Holdings: []entity.Holding{{ID: "h1", CoinID: "x", Amount: 1, AvgBuyPrice: math.NaN()}},
		Snapshots: map[string]entity.MarketSnapshot{
			"x": {CurrentPrice: math.NaN(), PriceChangePercentage24h: math.Inf(1)},
		},
	})
	assertFinite(t, agg)
	assert.Equal(t, 0.0, agg.TotalValue)
}

func TestCompute_SortDescendingAndStable(t *testing.T) {
	holdings := []entity.Holding{
		{ID: "a", CoinID: "c1", Amount: 1},
		{ID: "b", CoinID: "c2", Amount: 1},
		{ID: "c", CoinID: "c3", Amount: 3},
		{ID: "d", CoinID: "c4", Amount: 1},
	}
	snapshots := map[string]entity.MarketSnapshot{
		"c1": {CurrentPrice: 10},
		"c2": {CurrentPrice: 10},
		"c3": {CurrentPrice: 10},
		"c4": {CurrentPrice: 10},
	}

	agg := Compute(Inputs{Holdings: holdings, Snapshots: snapshots})

	ids := make([]string, 0, len(agg.Assets))
	for _, a := range agg.Assets {
		ids = append(ids, a.HoldingID)
	}
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids)
}

func TestCompute_DoesNotMutateInputs(t *testing.T) {
	holdings := []entity.Holding{
		{ID: "small", CoinID: "c1", Amount: 1},
		{ID: "big", CoinID: "c2", Amount: 100},
	}
	snapshots := map[string]entity.MarketSnapshot{"c1": {CurrentPrice: 1}, "c2": {CurrentPrice: 1}}

	Compute(Inputs{Holdings: holdings, Snapshots: snapshots})

	assert.Equal(t, "small", holdings[0].ID)
	assert.Len(t, snapshots, 2)
}

func TestCompute_EmptyPortfolio(t *testing.T) {
	agg := Compute(Inputs{})
	assert.NotNil(t, agg.Assets)
	assert.Empty(t, agg.Assets)
	assert.Equal(t, 0.0, agg.TotalValue)
	assert.Equal(t, 0.0, agg.TotalProfitPct)
	assert.Equal(t, 0.0, agg.Delta24hPct)
}

func randomInputs(r *rand.Rand) Inputs {
	coins := []string{"bitcoin", "ethereum", "solana", "dogecoin", "ripple", "pepe"}
	rawInputs := []string{"abc", "1,5", "", "-3", "0.0001", "12.5e2", " 7", "2,75xyz"}

	in := Inputs{
		Snapshots: map[string]entity.MarketSnapshot{},
		Ticks:     map[string]float64{},
		Overrides: map[string]string{},
		Currency:  entity.EUR,
	}
	n := r.Intn(8)
	for i := 0; i < n; i++ {
		coin := coins[r.Intn(len(coins))]
		h := entity.Holding{
			ID:          fmt.Sprintf("h%d", i),
			CoinID:      coin,
			Amount:      r.Float64() * 10,
			AvgBuyPrice: r.Float64() * 50000,
		}
		in.Holdings = append(in.Holdings, h)
		if r.Intn(4) == 0 {
			in.Overrides[h.ID] = rawInputs[r.Intn(len(rawInputs))]
		}
	}
	for _, c := range coins {
		if r.Intn(5) == 0 {
			continue // not loaded yet
		}
		pct := r.Float64()*200 - 100
		if r.Intn(10) == 0 {
			pct = -100
		}
		in.Snapshots[c] = entity.MarketSnapshot{ID: c, CurrentPrice: r.Float64() * 60000, PriceChangePercentage24h: pct}
		if r.Intn(2) == 0 {
			in.Ticks[c] = 0.98 + r.Float64()*0.04
		}
	}
	return in
}

func TestCompute_AggregateConsistency(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		in := randomInputs(r)
		agg := Compute(in)
		require.Len(t, agg.Assets, len(in.Holdings))
		assertFinite(t, agg)

		var sumValue, sumCost, sumDelta float64
		for _, a := range agg.Assets {
			sumValue += a.CurrentValue
			sumCost += ResolveAmount(a.HoldingID, a.CommittedAmount, in.Overrides) * a.AvgBuyPrice

			m := in.Snapshots[a.CoinID]
			prev := PreviousPrice(m.CurrentPrice, m.PriceChangePercentage24h)
			sumDelta += a.CurrentValue - a.Amount*prev
		}
		approx(t, sumValue, agg.TotalValue, "iteration %d total value", iter)
		approx(t, agg.TotalValue-sumCost, agg.TotalProfit, "iteration %d total profit", iter)
		approx(t, sumDelta, agg.Delta24h, "iteration %d delta", iter)

		for i := 1; i < len(agg.Assets); i++ {
			require.GreaterOrEqual(t, agg.Assets[i-1].CurrentValue, agg.Assets[i].CurrentValue)
		}
	}
}

func TestCompute_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for iter := 0; iter < 100; iter++ {
		in := randomInputs(r)
		first := Compute(in)
		second := Compute(in)
		require.Equal(t, first, second, "iteration %d", iter)
	}
}

func TestPreviousPrice(t *testing.T) {
	approx(t, 100, PreviousPrice(110, 10))
	approx(t, 200, PreviousPrice(100, -50))
	assert.Equal(t, 0.0, PreviousPrice(100, -100))
	assert.Equal(t, 0.0, PreviousPrice(0, 0))
}

package port

import "livetrack/internal/domain/entity"

// LocalStateStore persists the per-user label, profit goal and trade ledger.
type LocalStateStore interface {
	Load() (entity.LocalState, error)
	SetLabel(label string) error
	SetProfitGoal(goal float64) error
	AddTrade(entry entity.TradeEntry) (entity.TradeEntry, error)
	DeleteTrade(id string) error
}

// Catalog resolves coins and chains known to the application.
type Catalog interface {
	Coins() []entity.CoinDefinition
	Coin(id string) (entity.CoinDefinition, bool)
	// ChartSymbol returns the chart widget symbol for a coin id.
	ChartSymbol(coinID string) string
	Chains() []entity.ChainDefinition
	Chain(identifier string) (entity.ChainDefinition, bool)
}

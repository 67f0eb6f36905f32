package port

import (
	"context"

	"livetrack/internal/domain/entity"
)

// PortfolioTracker hosts the live valuation of the portfolio.
type PortfolioTracker interface {
	Aggregate() entity.PortfolioAggregate
	Holdings() []entity.Holding
	Subscribe() (<-chan entity.PortfolioAggregate, func())

	Currency() entity.Currency
	SetCurrency(ctx context.Context, currency entity.Currency) error

	AddHolding(ctx context.Context, coinID string) (entity.Holding, error)
	DeleteHolding(ctx context.Context, id string) error
	SetAmountInput(id, raw string) error
	AmountInput(id string) (string, bool)
	CommitAmount(ctx context.Context, id string) (float64, error)

	RefreshSnapshots(ctx context.Context) error
	LastFetchError() *entity.FetchError
}

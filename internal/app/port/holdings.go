package port

import (
	"context"

	"livetrack/internal/domain/entity"
)

// HoldingsStore is the source of truth for committed holdings.
type HoldingsStore interface {
	List(ctx context.Context) ([]entity.Holding, error)
	Add(ctx context.Context, coinID string, initialPrice float64) (entity.Holding, error)
	UpdateAmount(ctx context.Context, id string, amount float64) error
	Delete(ctx context.Context, id string) error
	// Subscribe returns a channel that receives a signal after every change,
	// whoever made it, and a func to stop the subscription.
	Subscribe() (<-chan struct{}, func())
}

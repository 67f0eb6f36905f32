package port

import (
	"context"

	"livetrack/internal/domain/entity"
	dex_types "livetrack/internal/entity"
)

// MarketDataClient fetches market snapshots from the market-data REST API.
type MarketDataClient interface {
	// GetMarkets returns snapshots for the given coin ids. Coins unknown to
	// the API are simply absent from the result.
	GetMarkets(ctx context.Context, coinIDs []string, currency entity.Currency) ([]entity.MarketSnapshot, error)
	// GetTopMarkets returns the first perPage coins ordered by market cap.
	GetTopMarkets(ctx context.Context, currency entity.Currency, perPage int) ([]entity.MarketSnapshot, error)
}

// MarketService keeps the latest good snapshots per currency.
type MarketService interface {
	Refresh(ctx context.Context, coinIDs []string, currency entity.Currency) (map[string]entity.MarketSnapshot, error)
	LastGood(currency entity.Currency) map[string]entity.MarketSnapshot
	TopMarkets(ctx context.Context, currency entity.Currency, n int) ([]entity.MarketSnapshot, error)
}

// DEXScreenerClient defines the interface for interacting with the DEX Screener API.
type DEXScreenerClient interface {
	GetLatestTokenBoosts(ctx context.Context) ([]dex_types.TokenBoost, error)
	GetTokenPairs(ctx context.Context, dexscreenerChainID string, tokenAddresses []string) ([]dex_types.PairData, error)
}

// MemeService serves the aggregated meme token feed.
type MemeService interface {
	Feed(ctx context.Context, limit int, chainID string) (entity.MemeFeed, error)
}

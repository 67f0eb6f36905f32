package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"livetrack/internal/app/port"
	"livetrack/internal/domain/entity"
	"livetrack/internal/infrastructure/configloader"
	"livetrack/internal/pkg/metrics"
	"livetrack/internal/pkg/utils"

	"github.com/patrickmn/go-cache"
)

// marketServiceImpl implements port.MarketService.
type marketServiceImpl struct {
	client           port.MarketDataClient
	logger           port.Logger
	lastGood         *cache.Cache // currency code -> map[coinID]MarketSnapshot
	topMarkets       *cache.Cache // "CUR:n" -> []MarketSnapshot
	maxIDsPerRequest int
}

// NewMarketService creates a new instance of marketServiceImpl.
func NewMarketService(client port.MarketDataClient, l port.Logger, cfg *configloader.Config) port.MarketService {
	snapshotTTL := time.Duration(cfg.Cache.SnapshotTTLMinutes) * time.Minute
	topTTL := time.Duration(cfg.Cache.TopMarketsTTLSeconds) * time.Second

	s := &marketServiceImpl{
		client:           client,
		logger:           l.With("component", "MarketService"),
		lastGood:         cache.New(snapshotTTL, 2*snapshotTTL),
		topMarkets:       cache.New(topTTL, 2*topTTL),
		maxIDsPerRequest: cfg.CoinGecko.MaxIDsPerRequest,
	}
	s.logger.Info("MarketService initialized", "snapshotTTL", snapshotTTL, "maxIdsPerRequest", s.maxIDsPerRequest)
	return s
}

// Refresh implements port.MarketService.
//
// Batches that succeed overwrite the last good snapshots of their coins; batches
// that fail leave the previous snapshots in place. The returned map is never nil.
func (s *marketServiceImpl) Refresh(ctx context.Context, coinIDs []string, currency entity.Currency) (map[string]entity.MarketSnapshot, error) {
	ids := utils.UniqueStrings(coinIDs)
	result := s.LastGood(currency)
	if len(ids) == 0 {
		return result, nil
	}

	start := time.Now()
	defer func() { metrics.SnapshotFetchDuration.Observe(time.Since(start).Seconds()) }()

	var (
		errs      []error
		succeeded int
	)
	for _, batch := range utils.BatchStrings(ids, s.maxIDsPerRequest) {
		snapshots, err := s.client.GetMarkets(ctx, batch, currency)
		if err != nil {
			s.logger.Warn("Market snapshot batch failed, keeping last good data",
				"currency", currency, "coinCount", len(batch), "error", err)
			errs = append(errs, fmt.Errorf("batch of %d coins: %w", len(batch), err))
			continue
		}
		succeeded++
		for _, snap := range snapshots {
			result[snap.ID] = snap
		}
	}

	switch {
	case len(errs) == 0:
		metrics.SnapshotFetches.WithLabelValues("success").Inc()
	case succeeded > 0:
		metrics.SnapshotFetches.WithLabelValues("partial").Inc()
	default:
		metrics.SnapshotFetches.WithLabelValues("failure").Inc()
		return result, fmt.Errorf("market snapshot fetch failed: %w", errors.Join(errs...))
	}

	s.lastGood.SetDefault(currency.String(), result)
	s.logger.Debug("Market snapshots refreshed", "currency", currency, "coins", len(ids), "received", len(result))

	if len(errs) > 0 {
		return copySnapshots(result), fmt.Errorf("market snapshot fetch partially failed: %w", errors.Join(errs...))
	}
	return copySnapshots(result), nil
}

// LastGood implements port.MarketService.
func (s *marketServiceImpl) LastGood(currency entity.Currency) map[string]entity.MarketSnapshot {
	if v, ok := s.lastGood.Get(currency.String()); ok {
		if m, ok := v.(map[string]entity.MarketSnapshot); ok {
			return copySnapshots(m)
		}
	}
	return make(map[string]entity.MarketSnapshot)
}

// TopMarkets implements port.MarketService.
func (s *marketServiceImpl) TopMarkets(ctx context.Context, currency entity.Currency, n int) ([]entity.MarketSnapshot, error) {
	key := fmt.Sprintf("%s:%d", currency, n)
	if v, ok := s.topMarkets.Get(key); ok {
		if list, ok := v.([]entity.MarketSnapshot); ok {
			return list, nil
		}
	}

	list, err := s.client.GetTopMarkets(ctx, currency, n)
	if err != nil {
		s.logger.Warn("Failed to load top markets", "currency", currency, "error", err)
		return nil, fmt.Errorf("failed to load top markets: %w", err)
	}
	s.topMarkets.SetDefault(key, list)
	return list, nil
}

func copySnapshots(in map[string]entity.MarketSnapshot) map[string]entity.MarketSnapshot {
	out := make(map[string]entity.MarketSnapshot, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"livetrack/internal/domain/entity"
	dex_types "livetrack/internal/entity"

	"github.com/stretchr/testify/mock"
)

type mockMarketDataClient struct {
	mock.Mock
}

func (m *mockMarketDataClient) GetMarkets(ctx context.Context, coinIDs []string, currency entity.Currency) ([]entity.MarketSnapshot, error) {
	args := m.Called(ctx, coinIDs, currency)
	snaps, _ := args.Get(0).([]entity.MarketSnapshot)
	return snaps, args.Error(1)
}

func (m *mockMarketDataClient) GetTopMarkets(ctx context.Context, currency entity.Currency, perPage int) ([]entity.MarketSnapshot, error) {
	args := m.Called(ctx, currency, perPage)
	snaps, _ := args.Get(0).([]entity.MarketSnapshot)
	return snaps, args.Error(1)
}

type mockMarketService struct {
	mock.Mock
}

func (m *mockMarketService) Refresh(ctx context.Context, coinIDs []string, currency entity.Currency) (map[string]entity.MarketSnapshot, error) {
	args := m.Called(ctx, coinIDs, currency)
	snaps, _ := args.Get(0).(map[string]entity.MarketSnapshot)
	return snaps, args.Error(1)
}

func (m *mockMarketService) LastGood(currency entity.Currency) map[string]entity.MarketSnapshot {
	args := m.Called(currency)
	snaps, _ := args.Get(0).(map[string]entity.MarketSnapshot)
	return snaps
}

func (m *mockMarketService) TopMarkets(ctx context.Context, currency entity.Currency, n int) ([]entity.MarketSnapshot, error) {
	args := m.Called(ctx, currency, n)
	snaps, _ := args.Get(0).([]entity.MarketSnapshot)
	return snaps, args.Error(1)
}

type mockDEXClient struct {
	mock.Mock
}

func (m *mockDEXClient) GetLatestTokenBoosts(ctx context.Context) ([]dex_types.TokenBoost, error) {
	args := m.Called(ctx)
	boosts, _ := args.Get(0).([]dex_types.TokenBoost)
	return boosts, args.Error(1)
}

func (m *mockDEXClient) GetTokenPairs(ctx context.Context, chainID string, addrs []string) ([]dex_types.PairData, error) {
	args := m.Called(ctx, chainID, addrs)
	if fn, ok := args.Get(0).(func(context.Context, string, []string) []dex_types.PairData); ok {
		return fn(ctx, chainID, addrs), args.Error(1)
	}
	pairs, _ := args.Get(0).([]dex_types.PairData)
	return pairs, args.Error(1)
}

type stubCatalog struct {
	chains map[string]entity.ChainDefinition
}

func (c stubCatalog) Coins() []entity.CoinDefinition { return nil }
func (c stubCatalog) Coin(string) (entity.CoinDefinition, bool) {
	return entity.CoinDefinition{}, false
}
func (c stubCatalog) ChartSymbol(string) string        { return "" }
func (c stubCatalog) Chains() []entity.ChainDefinition { return nil }
func (c stubCatalog) Chain(id string) (entity.ChainDefinition, bool) {
	d, ok := c.chains[id]
	return d, ok
}

// memoryStore is a minimal port.HoldingsStore for tracker tests.
type memoryStore struct {
	mu       sync.Mutex
	holdings []entity.Holding
	nextID   int
	subs     []chan struct{}
}

func newMemoryStore(holdings ...entity.Holding) *memoryStore {
	return &memoryStore{holdings: holdings}
}

func (s *memoryStore) List(context.Context) ([]entity.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Holding(nil), s.holdings...), nil
}

func (s *memoryStore) Add(_ context.Context, coinID string, price float64) (entity.Holding, error) {
	s.mu.Lock()
	for _, h := range s.holdings {
		if h.CoinID == coinID {
			s.mu.Unlock()
			return entity.Holding{}, entity.ErrDuplicateCoin
		}
	}
	s.nextID++
	h := entity.Holding{ID: fmt.Sprintf("added-%d", s.nextID), CoinID: coinID, AvgBuyPrice: price, CreatedAt: time.Unix(0, 0)}
	s.holdings = append(s.holdings, h)
	s.mu.Unlock()
	s.notify()
	return h, nil
}

func (s *memoryStore) UpdateAmount(_ context.Context, id string, amount float64) error {
	s.mu.Lock()
	found := false
	for i := range s.holdings {
		if s.holdings[i].ID == id {
			s.holdings[i].Amount = amount
			found = true
		}
	}
	s.mu.Unlock()
	if !found {
		return entity.ErrHoldingNotFound
	}
	s.notify()
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	out := s.holdings[:0]
	found := false
	for _, h := range s.holdings {
		if h.ID == id {
			found = true
			continue
		}
		out = append(out, h)
	}
	s.holdings = out
	s.mu.Unlock()
	if !found {
		return entity.ErrHoldingNotFound
	}
	s.notify()
	return nil
}

func (s *memoryStore) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch, func() {}
}

func (s *memoryStore) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

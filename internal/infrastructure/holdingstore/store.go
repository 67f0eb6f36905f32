// Package holdingstore keeps the committed holdings in memory.
package holdingstore

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"livetrack/internal/app/port"
	"livetrack/internal/domain/entity"

	"github.com/google/uuid"
)

// Store is an in-memory port.HoldingsStore. The list is copy-on-write so
// List never shares memory with later changes.
type Store struct {
	logger      port.Logger
	maxHoldings int
	now         func() time.Time

	mu       sync.RWMutex
	holdings []entity.Holding

	subsMu  sync.Mutex
	subs    map[uint64]chan struct{}
	nextSub uint64
}

var _ port.HoldingsStore = (*Store)(nil)

// New creates a Store seeded with the given holdings. maxHoldings limits Add,
// 0 means unlimited. Seeds without an id get one; seeds for an already seeded
// coin are skipped.
func New(l port.Logger, maxHoldings int, seed []entity.Holding) *Store {
	s := &Store{
		logger:      l.With("component", "HoldingStore"),
		maxHoldings: maxHoldings,
		now:         time.Now,
		subs:        make(map[uint64]chan struct{}),
	}

	now := s.now().UTC()
	for _, h := range seed {
		if h.CoinID == "" || s.indexOfCoin(h.CoinID) >= 0 {
			s.logger.Warn("Skipping invalid or duplicate seed holding", "coinId", h.CoinID)
			continue
		}
		if h.ID == "" {
			h.ID = uuid.NewString()
		}
		if h.CreatedAt.IsZero() {
			h.CreatedAt = now
		}
		if h.UpdatedAt.IsZero() {
			h.UpdatedAt = h.CreatedAt
		}
		s.holdings = append(s.holdings, h)
	}
	s.logger.Info("Holding store initialized", "holdings", len(s.holdings), "maxHoldings", maxHoldings)
	return s
}

// List returns the holdings in insertion order.
func (s *Store) List(ctx context.Context) ([]entity.Holding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Holding(nil), s.holdings...), nil
}

// Add starts tracking a coin at amount 0 with the given average buy price.
func (s *Store) Add(ctx context.Context, coinID string, initialPrice float64) (entity.Holding, error) {
	if err := ctx.Err(); err != nil {
		return entity.Holding{}, err
	}
	if coinID == "" {
		return entity.Holding{}, fmt.Errorf("%w: empty coin id", entity.ErrUnknownCoin)
	}
	if initialPrice < 0 || math.IsNaN(initialPrice) || math.IsInf(initialPrice, 0) {
		initialPrice = 0
	}

	s.mu.Lock()
	if s.indexOfCoin(coinID) >= 0 {
		s.mu.Unlock()
		return entity.Holding{}, fmt.Errorf("%w: %s", entity.ErrDuplicateCoin, coinID)
	}
	if s.maxHoldings > 0 && len(s.holdings) >= s.maxHoldings {
		s.mu.Unlock()
		return entity.Holding{}, fmt.Errorf("%w: at most %d holdings", entity.ErrHoldingLimit, s.maxHoldings)
	}

	now := s.now().UTC()
	h := entity.Holding{
		ID:          uuid.NewString(),
		CoinID:      coinID,
		AvgBuyPrice: initialPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	next := make([]entity.Holding, len(s.holdings), len(s.holdings)+1)
	copy(next, s.holdings)
	s.holdings = append(next, h)
	s.mu.Unlock()

	s.notify()
	return h, nil
}

// UpdateAmount replaces the committed amount of a holding.
func (s *Store) UpdateAmount(ctx context.Context, id string, amount float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: %v", entity.ErrInvalidAmount, amount)
	}

	s.mu.Lock()
	i := s.indexOfID(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", entity.ErrHoldingNotFound, id)
	}
	next := append([]entity.Holding(nil), s.holdings...)
	next[i].Amount = amount
	next[i].UpdatedAt = s.now().UTC()
	s.holdings = next
	s.mu.Unlock()

	s.notify()
	return nil
}

// Delete removes a holding.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	i := s.indexOfID(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", entity.ErrHoldingNotFound, id)
	}
	next := make([]entity.Holding, 0, len(s.holdings)-1)
	next = append(next, s.holdings[:i]...)
	next = append(next, s.holdings[i+1:]...)
	s.holdings = next
	s.mu.Unlock()

	s.notify()
	return nil
}

// Subscribe returns a channel signalled after every change. Signals coalesce
// when the reader is slow.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) notify() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store) indexOfID(id string) int {
	for i, h := range s.holdings {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexOfCoin(coinID string) int {
	for i, h := range s.holdings {
		if h.CoinID == coinID {
			return i
		}
	}
	return -1
}

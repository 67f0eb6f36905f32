package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"livetrack/internal/app/overrides"
	"livetrack/internal/app/port"
	"livetrack/internal/app/ticker"
	"livetrack/internal/app/valuation"
	"livetrack/internal/domain/entity"
	"livetrack/internal/pkg/metrics"
	"livetrack/internal/pkg/schedule"

	"golang.org/x/sync/errgroup"
)

// TrackerOptions configures a TrackerService. Zero values fall back to defaults.
type TrackerOptions struct {
	Currency         entity.Currency
	SnapshotInterval time.Duration
	TickInterval     time.Duration
	FetchTimeout     time.Duration
	Simulator        *ticker.Simulator
	Now              func() time.Time
}

// TrackerService owns the live state of the portfolio: holdings, market
// snapshots, tick factors, amount edits and the active currency. Every
// input change recomputes the aggregate synchronously under one lock.
type TrackerService struct {
	store  port.HoldingsStore
	market port.MarketService
	logger port.Logger

	snapshotInterval time.Duration
	tickInterval     time.Duration
	fetchTimeout     time.Duration
	now              func() time.Time

	sim       *ticker.Simulator
	overrides *overrides.Buffer
	refresh   *schedule.Trigger

	mu         sync.Mutex
	holdings   []entity.Holding
	snapshots  map[string]entity.MarketSnapshot
	currency   entity.Currency
	generation uint64
	aggregate  entity.PortfolioAggregate
	lastErr    *entity.FetchError

	subsMu  sync.Mutex
	subs    map[uint64]chan entity.PortfolioAggregate
	nextSub uint64
}

var _ port.PortfolioTracker = (*TrackerService)(nil)

// NewTrackerService creates a new TrackerService.
func NewTrackerService(store port.HoldingsStore, market port.MarketService, l port.Logger, opts TrackerOptions) *TrackerService {
	if opts.Currency == "" {
		opts.Currency = entity.USD
	}
	if opts.SnapshotInterval <= 0 {
		opts.SnapshotInterval = 45 * time.Second
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 20 * time.Second
	}
	if opts.Simulator == nil {
		opts.Simulator = ticker.NewSimulator()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &TrackerService{
		store:            store,
		market:           market,
		logger:           l.With("component", "TrackerService"),
		snapshotInterval: opts.SnapshotInterval,
		tickInterval:     opts.TickInterval,
		fetchTimeout:     opts.FetchTimeout,
		now:              opts.Now,
		sim:              opts.Simulator,
		overrides:        overrides.NewBuffer(),
		refresh:          schedule.NewTrigger(),
		snapshots:        make(map[string]entity.MarketSnapshot),
		currency:         opts.Currency,
		subs:             make(map[uint64]chan entity.PortfolioAggregate),
	}
	s.mu.Lock()
	s.recomputeLocked("init")
	s.mu.Unlock()
	return s
}

// Run loads the holdings and drives the snapshot and tick loops until ctx
// is cancelled. A snapshot fetch runs immediately, on every interval and
// whenever the set of tracked coins changes.
func (s *TrackerService) Run(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}

	changes, stop := s.store.Subscribe()
	defer stop()

	s.logger.Info("Tracker started",
		"snapshotInterval", s.snapshotInterval,
		"tickInterval", s.tickInterval,
		"currency", s.Currency())

	g, gctx := errgroup.WithContext(ctx)
	s.refresh.Fire()

	g.Go(func() error {
		return schedule.OnTrigger(gctx, s.refresh, s.refreshAndLog)
	})
	g.Go(func() error {
		return schedule.Every(gctx, s.snapshotInterval, s.refreshAndLog)
	})
	g.Go(func() error {
		return schedule.Every(gctx, s.tickInterval, func(context.Context) { s.Tick() })
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case _, ok := <-changes:
				if !ok {
					return nil
				}
				if err := s.Load(gctx); err != nil {
					s.logger.Warn("Failed to reload holdings after change", "error", err)
				}
			}
		}
	})

	err := g.Wait()
	s.logger.Info("Tracker stopped")
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

// Load reads the holdings from the store and applies them.
func (s *TrackerService) Load(ctx context.Context) error {
	list, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list holdings: %w", err)
	}
	s.OnHoldingsChanged(list)
	return nil
}

// OnHoldingsChanged replaces the holdings list. Amount edits are reset to
// the committed amounts. A change of the tracked coin set discards in-flight
// fetches and schedules a new one.
func (s *TrackerService) OnHoldingsChanged(list []entity.Holding) {
	next := append([]entity.Holding(nil), list...)

	s.mu.Lock()
	if holdingsEqual(s.holdings, next) {
		s.mu.Unlock()
		return
	}
	setChanged := !sameCoinSet(entity.CoinIDs(s.holdings), entity.CoinIDs(next))
	s.holdings = next
	s.overrides.Reconcile(next)
	if setChanged {
		s.generation++
	}
	s.recomputeLocked("holdings")
	s.mu.Unlock()

	if setChanged {
		s.refresh.Fire()
	}
}

// Tick advances the simulated live prices by one step.
func (s *TrackerService) Tick() {
	s.mu.Lock()
	if len(s.holdings) == 0 {
		s.mu.Unlock()
		return
	}
	s.sim.Advance(entity.CoinIDs(s.holdings))
	s.recomputeLocked("tick")
	s.mu.Unlock()
}

// RefreshSnapshots fetches market snapshots for the tracked coins. A failed
// fetch keeps the previous snapshots and is reported via LastFetchError. A
// response for an outdated generation is discarded.
func (s *TrackerService) RefreshSnapshots(ctx context.Context) error {
	s.mu.Lock()
	gen := s.generation
	ids := entity.CoinIDs(s.holdings)
	cur := s.currency
	s.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	snaps, err := s.market.Refresh(fetchCtx, ids, cur)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		metrics.SnapshotFetches.WithLabelValues("stale").Inc()
		s.logger.Debug("Discarding stale snapshot response", "generation", gen)
		return nil
	}

	if err != nil {
		for id, snap := range snaps {
			s.snapshots[id] = snap
		}
		s.lastErr = &entity.FetchError{Source: "market", CoinIDs: ids, Message: err.Error()}
	} else {
		s.snapshots = snaps
		s.sim.Reset()
		s.lastErr = nil
	}
	s.recomputeLocked("snapshot")
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to refresh snapshots: %w", err)
	}
	return nil
}

func (s *TrackerService) refreshAndLog(ctx context.Context) {
	if err := s.RefreshSnapshots(ctx); err != nil && ctx.Err() == nil {
		s.logger.Warn("Snapshot refresh failed, valuation continues on cached data", "error", err)
	}
}

// Aggregate returns the latest aggregate.
func (s *TrackerService) Aggregate() entity.PortfolioAggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregate
}

// Holdings returns a copy of the current holdings list.
func (s *TrackerService) Holdings() []entity.Holding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Holding(nil), s.holdings...)
}

// Subscribe returns a channel that receives the current aggregate and every
// later one. A slow reader only sees the latest aggregate.
func (s *TrackerService) Subscribe() (<-chan entity.PortfolioAggregate, func()) {
	ch := make(chan entity.PortfolioAggregate, 1)

	// holding s.mu keeps a recompute from slipping in between the initial
	// send and the registration
	s.mu.Lock()
	ch <- s.aggregate
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subsMu.Unlock()
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *TrackerService) publish(agg entity.PortfolioAggregate) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- agg:
			continue
		default:
		}
		// drop the unread aggregate, latest wins
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- agg:
		default:
		}
	}
}

// Currency returns the active currency.
func (s *TrackerService) Currency() entity.Currency {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency
}

// SetCurrency switches the quote currency. Snapshots in the old currency are
// dropped, tick factors reset, and a new fetch runs before returning. A
// failed fetch does not fail the switch.
func (s *TrackerService) SetCurrency(ctx context.Context, currency entity.Currency) error {
	cur, err := entity.ParseCurrency(string(currency))
	if err != nil {
		return err
	}

	s.mu.Lock()
	if cur == s.currency {
		s.mu.Unlock()
		return nil
	}
	s.currency = cur
	s.snapshots = make(map[string]entity.MarketSnapshot)
	s.sim.Reset()
	s.generation++
	s.lastErr = nil
	s.recomputeLocked("currency")
	s.mu.Unlock()

	s.logger.Info("Currency switched", "currency", cur)

	if err := s.RefreshSnapshots(ctx); err != nil {
		s.logger.Warn("Snapshot fetch after currency switch failed", "currency", cur, "error", err)
	}
	return nil
}

// AddHolding starts tracking a coin at amount 0. Its average buy price is the
// coin's current price when known.
func (s *TrackerService) AddHolding(ctx context.Context, coinID string) (entity.Holding, error) {
	if coinID == "" {
		return entity.Holding{}, fmt.Errorf("%w: empty coin id", entity.ErrUnknownCoin)
	}

	s.mu.Lock()
	snap, known := s.snapshots[coinID]
	cur := s.currency
	s.mu.Unlock()

	price := snap.CurrentPrice
	if !known {
		snaps, err := s.market.Refresh(ctx, []string{coinID}, cur)
		if err != nil {
			s.logger.Warn("Could not price new holding, starting at 0", "coinId", coinID, "error", err)
		}
		price = snaps[coinID].CurrentPrice
	}

	h, err := s.store.Add(ctx, coinID, price)
	if err != nil {
		return entity.Holding{}, err
	}
	if err := s.Load(ctx); err != nil {
		return h, err
	}
	s.logger.Info("Holding added", "holdingId", h.ID, "coinId", coinID, "avgBuyPrice", price)
	return h, nil
}

// DeleteHolding stops tracking a holding.
func (s *TrackerService) DeleteHolding(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Holding deleted", "holdingId", id)
	return s.Load(ctx)
}

// SetAmountInput records an in-progress amount edit and revalues.
func (s *TrackerService) SetAmountInput(id, raw string) error {
	s.mu.Lock()
	if !s.hasHoldingLocked(id) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", entity.ErrHoldingNotFound, id)
	}
	s.overrides.Set(id, raw)
	s.recomputeLocked("amount_input")
	s.mu.Unlock()

	return nil
}

// AmountInput returns the in-progress amount text for a holding.
func (s *TrackerService) AmountInput(id string) (string, bool) {
	return s.overrides.Get(id)
}

// CommitAmount persists the edited amount of a holding. Empty, non-numeric
// and negative input is rejected and the edit is kept.
func (s *TrackerService) CommitAmount(ctx context.Context, id string) (float64, error) {
	s.mu.Lock()
	ok := s.hasHoldingLocked(id)
	s.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("%w: %s", entity.ErrHoldingNotFound, id)
	}

	amount, err := s.overrides.Commit(id)
	if err != nil {
		return 0, err
	}
	if err := s.store.UpdateAmount(ctx, id, amount); err != nil {
		return 0, err
	}
	if err := s.Load(ctx); err != nil {
		return amount, err
	}
	return amount, nil
}

// LastFetchError returns the last snapshot fetch failure, nil after a success.
func (s *TrackerService) LastFetchError() *entity.FetchError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil {
		return nil
	}
	e := *s.lastErr
	return &e
}

func (s *TrackerService) recomputeLocked(trigger string) entity.PortfolioAggregate {
	agg := valuation.Compute(valuation.Inputs{
		Holdings:  s.holdings,
		Snapshots: s.snapshots,
		Ticks:     s.sim.Factors(),
		Overrides: s.overrides.Snapshot(),
		Currency:  s.currency,
	})
	agg.ComputedAt = s.now()
	s.aggregate = agg

	metrics.Recomputations.WithLabelValues(trigger).Inc()
	metrics.PortfolioValue.WithLabelValues(s.currency.String()).Set(agg.TotalValue)
	s.publish(agg)
	return agg
}

func (s *TrackerService) hasHoldingLocked(id string) bool {
	for _, h := range s.holdings {
		if h.ID == id {
			return true
		}
	}
	return false
}

func holdingsEqual(a, b []entity.Holding) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].CoinID != b[i].CoinID ||
			a[i].Amount != b[i].Amount || a[i].AvgBuyPrice != b[i].AvgBuyPrice {
			return false
		}
	}
	return true
}

func sameCoinSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

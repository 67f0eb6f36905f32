package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"livetrack/internal/app/port"
	"livetrack/internal/domain/entity"
	dex_types "livetrack/internal/entity"
	"livetrack/internal/infrastructure/configloader"
	"livetrack/internal/pkg/metrics"
	"livetrack/internal/pkg/utils"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const (
	memeFeedCacheKey = "feed"
	memeFeedSource   = "dexscreener"
)

type cachedMemeFeed struct {
	items []entity.MemeToken
	asOf  time.Time
}

type pairChunk struct {
	chainID   string
	addresses []string
}

// memeServiceImpl implements port.MemeService.
type memeServiceImpl struct {
	client  port.DEXScreenerClient
	catalog port.Catalog
	logger  port.Logger
	cache   *cache.Cache
	fetchMu sync.Mutex

	maxItems     int
	chunkSize    int
	defaultLimit int
	maxLimit     int
	concurrency  int
	now          func() time.Time
}

// NewMemeService creates a new instance of memeServiceImpl.
func NewMemeService(client port.DEXScreenerClient, catalog port.Catalog, l port.Logger, cfg *configloader.Config) port.MemeService {
	ttl := time.Duration(cfg.Cache.MemeTTLSeconds) * time.Second
	s := &memeServiceImpl{
		client:       client,
		catalog:      catalog,
		logger:       l.With("component", "MemeService"),
		cache:        cache.New(ttl, 2*ttl),
		maxItems:     cfg.Meme.MaxItems,
		chunkSize:    cfg.DEXScreener.MaxTokensPerRequest,
		defaultLimit: cfg.Meme.DefaultLimit,
		maxLimit:     cfg.Meme.MaxLimit,
		concurrency:  cfg.Meme.MaxConcurrentChunks,
		now:          time.Now,
	}
	s.logger.Info("MemeService initialized", "ttl", ttl, "maxItems", s.maxItems)
	return s
}

// Feed implements port.MemeService. limit 0 selects the default limit; other
// values are clamped to [1, maxLimit]. chainID optionally filters by chain.
func (s *memeServiceImpl) Feed(ctx context.Context, limit int, chainID string) (entity.MemeFeed, error) {
	chainID = strings.ToLower(strings.TrimSpace(chainID))
	if chainID != "" && s.catalog != nil {
		if _, ok := s.catalog.Chain(chainID); !ok {
			return entity.MemeFeed{}, fmt.Errorf("%w: %s", entity.ErrUnknownChain, chainID)
		}
	}
	limit = s.clampLimit(limit)

	feed, state, err := s.load(ctx)
	if err != nil {
		return entity.MemeFeed{}, err
	}

	items := make([]entity.MemeToken, 0, limit)
	for _, it := range feed.items {
		if len(items) >= limit {
			break
		}
		if chainID != "" && it.ChainID != chainID {
			continue
		}
		items = append(items, it)
	}

	return entity.MemeFeed{
		Items:  items,
		AsOf:   feed.asOf,
		Source: memeFeedSource,
		Cache:  state,
	}, nil
}

func (s *memeServiceImpl) clampLimit(limit int) int {
	if limit == 0 {
		return s.defaultLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func (s *memeServiceImpl) cached() (cachedMemeFeed, bool) {
	if v, ok := s.cache.Get(memeFeedCacheKey); ok {
		if feed, ok := v.(cachedMemeFeed); ok {
			return feed, true
		}
	}
	return cachedMemeFeed{}, false
}

func (s *memeServiceImpl) load(ctx context.Context) (cachedMemeFeed, string, error) {
	if feed, ok := s.cached(); ok {
		metrics.MemeCache.WithLabelValues("hit").Inc()
		return feed, "hit", nil
	}

	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()
	// another request may have filled the cache while we waited
	if feed, ok := s.cached(); ok {
		metrics.MemeCache.WithLabelValues("hit").Inc()
		return feed, "hit", nil
	}
	metrics.MemeCache.WithLabelValues("miss").Inc()

	items, err := s.fetchAndNormalize(ctx)
	if err != nil {
		return cachedMemeFeed{}, "", err
	}
	feed := cachedMemeFeed{items: items, asOf: s.now().UTC()}
	s.cache.SetDefault(memeFeedCacheKey, feed)
	return feed, "miss", nil
}

func (s *memeServiceImpl) fetchAndNormalize(ctx context.Context) ([]entity.MemeToken, error) {
	boosts, err := s.client.GetLatestTokenBoosts(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch token boosts", "error", err)
		return nil, fmt.Errorf("failed to fetch token boosts: %w", err)
	}

	chunks := s.chunkBoosts(boosts)
	items := make([]entity.MemeToken, 0, s.maxItems)

	for start := 0; start < len(chunks) && len(items) < s.maxItems; start += s.concurrency {
		end := start + s.concurrency
		if end > len(chunks) {
			end = len(chunks)
		}
		wave := chunks[start:end]
		results := make([][]dex_types.PairData, len(wave))

		var g errgroup.Group
		for i, chunk := range wave {
			g.Go(func() error {
				pairs, err := s.client.GetTokenPairs(ctx, chunk.chainID, chunk.addresses)
				if err != nil {
					// a failed chunk is skipped, the rest of the feed still renders
					s.logger.Warn("Token pairs chunk failed", "chainId", chunk.chainID, "tokens", len(chunk.addresses), "error", err)
					return nil
				}
				results[i] = pairs
				return nil
			})
		}
		_ = g.Wait()

		for _, pairs := range results {
			for _, p := range pairs {
				if len(items) >= s.maxItems {
					break
				}
				items = append(items, normalizePair(p))
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return utils.SafeDeref(items[i].PairCreatedAt) > utils.SafeDeref(items[j].PairCreatedAt)
	})

	s.logger.Debug("Meme feed refreshed", "boosts", len(boosts), "chunks", len(chunks), "items", len(items))
	return items, nil
}

// chunkBoosts groups boosted token addresses by chain in first-seen order,
// dropping blanks and duplicates, and splits each chain into request-sized chunks.
func (s *memeServiceImpl) chunkBoosts(boosts []dex_types.TokenBoost) []pairChunk {
	var order []string
	byChain := make(map[string][]string)
	seen := make(map[string]struct{})

	for _, b := range boosts {
		if b.ChainID == "" || b.TokenAddress == "" {
			continue
		}
		key := b.ChainID + "/" + b.TokenAddress
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := byChain[b.ChainID]; !ok {
			order = append(order, b.ChainID)
		}
		byChain[b.ChainID] = append(byChain[b.ChainID], b.TokenAddress)
	}

	var chunks []pairChunk
	for _, chainID := range order {
		for _, batch := range utils.BatchStrings(byChain[chainID], s.chunkSize) {
			chunks = append(chunks, pairChunk{chainID: chainID, addresses: batch})
		}
	}
	return chunks
}

func normalizePair(p dex_types.PairData) entity.MemeToken {
	t := entity.MemeToken{
		ID:            p.PairAddress,
		ChainID:       p.ChainID,
		DexID:         p.DexID,
		URL:           p.URL,
		BaseSymbol:    p.BaseToken.Symbol,
		BaseName:      p.BaseToken.Name,
		Fdv:           p.Fdv,
		MarketCap:     p.MarketCap,
		PairCreatedAt: p.PairCreatedAt,
		Labels:        p.Labels,
	}
	if t.Labels == nil {
		t.Labels = []string{}
	}
	if p.PriceUsd != "" {
		if v, err := strconv.ParseFloat(p.PriceUsd, 64); err == nil {
			t.PriceUsd = &v
		}
	}
	if v, ok := p.PriceChange[dex_types.PeriodH24]; ok {
		t.PriceChange24h = utils.Ptr(v)
	}
	if v, ok := p.Volume[dex_types.PeriodH24]; ok {
		t.Volume24hUsd = utils.Ptr(v)
	}
	if p.Liquidity != nil {
		t.LiquidityUsd = p.Liquidity.Usd
	}
	if p.Info != nil && p.Info.ImageURL != "" {
		t.ImageURL = utils.Ptr(p.Info.ImageURL)
	}
	if p.Boosts != nil {
		t.BoostsActive = p.Boosts.Active
	}
	return t
}

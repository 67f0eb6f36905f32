package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"livetrack/internal/app/port"
	"livetrack/internal/domain/entity"
	cg_types "livetrack/internal/entity"
	"livetrack/internal/pkg/utils"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"
	coinsMarketsPath        = "/coins/markets"
	// DefaultAPIKeyHeader is the header used for CoinGecko demo keys.
	DefaultAPIKeyHeader = "x-cg-demo-api-key"
)

// CoinGeckoOptions configures NewCoinGeckoClient.
type CoinGeckoOptions struct {
	BaseURL           string
	APIKey            string
	APIKeyHeader      string
	Timeout           time.Duration
	RequestsPerMinute int
}

type coinGeckoClientImpl struct {
	client       *fasthttp.Client
	baseURL      string
	apiKey       string
	apiKeyHeader string
	timeout      time.Duration
	limiter      *rate.Limiter
	logger       *zap.Logger
}

// NewCoinGeckoClient creates a market-data client backed by the CoinGecko REST API.
func NewCoinGeckoClient(opts CoinGeckoOptions, logger *zap.Logger) port.MarketDataClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultCoinGeckoBaseURL
	}
	if opts.APIKeyHeader == "" {
		opts.APIKeyHeader = DefaultAPIKeyHeader
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}

	return &coinGeckoClientImpl{
		client:       &fasthttp.Client{Name: "livetrack"},
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		apiKey:       opts.APIKey,
		apiKeyHeader: opts.APIKeyHeader,
		timeout:      opts.Timeout,
		limiter:      rate.NewLimiter(limit, 1),
		logger:       logger.Named("CoinGeckoClient"),
	}
}

// GetMarkets implements port.MarketDataClient.
func (c *coinGeckoClientImpl) GetMarkets(ctx context.Context, coinIDs []string, currency entity.Currency) ([]entity.MarketSnapshot, error) {
	ids := utils.UniqueStrings(coinIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	query := map[string]string{
		"vs_currency":             currency.Lower(),
		"ids":                     strings.Join(ids, ","),
		"order":                   "market_cap_desc",
		"per_page":                strconv.Itoa(len(ids)),
		"page":                    "1",
		"sparkline":               "true",
		"price_change_percentage": "24h",
	}
	return c.fetchMarkets(ctx, query)
}

// GetTopMarkets implements port.MarketDataClient.
func (c *coinGeckoClientImpl) GetTopMarkets(ctx context.Context, currency entity.Currency, perPage int) ([]entity.MarketSnapshot, error) {
	if perPage <= 0 {
		perPage = 50
	}
	if perPage > 250 {
		perPage = 250
	}

	query := map[string]string{
		"vs_currency":             currency.Lower(),
		"order":                   "market_cap_desc",
		"per_page":                strconv.Itoa(perPage),
		"page":                    "1",
		"sparkline":               "false",
		"price_change_percentage": "24h",
	}
	return c.fetchMarkets(ctx, query)
}

func (c *coinGeckoClientImpl) fetchMarkets(ctx context.Context, query map[string]string) ([]entity.MarketSnapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("coingecko rate limiter: %w", err)
	}

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{c.apiKeyHeader: c.apiKey}
	}

	requestURL := c.baseURL + coinsMarketsPath
	status, rawBody, err := getJSON(ctx, c.client, c.logger, requestURL, query, headers, c.timeout)
	if err != nil {
		return nil, err
	}

	if status != fasthttp.StatusOK {
		var apiErr cg_types.CoinGeckoError
		msg := truncateBody(rawBody)
		if json.Unmarshal(rawBody, &apiErr) == nil {
			if apiErr.Error != "" {
				msg = apiErr.Error
			} else if apiErr.Status.ErrorMessage != "" {
				msg = apiErr.Status.ErrorMessage
			}
		}
		c.logger.Warn("CoinGecko markets request failed",
			zap.Int("statusCode", status),
			zap.String("message", msg))
		return nil, fmt.Errorf("coingecko markets request failed with status %d: %s", status, msg)
	}

	var rows []cg_types.CoinMarket
	if err := json.Unmarshal(rawBody, &rows); err != nil {
		c.logger.Error("Failed to unmarshal CoinGecko markets response",
			zap.String("responseBody", truncateBody(rawBody)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal coingecko markets response: %w", err)
	}

	snapshots := make([]entity.MarketSnapshot, 0, len(rows))
	for _, row := range rows {
		if row.ID == "" {
			continue
		}
		snapshots = append(snapshots, toSnapshot(row))
	}

	c.logger.Debug("Fetched markets", zap.Int("count", len(snapshots)))
	return snapshots, nil
}

func toSnapshot(row cg_types.CoinMarket) entity.MarketSnapshot {
	s := entity.MarketSnapshot{
		ID:                       row.ID,
		Symbol:                   row.Symbol,
		Name:                     row.Name,
		Image:                    row.Image,
		CurrentPrice:             utils.SafeDeref(row.CurrentPrice),
		PriceChangePercentage24h: utils.SafeDeref(row.PriceChangePercentage24h),
		MarketCapRank:            utils.SafeDeref(row.MarketCapRank),
		TotalVolume:              utils.SafeDeref(row.TotalVolume),
	}
	if row.SparklineIn7d != nil {
		s.Sparkline7d = row.SparklineIn7d.Price
	}
	return s
}

package client

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"livetrack/internal/app/port"
	"livetrack/internal/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	defaultDEXScreenerBaseURL = "https://api.dexscreener.com"
	tokenBoostsPath           = "/token-boosts/latest/v1"
	tokenPairsPath            = "/token-pairs/v1"
)

// dexScreenerClientImpl is the implementation of port.DEXScreenerClient.
type dexScreenerClientImpl struct {
	client              *fasthttp.Client
	baseURL             string
	timeout             time.Duration
	logger              *zap.Logger
	maxTokensPerRequest int
}

// NewDEXScreenerClient creates a new instance of dexScreenerClientImpl.
func NewDEXScreenerClient(baseURL string, timeout time.Duration, logger *zap.Logger, maxTokensPerRequest int) port.DEXScreenerClient {
	if baseURL == "" {
		baseURL = defaultDEXScreenerBaseURL
	}
	if maxTokensPerRequest <= 0 {
		maxTokensPerRequest = 30
	}
	return &dexScreenerClientImpl{
		client:              &fasthttp.Client{Name: "livetrack"},
		baseURL:             strings.TrimRight(baseURL, "/"),
		timeout:             timeout,
		logger:              logger.Named("DEXScreenerClient"),
		maxTokensPerRequest: maxTokensPerRequest,
	}
}

// GetLatestTokenBoosts implements port.DEXScreenerClient.
func (c *dexScreenerClientImpl) GetLatestTokenBoosts(ctx context.Context) ([]entity.TokenBoost, error) {
	requestURL := c.baseURL + tokenBoostsPath

	status, rawBody, err := getJSON(ctx, c.client, c.logger, requestURL, nil, nil, c.timeout)
	if err != nil {
		return nil, err
	}
	if status != fasthttp.StatusOK {
		c.logger.Error("DEX Screener token-boosts request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.String("responseBody", truncateBody(rawBody)))
		return nil, fmt.Errorf("DEX Screener token-boosts request failed with status %d", status)
	}

	boosts, err := decodeTokenBoosts(rawBody)
	if err != nil {
		c.logger.Error("Failed to unmarshal DEX Screener token boosts",
			zap.String("url", requestURL),
			zap.String("responseBody", truncateBody(rawBody)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal DEX Screener token boosts: %w", err)
	}

	c.logger.Debug("Fetched token boosts", zap.Int("count", len(boosts)))
	return boosts, nil
}

// decodeTokenBoosts accepts a bare array, an {"items": [...]} envelope or a single object.
func decodeTokenBoosts(raw []byte) ([]entity.TokenBoost, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var boosts []entity.TokenBoost
		if err := json.Unmarshal(trimmed, &boosts); err != nil {
			return nil, err
		}
		return boosts, nil
	}

	var envelope entity.TokenBoostsEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	if envelope.Items != nil {
		return envelope.Items, nil
	}

	var single entity.TokenBoost
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, err
	}
	return []entity.TokenBoost{single}, nil
}

// GetTokenPairs implements port.DEXScreenerClient.
func (c *dexScreenerClientImpl) GetTokenPairs(ctx context.Context, dexscreenerChainID string, tokenAddresses []string) ([]entity.PairData, error) {
	if dexscreenerChainID == "" {
		return nil, fmt.Errorf("dexscreenerChainID cannot be empty")
	}
	if len(tokenAddresses) == 0 {
		return nil, fmt.Errorf("tokenAddresses cannot be empty")
	}
	if len(tokenAddresses) > c.maxTokensPerRequest {
		c.logger.Warn("Number of token addresses exceeds maxTokensPerRequest",
			zap.Int("requestedCount", len(tokenAddresses)),
			zap.Int("maxAllowed", c.maxTokensPerRequest))
		return nil, fmt.Errorf("number of token addresses (%d) exceeds max tokens per request (%d)", len(tokenAddresses), c.maxTokensPerRequest)
	}

	requestURL := fmt.Sprintf("%s%s/%s/%s", c.baseURL, tokenPairsPath, dexscreenerChainID, strings.Join(tokenAddresses, ","))

	status, rawBody, err := getJSON(ctx, c.client, c.logger, requestURL, nil, nil, c.timeout)
	if err != nil {
		return nil, err
	}
	if status != fasthttp.StatusOK {
		c.logger.Warn("DEX Screener token-pairs request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.String("responseBody", truncateBody(rawBody)))
		return nil, fmt.Errorf("DEX Screener token-pairs request for %s failed with status %d", dexscreenerChainID, status)
	}

	var pairs []entity.PairData
	if err := json.Unmarshal(rawBody, &pairs); err != nil {
		c.logger.Error("Failed to unmarshal DEX Screener response into []PairData",
			zap.String("url", requestURL),
			zap.String("dexscreenerChainID", dexscreenerChainID),
			zap.String("responseBody", truncateBody(rawBody)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal DEX Screener response from %s: %w", requestURL, err)
	}

	if len(pairs) == 0 {
		c.logger.Warn("DEXScreener returned 200 OK with an empty array of pairs",
			zap.String("dexscreenerChainID", dexscreenerChainID))
	}

	c.logger.Debug("Fetched token pairs",
		zap.String("dexscreenerChainID", dexscreenerChainID),
		zap.Int("pairCount", len(pairs)))
	return pairs, nil
}

package restapi

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"livetrack/internal/app/port"
	"livetrack/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

const defaultTopMarkets = 50

// MarketHandler serves market lists, chart symbols and the meme token feed.
type MarketHandler struct {
	market  port.MarketService
	meme    port.MemeService
	catalog port.Catalog
	tracker port.PortfolioTracker
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(market port.MarketService, meme port.MemeService, catalog port.Catalog, tracker port.PortfolioTracker) *MarketHandler {
	return &MarketHandler{market: market, meme: meme, catalog: catalog, tracker: tracker}
}

// TopMarketsHandler lists the largest coins by market cap, for the add-asset picker.
// Query: n (default 50), currency (default: active currency).
func (h *MarketHandler) TopMarketsHandler(c *gin.Context) {
	n := defaultTopMarkets
	if raw := c.Query("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			badRequest(c, "n must be a positive integer")
			return
		}
		n = v
	}

	cur := h.tracker.Currency()
	if raw := c.Query("currency"); raw != "" {
		parsed, err := entity.ParseCurrency(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		cur = parsed
	}

	items, err := h.market.TopMarkets(c.Request.Context(), cur, n)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "currency": cur})
}

// ChartSymbolHandler resolves the chart widget symbol of a coin.
func (h *MarketHandler) ChartSymbolHandler(c *gin.Context) {
	coinID := strings.ToLower(strings.TrimSpace(c.Param("coinId")))
	if coinID == "" {
		badRequest(c, "coinId is required")
		return
	}
	resp := gin.H{"coin_id": coinID, "symbol": h.catalog.ChartSymbol(coinID)}
	if def, ok := h.catalog.Coin(coinID); ok {
		resp["label"] = def.Label
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// CoinsHandler lists the coins with a known chart symbol.
func (h *MarketHandler) CoinsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.catalog.Coins()})
}

// ChainsHandler lists the chains accepted by the meme feed filter.
func (h *MarketHandler) ChainsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.catalog.Chains()})
}

// MemeFeedHandler serves the boosted meme token feed.
// Query: limit (1..100, default 50), chain (optional chain id).
func (h *MarketHandler) MemeFeedHandler(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))
	feed, err := h.meme.Feed(c.Request.Context(), limit, c.Query("chain"))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadRequest {
			respondError(c, err)
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, feed)
}

// parseLimit reads the leading integer of raw. Empty input means "use the
// default" (0); anything unparsable or below 1 becomes 1. Positive values too
// large for an int saturate to math.MaxInt so the service clamps them to its
// upper bound.
func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	end := 0
	if end < len(raw) && (raw[end] == '-' || raw[end] == '+') {
		end++
	}
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	v, err := strconv.Atoi(raw[:end])
	if errors.Is(err, strconv.ErrRange) && raw[0] != '-' {
		return math.MaxInt
	}
	if err != nil || v < 1 {
		return 1
	}
	return v
}

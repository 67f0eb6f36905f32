package restapi

import (
	"net/http"

	"livetrack/internal/app/port"
	"livetrack/internal/app/valuation"
	"livetrack/internal/domain/entity"
	"livetrack/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// APIPortfolioResponse определяет структуру ответа для эндпоинта портфеля.
type APIPortfolioResponse struct {
	Data struct {
		Portfolio  entity.PortfolioAggregate `json:"portfolio"`
		Formatted  FormattedTotals           `json:"formatted"`
		Goal       entity.GoalProgress       `json:"goal"`
		Allocation []entity.AllocationSlice  `json:"allocation"`
		Label      string                    `json:"label"`
	} `json:"data"`
	FetchError    *entity.FetchError `json:"fetch_error,omitempty"`
	StatusMessage string             `json:"status_message"`
}

// FormattedTotals holds display strings in the active currency.
type FormattedTotals struct {
	TotalValue     string                    `json:"total_value"`
	TotalCost      string                    `json:"total_cost"`
	TotalProfit    string                    `json:"total_profit"`
	TotalProfitPct string                    `json:"total_profit_pct"`
	Delta24h       string                    `json:"delta_24h"`
	Delta24hPct    string                    `json:"delta_24h_pct"`
	Assets         map[string]FormattedAsset `json:"assets"`
}

// FormattedAsset holds display strings of one asset row, keyed by holding id.
type FormattedAsset struct {
	CurrentPrice string `json:"current_price"`
	CurrentValue string `json:"current_value"`
	Profit       string `json:"profit"`
	ProfitPct    string `json:"profit_pct"`
	Delta24h     string `json:"delta_24h"`
	Volume24h    string `json:"volume_24h"`
}

// HoldingView is a committed holding together with its in-progress amount edit.
type HoldingView struct {
	entity.Holding
	AmountInput string `json:"amount_input"`
}

type addHoldingRequest struct {
	CoinID string `json:"coin_id" binding:"required"`
}

type amountInputRequest struct {
	Value *string `json:"value" binding:"required"`
}

type currencyRequest struct {
	Currency string `json:"currency" binding:"required"`
}

// PortfolioHandler обрабатывает HTTP запросы, связанные с портфелем.
type PortfolioHandler struct {
	tracker port.PortfolioTracker
	state   port.LocalStateStore
	logger  port.Logger
}

// NewPortfolioHandler создает новый экземпляр PortfolioHandler.
func NewPortfolioHandler(tracker port.PortfolioTracker, state port.LocalStateStore, l port.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		tracker: tracker,
		state:   state,
		logger:  l.With("component", "PortfolioHandler"),
	}
}

// GetPortfolioHandler отдает текущую оценку портфеля.
func (h *PortfolioHandler) GetPortfolioHandler(c *gin.Context) {
	agg := h.tracker.Aggregate()

	goal := float64(0)
	var label string
	if h.state != nil {
		st, err := h.state.Load()
		if err != nil {
			h.logger.Warn("Failed to load local state", "error", err)
		} else {
			goal = st.ProfitGoal
			label = st.Label
		}
	}

	var response APIPortfolioResponse
	response.Data.Portfolio = agg
	response.Data.Formatted = formatAggregate(agg)
	response.Data.Goal = valuation.GoalProgress(agg.TotalProfit, goal)
	response.Data.Allocation = valuation.Allocation(agg)
	response.Data.Label = label
	response.FetchError = h.tracker.LastFetchError()

	switch {
	case len(agg.Assets) == 0:
		response.StatusMessage = "No holdings tracked yet."
	case response.FetchError != nil:
		response.StatusMessage = "Portfolio valued. Market data may be stale."
	default:
		response.StatusMessage = "Portfolio valued successfully."
	}

	c.JSON(http.StatusOK, response)
}

// ListHoldingsHandler отдает список позиций.
func (h *PortfolioHandler) ListHoldingsHandler(c *gin.Context) {
	holdings := h.tracker.Holdings()
	out := make([]HoldingView, 0, len(holdings))
	for _, hd := range holdings {
		input, _ := h.tracker.AmountInput(hd.ID)
		out = append(out, HoldingView{Holding: hd, AmountInput: input})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// AddHoldingHandler начинает отслеживать монету.
func (h *PortfolioHandler) AddHoldingHandler(c *gin.Context) {
	var req addHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "coin_id is required")
		return
	}
	holding, err := h.tracker.AddHolding(c.Request.Context(), req.CoinID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": holding})
}

// DeleteHoldingHandler удаляет позицию.
func (h *PortfolioHandler) DeleteHoldingHandler(c *gin.Context) {
	if err := h.tracker.DeleteHolding(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetAmountInputHandler сохраняет вводимое количество без записи в хранилище.
func (h *PortfolioHandler) SetAmountInputHandler(c *gin.Context) {
	var req amountInputRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		badRequest(c, "value is required")
		return
	}
	id := c.Param("id")
	if err := h.tracker.SetAmountInput(id, *req.Value); err != nil {
		respondError(c, err)
		return
	}
	asset := findAsset(h.tracker.Aggregate(), id)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "amount_input": *req.Value, "asset": asset}})
}

// CommitAmountHandler записывает введенное количество.
func (h *PortfolioHandler) CommitAmountHandler(c *gin.Context) {
	id := c.Param("id")
	amount, err := h.tracker.CommitAmount(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "amount": amount}})
}

// GetCurrencyHandler отдает активную валюту.
func (h *PortfolioHandler) GetCurrencyHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"currency": h.tracker.Currency(), "supported": entity.SupportedCurrencies}})
}

// SetCurrencyHandler переключает валюту котировок.
func (h *PortfolioHandler) SetCurrencyHandler(c *gin.Context) {
	var req currencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "currency is required")
		return
	}
	cur, err := entity.ParseCurrency(req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.tracker.SetCurrency(c.Request.Context(), cur); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"currency": h.tracker.Currency()}})
}

// StreamPortfolioHandler pushes every new aggregate as a server-sent event
// until the client goes away.
func (h *PortfolioHandler) StreamPortfolioHandler(c *gin.Context) {
	updates, cancel := h.tracker.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case agg, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent("portfolio", agg)
			c.Writer.Flush()
		}
	}
}

func formatAggregate(agg entity.PortfolioAggregate) FormattedTotals {
	code := string(agg.Currency)
	out := FormattedTotals{
		TotalValue:     utils.FormatCurrency(agg.TotalValue, code),
		TotalCost:      utils.FormatCurrency(agg.TotalCost, code),
		TotalProfit:    utils.FormatSignedCurrency(agg.TotalProfit, code),
		TotalProfitPct: utils.FormatPercent(agg.TotalProfitPct),
		Delta24h:       utils.FormatSignedCurrency(agg.Delta24h, code),
		Delta24hPct:    utils.FormatPercent(agg.Delta24hPct),
		Assets:         make(map[string]FormattedAsset, len(agg.Assets)),
	}
	for _, a := range agg.Assets {
		out.Assets[a.HoldingID] = FormattedAsset{
			CurrentPrice: utils.FormatCurrency(a.CurrentPrice, code),
			CurrentValue: utils.FormatCurrency(a.CurrentValue, code),
			Profit:       utils.FormatSignedCurrency(a.Profit, code),
			ProfitPct:    utils.FormatPercent(a.ProfitPct),
			Delta24h:     utils.FormatSignedCurrency(a.Delta24h, code),
			Volume24h:    utils.FormatCurrency(a.Volume24h, code),
		}
	}
	return out
}

func findAsset(agg entity.PortfolioAggregate, holdingID string) *entity.AssetView {
	for _, a := range agg.Assets {
		if a.HoldingID == holdingID {
			return &a
		}
	}
	return nil
}

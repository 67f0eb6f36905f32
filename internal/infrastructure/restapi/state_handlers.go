package restapi

import (
	"net/http"

	"livetrack/internal/app/port"
	"livetrack/internal/app/valuation"
	"livetrack/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

type labelRequest struct {
	Label *string `json:"label" binding:"required"`
}

type goalRequest struct {
	Goal *float64 `json:"goal" binding:"required"`
}

type tradeRequest struct {
	Asset  string `json:"asset"`
	Date   string `json:"date"`
	Amount string `json:"amount"`
	Price  string `json:"price"`
	Note   string `json:"note"`
}

// StateHandler serves the locally persisted label, profit goal and trade ledger.
type StateHandler struct {
	state   port.LocalStateStore
	tracker port.PortfolioTracker
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(state port.LocalStateStore, tracker port.PortfolioTracker) *StateHandler {
	return &StateHandler{state: state, tracker: tracker}
}

func (h *StateHandler) load(c *gin.Context) (entity.LocalState, bool) {
	st, err := h.state.Load()
	if err != nil {
		respondError(c, err)
		return entity.LocalState{}, false
	}
	return st, true
}

func (h *StateHandler) GetLabelHandler(c *gin.Context) {
	if st, ok := h.load(c); ok {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"label": st.Label}})
	}
}

func (h *StateHandler) SetLabelHandler(c *gin.Context) {
	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Label == nil {
		badRequest(c, "label is required")
		return
	}
	if err := h.state.SetLabel(*req.Label); err != nil {
		respondError(c, err)
		return
	}
	h.GetLabelHandler(c)
}

// GetGoalHandler returns the goal and the progress of the current total profit.
func (h *StateHandler) GetGoalHandler(c *gin.Context) {
	st, ok := h.load(c)
	if !ok {
		return
	}
	agg := h.tracker.Aggregate()
	c.JSON(http.StatusOK, gin.H{"data": valuation.GoalProgress(agg.TotalProfit, st.ProfitGoal)})
}

func (h *StateHandler) SetGoalHandler(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Goal == nil {
		badRequest(c, "goal must be a number")
		return
	}
	if err := h.state.SetProfitGoal(*req.Goal); err != nil {
		respondError(c, err)
		return
	}
	h.GetGoalHandler(c)
}

func (h *StateHandler) ListLedgerHandler(c *gin.Context) {
	st, ok := h.load(c)
	if !ok {
		return
	}
	ledger := st.Ledger
	if ledger == nil {
		ledger = []entity.TradeEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"data": ledger})
}

func (h *StateHandler) AddLedgerEntryHandler(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid ledger entry")
		return
	}
	entry, err := h.state.AddTrade(entity.TradeEntry{
		Asset:  req.Asset,
		Date:   req.Date,
		Amount: req.Amount,
		Price:  req.Price,
		Note:   req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": entry})
}

func (h *StateHandler) DeleteLedgerEntryHandler(c *gin.Context) {
	if err := h.state.DeleteTrade(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

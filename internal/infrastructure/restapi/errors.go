package restapi

import (
	"context"
	"errors"
	"net/http"

	"livetrack/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrHoldingNotFound), errors.Is(err, entity.ErrLedgerEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrDuplicateCoin), errors.Is(err, entity.ErrHoldingLimit):
		return http.StatusConflict
	case errors.Is(err, entity.ErrInvalidAmount),
		errors.Is(err, entity.ErrInvalidGoal),
		errors.Is(err, entity.ErrInvalidCurrency),
		errors.Is(err, entity.ErrUnknownCoin),
		errors.Is(err, entity.ErrUnknownChain):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

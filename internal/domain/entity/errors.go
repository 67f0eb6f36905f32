package entity

import "errors"

var (
	ErrHoldingNotFound     = errors.New("holding not found")
	ErrDuplicateCoin       = errors.New("coin is already tracked")
	ErrHoldingLimit        = errors.New("holding limit reached")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidCurrency     = errors.New("unsupported currency")
	ErrInvalidGoal         = errors.New("profit goal must be a positive number")
	ErrLedgerEntryNotFound = errors.New("ledger entry not found")
	ErrUnknownCoin         = errors.New("unknown coin")
	ErrUnknownChain        = errors.New("unknown chain")
)

// FetchError records a failed market data request without interrupting valuation.
type FetchError struct {
	Source  string   `json:"source"`
	CoinIDs []string `json:"coin_ids,omitempty"`
	Message string   `json:"message"`
}

func (e FetchError) Error() string {
	return e.Source + ": " + e.Message
}

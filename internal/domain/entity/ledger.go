package entity

// TradeEntry is a free-form row of the local trade ledger.
type TradeEntry struct {
	ID     string `json:"id" yaml:"id"`
	Asset  string `json:"asset" yaml:"asset"`
	Date   string `json:"date" yaml:"date"`
	Amount string `json:"amount" yaml:"amount"`
	Price  string `json:"price" yaml:"price"`
	Note   string `json:"note" yaml:"note"`
}

// LocalState is the per-user state kept on the device rather than in the holdings store.
type LocalState struct {
	Label      string       `json:"label" yaml:"label"`
	ProfitGoal float64      `json:"profit_goal" yaml:"profitGoal"`
	Ledger     []TradeEntry `json:"ledger" yaml:"ledger"`
}

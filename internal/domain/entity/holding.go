package entity

import "time"

// Holding is a committed position in one tracked coin.
type Holding struct {
	ID          string    `json:"id" yaml:"id"`
	CoinID      string    `json:"coin_id" yaml:"coinId"`
	Amount      float64   `json:"amount" yaml:"amount"`
	AvgBuyPrice float64   `json:"avg_buy_price" yaml:"avgBuyPrice"`
	CreatedAt   time.Time `json:"created_at" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updatedAt"`
}

// CoinIDs returns the coin ids of the given holdings in order, without duplicates.
func CoinIDs(holdings []Holding) []string {
	seen := make(map[string]struct{}, len(holdings))
	ids := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if _, ok := seen[h.CoinID]; ok {
			continue
		}
		seen[h.CoinID] = struct{}{}
		ids = append(ids, h.CoinID)
	}
	return ids
}

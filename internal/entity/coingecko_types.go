package entity

// CoinMarket is one row of the CoinGecko /coins/markets response.
type CoinMarket struct {
	ID                       string         `json:"id"`
	Symbol                   string         `json:"symbol"`
	Name                     string         `json:"name"`
	Image                    string         `json:"image"`
	CurrentPrice             *float64       `json:"current_price"`
	MarketCap                *float64       `json:"market_cap"`
	MarketCapRank            *int           `json:"market_cap_rank"`
	TotalVolume              *float64       `json:"total_volume"`
	PriceChangePercentage24h *float64       `json:"price_change_percentage_24h"`
	SparklineIn7d            *SparklineIn7d `json:"sparkline_in_7d"`
	LastUpdated              string         `json:"last_updated"`
}

// SparklineIn7d holds the hourly 7-day price series.
type SparklineIn7d struct {
	Price []float64 `json:"price"`
}

// CoinGeckoError is the error body returned with non-2xx statuses.
type CoinGeckoError struct {
	Error  string `json:"error"`
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}

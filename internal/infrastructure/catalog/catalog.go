package catalog

import (
	"fmt"
	"sort"
	"strings"

	"livetrack/internal/app/port"
	"livetrack/internal/domain/entity"
	"livetrack/internal/pkg/utils"
)

// Predefined coin definitions with their chart widget symbols.
var builtinCoins = []entity.CoinDefinition{ //nolint:gochecknoglobals // Global for definitions
	{ID: "bitcoin", Label: "Bitcoin", ChartSymbol: "BINANCE:BTCUSDT"},
	{ID: "ethereum", Label: "Ethereum", ChartSymbol: "BINANCE:ETHUSDT"},
	{ID: "ripple", Label: "XRP", ChartSymbol: "BINANCE:XRPUSDT"},
	{ID: "solana", Label: "Solana", ChartSymbol: "BINANCE:SOLUSDT"},
	{ID: "cardano", Label: "Cardano", ChartSymbol: "BINANCE:ADAUSDT"},
	{ID: "dogecoin", Label: "Dogecoin", ChartSymbol: "BINANCE:DOGEUSDT"},
	{ID: "polkadot", Label: "Polkadot", ChartSymbol: "BINANCE:DOTUSDT"},
	{ID: "avalanche-2", Label: "Avalanche", ChartSymbol: "BINANCE:AVAXUSDT"},
	{ID: "chainlink", Label: "Chainlink", ChartSymbol: "BINANCE:LINKUSDT"},
	{ID: "matic-network", Label: "Polygon", ChartSymbol: "BINANCE:MATICUSDT"},
	{ID: "litecoin", Label: "Litecoin", ChartSymbol: "BINANCE:LTCUSDT"},
	{ID: "uniswap", Label: "Uniswap", ChartSymbol: "BINANCE:UNIUSDT"},
}

// Predefined chain definitions, keyed by DEX Screener chain id.
var builtinChains = []entity.ChainDefinition{ //nolint:gochecknoglobals // Global for definitions
	{Identifier: "solana", Name: "Solana", NativeSymbol: "SOL", ExplorerURL: "https://solscan.io"},
	{Identifier: "ethereum", Name: "Ethereum Mainnet", NativeSymbol: "ETH", ExplorerURL: "https://etherscan.io"},
	{Identifier: "bsc", Name: "BNB Smart Chain", NativeSymbol: "BNB", ExplorerURL: "https://bscscan.com"},
	{Identifier: "base", Name: "Base Mainnet", NativeSymbol: "ETH", ExplorerURL: "https://basescan.org"},
	{Identifier: "arbitrum", Name: "Arbitrum One", NativeSymbol: "ETH", ExplorerURL: "https://arbiscan.io"},
	{Identifier: "polygon", Name: "Polygon PoS", NativeSymbol: "POL", ExplorerURL: "https://polygonscan.com"},
	{Identifier: "avalanche", Name: "Avalanche C-Chain", NativeSymbol: "AVAX", ExplorerURL: "https://snowtrace.io"},
	{Identifier: "optimism", Name: "OP Mainnet", NativeSymbol: "ETH", ExplorerURL: "https://optimistic.etherscan.io"},
	{Identifier: "blast", Name: "Blast Mainnet", NativeSymbol: "ETH", ExplorerURL: "https://blastscan.io"},
	{Identifier: "linea", Name: "Linea Mainnet", NativeSymbol: "ETH", ExplorerURL: "https://lineascan.build"},
	{Identifier: "sui", Name: "Sui", NativeSymbol: "SUI", ExplorerURL: "https://suiscan.xyz"},
	{Identifier: "ton", Name: "TON", NativeSymbol: "TON", ExplorerURL: "https://tonviewer.com"},
	{Identifier: "tron", Name: "Tron", NativeSymbol: "TRX", ExplorerURL: "https://tronscan.org"},
	{Identifier: "hyperliquid", Name: "Hyperliquid", NativeSymbol: "HYPE"},
}

// overrideFile is the JSON layout of the optional catalog override file.
type overrideFile struct {
	Coins  []entity.CoinDefinition  `json:"coins"`
	Chains []entity.ChainDefinition `json:"chains"`
}

// Catalog implements port.Catalog over the built-in definitions plus an
// optional override file. It is read-only after construction.
type Catalog struct {
	coins  map[string]entity.CoinDefinition
	chains map[string]entity.ChainDefinition
}

var _ port.Catalog = (*Catalog)(nil)

// New creates a Catalog. Entries of overridePath, when set, replace or extend
// the built-in ones. A missing or broken override file is an error.
func New(log port.Logger, overridePath string) (*Catalog, error) {
	c := &Catalog{
		coins:  make(map[string]entity.CoinDefinition, len(builtinCoins)),
		chains: make(map[string]entity.ChainDefinition, len(builtinChains)),
	}
	for _, coin := range builtinCoins {
		c.coins[coin.ID] = coin
	}
	for _, chain := range builtinChains {
		c.chains[chain.Identifier] = chain
	}

	if overridePath != "" {
		ov, err := utils.LoadJSONFile[overrideFile](overridePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog overrides: %w", err)
		}
		for _, coin := range ov.Coins {
			if coin.ID == "" {
				log.Warn("Skipping catalog coin without id", "file", overridePath)
				continue
			}
			c.coins[coin.ID] = coin
		}
		for _, chain := range ov.Chains {
			chain.Identifier = strings.ToLower(chain.Identifier)
			if chain.Identifier == "" {
				log.Warn("Skipping catalog chain without identifier", "file", overridePath)
				continue
			}
			c.chains[chain.Identifier] = chain
		}
		log.Info("Catalog overrides applied", "file", overridePath, "coins", len(ov.Coins), "chains", len(ov.Chains))
	}

	log.Info("Catalog initialized", "coins", len(c.coins), "chains", len(c.chains))
	return c, nil
}

// Coins returns all coin definitions sorted by id.
func (c *Catalog) Coins() []entity.CoinDefinition {
	out := make([]entity.CoinDefinition, 0, len(c.coins))
	for _, coin := range c.coins {
		out = append(out, coin)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Coin returns the definition of a coin id.
func (c *Catalog) Coin(id string) (entity.CoinDefinition, bool) {
	coin, ok := c.coins[id]
	return coin, ok
}

// ChartSymbol returns the chart widget symbol for a coin id. Unknown coins
// fall back to the Binance USDT pair named after the id.
func (c *Catalog) ChartSymbol(coinID string) string {
	if coin, ok := c.coins[coinID]; ok && coin.ChartSymbol != "" {
		return coin.ChartSymbol
	}
	return "BINANCE:" + strings.ToUpper(coinID) + "USDT"
}

// Chains returns all chain definitions sorted by identifier.
func (c *Catalog) Chains() []entity.ChainDefinition {
	out := make([]entity.ChainDefinition, 0, len(c.chains))
	for _, chain := range c.chains {
		out = append(out, chain)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}

// Chain returns the definition of a DEX Screener chain id.
func (c *Catalog) Chain(identifier string) (entity.ChainDefinition, bool) {
	chain, ok := c.chains[strings.ToLower(identifier)]
	return chain, ok
}

package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"livetrack/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Builtins(t *testing.T) {
	c, err := New(logger.NewNop(), "")
	require.NoError(t, err)

	assert.Len(t, c.Coins(), 12)
	assert.Equal(t, "BINANCE:BTCUSDT", c.ChartSymbol("bitcoin"))
	assert.Equal(t, "BINANCE:AVAXUSDT", c.ChartSymbol("avalanche-2"))
	assert.Equal(t, "BINANCE:PEPEUSDT", c.ChartSymbol("pepe"))

	chain, ok := c.Chain("Solana")
	require.True(t, ok)
	assert.Equal(t, "SOL", chain.NativeSymbol)

	_, ok = c.Chain("dogechain")
	assert.False(t, ok)

	chains := c.Chains()
	for i := 1; i < len(chains); i++ {
		assert.Less(t, chains[i-1].Identifier, chains[i].Identifier)
	}
}

func TestCatalog_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"coins": [{"id":"pepe","label":"Pepe","chartSymbol":"BYBIT:PEPEUSDT"},{"label":"no id"}],
		"chains": [{"identifier":"Dogechain","name":"Dogechain","nativeSymbol":"DOGE"}]
	}`), 0o600))

	c, err := New(logger.NewNop(), path)
	require.NoError(t, err)

	assert.Equal(t, "BYBIT:PEPEUSDT", c.ChartSymbol("pepe"))
	coin, ok := c.Coin("pepe")
	require.True(t, ok)
	assert.Equal(t, "Pepe", coin.Label)
	assert.Len(t, c.Coins(), 13)

	_, ok = c.Chain("dogechain")
	assert.True(t, ok)
}

func TestCatalog_BrokenOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := New(logger.NewNop(), path)
	assert.Error(t, err)

	_, err = New(logger.NewNop(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

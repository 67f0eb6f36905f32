package localstate

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"livetrack/internal/domain/entity"
	"livetrack/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_DefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yml")
	s, err := NewFileStore(path, 0, logger.NewNop())
	require.NoError(t, err)

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, float64(DefaultProfitGoal), st.ProfitGoal)
	assert.Empty(t, st.Label)
	assert.Empty(t, st.Ledger)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file is created lazily")
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	s, err := NewFileStore(path, 500, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.SetLabel("  Main bag "))
	require.NoError(t, s.SetProfitGoal(2500))
	first, err := s.AddTrade(entity.TradeEntry{Asset: "BTC", Date: "2024-01-02", Amount: "0.1", Price: "42000", Note: "dip"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	second, err := s.AddTrade(entity.TradeEntry{Asset: "ETH", Amount: "1"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteTrade(first.ID))

	reopened, err := NewFileStore(path, 500, logger.NewNop())
	require.NoError(t, err)
	st, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, "Main bag", st.Label)
	assert.Equal(t, 2500.0, st.ProfitGoal)
	require.Len(t, st.Ledger, 1)
	assert.Equal(t, second, st.Ledger[0])
}

func TestFileStore_RejectsInvalidGoal(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "state.yml"), 1000, logger.NewNop())
	require.NoError(t, err)

	for _, g := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, s.SetProfitGoal(g), entity.ErrInvalidGoal)
	}
	st, _ := s.Load()
	assert.Equal(t, 1000.0, st.ProfitGoal)
}

func TestFileStore_DeleteUnknownTrade(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "state.yml"), 1000, logger.NewNop())
	require.NoError(t, err)
	assert.ErrorIs(t, s.DeleteTrade("nope"), entity.ErrLedgerEntryNotFound)
}

func TestFileStore_LoadReturnsCopy(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "state.yml"), 1000, logger.NewNop())
	require.NoError(t, err)
	_, err = s.AddTrade(entity.TradeEntry{Asset: "SOL"})
	require.NoError(t, err)

	st, _ := s.Load()
	st.Ledger[0].Asset = "changed"
	again, _ := s.Load()
	assert.Equal(t, "SOL", again.Ledger[0].Asset)
}

func TestFileStore_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	require.NoError(t, os.WriteFile(path, []byte("label: [unterminated"), 0o600))
	_, err := NewFileStore(path, 1000, logger.NewNop())
	assert.Error(t, err)
}

func TestFileStore_InvalidGoalInFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	require.NoError(t, os.WriteFile(path, []byte("label: x\nprofitGoal: -3\n"), 0o600))
	s, err := NewFileStore(path, 750, logger.NewNop())
	require.NoError(t, err)
	st, _ := s.Load()
	assert.Equal(t, 750.0, st.ProfitGoal)
	assert.Equal(t, "x", st.Label)
}

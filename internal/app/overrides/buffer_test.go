package overrides

import (
	"testing"

	"livetrack/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_MirrorsCommittedAmounts(t *testing.T) {
	b := NewBuffer()
	b.Set("stale", "9")
	b.Reconcile([]entity.Holding{
		{ID: "h1", Amount: 2},
		{ID: "h2", Amount: 0},
		{ID: "h3", Amount: 0.125},
	})

	assert.Equal(t, map[string]string{"h1": "2", "h2": "0", "h3": "0.125"}, b.Snapshot())
}

func TestSet_KeepsRawInput(t *testing.T) {
	b := NewBuffer()
	b.Reconcile([]entity.Holding{{ID: "h1", Amount: 1}})
	b.Set("h1", "1,5abc")

	raw, ok := b.Get("h1")
	require.True(t, ok)
	assert.Equal(t, "1,5abc", raw)
}

func TestDelete(t *testing.T) {
	b := NewBuffer()
	b.Set("h1", "3")
	b.Delete("h1")
	_, ok := b.Get("h1")
	assert.False(t, ok)
}

func TestSnapshot_IsCopy(t *testing.T) {
	b := NewBuffer()
	b.Set("h1", "3")
	snap := b.Snapshot()
	snap["h1"] = "changed"
	raw, _ := b.Get("h1")
	assert.Equal(t, "3", raw)
}

func TestCommit(t *testing.T) {
	b := NewBuffer()
	b.Set("ok", "1,25")
	b.Set("zero", "0.0")
	b.Set("bad", "abc")
	b.Set("neg", "-1")
	b.Set("empty", "  ")

	v, err := b.Commit("ok")
	require.NoError(t, err)
	assert.Equal(t, 1.25, v)

	v, err = b.Commit("zero")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	for _, id := range []string{"bad", "neg", "empty", "missing"} {
		_, err := b.Commit(id)
		assert.ErrorIs(t, err, entity.ErrInvalidAmount, id)
	}
}

func TestValidateAmount(t *testing.T) {
	v, err := ValidateAmount(" 0,5 ")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	v, err = ValidateAmount("0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = ValidateAmount(".")
	assert.ErrorIs(t, err, entity.ErrInvalidAmount)
}

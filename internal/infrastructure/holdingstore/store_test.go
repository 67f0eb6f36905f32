package holdingstore

import (
	"context"
	"math"
	"testing"
	"time"

	"livetrack/internal/domain/entity"
	"livetrack/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SeedAndList(t *testing.T) {
	s := New(logger.NewNop(), 0, []entity.Holding{
		{CoinID: "bitcoin", Amount: 1, AvgBuyPrice: 20000},
		{CoinID: "bitcoin", Amount: 2},
		{CoinID: ""},
		{ID: "fixed", CoinID: "ethereum", Amount: 3},
	})

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = uuid.Parse(list[0].ID)
	assert.NoError(t, err)
	assert.Equal(t, "fixed", list[1].ID)
	assert.False(t, list[0].CreatedAt.IsZero())

	list[0].Amount = 99
	again, _ := s.List(context.Background())
	assert.Equal(t, 1.0, again[0].Amount, "List returns a copy")
}

func TestStore_AddRules(t *testing.T) {
	s := New(logger.NewNop(), 2, nil)
	ctx := context.Background()

	h, err := s.Add(ctx, "bitcoin", 25000)
	require.NoError(t, err)
	assert.Zero(t, h.Amount)
	assert.Equal(t, 25000.0, h.AvgBuyPrice)

	_, err = s.Add(ctx, "bitcoin", 1)
	assert.ErrorIs(t, err, entity.ErrDuplicateCoin)

	h2, err := s.Add(ctx, "ethereum", math.NaN())
	require.NoError(t, err)
	assert.Zero(t, h2.AvgBuyPrice)

	_, err = s.Add(ctx, "solana", 1)
	assert.ErrorIs(t, err, entity.ErrHoldingLimit)

	_, err = s.Add(ctx, "", 1)
	assert.ErrorIs(t, err, entity.ErrUnknownCoin)
}

func TestStore_UpdateAndDelete(t *testing.T) {
	s := New(logger.NewNop(), 0, nil)
	ctx := context.Background()
	h, err := s.Add(ctx, "bitcoin", 1)
	require.NoError(t, err)

	require.NoError(t, s.UpdateAmount(ctx, h.ID, 2.5))
	list, _ := s.List(ctx)
	assert.Equal(t, 2.5, list[0].Amount)

	assert.ErrorIs(t, s.UpdateAmount(ctx, h.ID, -1), entity.ErrInvalidAmount)
	assert.ErrorIs(t, s.UpdateAmount(ctx, "missing", 1), entity.ErrHoldingNotFound)

	require.NoError(t, s.Delete(ctx, h.ID))
	list, _ = s.List(ctx)
	assert.Empty(t, list)
	assert.ErrorIs(t, s.Delete(ctx, h.ID), entity.ErrHoldingNotFound)
}

func TestStore_Subscribe(t *testing.T) {
	s := New(logger.NewNop(), 0, nil)
	ch, cancel := s.Subscribe()
	defer cancel()

	_, err := s.Add(context.Background(), "bitcoin", 1)
	require.NoError(t, err)
	_, err = s.Add(context.Background(), "ethereum", 1)
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change signal")
	}
	select {
	case <-ch:
		t.Fatal("signals should coalesce")
	default:
	}

	cancel()
	_, open := <-ch
	assert.False(t, open)
}

func TestStore_CancelledContext(t *testing.T) {
	s := New(logger.NewNop(), 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

package memory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/netpay-engine/payroll"
	"github.com/warp/netpay-engine/store/memory"
)

func output(net int64) payroll.Output {
	return payroll.Output{FiscalYear: 2026, NetAnnual: decimal.NewFromInt(net)}
}

func TestCache_GetPut(t *testing.T) {
	ctx := context.Background()
	c, err := memory.New(4)
	require.NoError(t, err)

	_, err = c.Get(ctx, "a")
	assert.ErrorIs(t, err, payroll.ErrCacheMiss)
	assert.True(t, payroll.IsNotFound(err))

	require.NoError(t, c.Put(ctx, "a", output(100)))
	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, got.NetAnnual.Equal(decimal.NewFromInt(100)))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, payroll.CacheStats{Entries: 1, Hits: 1, Misses: 1}, stats)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	// GIVEN: a full two-entry cache where "a" was read last
	ctx := context.Background()
	c, err := memory.New(2)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, "a", output(1)))
	require.NoError(t, c.Put(ctx, "b", output(2)))
	_, err = c.Get(ctx, "a")
	require.NoError(t, err)

	// WHEN: a third entry arrives
	require.NoError(t, c.Put(ctx, "c", output(3)))

	// THEN: "b" is evicted
	assert.Equal(t, 2, c.Len())
	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, payroll.ErrCacheMiss)
	_, err = c.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestCache_Purge(t *testing.T) {
	ctx := context.Background()
	c, err := memory.New(0)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, "a", output(1)))

	require.NoError(t, c.Purge(ctx))

	stats, _ := c.Stats(ctx)
	assert.Equal(t, payroll.CacheStats{}, stats)
}

func TestCache_BacksMemo(t *testing.T) {
	c, err := memory.New(8)
	require.NoError(t, err)
	memo := payroll.NewMemo(c)
	in := payroll.Input{
		GrossSalary: decimal.NewFromInt(30000),
		Mensilita:   13,
		Contract:    payroll.ContractPermanent,
		FiscalYear:  2099,
	}

	// Unsupported years fail before anything is cached
	_, err = memo.Compute(context.Background(), in)
	assert.ErrorIs(t, err, payroll.ErrUnsupportedYear)
	assert.Equal(t, 0, c.Len())
}

package payroll_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/netpay-engine/payroll"
)

// mapCache is a minimal Cache with switchable failures.
type mapCache struct {
	items   map[string]payroll.Output
	gets    int
	puts    int
	failGet error
	failPut error
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]payroll.Output)}
}

func (c *mapCache) Get(_ context.Context, fp string) (payroll.Output, error) {
	c.gets++
	if c.failGet != nil {
		return payroll.Output{}, c.failGet
	}
	out, ok := c.items[fp]
	if !ok {
		return payroll.Output{}, payroll.ErrCacheMiss
	}
	return out, nil
}

func (c *mapCache) Put(_ context.Context, fp string, out payroll.Output) error {
	c.puts++
	if c.failPut != nil {
		return c.failPut
	}
	c.items[fp] = out
	return nil
}

func TestFingerprint(t *testing.T) {
	a, err := payroll.Fingerprint(baseInput("30000"))
	require.NoError(t, err)
	b, err := payroll.Fingerprint(baseInput("30000"))
	require.NoError(t, err)
	c, err := payroll.Fingerprint(baseInput("30000.01"))
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestMemo_FingerprintSalt(t *testing.T) {
	plain := payroll.NewMemo(newMapCache())
	salted := payroll.NewMemo(newMapCache(), payroll.WithFingerprintSalt("municipal:abc"))

	want, err := payroll.Fingerprint(baseInput("30000"))
	require.NoError(t, err)
	a, err := plain.Fingerprint(baseInput("30000"))
	require.NoError(t, err)
	b, err := salted.Fingerprint(baseInput("30000"))
	require.NoError(t, err)

	assert.Equal(t, want, a)
	assert.NotEqual(t, a, b)
}

func TestMemo_MissThenHit(t *testing.T) {
	// GIVEN: an empty cache
	cache := newMapCache()
	memo := payroll.NewMemo(cache)
	ctx := context.Background()

	// WHEN: computing the same input twice
	first, err := memo.Compute(ctx, baseInput("42000"))
	require.NoError(t, err)
	second, err := memo.Compute(ctx, baseInput("42000"))
	require.NoError(t, err)

	// THEN: the second call is served from the cache with the same output
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.True(t, first.Output.NetAnnual.Equal(second.Output.NetAnnual))
	assert.Equal(t, 1, cache.puts)
}

func TestMemo_EngineErrorsAreNotCached(t *testing.T) {
	cache := newMapCache()
	memo := payroll.NewMemo(cache)

	in := baseInput("30000")
	in.FiscalYear = 1999
	_, err := memo.Compute(context.Background(), in)

	assert.ErrorIs(t, err, payroll.ErrUnsupportedYear)
	assert.Equal(t, 0, cache.puts)
	assert.Empty(t, cache.items)
}

func TestMemo_CacheFailuresAreReported(t *testing.T) {
	// GIVEN: a cache whose reads and writes both fail
	cache := newMapCache()
	cache.failGet = errors.New("disk on fire")
	cache.failPut = errors.New("disk still on fire")
	memo := payroll.NewMemo(cache)

	// WHEN: computing
	res, err := memo.Compute(context.Background(), baseInput("30000"))

	// THEN: the computation succeeds and the first cache error is kept
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.EqualError(t, res.CacheErr, "disk on fire")
	assert.True(t, res.Output.NetAnnual.IsPositive())
}

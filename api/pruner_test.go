package api_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/netpay-engine/api"
	"github.com/warp/netpay-engine/payroll"
	"github.com/warp/netpay-engine/store/sqlite"
	"go.uber.org/zap"
)

func seededStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "a", payroll.Output{FiscalYear: 2026}))
	require.NoError(t, store.Put(ctx, "b", payroll.Output{FiscalYear: 2025}))
	return store
}

func TestCachePruner_RunNow(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh entries survive", func(t *testing.T) {
		store := seededStore(t)
		pruner := api.NewCachePruner(store, time.Hour, time.Minute, nil, zap.NewNop())

		run, err := pruner.RunNow(ctx)

		require.NoError(t, err)
		assert.Equal(t, "completed", run.Status)
		assert.Equal(t, int64(0), run.Removed)
		stats, _ := store.Stats(ctx)
		assert.Equal(t, int64(2), stats.Entries)
	})

	t.Run("expired entries go", func(t *testing.T) {
		// GIVEN: a negative TTL, so the cutoff is in the future
		store := seededStore(t)
		pruner := api.NewCachePruner(store, -time.Hour, time.Minute, nil, zap.NewNop())

		// WHEN: pruning
		run, err := pruner.RunNow(ctx)

		// THEN: both rows are removed and the run is recorded
		require.NoError(t, err)
		assert.Equal(t, int64(2), run.Removed)
		require.NotNil(t, run.CompletedAt)
		runs, err := store.GetPruneRuns(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, int64(2), runs[0].Removed)
	})
}

// failingStore records runs and fails every prune.
type failingStore struct {
	mu   sync.Mutex
	runs map[string]sqlite.PruneRun
}

func (s *failingStore) Prune(context.Context, time.Time) (int64, error) {
	return 0, errors.New("database is locked")
}

func (s *failingStore) SavePruneRun(_ context.Context, run sqlite.PruneRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

func TestCachePruner_RecordsFailures(t *testing.T) {
	store := &failingStore{runs: make(map[string]sqlite.PruneRun)}
	pruner := api.NewCachePruner(store, time.Hour, time.Minute, nil, nil)

	run, err := pruner.RunNow(context.Background())

	require.Error(t, err)
	assert.Equal(t, "failed", run.Status)
	assert.Equal(t, "database is locked", store.runs[run.ID].Error)
}

func TestCachePruner_StartStop(t *testing.T) {
	// GIVEN: a running pruner on a short interval
	store := seededStore(t)
	pruner := api.NewCachePruner(store, -time.Hour, 10*time.Millisecond, nil, zap.NewNop())
	require.True(t, pruner.Enabled)

	// WHEN: started
	pruner.Start()
	pruner.Start()

	// THEN: it prunes on its own and stops cleanly
	require.Eventually(t, func() bool {
		runs, err := store.GetPruneRuns(context.Background(), 10)
		return err == nil && len(runs) >= 2
	}, 2*time.Second, 10*time.Millisecond)
	pruner.Stop()
	pruner.Stop()

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Entries)
}

func TestCachePruner_Disabled(t *testing.T) {
	store := seededStore(t)
	pruner := api.NewCachePruner(store, 0, time.Minute, nil, zap.NewNop())

	assert.False(t, pruner.Enabled)
	pruner.Start()
	pruner.Stop()

	runs, err := store.GetPruneRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

/*
pruner.go - Scheduled expiry of memoized computations

PURPOSE:
  Periodically deletes cached computations older than the configured TTL
  from the sqlite memo cache, so a long-lived database does not grow
  without bound. Each run is recorded in prune_runs for audit and for the
  /cache/prune-runs endpoint.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Runs once immediately on Start
  - A failed run is recorded with its error and retried on the next tick

CONFIGURATION:
  - TTL: Age after which a computation is dropped (CACHE_TTL)
  - CheckInterval: How often to prune (PRUNE_INTERVAL)
  - Enabled: false when TTL or interval is not positive

USAGE:
  pruner := NewCachePruner(store, cfg.CacheTTL, cfg.PruneInterval, metrics, log)
  pruner.Start()
  // ... later
  pruner.Stop()

SEE ALSO:
  - store/sqlite/sqlite.go: Prune, SavePruneRun
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warp/netpay-engine/observability"
	"github.com/warp/netpay-engine/store/sqlite"
	"go.uber.org/zap"
)

// PruneStore is the part of the sqlite store the pruner needs.
type PruneStore interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
	SavePruneRun(ctx context.Context, run sqlite.PruneRun) error
}

// CachePruner expires memoized computations on a ticker.
type CachePruner struct {
	Store         PruneStore
	TTL           time.Duration
	CheckInterval time.Duration
	Enabled       bool
	Metrics       *observability.Metrics
	Log           *zap.Logger

	now    func() time.Time
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewCachePruner creates a pruner. It is disabled when ttl or interval is
// not positive.
func NewCachePruner(store PruneStore, ttl, interval time.Duration, metrics *observability.Metrics, log *zap.Logger) *CachePruner {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachePruner{
		Store:         store,
		TTL:           ttl,
		CheckInterval: interval,
		Enabled:       ttl > 0 && interval > 0,
		Metrics:       metrics,
		Log:           log,
		now:           time.Now,
	}
}

// Start begins the pruning loop.
func (p *CachePruner) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.Enabled {
		p.Log.Info("cache pruner disabled")
		return
	}
	if p.ticker != nil {
		return
	}

	p.ticker = time.NewTicker(p.CheckInterval)
	p.stop = make(chan struct{})
	p.wg.Add(1)

	go p.run(p.ticker, p.stop)

	p.Log.Info("cache pruner started",
		zap.Duration("interval", p.CheckInterval), zap.Duration("ttl", p.TTL))
}

// Stop stops the loop and waits for a running prune to finish. Stopping a
// pruner that never started is a no-op.
func (p *CachePruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ticker == nil {
		return
	}
	p.ticker.Stop()
	close(p.stop)
	p.wg.Wait()
	p.ticker = nil
	p.Log.Info("cache pruner stopped")
}

func (p *CachePruner) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer p.wg.Done()

	_, _ = p.RunNow(context.Background())

	for {
		select {
		case <-ticker.C:
			_, _ = p.RunNow(context.Background())
		case <-stop:
			return
		}
	}
}

// RunNow prunes once and records the run.
func (p *CachePruner) RunNow(ctx context.Context) (sqlite.PruneRun, error) {
	started := p.now().UTC()
	run := sqlite.PruneRun{
		ID:        uuid.NewString(),
		Cutoff:    started.Add(-p.TTL),
		Status:    "running",
		StartedAt: started,
	}
	if err := p.Store.SavePruneRun(ctx, run); err != nil {
		p.Log.Error("save prune run", zap.Error(err))
		return run, err
	}

	removed, err := p.Store.Prune(ctx, run.Cutoff)
	completed := p.now().UTC()
	run.CompletedAt = &completed
	if err != nil {
		run.Status = "failed"
		run.Error = err.Error()
		p.Log.Error("cache prune failed", zap.String("run_id", run.ID), zap.Error(err))
		observability.CaptureError(err, map[string]string{"job": "cache_prune"})
		if saveErr := p.Store.SavePruneRun(ctx, run); saveErr != nil {
			p.Log.Error("save prune run", zap.Error(saveErr))
		}
		return run, err
	}

	run.Status = "completed"
	run.Removed = removed
	p.Metrics.ObservePrune(removed)
	if err := p.Store.SavePruneRun(ctx, run); err != nil {
		p.Log.Error("save prune run", zap.Error(err))
		return run, err
	}
	if removed > 0 {
		p.Log.Info("cache pruned", zap.String("run_id", run.ID), zap.Int64("removed", removed))
	}
	return run, nil
}

// GetNextRunTime returns when the next scheduled prune will occur.
func (p *CachePruner) GetNextRunTime() time.Time {
	return p.now().Add(p.CheckInterval)
}

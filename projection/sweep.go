/*
sweep.go - Concurrent evaluation of a projection surface

PURPOSE:
  Computes the payroll result on every (RAL, metric) grid point. Points are
  independent, so they are fanned out to a bounded worker pool; each worker
  writes only its own cell, so no locking is needed on the result.

FAILURE:
  The first failing point cancels the sweep and its error is returned.
  Cancelling the caller's context does the same.

USAGE:
  e := projection.New(8)
  surface, err := e.Sweep(ctx, base, projection.RALRange(base.GrossSalary),
      projection.MetricRange(projection.WelfareMetric(base)))
*/
package projection

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/payroll"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxPoints bounds the grid size of a single sweep.
const DefaultMaxPoints = 2500

// Point is the result at one grid position.
type Point struct {
	RAL                 decimal.Decimal `json:"ral"`
	Metric              decimal.Decimal `json:"metric"`
	NetAnnual           decimal.Decimal `json:"net_annual"`
	NetMonthly          decimal.Decimal `json:"net_monthly"`
	NetMonthlyPerceived decimal.Decimal `json:"net_monthly_perceived"`
	TotalPerceived      decimal.Decimal `json:"total_perceived"`
}

// Surface is the sweep result. Points[i][j] is RALs[i] crossed with
// Metrics[j].
type Surface struct {
	RALRange    Range             `json:"ral_range"`
	MetricRange Range             `json:"metric_range"`
	RALs        []decimal.Decimal `json:"rals"`
	Metrics     []decimal.Decimal `json:"metrics"`
	Points      [][]Point         `json:"points"`
	Current     Point             `json:"current"`
}

// Engine runs sweeps. The zero value is not usable; call New.
type Engine struct {
	Compute   func(payroll.Input) (payroll.Output, error)
	Workers   int
	MaxPoints int
}

// New returns an engine backed by the payroll registry. A non-positive
// worker count means one worker per CPU.
func New(workers int) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{
		Compute:   payroll.Compute,
		Workers:   workers,
		MaxPoints: DefaultMaxPoints,
	}
}

func pointOf(ral, metric decimal.Decimal, out payroll.Output) Point {
	return Point{
		RAL:                 ral,
		Metric:              metric,
		NetAnnual:           out.NetAnnual,
		NetMonthly:          out.NetMonthly,
		NetMonthlyPerceived: out.NetMonthlyPerceived,
		TotalPerceived:      out.TotalPerceived,
	}
}

// Sweep evaluates base over the grid ralRange x metricRange.
func (e *Engine) Sweep(ctx context.Context, base payroll.Input, ralRange, metricRange Range) (Surface, error) {
	if err := ralRange.Validate(); err != nil {
		return Surface{}, fmt.Errorf("ral axis: %w", err)
	}
	if err := metricRange.Validate(); err != nil {
		return Surface{}, fmt.Errorf("metric axis: %w", err)
	}
	if e.MaxPoints > 0 {
		if n := ralRange.Count().Mul(metricRange.Count()); n.GreaterThan(decimal.NewFromInt(int64(e.MaxPoints))) {
			return Surface{}, fmt.Errorf("%w: %s > %d", ErrTooManyPoints, n, e.MaxPoints)
		}
	}
	rals, metrics := ralRange.Values(), metricRange.Values()

	current, err := e.Compute(base)
	if err != nil {
		return Surface{}, err
	}

	s := Surface{
		RALRange:    ralRange,
		MetricRange: metricRange,
		RALs:        rals,
		Metrics:     metrics,
		Points:      make([][]Point, len(rals)),
		Current:     pointOf(base.GrossSalary, WelfareMetric(base), current),
	}
	for i := range s.Points {
		s.Points[i] = make([]Point, len(metrics))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.Workers, 1))

schedule:
	for i, ral := range rals {
		for j, m := range metrics {
			if gctx.Err() != nil {
				break schedule
			}
			i, j, ral, m := i, j, ral, m
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				out, err := e.Compute(WithWelfare(base, ral, m))
				if err != nil {
					return fmt.Errorf("point ral=%s metric=%s: %w", ral, m, err)
				}
				s.Points[i][j] = pointOf(ral, m, out)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return Surface{}, err
	}
	if err := ctx.Err(); err != nil {
		return Surface{}, err
	}
	return s, nil
}

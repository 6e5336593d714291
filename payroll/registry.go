/*
registry.go - Fiscal-year calculator registration and dispatch

PURPOSE:
  Each fiscal year lives in its own package (fy2025, fy2026) and registers
  a Calculator from init(). Compute dispatches on Input.FiscalYear, so the
  engine never branches on the year outside rule tables.

HOW IT WORKS:
  1. A year package builds its RuleSet and wraps it in a Calculator
  2. It registers the calculator in init()
  3. Callers import the year packages for side effects and call Compute

USAGE:
  import (
      _ "github.com/warp/netpay-engine/fy2025"
      _ "github.com/warp/netpay-engine/fy2026"
  )

  out, err := payroll.Compute(in)
  if errors.Is(err, payroll.ErrUnsupportedYear) { ... }

SEE ALSO:
  - pipeline.go: Shared stages
  - fy2026/calculator.go: Registration example
*/
package payroll

import (
	"fmt"
	"sort"
	"sync"
)

// Calculator computes the breakdown for one fiscal year.
type Calculator interface {
	Year() int
	Rules() *RuleSet
	Compute(in Input) (Output, error)
}

// =============================================================================
// CALCULATOR REGISTRY
// =============================================================================

var (
	calculators = make(map[int]Calculator)
	registryMu  sync.RWMutex
)

// Register adds a calculator to the global registry. Call this from the
// year package's init(). A second registration for the same year replaces
// the first.
func Register(c Calculator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	calculators[c.Year()] = c
}

// Lookup finds the calculator for year.
func Lookup(year int) (Calculator, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if c, ok := calculators[year]; ok {
		return c, nil
	}
	supported := make([]int, 0, len(calculators))
	for y := range calculators {
		supported = append(supported, y)
	}
	sort.Ints(supported)
	return nil, &UnsupportedYearError{Year: year, Supported: supported}
}

// MustLookup finds the calculator for year or panics.
// Use in tests or when the year package is known to be linked.
func MustLookup(year int) Calculator {
	c, err := Lookup(year)
	if err != nil {
		panic(fmt.Sprintf("calculator not registered: %v", err))
	}
	return c
}

// Years returns the registered fiscal years in ascending order.
func Years() []int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	years := make([]int, 0, len(calculators))
	for y := range calculators {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Compute dispatches in to the calculator of its fiscal year.
func Compute(in Input) (Output, error) {
	c, err := Lookup(in.FiscalYear)
	if err != nil {
		return Output{}, err
	}
	return c.Compute(in)
}

// =============================================================================
// RULESET CALCULATOR
// =============================================================================

// RuleSetCalculator runs the shared pipeline over a fixed RuleSet.
type RuleSetCalculator struct {
	rules *RuleSet
}

// NewCalculator validates rules and wraps them in a Calculator.
func NewCalculator(rules *RuleSet) (*RuleSetCalculator, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &RuleSetCalculator{rules: rules}, nil
}

// MustCalculator is NewCalculator that panics on invalid rules. Meant for
// init() with compiled-in tables.
func MustCalculator(rules *RuleSet) *RuleSetCalculator {
	c, err := NewCalculator(rules)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *RuleSetCalculator) Year() int       { return c.rules.Year }
func (c *RuleSetCalculator) Rules() *RuleSet { return c.rules }

// Compute runs the pipeline.
func (c *RuleSetCalculator) Compute(in Input) (Output, error) {
	return Run(c.rules, in)
}

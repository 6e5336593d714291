/*
Package generic provides the domain-agnostic numeric core of the engine.

PURPOSE:
  Every figure on a payslip is money, a rate, or a ratio between the two.
  This package holds the small set of decimal helpers and the progressive
  schedule algorithm that the payroll modules are built from. It knows
  nothing about Italian tax law: rule tables and modules live in payroll/.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money is shopspring/decimal.Decimal, never float64
  - Percent: 0-100 input units normalised to [0,1]
  - Guarded arithmetic: SafeDiv, NonNegative, Prorate

DESIGN PRINCIPLES:
  1. Precision: chained percentage operations must not drift by cents
  2. Purity: helpers never mutate their arguments (decimal is immutable)
  3. Totality: no helper panics on a zero divisor

USAGE:
  rate := generic.MustDecimal("0.0919")
  contribution := base.Mul(rate)
  share := generic.Percent(decimal.NewFromInt(50)) // 0.5

SEE ALSO:
  - schedule.go: Marginal bracket schedules and per-bracket ledger
  - errors.go: Schedule validation errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CONSTANTS
// =============================================================================

var (
	// Hundred converts between 0-100 percent units and ratios.
	Hundred = decimal.NewFromInt(100)

	// MonthsPerYear is used for monthly breakdowns and month pro-rating.
	MonthsPerYear = decimal.NewFromInt(12)

	// DaysPerYear is the denominator of the worked-days coefficient.
	DaysPerYear = decimal.NewFromInt(365)
)

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// MustDecimal parses a literal decimal. It panics on malformed input and is
// meant for compile-time rule tables only.
func MustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ParseDecimalOrZero parses s, returning zero when it is malformed.
func ParseDecimalOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// GUARDED ARITHMETIC
// =============================================================================

// Percent converts a 0-100 value to a ratio.
func Percent(p decimal.Decimal) decimal.Decimal {
	return p.Div(Hundred)
}

// NonNegative floors d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// SafeDiv returns a/b, or zero when b is zero.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// Prorate scales v by num/den. A zero denominator yields zero.
func Prorate(v, num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return v.Mul(num).Div(den)
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Cents rounds to two decimals for presentation. Never use it inside a
// computation: rounding happens at the edge only.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

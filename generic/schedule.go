/*
schedule.go - Progressive marginal-bracket schedules

PURPOSE:
  Implements the one algorithm shared by IRPEF, the regional surtax and the
  bracketed municipal surtaxes: walk ascending brackets, tax
  min(remaining base, bracket width) at each bracket's rate, stop when the
  base is exhausted.

KEY CONCEPTS:
  Bracket:    An upper limit (or unbounded) and a rate
  Schedule:   Brackets ordered ascending, last one unbounded
  Assessment: Base, total tax and the per-bracket ledger

LEDGER:
  One entry per populated bracket. Downstream modules read the rate of the
  last entry (MarginalRate) to estimate the tax saved by a deductible
  contribution, so the ledger is part of the result, not a debug aid.

INVARIANTS:
  - Assessment.Tax equals the sum of ledger taxes
  - 0 <= entry.Taxed <= bracket width
  - a zero or negative base yields an empty ledger and zero tax

EXAMPLE:
  irpef := generic.Schedule{
      generic.UpTo("28000", "0.23"),
      generic.UpTo("50000", "0.33"),
      generic.Above("0.43"),
  }
  a := irpef.Apply(decimal.NewFromInt(35000))
  // a.Tax = 28000*0.23 + 7000*0.33 = 8750
  // a.MarginalRate() = 0.33

SEE ALSO:
  - payroll/irpef.go: National income tax
  - payroll/surtax.go: Regional and municipal surtaxes
*/
package generic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BRACKETS
// =============================================================================

// Bracket is one step of a marginal schedule. An invalid (null) UpTo marks
// the unbounded final bracket.
type Bracket struct {
	UpTo decimal.NullDecimal `json:"up_to"`
	Rate decimal.Decimal     `json:"rate"`
}

// UpTo builds a bounded bracket from decimal literals.
func UpTo(limit, rate string) Bracket {
	return Bracket{
		UpTo: decimal.NewNullDecimal(MustDecimal(limit)),
		Rate: MustDecimal(rate),
	}
}

// Above builds the unbounded final bracket.
func Above(rate string) Bracket {
	return Bracket{Rate: MustDecimal(rate)}
}

// Flat is a single unbounded bracket.
func Flat(rate string) Schedule {
	return Schedule{Above(rate)}
}

// Unbounded reports whether the bracket has no upper limit.
func (b Bracket) Unbounded() bool { return !b.UpTo.Valid }

// =============================================================================
// SCHEDULE
// =============================================================================

// Schedule is an ascending list of brackets ending with an unbounded one.
type Schedule []Bracket

// Validate checks ordering, rates and the unbounded sentinel.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return &ScheduleError{Index: -1, Reason: "no brackets"}
	}
	lower := decimal.Zero
	for i, b := range s {
		if b.Rate.IsNegative() {
			return &ScheduleError{Index: i, Reason: "negative rate"}
		}
		last := i == len(s)-1
		if b.Unbounded() {
			if !last {
				return &ScheduleError{Index: i, Reason: "unbounded bracket before the last position"}
			}
			continue
		}
		if last {
			return &ScheduleError{Index: i, Reason: "last bracket must be unbounded"}
		}
		if !b.UpTo.Decimal.GreaterThan(lower) {
			return &ScheduleError{Index: i, Reason: fmt.Sprintf("limit %s not above %s", b.UpTo.Decimal, lower)}
		}
		lower = b.UpTo.Decimal
	}
	return nil
}

// LedgerEntry records the tax levied inside one bracket. Bracket is 1-based.
type LedgerEntry struct {
	Bracket int             `json:"bracket"`
	Taxed   decimal.Decimal `json:"taxed"`
	Rate    decimal.Decimal `json:"rate"`
	Tax     decimal.Decimal `json:"tax"`
}

// Assessment is the result of applying a schedule to a base.
type Assessment struct {
	Base   decimal.Decimal `json:"base"`
	Tax    decimal.Decimal `json:"tax"`
	Ledger []LedgerEntry   `json:"ledger"`
}

// Apply runs the marginal algorithm over base.
func (s Schedule) Apply(base decimal.Decimal) Assessment {
	a := Assessment{Base: base, Tax: decimal.Zero, Ledger: []LedgerEntry{}}
	remaining := base
	lower := decimal.Zero

	for i, b := range s {
		if !remaining.IsPositive() {
			break
		}
		taxed := remaining
		if !b.Unbounded() {
			taxed = decimal.Min(remaining, b.UpTo.Decimal.Sub(lower))
			lower = b.UpTo.Decimal
		}
		if !taxed.IsPositive() {
			continue
		}
		tax := taxed.Mul(b.Rate)
		a.Ledger = append(a.Ledger, LedgerEntry{
			Bracket: i + 1,
			Taxed:   taxed,
			Rate:    b.Rate,
			Tax:     tax,
		})
		a.Tax = a.Tax.Add(tax)
		remaining = remaining.Sub(taxed)
	}
	return a
}

// MarginalRate is the rate of the last populated bracket, zero when none.
func (a Assessment) MarginalRate() decimal.Decimal {
	if len(a.Ledger) == 0 {
		return decimal.Zero
	}
	return a.Ledger[len(a.Ledger)-1].Rate
}

// AverageRate is Tax/Base, zero for a zero base.
func (a Assessment) AverageRate() decimal.Decimal {
	return SafeDiv(a.Tax, a.Base)
}

// FirstRate returns the rate of the first bracket.
func (s Schedule) FirstRate() decimal.Decimal {
	if len(s) == 0 {
		return decimal.Zero
	}
	return s[0].Rate
}

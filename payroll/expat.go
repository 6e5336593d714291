package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// ComputeExpat computes the inbound-worker exemption on employment income.
// The eligible income is capped; the exempt share is higher with minor
// children. Nil when the year has no expat rules or the regime is off.
func ComputeExpat(rules *ExpatRules, e *ExpatRegime, employmentIncome decimal.Decimal) *ExpatDetail {
	if rules == nil || e == nil {
		return nil
	}
	pct := rules.Percent
	if e.MinorChildren {
		pct = rules.PercentMinorChildren
	}
	eligible := decimal.Min(generic.NonNegative(employmentIncome), rules.IncomeCap)

	return &ExpatDetail{
		Percent:        pct,
		EligibleIncome: eligible,
		Exempt:         eligible.Mul(pct),
		MinorChildren:  e.MinorChildren,
	}
}

func (d *ExpatDetail) exempt() decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.Exempt
}

package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// ComputeTaxWedge computes the cuneo fiscale.
//
// Up to the indemnity limit on total income the employee receives a tax-free
// indemnity: employment income times the rate of the first tier whose limit
// covers it. Up to the deduction limit the employee instead receives an
// extra IRPEF deduction, full below FullDeductionUpTo and tapering to zero
// at DeductionLimit.
func ComputeTaxWedge(rules TaxWedgeRules, totalIncome, employmentIncome decimal.Decimal) TaxWedgeDetail {
	d := TaxWedgeDetail{
		IndemnityRate: decimal.Zero,
		Indemnity:     decimal.Zero,
		Deduction:     decimal.Zero,
	}

	switch {
	case totalIncome.LessThanOrEqual(rules.IndemnityLimit):
		for _, tier := range rules.Tiers {
			if employmentIncome.LessThanOrEqual(tier.Limit) {
				d.IndemnityRate = tier.Rate
				break
			}
		}
		d.Indemnity = generic.NonNegative(employmentIncome.Mul(d.IndemnityRate))
	case totalIncome.LessThanOrEqual(rules.DeductionLimit):
		if totalIncome.LessThanOrEqual(rules.FullDeductionUpTo) {
			d.Deduction = rules.Deduction
		} else {
			width := rules.DeductionLimit.Sub(rules.FullDeductionUpTo)
			d.Deduction = generic.NonNegative(rules.Deduction.Mul(rules.DeductionLimit.Sub(totalIncome)).Div(width))
		}
	}
	return d
}

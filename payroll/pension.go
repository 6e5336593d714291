package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// ComputePensionFund computes supplementary-pension contributions against
// the deductibility cap. Contributions already deducted through other funds
// (priorDeductible) reduce the cap first. The result is nil when the year
// has no pension rules or the input has no pension fund.
func ComputePensionFund(rules *PensionFundRules, p *PensionFund, priorDeductible decimal.Decimal) *PensionFundDetail {
	if rules == nil || p == nil {
		return nil
	}
	c := ResolvePensionFund(*p)
	total := generic.Sum(c.Worker, c.Employer, c.Ebitemp, c.Voluntary)
	remaining := generic.NonNegative(rules.Cap.Sub(priorDeductible))

	return &PensionFundDetail{
		Worker:       c.Worker,
		Employer:     c.Employer,
		Ebitemp:      c.Ebitemp,
		Voluntary:    c.Voluntary,
		Total:        total,
		RemainingCap: remaining,
		Deductible:   decimal.Min(total, remaining),
		Excess:       generic.NonNegative(total.Sub(remaining)),
		TaxSavings:   decimal.Zero,
	}
}

// pensionWithSavings returns a copy with savings = deductible x rate.
func pensionWithSavings(d *PensionFundDetail, rate decimal.Decimal) *PensionFundDetail {
	if d == nil {
		return nil
	}
	cp := *d
	cp.TaxSavings = cp.Deductible.Mul(rate)
	return &cp
}

// employerShare is the part of pension contributions paid by the company,
// taxable as employment income.
func (d *PensionFundDetail) employerShare() decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.Employer.Add(d.Ebitemp)
}

// withheld is the part of pension contributions paid from net pay.
func (d *PensionFundDetail) withheld() decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.Worker.Add(d.Voluntary)
}

func (d *PensionFundDetail) deductible() decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.Deductible
}

/*
funds.go - Executive contract funds

PURPOSE:
  Commerce-sector executives pay flat annual contributions to four funds.
  Only Mario Negri is deductible: it reduces the IRPEF base and consumes
  the shared supplementary-pension cap. The others are withheld from net
  pay without any tax effect.

  Tax savings depend on the marginal IRPEF rate, which is only known after
  the schedule has been applied, so the pipeline computes the amounts first
  and attaches savings afterwards (WithMarginalRate).
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// FundContributions holds one detail per enabled fund.
type FundContributions struct {
	MarioNegri *FundDetail
	Pastore    *FundDetail
	CFMT       *FundDetail
	FASDAC     *FundDetail
}

func flatFund(annual decimal.Decimal, deductible bool) *FundDetail {
	return &FundDetail{
		Annual:     annual,
		Monthly:    annual.Div(generic.MonthsPerYear),
		Deductible: deductible,
		TaxSavings: decimal.Zero,
	}
}

// ComputeExecutiveFunds returns the contributions of the enabled funds. A
// year without fund rules yields no contributions.
func ComputeExecutiveFunds(rules *FundRules, flags ExecutiveFunds) FundContributions {
	var f FundContributions
	if rules == nil {
		return f
	}
	if flags.MarioNegri {
		f.MarioNegri = flatFund(rules.MarioNegri, true)
	}
	if flags.Pastore {
		f.Pastore = flatFund(rules.Pastore, false)
	}
	if flags.CFMT {
		f.CFMT = flatFund(rules.CFMT, false)
	}
	if flags.FASDAC {
		f.FASDAC = flatFund(rules.FASDAC, false)
	}
	return f
}

func annualOf(d *FundDetail) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.Annual
}

// Deductible is the amount subtracted from the IRPEF base.
func (f FundContributions) Deductible() decimal.Decimal {
	return annualOf(f.MarioNegri)
}

// Withheld is the total withheld from net pay.
func (f FundContributions) Withheld() decimal.Decimal {
	return generic.Sum(annualOf(f.MarioNegri), annualOf(f.Pastore), annualOf(f.CFMT), annualOf(f.FASDAC))
}

// WithMarginalRate returns a copy with the tax savings of deductible funds
// set to contribution x rate.
func (f FundContributions) WithMarginalRate(rate decimal.Decimal) FundContributions {
	if f.MarioNegri != nil {
		negri := *f.MarioNegri
		negri.TaxSavings = negri.Annual.Mul(rate)
		f.MarioNegri = &negri
	}
	return f
}

package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// EmployerINPSRate selects the company-side rate. Apprentices first, then
// executives (any executive fund enabled), then CIGS.
func EmployerINPSRate(rules *EmployerCostRules, contract ContractType, cigs, executive bool) decimal.Decimal {
	switch {
	case contract == ContractApprentice:
		return rules.ApprenticeRate
	case executive && cigs:
		return rules.ExecutiveCIGSRate
	case executive:
		return rules.ExecutiveRate
	case cigs:
		return rules.CIGSRate
	default:
		return rules.BaseRate
	}
}

// EmployerCostInputs gathers the pipeline figures the employer cost needs.
type EmployerCostInputs struct {
	CappedBase      decimal.Decimal
	PensionEmployer decimal.Decimal
	FringeGross     decimal.Decimal
	TravelTotal     decimal.Decimal
	WelfareTotal    decimal.Decimal
}

// ComputeEmployerCost computes the total annual cost of the employee. Nil
// when the year has no employer-cost rules.
func ComputeEmployerCost(rules *EmployerCostRules, in Input, x EmployerCostInputs) *EmployerCostDetail {
	if rules == nil {
		return nil
	}
	flags := in.ExecutiveFunds
	rate := EmployerINPSRate(rules, in.Contract, in.CIGSEmployer, flags.Any())
	inps := x.CappedBase.Mul(rate)
	tfr := generic.SafeDiv(in.GrossSalary, rules.TFRDivisor)

	funds := decimal.Zero
	if flags.MarioNegri {
		funds = funds.Add(rules.NegriSalary.Mul(rules.NegriRate))
	}
	if flags.Pastore {
		funds = funds.Add(rules.Pastore)
	}
	if flags.CFMT {
		funds = funds.Add(rules.CFMT)
	}
	if flags.FASDAC {
		funds = funds.Add(rules.FASDACSalary.Mul(rules.FASDACRate))
	}

	total := generic.Sum(in.GrossSalary, inps, tfr, funds, x.PensionEmployer, x.FringeGross, x.TravelTotal, x.WelfareTotal)
	return &EmployerCostDetail{
		GrossSalary: in.GrossSalary,
		INPSRate:    rate,
		INPS:        inps,
		TFR:         tfr,
		Funds:       funds,
		PensionFund: x.PensionEmployer,
		Fringe:      x.FringeGross,
		Travel:      x.TravelTotal,
		Welfare:     x.WelfareTotal,
		Total:       total,
		Monthly:     total.Div(generic.MonthsPerYear),
	}
}

/*
pipeline.go - Ordered computation stages

PURPOSE:
  Run threads one Input through every module of a RuleSet and assembles the
  Output. Each stage is a pure function of the input and earlier stages.

STAGES:
  1. Benefits        fringe, travel, welfare
  2. Contributions   contribution base, INPS, executive funds, pension fund
  3. Income          employment income, expat exemption, total income
  4. Tax             IRPEF, credits, tax wedge, integrative treatment, surtaxes
  5. Settlement      withholdings, bonuses, net pay, employer cost

CONSERVATION:
  NetAnnual is defined as TaxableBase - TotalWithholdings + TotalBonuses.
  With decimal arithmetic the identity
      TotalWithholdings + NetAnnual == TaxableBase + TotalBonuses
  holds exactly, with no tolerance.

TAXABLE BASE:
  The cash the employee is entitled to before withholdings: RAL plus the
  taxable monetary fringe benefits, taxed travel reimbursements and taxed
  welfare. The company car is in-kind: its value is taxed (it is part of the
  contribution base) but never paid out, so it is not part of TaxableBase.
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// Run computes the full breakdown for in under rules.
func Run(rules *RuleSet, in Input) (Output, error) {
	if err := in.Validate(); err != nil {
		return Output{}, err
	}
	ral := in.GrossSalary

	// Stage 1: benefits
	fringe := ComputeFringe(rules, in)
	travel := ComputeTravel(rules.Travel, in.Travel)
	welfare := ComputeWelfare(rules.Welfare, in.Welfare)

	// Stage 2: contributions
	contributionBase := generic.Sum(ral, fringe.Taxable, travel.Taxed, welfare.TotalTaxed)
	inps := ComputeINPS(rules.INPS, contributionBase, in.Contract, in.CIGSEmployer, in.Post1996())
	funds := ComputeExecutiveFunds(rules.Funds, in.ExecutiveFunds)
	pension := ComputePensionFund(rules.PensionFund, in.PensionFund, funds.Deductible())

	// Stage 3: income. The employment income uses the uncapped base.
	employmentGross := contributionBase.
		Add(pension.employerShare()).
		Sub(inps.Total).
		Sub(funds.Deductible()).
		Sub(pension.deductible())
	expat := ComputeExpat(rules.Expat, in.Expat, employmentGross)
	employmentIncome := employmentGross.Sub(expat.exempt())
	totalIncome := employmentIncome.Add(in.OtherIncome)

	// Stage 4: tax
	irpef := ComputeIRPEF(rules.IRPEF, totalIncome)
	employment := EmploymentDeduction(rules.EmploymentDeduction, totalIncome, in.WorkedDays(), in.Contract)
	family := ComputeFamilyDeductions(rules, totalIncome, in)
	wedge := ComputeTaxWedge(rules.TaxWedge, totalIncome, employmentIncome)

	preIntegrative := generic.Sum(employment.Effective, family.Total, in.OtherDeductions)
	integrative := ComputeIntegrative(rules.Integrative, totalIncome, irpef.Gross, employment.Effective, preIntegrative)
	surtaxes := ComputeSurtaxes(rules, totalIncome, in.Region, in.Municipality)

	netIRPEF := generic.NonNegative(irpef.Gross.Sub(preIntegrative))
	finalIRPEF := generic.NonNegative(netIRPEF.Sub(wedge.Deduction))

	funds = funds.WithMarginalRate(irpef.MarginalRate)
	pension = pensionWithSavings(pension, irpef.MarginalRate)

	// Stage 5: settlement
	taxableBase := generic.Sum(ral, fringe.MonetaryTaxable, travel.Taxed, welfare.TotalTaxed)
	withholdings := generic.Sum(
		inps.Total,
		finalIRPEF,
		surtaxes.Total,
		funds.Withheld(),
		pension.withheld(),
		fringe.CarContribution,
	)
	bonuses := wedge.Indemnity.Add(integrative.Amount)
	net := taxableBase.Sub(withholdings).Add(bonuses)
	monthly := net.Div(decimal.NewFromInt(int64(in.Mensilita)))

	pensionEmployer := decimal.Zero
	if pension != nil {
		pensionEmployer = pension.Employer
	}
	employerCost := ComputeEmployerCost(rules.EmployerCost, in, EmployerCostInputs{
		CappedBase:      inps.Base,
		PensionEmployer: pensionEmployer,
		FringeGross:     fringe.GrossValue,
		TravelTotal:     travel.Total,
		WelfareTotal:    welfare.TotalExempt.Add(welfare.TotalTaxed),
	})

	return Output{
		GrossSalary: ral,
		FiscalYear:  rules.Year,
		Mensilita:   in.Mensilita,
		Contract:    in.Contract,

		Fringe:         fringe,
		Travel:         travel,
		Welfare:        welfare,
		SocialSecurity: inps,

		MarioNegri:   funds.MarioNegri,
		Pastore:      funds.Pastore,
		CFMT:         funds.CFMT,
		FASDAC:       funds.FASDAC,
		PensionFund:  pension,
		Expat:        expat,
		EmployerCost: employerCost,

		IRPEF:               irpef,
		EmploymentDeduction: employment,
		FamilyDeductions:    family,
		TaxWedge:            wedge,
		Integrative:         integrative,
		Deductions: DeductionsSummary{
			Employment: employment.Effective,
			Family:     family.Total,
			TaxWedge:   wedge.Deduction,
			Other:      in.OtherDeductions,
			Total:      preIntegrative.Add(wedge.Deduction),
		},
		Surtaxes: surtaxes,

		ContributionBase:    contributionBase,
		EmploymentIncome:    employmentIncome,
		TotalIncome:         totalIncome,
		TaxableBase:         taxableBase,
		NetIRPEF:            netIRPEF,
		FinalIRPEF:          finalIRPEF,
		TotalWithholdings:   withholdings,
		TotalBonuses:        bonuses,
		NetAnnual:           net,
		NetMonthly:          monthly,
		NetMonthlyPerceived: monthly.Add(welfare.TotalExempt.Div(generic.MonthsPerYear)),
		EffectiveRate:       generic.SafeDiv(withholdings.Sub(bonuses), ral),
		TotalPerceived:      generic.Sum(net, fringe.Exempt, travel.Exempt, welfare.TotalExempt),
	}, nil
}

/*
deductions.go - Employment and family tax credits

PURPOSE:
  Credits subtracted from gross IRPEF. All of them are functions of total
  income (reddito complessivo) and decline to zero as income grows.

EMPLOYMENT CREDIT:
  income <= 15k   max(1955, contract minimum)
  income <= 28k   1910 + 1190 x (28k - income) / 13k
  income <= 50k   1910 x (50k - income) / 22k
  above           0
  +65 for 25k < income <= 35k, then x worked days / 365

FAMILY CREDITS:
  Spouse:     three income bands plus fixed surcharges in the 29k-35.2k range
  Children:   only ages 21-29 or disabled; the ceiling grows by 15k for each
              further qualifying child
  Ascendants: only cohabiting; 750 x (80k - income) / 80k

  A dependent whose own income exceeds the dependency limit gives nothing.
  Every credit is floored at zero.
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// EmploymentDeduction computes the employee credit for the worked days.
func EmploymentDeduction(rules EmploymentDeductionRules, income decimal.Decimal, days decimal.Decimal, contract ContractType) EmploymentDeductionDetail {
	var theoretical decimal.Decimal
	switch {
	case income.LessThanOrEqual(rules.FirstLimit):
		minimum := rules.MinimumPermanent
		if contract == ContractFixedTerm {
			minimum = rules.MinimumFixedTerm
		}
		theoretical = decimal.Max(rules.FirstAmount, minimum)
	case income.LessThanOrEqual(rules.SecondLimit):
		ratio := rules.SecondLimit.Sub(income).Div(rules.SecondLimit.Sub(rules.FirstLimit))
		theoretical = rules.Base.Add(rules.SecondSpread.Mul(ratio))
	case income.LessThanOrEqual(rules.ThirdLimit):
		ratio := rules.ThirdLimit.Sub(income).Div(rules.ThirdLimit.Sub(rules.SecondLimit))
		theoretical = rules.Base.Mul(ratio)
	default:
		theoretical = decimal.Zero
	}

	bonus := decimal.Zero
	if income.GreaterThan(rules.BonusFrom) && income.LessThanOrEqual(rules.BonusTo) {
		bonus = rules.Bonus
	}

	coefficient := days.Div(generic.DaysPerYear)
	return EmploymentDeductionDetail{
		Theoretical: theoretical,
		Bonus65:     bonus,
		Coefficient: coefficient,
		Effective:   theoretical.Add(bonus).Mul(coefficient),
	}
}

// SpouseDeduction computes the dependent-spouse credit. A nil spouse or a
// spouse over the dependency limit gives zero.
func SpouseDeduction(rules SpouseRules, limit decimal.Decimal, income decimal.Decimal, spouse *Spouse) decimal.Decimal {
	if spouse == nil || spouse.Income.GreaterThan(limit) {
		return decimal.Zero
	}

	var credit decimal.Decimal
	switch {
	case income.LessThanOrEqual(rules.FirstLimit):
		credit = rules.FirstBase.Sub(rules.FirstSpread.Mul(income).Div(rules.FirstLimit))
	case income.LessThanOrEqual(rules.SecondLimit):
		credit = rules.SecondAmount
		for _, s := range rules.Surcharges {
			if income.GreaterThanOrEqual(s.From) && income.LessThan(s.To) {
				credit = credit.Add(s.Amount)
				break
			}
		}
	case income.LessThanOrEqual(rules.ThirdLimit):
		width := rules.ThirdLimit.Sub(rules.SecondLimit)
		credit = rules.SecondAmount.Mul(rules.ThirdLimit.Sub(income)).Div(width)
	default:
		credit = decimal.Zero
	}
	return generic.NonNegative(credit).Mul(ChargeShare(spouse.ChargePercent))
}

// childIncomeLimit is the dependency limit for a child of the given age.
func childIncomeLimit(rules FamilyRules, age int) decimal.Decimal {
	if age <= rules.YoungMaxAge {
		return rules.YoungIncomeLimit
	}
	return rules.DependentIncomeLimit
}

// ChildrenDeduction computes the children credit and the number of children
// that qualify for it.
func ChildrenDeduction(rules FamilyRules, income decimal.Decimal, children []Child) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, c := range children {
		if c.Income.GreaterThan(childIncomeLimit(rules, c.Age)) {
			continue
		}
		if !c.Disabled && (c.Age < rules.ChildMinAge || c.Age >= rules.ChildMaxAge) {
			continue
		}
		count++
		ceiling := rules.ChildCeiling.Add(rules.ChildCeilingStep.Mul(decimal.NewFromInt(int64(count - 1))))
		if income.LessThan(ceiling) {
			ratio := ceiling.Sub(income).Div(ceiling)
			total = total.Add(rules.ChildAmount.Mul(ratio).Mul(ChargeShare(c.ChargePercent)))
		}
	}
	return total, count
}

// AscendantDeduction computes the credit for cohabiting dependent
// ascendants and how many qualify.
func AscendantDeduction(rules FamilyRules, income decimal.Decimal, ascendants []Ascendant) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, a := range ascendants {
		if !a.Cohabiting || a.Income.GreaterThan(rules.DependentIncomeLimit) {
			continue
		}
		count++
		if income.LessThan(rules.AscendantCeiling) {
			ratio := rules.AscendantCeiling.Sub(income).Div(rules.AscendantCeiling)
			total = total.Add(rules.AscendantAmount.Mul(ratio))
		}
	}
	return total, count
}

// ComputeFamilyDeductions combines spouse, children and ascendant credits.
func ComputeFamilyDeductions(rules *RuleSet, income decimal.Decimal, in Input) FamilyDeductionsDetail {
	spouse := SpouseDeduction(rules.Spouse, rules.Family.DependentIncomeLimit, income, in.Spouse)
	children, nChildren := ChildrenDeduction(rules.Family, income, in.Children)
	ascendants, nAscendants := AscendantDeduction(rules.Family, income, in.Ascendants)

	return FamilyDeductionsDetail{
		Spouse:          spouse,
		Children:        children,
		ChildrenCount:   nChildren,
		Ascendants:      ascendants,
		AscendantsCount: nAscendants,
		Total:           generic.Sum(spouse, children, ascendants),
	}
}

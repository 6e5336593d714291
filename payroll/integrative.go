package payroll

import (
	"github.com/shopspring/decimal"
)

// Reasons reported when the integrative treatment is not granted.
const (
	ReasonIncomeTooHigh      = "total income above the partial limit"
	ReasonNoTaxCapacity      = "gross IRPEF does not exceed the employment credit less the safeguard"
	ReasonNoExcessDeductions = "deductions do not exceed gross IRPEF"
)

// ComputeIntegrative computes the integrative treatment (ex bonus Renzi).
//
// Low incomes receive the full amount when gross IRPEF exceeds the
// employment credit less the safeguard. Middle incomes receive the excess of
// deductions over gross IRPEF, capped at the full amount.
func ComputeIntegrative(rules IntegrativeRules, totalIncome, grossIRPEF, employmentCredit, deductions decimal.Decimal) IntegrativeDetail {
	notGranted := func(reason string) IntegrativeDetail {
		return IntegrativeDetail{Amount: decimal.Zero, Reason: reason}
	}

	if totalIncome.GreaterThan(rules.PartialLimit) {
		return notGranted(ReasonIncomeTooHigh)
	}

	if totalIncome.LessThanOrEqual(rules.FullLimit) {
		if grossIRPEF.GreaterThan(employmentCredit.Sub(rules.Safeguard)) {
			return IntegrativeDetail{Granted: true, Full: true, Amount: rules.Amount}
		}
		return notGranted(ReasonNoTaxCapacity)
	}

	excess := deductions.Sub(grossIRPEF)
	if excess.IsPositive() {
		return IntegrativeDetail{Granted: true, Amount: decimal.Min(rules.Amount, excess)}
	}
	return notGranted(ReasonNoExcessDeductions)
}

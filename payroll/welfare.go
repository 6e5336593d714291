package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// ComputeWelfare applies the per-category caps to company welfare. Each cap
// is independent; the excess of a category becomes taxable. Transport
// passes, welfare services and other items are exempt in full.
func ComputeWelfare(rules WelfareRules, w *WelfareBenefits) WelfareDetail {
	b := ResolveWelfare(w)

	pension, pensionTaxed := capped(generic.NonNegative(b.PensionContributions), rules.PensionCap)
	health, healthTaxed := capped(generic.NonNegative(b.HealthContributions), rules.HealthCap)

	daily := rules.PaperVoucherDaily
	if b.ElectronicVouchers {
		daily = rules.ElectronicDaily
	}
	meals, mealsTaxed := capped(generic.NonNegative(b.MealVouchers), daily.Mul(rules.VoucherWorkingDays))

	other := generic.Sum(
		generic.NonNegative(b.TransportPass),
		generic.NonNegative(b.WelfareServices),
		generic.NonNegative(b.Other()),
	)

	return WelfareDetail{
		Pension:      pension,
		PensionTaxed: pensionTaxed,
		Health:       health,
		HealthTaxed:  healthTaxed,
		MealsExempt:  meals,
		MealsTaxed:   mealsTaxed,
		OtherWelfare: other,
		TotalExempt:  generic.Sum(pension, health, meals, other),
		TotalTaxed:   generic.Sum(pensionTaxed, healthTaxed, mealsTaxed),
	}
}

// capped splits v into the share within limit and the excess.
func capped(v, limit decimal.Decimal) (within, excess decimal.Decimal) {
	within = decimal.Min(v, limit)
	return within, generic.NonNegative(v.Sub(limit))
}

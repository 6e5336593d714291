package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// INPSRate selects the employee rate. Apprentices take precedence over the
// CIGS flag.
func INPSRate(rules INPSRules, contract ContractType, cigs bool) decimal.Decimal {
	switch {
	case contract == ContractApprentice:
		return rules.ApprenticeRate
	case cigs:
		return rules.CIGSRate
	default:
		return rules.BaseRate
	}
}

// ComputeINPS computes the employee social-security contribution on the
// contribution base. Workers registered after 1995 are capped at the
// ceiling. The additional 1% applies to the portion above the threshold.
func ComputeINPS(rules INPSRules, base decimal.Decimal, contract ContractType, cigs, post1996 bool) INPSDetail {
	base = generic.NonNegative(base)
	d := INPSDetail{
		Base: base,
		Rate: INPSRate(rules, contract, cigs),
	}
	if post1996 && base.GreaterThan(rules.Ceiling) {
		d.Base = rules.Ceiling
		d.Capped = true
	}

	d.Ordinary = d.Base.Mul(d.Rate)
	d.AdditionalBase = generic.NonNegative(d.Base.Sub(rules.AdditionalThreshold))
	d.Additional = d.AdditionalBase.Mul(rules.AdditionalRate)
	d.Total = d.Ordinary.Add(d.Additional)
	return d
}

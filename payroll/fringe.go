/*
fringe.go - Benefits in kind (fringe benefits and company car)

PURPOSE:
  Values the in-kind items paid to the employee and applies the exemption
  threshold. The threshold is a cliff, not a franchise: when the gross total
  exceeds it, even by one cent, the whole amount becomes taxable.

THRESHOLD SELECTION:
  1. relocated new hire, when the year defines that threshold
  2. dependent children (explicit flag OR non-empty children list)
  3. ordinary threshold

COMPANY CAR:
  value = ACI cost/km x conventional km x percentage x months/12
          - employee contribution, floored at zero
  The percentage comes from the CO2 bands when the car was assigned before
  2025 and the emission value is known, otherwise from the fuel type.

SEE ALSO:
  - pipeline.go: Taxable share enters the contribution base
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// CarBenefit values a company car.
func CarBenefit(rules CarRules, car ResolvedCar) CarDetail {
	pct := carPercent(rules, car)
	annual := car.ACICostPerKm.Mul(rules.ConventionalKm).Mul(pct)
	value := generic.Prorate(annual, car.Months, generic.MonthsPerYear).Sub(car.EmployeeContribution)

	return CarDetail{
		Value:   generic.NonNegative(value),
		Percent: pct,
		Months:  car.Months,
	}
}

func carPercent(rules CarRules, car ResolvedCar) decimal.Decimal {
	if car.LegacyCO2 != nil {
		for _, band := range rules.Legacy {
			if *car.LegacyCO2 <= band.MaxCO2 {
				return band.Percent
			}
		}
		return rules.LegacyAbove
	}
	switch car.Fuel {
	case FuelElectric:
		return rules.Electric
	case FuelPlugInHybrid:
		return rules.PlugInHybrid
	default:
		return rules.Other
	}
}

// FringeThreshold selects the exemption threshold for the input.
func FringeThreshold(rules FringeRules, in Input) decimal.Decimal {
	if in.RelocatedNewHire && rules.RelocatedThreshold.Valid {
		return rules.RelocatedThreshold.Decimal
	}
	if in.HasChildren() {
		return rules.ThresholdWithChildren
	}
	return rules.Threshold
}

// ComputeFringe values fringe benefits and applies the threshold cliff.
func ComputeFringe(rules *RuleSet, in Input) FringeDetail {
	d := FringeDetail{
		GrossValue:      decimal.Zero,
		CarContribution: decimal.Zero,
		Threshold:       FringeThreshold(rules.Fringe, in),
		Taxable:         decimal.Zero,
		Exempt:          decimal.Zero,
		MonetaryTaxable: decimal.Zero,
		CarTaxable:      decimal.Zero,
	}
	if in.Fringe == nil {
		return d
	}
	f := ResolveFringe(in.Fringe)

	carValue := decimal.Zero
	if f.Car != nil {
		car := ResolveCar(*f.Car)
		detail := CarBenefit(rules.Car, car)
		d.Car = &detail
		d.CarContribution = car.EmployeeContribution
		carValue = detail.Value
	}

	monetary := f.Monetary()
	d.GrossValue = carValue.Add(monetary)
	d.Exceeded = d.GrossValue.GreaterThan(d.Threshold)

	if d.Exceeded {
		d.Taxable = d.GrossValue
		d.MonetaryTaxable = monetary
		d.CarTaxable = carValue
	} else {
		d.Exempt = d.GrossValue
	}
	return d
}

/*
surtax.go - Regional and municipal IRPEF surtaxes

PURPOSE:
  Both surtaxes are levied on the IRPEF taxable base (total income). Each
  table is keyed by an upper-case code and always carries a DEFAULT entry,
  used for unknown codes.

EXEMPTION FLOORS:
  A floor is a cliff, not a franchise: a base at or below the floor pays
  nothing, a base one cent above pays on the whole amount.

REPORTED RATE:
  Regional: average rate (tax / base, zero for a zero base)
  Municipal: rate of the last populated bracket, or the first bracket rate
             when nothing was taxed

SEE ALSO:
  - generic/schedule.go: Marginal algorithm
  - factory/municipal.go: Loads extended municipal tables
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

func belowFloor(floor decimal.NullDecimal, base decimal.Decimal) bool {
	return floor.Valid && base.LessThanOrEqual(floor.Decimal)
}

// ComputeRegionalSurtax applies the regional schedule for code.
func ComputeRegionalSurtax(rules *RuleSet, base decimal.Decimal, code string) RegionalSurtaxDetail {
	key, table := rules.RegionalFor(code)
	d := RegionalSurtaxDetail{
		Code:        key,
		Name:        table.Name,
		Tax:         decimal.Zero,
		AverageRate: decimal.Zero,
		Ledger:      []generic.LedgerEntry{},
	}
	if belowFloor(table.Exemption, base) {
		d.ExemptionApplied = true
		return d
	}

	a := table.Schedule.Apply(base)
	d.Tax = a.Tax
	d.AverageRate = a.AverageRate()
	d.Ledger = a.Ledger
	return d
}

// ComputeMunicipalSurtax applies the municipal schedule for code.
func ComputeMunicipalSurtax(rules *RuleSet, base decimal.Decimal, code string) MunicipalSurtaxDetail {
	key, table := rules.MunicipalFor(code)
	d := MunicipalSurtaxDetail{
		Code: key,
		Tax:  decimal.Zero,
		Rate: table.Schedule.FirstRate(),
	}
	if belowFloor(table.Exemption, base) {
		d.ExemptionApplied = true
		return d
	}

	a := table.Schedule.Apply(base)
	d.Tax = a.Tax
	if len(a.Ledger) > 0 {
		d.Rate = a.MarginalRate()
	}
	return d
}

// ComputeSurtaxes computes both surtaxes on the IRPEF base.
func ComputeSurtaxes(rules *RuleSet, base decimal.Decimal, region, municipality string) SurtaxesDetail {
	regional := ComputeRegionalSurtax(rules, base, region)
	municipal := ComputeMunicipalSurtax(rules, base, municipality)
	return SurtaxesDetail{
		Regional:  regional,
		Municipal: municipal,
		Total:     regional.Tax.Add(municipal.Tax),
	}
}

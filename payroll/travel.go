package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// ComputeTravel splits business-travel reimbursements into exempt and taxed
// shares.
//
// Flat mode exempts the per-diem amounts in full. Mixed mode reduces them by
// one third when either meals or lodging are also reimbursed, two thirds
// when both are. Itemised amounts are evaluated in every mode: with
// traceable payments they are all exempt, otherwise meals and lodging become
// taxable while transport and mileage stay exempt.
func ComputeTravel(rules TravelRules, t *TravelReimbursements) TravelDetail {
	d := TravelDetail{
		FlatAmount: decimal.Zero,
		Reduction:  decimal.Zero,
		Itemized:   decimal.Zero,
		Exempt:     decimal.Zero,
		Taxed:      decimal.Zero,
		Total:      decimal.Zero,
	}
	if t == nil {
		return d
	}
	r := ResolveTravel(t)
	d.Mode = r.Mode

	perDiem := r.DaysItaly.Mul(rules.FlatItaly).Add(r.DaysAbroad.Mul(rules.FlatAbroad))
	switch r.Mode {
	case ReimbursementFlat:
		d.FlatAmount = perDiem
	case ReimbursementMixed:
		switch {
		case r.Meals.IsPositive() && r.Lodging.IsPositive():
			d.Reduction = rules.ReductionBoth
		case r.Meals.IsPositive() || r.Lodging.IsPositive():
			d.Reduction = rules.ReductionOne
		}
		d.FlatAmount = perDiem.Mul(decimal.NewFromInt(1).Sub(d.Reduction))
	}

	if r.Traceable {
		d.Itemized = generic.Sum(r.Meals, r.Lodging, r.Transport, r.Mileage)
	} else {
		d.Taxed = r.Meals.Add(r.Lodging)
		d.Itemized = r.Transport.Add(r.Mileage)
	}

	d.Exempt = d.FlatAmount.Add(d.Itemized)
	d.Total = d.Exempt.Add(d.Taxed)
	return d
}

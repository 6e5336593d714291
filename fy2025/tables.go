/*
Package fy2025 holds the rule tables of fiscal year 2025 and registers its
calculator.

SCOPE:
  2025 models the core payroll only. Executive funds, pension fund, expat
  regime and employer cost have no tables here: the related input flags are
  accepted and ignored, and the optional output details stay nil.

  The regional table covers the main regions only; other codes fall back to
  the national base rate.

USAGE:
  import _ "github.com/warp/netpay-engine/fy2025"
*/
package fy2025

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
	"github.com/warp/netpay-engine/payroll"
)

// Year is the fiscal year these tables describe.
const Year = 2025

func d(s string) decimal.Decimal { return generic.MustDecimal(s) }

func floor(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

// Rules builds the 2025 rule set. Each call returns a fresh copy.
func Rules() *payroll.RuleSet {
	regional := regionalTable()
	return &payroll.RuleSet{
		Year: Year,

		IRPEF: generic.Schedule{
			generic.UpTo("28000", "0.23"),
			generic.UpTo("50000", "0.35"),
			generic.Above("0.43"),
		},

		INPS: payroll.INPSRules{
			BaseRate:            d("0.0919"),
			CIGSRate:            d("0.0949"),
			ApprenticeRate:      d("0.0584"),
			AdditionalRate:      d("0.01"),
			AdditionalThreshold: d("55448"),
			Ceiling:             d("120607"),
		},

		Fringe: payroll.FringeRules{
			Threshold:             d("1000"),
			ThresholdWithChildren: d("2000"),
			RelocatedThreshold:    floor("5000"),
		},

		Car: payroll.CarRules{
			ConventionalKm: d("15000"),
			Electric:       d("0.1"),
			PlugInHybrid:   d("0.2"),
			Other:          d("0.5"),
			Legacy: []payroll.CO2Band{
				{MaxCO2: 60, Percent: d("0.25")},
				{MaxCO2: 160, Percent: d("0.3")},
				{MaxCO2: 190, Percent: d("0.5")},
			},
			LegacyAbove: d("0.6"),
		},

		Travel: payroll.TravelRules{
			FlatItaly:     d("46.48"),
			FlatAbroad:    d("77.47"),
			ReductionOne:  decimal.NewFromInt(1).Div(decimal.NewFromInt(3)),
			ReductionBoth: decimal.NewFromInt(2).Div(decimal.NewFromInt(3)),
		},

		Welfare: payroll.WelfareRules{
			PensionCap:         d("5164.57"),
			HealthCap:          d("3615.2"),
			PaperVoucherDaily:  d("4"),
			ElectronicDaily:    d("8"),
			VoucherWorkingDays: d("220"),
		},

		EmploymentDeduction: payroll.EmploymentDeductionRules{
			FirstLimit:       d("15000"),
			FirstAmount:      d("1955"),
			MinimumPermanent: d("690"),
			MinimumFixedTerm: d("1380"),
			SecondLimit:      d("28000"),
			Base:             d("1910"),
			SecondSpread:     d("1190"),
			ThirdLimit:       d("50000"),
			BonusFrom:        d("25000"),
			BonusTo:          d("35000"),
			Bonus:            d("65"),
		},

		Spouse: payroll.SpouseRules{
			FirstLimit:   d("15000"),
			FirstBase:    d("800"),
			FirstSpread:  d("110"),
			SecondLimit:  d("40000"),
			SecondAmount: d("690"),
			Surcharges: []payroll.Surcharge{
				{From: d("29000"), To: d("29200"), Amount: d("10")},
				{From: d("29200"), To: d("34700"), Amount: d("20")},
				{From: d("34700"), To: d("35000"), Amount: d("30")},
				{From: d("35000"), To: d("35100"), Amount: d("20")},
				{From: d("35100"), To: d("35200"), Amount: d("10")},
			},
			ThirdLimit: d("80000"),
		},

		Family: payroll.FamilyRules{
			DependentIncomeLimit: d("2840.51"),
			YoungIncomeLimit:     d("4000"),
			YoungMaxAge:          24,
			ChildMinAge:          21,
			ChildMaxAge:          30,
			ChildAmount:          d("950"),
			ChildCeiling:         d("95000"),
			ChildCeilingStep:     d("15000"),
			AscendantAmount:      d("750"),
			AscendantCeiling:     d("80000"),
		},

		TaxWedge: payroll.TaxWedgeRules{
			IndemnityLimit: d("20000"),
			Tiers: []payroll.WedgeTier{
				{Limit: d("8500"), Rate: d("0.071")},
				{Limit: d("15000"), Rate: d("0.053")},
				{Limit: d("20000"), Rate: d("0.048")},
			},
			DeductionLimit:    d("40000"),
			FullDeductionUpTo: d("32000"),
			Deduction:         d("1000"),
		},

		Integrative: payroll.IntegrativeRules{
			FullLimit:    d("15000"),
			PartialLimit: d("28000"),
			Amount:       d("1200"),
			Safeguard:    d("75"),
		},

		Regional:      regional,
		RegionAliases: payroll.AliasesFor(regional),
		Municipal:     municipalTable(),
	}
}

func regionalTable() map[string]payroll.RegionalSurtax {
	bands := func(a, b, c, e string) generic.Schedule {
		return generic.Schedule{
			generic.UpTo("15000", a),
			generic.UpTo("28000", b),
			generic.UpTo("50000", c),
			generic.Above(e),
		}
	}

	return map[string]payroll.RegionalSurtax{
		"LO": payroll.NewRegional("LO", bands("0.0123", "0.0158", "0.0172", "0.0173")),
		"LA": payroll.NewRegional("LA", generic.Schedule{
			generic.UpTo("28000", "0.0173"),
			generic.Above("0.0333"),
		}),
		"CM": payroll.NewRegional("CM", bands("0.0173", "0.0203", "0.0233", "0.0333")),
		"PI": payroll.NewRegional("PI", bands("0.0162", "0.0213", "0.027", "0.0333")),
		"VE": payroll.NewRegional("VE", bands("0.0123", "0.0193", "0.0203", "0.0223")),
		"ER": payroll.NewRegional("ER", bands("0.0133", "0.0193", "0.0203", "0.0223")),
		"TO": payroll.NewRegional("TO", bands("0.0142", "0.0177", "0.0212", "0.0233")),
		"SI": payroll.NewRegional("SI", bands("0.0123", "0.0183", "0.0203", "0.0223")),
		"PU": payroll.NewRegional("PU", bands("0.0133", "0.0183", "0.0203", "0.0233")),

		// VA falls back here, so 2025 has no regional exemption floor.
		payroll.DefaultCode: payroll.NewRegional(payroll.DefaultCode, generic.Flat("0.0123")),
	}
}

func municipalTable() map[string]payroll.MunicipalSurtax {
	flat := func(name, rate string) payroll.MunicipalSurtax {
		return payroll.MunicipalSurtax{Name: name, Schedule: generic.Flat(rate)}
	}
	withFloor := func(m payroll.MunicipalSurtax, f string) payroll.MunicipalSurtax {
		m.Exemption = floor(f)
		return m
	}

	return map[string]payroll.MunicipalSurtax{
		"ROMA":    withFloor(flat("Roma", "0.009"), "14000"),
		"MILANO":  withFloor(flat("Milano", "0.008"), "21000"),
		"NAPOLI":  flat("Napoli", "0.008"),
		"TORINO":  flat("Torino", "0.008"),
		"PALERMO": flat("Palermo", "0.008"),
		"GENOVA":  flat("Genova", "0.008"),
		"BOLOGNA": withFloor(flat("Bologna", "0.008"), "12000"),
		"FIRENZE": flat("Firenze", "0.003"),
		"BARI":    flat("Bari", "0.008"),
		"VENEZIA": flat("Venezia", "0.008"),

		payroll.DefaultCode: flat("Default", "0.008"),
	}
}

/*
Package fy2026 holds the rule tables of fiscal year 2026 and registers its
calculator.

CHANGES FROM 2025:
  - Middle IRPEF bracket reduced from 35% to 33%
  - Electronic meal-voucher exemption raised to 10 EUR/day
  - Supplementary-pension cap raised to 5,300 EUR
  - Relocated new-hire fringe threshold no longer applies
  - Regional tables cover every region, keyed by two-letter code
  - Executive funds, pension fund, expat regime and employer cost modelled

USAGE:
  import _ "github.com/warp/netpay-engine/fy2026"
*/
package fy2026

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
	"github.com/warp/netpay-engine/payroll"
)

// Year is the fiscal year these tables describe.
const Year = 2026

func d(s string) decimal.Decimal { return generic.MustDecimal(s) }

func floor(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

// Rules builds the 2026 rule set. Each call returns a fresh copy.
func Rules() *payroll.RuleSet {
	regional := regionalTable()
	return &payroll.RuleSet{
		Year: Year,

		IRPEF: generic.Schedule{
			generic.UpTo("28000", "0.23"),
			generic.UpTo("50000", "0.33"),
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
			PensionCap:         d("5300"),
			HealthCap:          d("3615.2"),
			PaperVoucherDaily:  d("4"),
			ElectronicDaily:    d("10"),
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

		Funds: &payroll.FundRules{
			MarioNegri: d("1184.49"),
			Pastore:    d("464.81"),
			CFMT:       d("166"),
			FASDAC:     d("859.08"),
		},

		PensionFund: &payroll.PensionFundRules{
			Cap: d("5300"),
		},

		Expat: &payroll.ExpatRules{
			Percent:              d("0.5"),
			PercentMinorChildren: d("0.6"),
			IncomeCap:            d("600000"),
		},

		EmployerCost: &payroll.EmployerCostRules{
			BaseRate:          d("0.2898"),
			CIGSRate:          d("0.2968"),
			ApprenticeRate:    d("0.1161"),
			ExecutiveRate:     d("0.2654"),
			ExecutiveCIGSRate: d("0.2724"),
			TFRDivisor:        d("13.5"),
			NegriRate:         d("0.1538"),
			NegriSalary:       d("59224.54"),
			Pastore:           d("4856.45"),
			CFMT:              d("276"),
			FASDACRate:        d("0.0807"),
			FASDACSalary:      d("45940"),
		},
	}
}

func regionalTable() map[string]payroll.RegionalSurtax {
	fourBands := func(a, b, c, e string) generic.Schedule {
		return generic.Schedule{
			generic.UpTo("15000", a),
			generic.UpTo("28000", b),
			generic.UpTo("50000", c),
			generic.Above(e),
		}
	}
	threeBands := func(a, b, c string) generic.Schedule {
		return generic.Schedule{
			generic.UpTo("28000", a),
			generic.UpTo("50000", b),
			generic.Above(c),
		}
	}
	autonomous := generic.Schedule{
		generic.UpTo("50000", "0.0123"),
		generic.Above("0.0173"),
	}

	t := map[string]payroll.RegionalSurtax{
		"AB": payroll.NewRegional("AB", threeBands("0.0167", "0.0287", "0.0333")),
		"BA": payroll.NewRegional("BA", generic.Flat("0.0123")),
		"CL": payroll.NewRegional("CL", generic.Flat("0.0173")),
		"CM": payroll.NewRegional("CM", fourBands("0.0173", "0.0296", "0.032", "0.0333")),
		"ER": payroll.NewRegional("ER", fourBands("0.0133", "0.0193", "0.0293", "0.0333")),
		"FV": payroll.NewRegional("FV", generic.Schedule{
			generic.UpTo("15000", "0.007"),
			generic.Above("0.0123"),
		}),
		"LA": payroll.NewRegional("LA", threeBands("0.0173", "0.0333", "0.0333")),
		"LI": payroll.NewRegional("LI", threeBands("0.0123", "0.0318", "0.0323")),
		"LO": payroll.NewRegional("LO", fourBands("0.0123", "0.0158", "0.0172", "0.0173")),
		"MA": payroll.NewRegional("MA", fourBands("0.0123", "0.0153", "0.017", "0.0173")),
		"MO": payroll.NewRegional("MO", fourBands("0.0173", "0.0193", "0.0333", "0.0333")),
		"PI": payroll.NewRegional("PI", fourBands("0.0162", "0.0268", "0.0331", "0.0333")),
		"PU": payroll.NewRegional("PU", fourBands("0.0133", "0.0143", "0.0163", "0.0185")),
		"SA": payroll.NewRegional("SA", generic.Flat("0.0123")),
		"SI": payroll.NewRegional("SI", generic.Flat("0.0123")),
		"TO": payroll.NewRegional("TO", fourBands("0.0142", "0.0143", "0.0332", "0.0333")),
		"TN": payroll.NewRegional("TN", autonomous),
		"BZ": payroll.NewRegional("BZ", autonomous),
		"UM": payroll.NewRegional("UM", threeBands("0.0123", "0.0167", "0.0183")),
		"VE": payroll.NewRegional("VE", generic.Flat("0.0123")),

		payroll.DefaultCode: payroll.NewRegional(payroll.DefaultCode, generic.Flat("0.0123")),
	}

	// Valle d'Aosta exempts IRPEF bases up to 15,000. The floor is a cliff,
	// applied the same way as the municipal ones.
	va := payroll.NewRegional("VA", generic.Flat("0.0123"))
	va.Exemption = floor("15000")
	t["VA"] = va
	return t
}

func municipalTable() map[string]payroll.MunicipalSurtax {
	flat := func(name, rate string) payroll.MunicipalSurtax {
		return payroll.MunicipalSurtax{Name: name, Schedule: generic.Flat(rate)}
	}
	withFloor := func(m payroll.MunicipalSurtax, f string) payroll.MunicipalSurtax {
		m.Exemption = floor(f)
		return m
	}

	torino := withFloor(payroll.MunicipalSurtax{
		Name: "Torino",
		Schedule: generic.Schedule{
			generic.UpTo("28000", "0.008"),
			generic.UpTo("50000", "0.011"),
			generic.Above("0.012"),
		},
	}, "11790")

	return map[string]payroll.MunicipalSurtax{
		"ROMA":    withFloor(flat("Roma", "0.009"), "14000"),
		"MILANO":  flat("Milano", "0.008"),
		"NAPOLI":  flat("Napoli", "0.009"),
		"TORINO":  torino,
		"PALERMO": flat("Palermo", "0.008"),
		"GENOVA":  flat("Genova", "0.008"),
		"BOLOGNA": flat("Bologna", "0.008"),
		"FIRENZE": withFloor(flat("Firenze", "0.003"), "25000"),
		"BARI":    flat("Bari", "0.009"),
		"VENEZIA": flat("Venezia", "0.008"),

		payroll.DefaultCode: flat("Default", "0.008"),
	}
}

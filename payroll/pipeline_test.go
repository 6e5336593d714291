package payroll_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/netpay-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func mustCompute(t *testing.T, in payroll.Input) payroll.Output {
	t.Helper()
	out, err := payroll.Compute(in)
	require.NoError(t, err)
	return out
}

func assertConservation(t *testing.T, out payroll.Output) {
	t.Helper()
	left := out.TotalWithholdings.Add(out.NetAnnual)
	right := out.TaxableBase.Add(out.TotalBonuses)
	assert.True(t, left.Equal(right), "withholdings+net=%s taxable+bonuses=%s", left, right)
}

// =============================================================================
// END-TO-END SCENARIOS
// =============================================================================

func TestCompute_PlainEmployee(t *testing.T) {
	// GIVEN: 35k permanent employee in Lombardia/Milano, no extras
	// WHEN: computing 2026
	out := mustCompute(t, baseInput("35000"))

	// THEN: every stage matches the hand computation
	assert.True(t, out.SocialSecurity.Total.Equal(dec("3216.5")))
	assert.True(t, out.EmploymentIncome.Equal(dec("31783.5")))
	assert.True(t, out.TotalIncome.Equal(dec("31783.5")))
	assert.True(t, out.IRPEF.Gross.Equal(dec("7688.555")))
	assertCents(t, "1646.52", out.EmploymentDeduction.Effective)
	assert.True(t, out.TaxWedge.Deduction.Equal(dec("1000")))
	assert.False(t, out.Integrative.Granted)
	assert.True(t, out.Surtaxes.Regional.Tax.Equal(dec("454.9762")))
	assert.True(t, out.Surtaxes.Municipal.Tax.Equal(dec("254.268")))
	assertCents(t, "5042.03", out.FinalIRPEF)
	assertCents(t, "26032.22", out.NetAnnual)
	assertCents(t, "2002.48", out.NetMonthly)
	assertConservation(t, out)
}

func TestCompute_ConservationAcrossScenarios(t *testing.T) {
	// GIVEN: a grid of salaries crossed with benefit combinations
	salaries := []string{"0", "8000", "15000", "15000.01", "20000", "28000", "32000", "40000", "55448", "80000", "120607", "200000"}
	variants := map[string]func(*payroll.Input){
		"plain": func(*payroll.Input) {},
		"family": func(in *payroll.Input) {
			in.Spouse = &payroll.Spouse{}
			in.Children = []payroll.Child{{Age: 22}, {Age: 8}}
			in.Ascendants = []payroll.Ascendant{{Cohabiting: true}}
		},
		"benefits": func(in *payroll.Input) {
			in.Fringe = &payroll.FringeBenefits{
				ShoppingVouchers: dec("800"),
				Car: &payroll.CompanyCar{
					ACICostPerKm:         dec("0.6"),
					Fuel:                 payroll.FuelPlugInHybrid,
					EmployeeContribution: dec("300"),
				},
			}
			in.Travel = &payroll.TravelReimbursements{
				Mode: payroll.ReimbursementMixed, DaysItaly: 5, Meals: dec("120"),
				Transport: dec("80"), TraceablePayments: boolp(false),
			}
			in.Welfare = &payroll.WelfareBenefits{
				PensionContributions: dec("6000"),
				MealVouchers:         dec("2400"),
				ElectronicVouchers:   true,
				WelfareServices:      dec("500"),
			}
		},
		"executive": func(in *payroll.Input) {
			in.ExecutiveFunds = payroll.ExecutiveFunds{MarioNegri: true, Pastore: true, CFMT: true, FASDAC: true}
			in.PensionFund = &payroll.PensionFund{
				WorkerPercent: dec("2"), WorkerSalary: in.GrossSalary,
				EmployerPercent: dec("4"), EmployerSalary: in.GrossSalary,
				EbitempPercent: dec("1"), EbitempSalary: in.GrossSalary,
				VoluntaryAnnual: dec("1000"),
			}
		},
		"expat and other income": func(in *payroll.Input) {
			in.Expat = &payroll.ExpatRegime{MinorChildren: true}
			in.OtherIncome = dec("5000")
			in.OtherDeductions = dec("300")
		},
	}

	for _, year := range []int{2025, 2026} {
		for name, apply := range variants {
			for _, ral := range salaries {
				in := baseInput(ral)
				in.FiscalYear = year
				apply(&in)

				// WHEN: computing
				out, err := payroll.Compute(in)

				// THEN: withholdings + net = taxable base + bonuses, exactly
				require.NoError(t, err, "%d %s %s", year, name, ral)
				assertConservation(t, out)
				assert.False(t, out.FinalIRPEF.IsNegative())
				assert.False(t, out.NetIRPEF.IsNegative())
				assert.True(t, out.FinalIRPEF.LessThanOrEqual(out.NetIRPEF))
			}
		}
	}
}

func TestCompute_MarioNegriReducesTaxBase(t *testing.T) {
	// GIVEN: an 80k executive with and without Mario Negri
	plain := baseInput("80000")
	negri := baseInput("80000")
	negri.ExecutiveFunds.MarioNegri = true

	// WHEN: computing both
	a := mustCompute(t, plain)
	b := mustCompute(t, negri)

	// THEN: the IRPEF base drops by exactly the contribution
	assert.True(t, a.IRPEF.Base.Sub(b.IRPEF.Base).Equal(dec("1184.49")))
	require.NotNil(t, b.MarioNegri)
	assert.True(t, b.MarioNegri.TaxSavings.Equal(dec("509.3307")))
	assert.Nil(t, a.MarioNegri)

	diff := a.NetAnnual.Sub(b.NetAnnual)
	assert.True(t, diff.GreaterThan(dec("600")) && diff.LessThan(dec("700")), "net difference %s", diff)
}

func TestCompute_NonDeductibleFundOnlyLowersNet(t *testing.T) {
	plain := mustCompute(t, baseInput("60000"))

	in := baseInput("60000")
	in.ExecutiveFunds.CFMT = true
	withCFMT := mustCompute(t, in)

	assert.True(t, plain.IRPEF.Base.Equal(withCFMT.IRPEF.Base))
	assert.True(t, plain.NetAnnual.Sub(withCFMT.NetAnnual).Equal(dec("166")))
}

func TestCompute_PensionFundSharesCapWithNegri(t *testing.T) {
	in := baseInput("80000")
	in.ExecutiveFunds.MarioNegri = true
	in.PensionFund = &payroll.PensionFund{
		WorkerPercent: dec("5"), WorkerSalary: dec("80000"),
		EmployerPercent: dec("4"), EmployerSalary: dec("80000"),
	}

	out := mustCompute(t, in)

	require.NotNil(t, out.PensionFund)
	assert.True(t, out.PensionFund.Total.Equal(dec("7200")))
	assert.True(t, out.PensionFund.Deductible.Equal(dec("4115.51")))
	assert.True(t, out.PensionFund.Excess.Equal(dec("3084.49")))
	assert.True(t, out.PensionFund.TaxSavings.Equal(out.PensionFund.Deductible.Mul(out.IRPEF.MarginalRate)))
}

func TestCompute_ExpatHalvesEmploymentIncome(t *testing.T) {
	plain := mustCompute(t, baseInput("100000"))

	in := baseInput("100000")
	in.Expat = &payroll.ExpatRegime{}
	out := mustCompute(t, in)

	require.NotNil(t, out.Expat)
	assert.True(t, out.EmploymentIncome.Equal(plain.EmploymentIncome.Div(decimal.NewFromInt(2))))
	assert.True(t, out.NetAnnual.GreaterThan(plain.NetAnnual))
}

func TestCompute_2025IgnoresOptionalFeatures(t *testing.T) {
	// GIVEN: 2025 input carrying every optional 2026 feature
	in := baseInput("80000")
	in.FiscalYear = 2025
	in.ExecutiveFunds = payroll.ExecutiveFunds{MarioNegri: true, CFMT: true}
	in.PensionFund = &payroll.PensionFund{WorkerPercent: dec("2"), WorkerSalary: dec("80000")}
	in.Expat = &payroll.ExpatRegime{}

	// WHEN: computing
	out := mustCompute(t, in)
	plain := baseInput("80000")
	plain.FiscalYear = 2025

	// THEN: the optional details stay nil and the result equals the plain one
	assert.Nil(t, out.MarioNegri)
	assert.Nil(t, out.CFMT)
	assert.Nil(t, out.PensionFund)
	assert.Nil(t, out.Expat)
	assert.Nil(t, out.EmployerCost)
	assert.True(t, out.NetAnnual.Equal(mustCompute(t, plain).NetAnnual))
}

func TestCompute_2026EmployerCost(t *testing.T) {
	out := mustCompute(t, baseInput("40000"))

	require.NotNil(t, out.EmployerCost)
	assert.True(t, out.EmployerCost.INPSRate.Equal(dec("0.2898")))
	assert.True(t, out.EmployerCost.INPS.Equal(dec("11592")))
	assert.True(t, out.EmployerCost.Total.GreaterThan(out.GrossSalary))
}

func TestCompute_YearsDiffer(t *testing.T) {
	in := baseInput("40000")
	y26 := mustCompute(t, in)
	in.FiscalYear = 2025
	y25 := mustCompute(t, in)

	assert.Equal(t, 2025, y25.FiscalYear)
	assert.Equal(t, 2026, y26.FiscalYear)
	assert.True(t, y26.NetAnnual.GreaterThan(y25.NetAnnual))
}

func TestCompute_LowIncomeGetsBonuses(t *testing.T) {
	// GIVEN: a 14k employee (total income under the 15k integrative limit)
	out := mustCompute(t, baseInput("14000"))

	// THEN: both the indemnity and the integrative treatment are paid
	assert.True(t, out.TaxWedge.Indemnity.IsPositive())
	assert.True(t, out.Integrative.Granted)
	assert.True(t, out.Integrative.Amount.Equal(dec("1200")))
	assert.True(t, out.TotalBonuses.Equal(out.TaxWedge.Indemnity.Add(dec("1200"))))
	assertConservation(t, out)
}

func TestCompute_ZeroSalary(t *testing.T) {
	out := mustCompute(t, baseInput("0"))

	assert.True(t, out.EffectiveRate.IsZero())
	assert.True(t, out.FinalIRPEF.IsZero())
	assertConservation(t, out)
}

func TestCompute_PerceivedIncludesExemptBenefits(t *testing.T) {
	in := baseInput("30000")
	in.Welfare = &payroll.WelfareBenefits{WelfareServices: dec("1200")}
	out := mustCompute(t, in)

	assert.True(t, out.NetMonthlyPerceived.Sub(out.NetMonthly).Equal(dec("100")))
	assert.True(t, out.TotalPerceived.Equal(out.NetAnnual.Add(dec("1200"))))
}

func TestCompute_CarContributionIsWithheld(t *testing.T) {
	// GIVEN: a car whose value is fully absorbed by the contribution
	in := baseInput("30000")
	in.Fringe = &payroll.FringeBenefits{Car: &payroll.CompanyCar{
		ACICostPerKm: dec("0.5"), Fuel: payroll.FuelElectric, EmployeeContribution: dec("1000"),
	}}

	out := mustCompute(t, in)
	plain := mustCompute(t, baseInput("30000"))

	// THEN: taxes are unchanged and the contribution comes out of net pay
	assert.True(t, out.TaxableBase.Equal(plain.TaxableBase))
	assert.True(t, plain.NetAnnual.Sub(out.NetAnnual).Equal(dec("1000")))
	assertConservation(t, out)
}

func TestCompute_IsDeterministic(t *testing.T) {
	in := baseInput("47500")
	in.Spouse = &payroll.Spouse{}
	in.Welfare = &payroll.WelfareBenefits{MealVouchers: dec("1500"), ElectronicVouchers: true}

	first, err := json.Marshal(mustCompute(t, in))
	require.NoError(t, err)
	second, err := json.Marshal(mustCompute(t, in))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestCompute_IRPEFMonotonicInIncome(t *testing.T) {
	prev := decimal.NewFromInt(-1)
	for ral := int64(0); ral <= 200000; ral += 2500 {
		out := mustCompute(t, baseInput(decimal.NewFromInt(ral).String()))
		assert.True(t, out.IRPEF.Gross.GreaterThanOrEqual(prev), "ral %d", ral)
		prev = out.IRPEF.Gross
	}
}

// regime identifies the piecewise-continuous segment an output lies on. The
// wedge tiers, the integrative limits, the +65 window and the surtax floors
// are cliffs where net pay may legitimately step down.
func regime(out payroll.Output) string {
	return fmt.Sprintf("wedge=%s/%t integrative=%t/%t/%s bonus=%s floors=%t/%t",
		out.TaxWedge.IndemnityRate, out.TaxWedge.Deduction.IsPositive(),
		out.Integrative.Granted, out.Integrative.Full, out.Integrative.Reason,
		out.EmploymentDeduction.Bonus65,
		out.Surtaxes.Regional.ExemptionApplied, out.Surtaxes.Municipal.ExemptionApplied)
}

func TestCompute_NetMonotonicInGrossAwayFromCliffs(t *testing.T) {
	for _, year := range []int{2025, 2026} {
		for _, place := range [][2]string{{"LO", "MILANO"}, {"DEFAULT", "DEFAULT"}} {
			t.Run(fmt.Sprintf("%d/%s", year, place[1]), func(t *testing.T) {
				// GIVEN: a plain employee swept over the salary range
				var prev payroll.Output
				compared := 0
				for ral := int64(0); ral <= 150000; ral += 250 {
					in := baseInput(decimal.NewFromInt(ral).String())
					in.FiscalYear = year
					in.Region, in.Municipality = place[0], place[1]

					// WHEN: computing the next point
					out := mustCompute(t, in)

					// THEN: inside a segment net pay never goes down
					if ral > 0 && regime(out) == regime(prev) {
						compared++
						assert.True(t, out.NetAnnual.GreaterThanOrEqual(prev.NetAnnual),
							"ral %d: net %s < %s (%s)", ral, out.NetAnnual, prev.NetAnnual, regime(out))
					}
					prev = out
				}
				assert.Greater(t, compared, 550)
			})
		}
	}
}

// =============================================================================
// ERRORS
// =============================================================================

func TestCompute_UnsupportedYear(t *testing.T) {
	in := baseInput("30000")
	in.FiscalYear = 2024

	_, err := payroll.Compute(in)

	require.Error(t, err)
	assert.True(t, errors.Is(err, payroll.ErrUnsupportedYear))
	var yerr *payroll.UnsupportedYearError
	require.True(t, errors.As(err, &yerr))
	assert.Equal(t, 2024, yerr.Year)
	assert.Equal(t, []int{2025, 2026}, yerr.Supported)
	assert.True(t, payroll.IsClientError(err))
}

func TestCompute_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*payroll.Input)
		field string
	}{
		{"negative salary", func(in *payroll.Input) { in.GrossSalary = dec("-1") }, "gross_salary"},
		{"eleven payments", func(in *payroll.Input) { in.Mensilita = 11 }, "mensilita"},
		{"sixteen payments", func(in *payroll.Input) { in.Mensilita = 16 }, "mensilita"},
		{"unknown contract", func(in *payroll.Input) { in.Contract = "freelance" }, "contract"},
		{"too many days", func(in *payroll.Input) { in.DaysWorked = intp(366) }, "days_worked"},
		{"negative car months", func(in *payroll.Input) {
			in.Fringe = &payroll.FringeBenefits{Car: &payroll.CompanyCar{ACICostPerKm: dec("0.5"), MonthsOfUse: intp(-3)}}
		}, "fringe.car.months_of_use"},
		{"car months beyond a year", func(in *payroll.Input) {
			in.Fringe = &payroll.FringeBenefits{Car: &payroll.CompanyCar{ACICostPerKm: dec("0.5"), MonthsOfUse: intp(40)}}
		}, "fringe.car.months_of_use"},
		{"spouse charge above 100", func(in *payroll.Input) {
			in.Spouse = &payroll.Spouse{ChargePercent: decp("250")}
		}, "spouse.charge_percent"},
		{"negative spouse charge", func(in *payroll.Input) {
			in.Spouse = &payroll.Spouse{ChargePercent: decp("-50")}
		}, "spouse.charge_percent"},
		{"second child charge above 100", func(in *payroll.Input) {
			in.Children = []payroll.Child{{Age: 22}, {Age: 24, ChargePercent: decp("100.5")}}
		}, "children[1].charge_percent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput("30000")
			tt.edit(&in)

			_, err := payroll.Compute(in)

			require.Error(t, err)
			assert.True(t, errors.Is(err, payroll.ErrInvalidInput))
			var ierr *payroll.InputError
			require.True(t, errors.As(err, &ierr))
			assert.Equal(t, tt.field, ierr.Field)
			assert.True(t, payroll.IsClientError(err))
		})
	}
}

func TestCompute_BoundedOptionalFieldsAcceptTheirLimits(t *testing.T) {
	for _, months := range []int{0, 12} {
		for _, charge := range []string{"0", "50", "100"} {
			in := baseInput("40000")
			in.Fringe = &payroll.FringeBenefits{Car: &payroll.CompanyCar{ACICostPerKm: dec("0.5"), MonthsOfUse: intp(months)}}
			in.Spouse = &payroll.Spouse{ChargePercent: decp(charge)}
			in.Children = []payroll.Child{{Age: 22, ChargePercent: decp(charge)}}

			out, err := payroll.Compute(in)

			require.NoError(t, err, "months %d charge %s", months, charge)
			assert.False(t, out.FamilyDeductions.Spouse.IsNegative())
			assert.False(t, out.FamilyDeductions.Children.IsNegative())
		}
	}
}

package projection_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/warp/netpay-engine/fy2025"
	_ "github.com/warp/netpay-engine/fy2026"
	"github.com/warp/netpay-engine/payroll"
	"github.com/warp/netpay-engine/projection"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rng(min, max, step string) projection.Range {
	return projection.Range{Min: d(min), Max: d(max), Step: d(step)}
}

func assertRange(t *testing.T, want, got projection.Range) {
	t.Helper()
	assert.True(t, want.Min.Equal(got.Min), "min: want %s got %s", want.Min, got.Min)
	assert.True(t, want.Max.Equal(got.Max), "max: want %s got %s", want.Max, got.Max)
	assert.True(t, want.Step.Equal(got.Step), "step: want %s got %s", want.Step, got.Step)
}

func baseInput(ral string) payroll.Input {
	return payroll.Input{
		GrossSalary:  d(ral),
		Mensilita:    13,
		Contract:     payroll.ContractPermanent,
		FiscalYear:   2026,
		Region:       "LO",
		Municipality: "MILANO",
	}
}

// =============================================================================
// RANGES
// =============================================================================

func TestRALRange(t *testing.T) {
	tests := []struct {
		name string
		ral  string
		want projection.Range
	}{
		{"no salary uses default", "0", projection.DefaultRALRange},
		{"small salary uses five-step extent", "10000", rng("5000", "15000", "1000")},
		{"mid salary", "35000", rng("24000", "46000", "2000")},
		{"lower end clamps at zero", "3000", rng("0", "10000", "1000")},
		{"high salary", "500000", rng("340000", "660000", "20000")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := projection.RALRange(d(tt.ral))
			assertRange(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Len(), 11)
		})
	}
}

func TestMetricRange(t *testing.T) {
	assertRange(t, projection.DefaultMetricRange, projection.MetricRange(decimal.Zero))
	assertRange(t, projection.DefaultMetricRange, projection.MetricRange(d("5000")))
	assertRange(t, rng("0", "10500", "500"), projection.MetricRange(d("8000")))
	assertRange(t, rng("0", "20000", "1000"), projection.MetricRange(d("15000")))
	assertRange(t, rng("0", "40000", "2000"), projection.MetricRange(d("30000")))
}

func TestRange_Values(t *testing.T) {
	vals := rng("0", "1000", "300").Values()

	require.Len(t, vals, 4)
	assert.True(t, vals[3].Equal(d("900")))
}

func TestRange_Validate(t *testing.T) {
	assert.ErrorIs(t, rng("0", "100", "0").Validate(), projection.ErrInvalidRange)
	assert.ErrorIs(t, rng("100", "0", "10").Validate(), projection.ErrInvalidRange)
	assert.ErrorIs(t, rng("-10", "0", "10").Validate(), projection.ErrInvalidRange)
	assert.NoError(t, rng("10", "10", "10").Validate())
	assert.Equal(t, 0, rng("0", "100", "0").Len())
}

func TestWelfareMetric(t *testing.T) {
	in := baseInput("30000")
	assert.True(t, projection.WelfareMetric(in).IsZero())

	in.Welfare = &payroll.WelfareBenefits{
		PensionContributions: d("9999"),
		HealthContributions:  d("100"),
		MealVouchers:         d("200"),
		TransportPass:        d("300"),
		WelfareServices:      d("400"),
		OtherMonthly:         d("10"),
		OtherAnnual:          d("5"),
	}
	assert.True(t, projection.WelfareMetric(in).Equal(d("1125")))
}

func TestWithWelfare(t *testing.T) {
	in := baseInput("30000")
	in.Welfare = &payroll.WelfareBenefits{MealVouchers: d("800")}

	placed := projection.WithWelfare(in, d("40000"), d("600"))
	require.NotNil(t, placed.Welfare)
	assert.True(t, placed.GrossSalary.Equal(d("40000")))
	assert.True(t, placed.Welfare.WelfareServices.Equal(d("600")))
	assert.True(t, placed.Welfare.MealVouchers.IsZero())

	assert.Nil(t, projection.WithWelfare(in, d("40000"), decimal.Zero).Welfare)
	assert.True(t, in.Welfare.MealVouchers.Equal(d("800")), "base must not be modified")
}

// =============================================================================
// SWEEP
// =============================================================================

func TestSweep_MatchesDirectComputation(t *testing.T) {
	// GIVEN: a 3 x 3 grid
	e := projection.New(4)
	base := baseInput("30000")

	// WHEN: sweeping
	s, err := e.Sweep(context.Background(), base, rng("20000", "40000", "10000"), rng("0", "1000", "500"))

	// THEN: every cell equals a direct computation of the same point
	require.NoError(t, err)
	require.Len(t, s.Points, 3)
	for i, row := range s.Points {
		require.Len(t, row, 3)
		for j, p := range row {
			out, err := payroll.Compute(projection.WithWelfare(base, s.RALs[i], s.Metrics[j]))
			require.NoError(t, err)
			assert.True(t, p.NetAnnual.Equal(out.NetAnnual))
			assert.True(t, p.RAL.Equal(s.RALs[i]))
		}
	}
	assert.True(t, s.Current.RAL.Equal(d("30000")))
}

func TestSweep_WelfareRaisesPerceivedNotNet(t *testing.T) {
	s, err := projection.New(2).Sweep(context.Background(), baseInput("30000"), rng("30000", "30000", "1000"), rng("0", "1200", "1200"))
	require.NoError(t, err)

	row := s.Points[0]
	assert.True(t, row[0].NetAnnual.Equal(row[1].NetAnnual))
	assert.True(t, row[1].TotalPerceived.Sub(row[0].TotalPerceived).Equal(d("1200")))
}

func TestSweep_FirstErrorAborts(t *testing.T) {
	// GIVEN: a calculator failing above 30k
	var calls atomic.Int64
	boom := errors.New("boom")
	e := projection.New(1)
	e.Compute = func(in payroll.Input) (payroll.Output, error) {
		calls.Add(1)
		if in.GrossSalary.GreaterThan(d("30000")) {
			return payroll.Output{}, boom
		}
		return payroll.Output{}, nil
	}

	// WHEN: sweeping a grid that reaches 100k
	_, err := e.Sweep(context.Background(), baseInput("25000"), rng("0", "100000", "1000"), rng("0", "1000", "100"))

	// THEN: the error surfaces and the remaining points are skipped
	assert.ErrorIs(t, err, boom)
	assert.Less(t, calls.Load(), int64(101*11))
}

func TestSweep_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := projection.New(2).Sweep(ctx, baseInput("30000"), rng("20000", "40000", "1000"), projection.DefaultMetricRange)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweep_Limits(t *testing.T) {
	e := projection.New(2)
	e.MaxPoints = 10

	_, err := e.Sweep(context.Background(), baseInput("30000"), rng("0", "100000", "1000"), projection.DefaultMetricRange)
	assert.ErrorIs(t, err, projection.ErrTooManyPoints)
	assert.True(t, projection.IsClientError(err))

	_, err = e.Sweep(context.Background(), baseInput("30000"), rng("0", "100", "0"), projection.DefaultMetricRange)
	assert.ErrorIs(t, err, projection.ErrInvalidRange)
}

func TestSweep_HugeAxesAreRejectedBeforeAllocation(t *testing.T) {
	single := rng("0", "0", "1")

	cases := []struct {
		name string
		axis projection.Range
	}{
		{"2^32 points", rng("0", "4294967295", "1")},
		{"1e30 points", rng("0", "1000000000000000000000000000000", "1")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// GIVEN: an engine without a point limit
			e := projection.New(2)
			e.MaxPoints = 0

			// WHEN: sweeping an axis whose length overflows an int
			_, errRAL := e.Sweep(context.Background(), baseInput("30000"), tc.axis, single)
			_, errMetric := e.Sweep(context.Background(), baseInput("30000"), single, tc.axis)

			// THEN: both are refused as client errors
			assert.ErrorIs(t, errRAL, projection.ErrInvalidRange)
			assert.ErrorIs(t, errMetric, projection.ErrInvalidRange)
			assert.True(t, projection.IsClientError(errRAL))
			assert.Equal(t, 0, tc.axis.Len())
			assert.True(t, tc.axis.Count().IsZero())
		})
	}
}

func TestSweep_LimitUsesExactProduct(t *testing.T) {
	// GIVEN: two axes at the per-axis cap, whose product is 10^10
	e := projection.New(2)
	e.MaxPoints = projection.MaxAxisLen
	axis := rng("0", "99999", "1")
	require.Equal(t, projection.MaxAxisLen, axis.Len())

	// WHEN: sweeping the full grid
	_, err := e.Sweep(context.Background(), baseInput("30000"), axis, axis)

	// THEN: the product is compared without wrapping
	assert.ErrorIs(t, err, projection.ErrTooManyPoints)
	assert.Contains(t, err.Error(), "10000000000")
}

func TestSweep_UnsupportedYear(t *testing.T) {
	in := baseInput("30000")
	in.FiscalYear = 2030

	_, err := projection.New(2).Sweep(context.Background(), in, rng("20000", "30000", "5000"), rng("0", "0", "1"))

	assert.ErrorIs(t, err, payroll.ErrUnsupportedYear)
}

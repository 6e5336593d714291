/*
ranges.go - Grid axes of a projection surface

PURPOSE:
  A projection sweeps the net result over two axes: the gross salary (RAL)
  and a benefit metric (welfare services). Each axis is an inclusive range
  with a fixed step.

RAL AXIS:
  step by magnitude:  <=20k 1000, <=50k 2000, <=100k 5000, <=200k 10000,
                      above 20000
  extent = max(30% of RAL, 5 steps), snapped outwards to the step
  the lower end never goes below zero and the axis has at least 10 steps

METRIC AXIS:
  values up to 5000 (or none) use the default 0..5000 step 200
  above: step by magnitude, 0..ceil(130% of value), at least 10 steps
*/
package projection

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
	"github.com/warp/netpay-engine/payroll"
)

// Range is an inclusive axis from Min to Max every Step.
type Range struct {
	Min  decimal.Decimal `json:"min"`
	Max  decimal.Decimal `json:"max"`
	Step decimal.Decimal `json:"step"`
}

var (
	// DefaultRALRange is used when the base input carries no salary.
	DefaultRALRange = Range{Min: decimal.NewFromInt(20000), Max: decimal.NewFromInt(80000), Step: decimal.NewFromInt(2000)}

	// DefaultMetricRange covers the usual welfare amounts.
	DefaultMetricRange = Range{Min: decimal.Zero, Max: decimal.NewFromInt(5000), Step: decimal.NewFromInt(200)}
)

const minSteps = 10

// MaxAxisLen bounds a single axis whatever the engine limit is.
const MaxAxisLen = 100000

// Validate rejects empty, non-advancing or oversized ranges.
func (r Range) Validate() error {
	switch {
	case !r.Step.IsPositive():
		return &RangeError{Range: r, Reason: "step must be positive"}
	case r.Min.IsNegative():
		return &RangeError{Range: r, Reason: "min must not be negative"}
	case r.Max.LessThan(r.Min):
		return &RangeError{Range: r, Reason: "max below min"}
	case r.count().GreaterThan(decimal.NewFromInt(MaxAxisLen)):
		return &RangeError{Range: r, Reason: "too many steps"}
	}
	return nil
}

// count is the exact number of values on a well-formed axis.
func (r Range) count() decimal.Decimal {
	return r.Max.Sub(r.Min).Div(r.Step).Floor().Add(decimal.NewFromInt(1))
}

// Count is the number of values on the axis as a decimal, zero when the
// range does not validate.
func (r Range) Count() decimal.Decimal {
	if r.Validate() != nil {
		return decimal.Zero
	}
	return r.count()
}

// Len is the number of values on the axis, never more than MaxAxisLen.
func (r Range) Len() int {
	return int(r.Count().IntPart())
}

// Values lists the axis values in ascending order.
func (r Range) Values() []decimal.Decimal {
	n := r.Len()
	out := make([]decimal.Decimal, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.Min.Add(r.Step.Mul(decimal.NewFromInt(int64(i)))))
	}
	return out
}

func snapDown(v, step decimal.Decimal) decimal.Decimal { return v.Div(step).Floor().Mul(step) }

func snapUp(v, step decimal.Decimal) decimal.Decimal { return v.Div(step).Ceil().Mul(step) }

func ralStep(ral decimal.Decimal) decimal.Decimal {
	switch {
	case ral.LessThanOrEqual(decimal.NewFromInt(20000)):
		return decimal.NewFromInt(1000)
	case ral.LessThanOrEqual(decimal.NewFromInt(50000)):
		return decimal.NewFromInt(2000)
	case ral.LessThanOrEqual(decimal.NewFromInt(100000)):
		return decimal.NewFromInt(5000)
	case ral.LessThanOrEqual(decimal.NewFromInt(200000)):
		return decimal.NewFromInt(10000)
	default:
		return decimal.NewFromInt(20000)
	}
}

// RALRange centres a salary axis on ral.
func RALRange(ral decimal.Decimal) Range {
	if !ral.IsPositive() {
		return DefaultRALRange
	}
	step := ralStep(ral)
	extent := decimal.Max(ral.Mul(decimal.RequireFromString("0.3")), step.Mul(decimal.NewFromInt(5)))

	r := Range{
		Min:  generic.NonNegative(snapDown(ral.Sub(extent), step)),
		Max:  snapUp(ral.Add(extent), step),
		Step: step,
	}
	if r.Max.Sub(r.Min).Div(step).LessThan(decimal.NewFromInt(minSteps)) {
		r.Max = r.Min.Add(step.Mul(decimal.NewFromInt(minSteps)))
	}
	return r
}

func metricStep(v decimal.Decimal) decimal.Decimal {
	switch {
	case v.LessThanOrEqual(decimal.NewFromInt(10000)):
		return decimal.NewFromInt(500)
	case v.LessThanOrEqual(decimal.NewFromInt(20000)):
		return decimal.NewFromInt(1000)
	default:
		return decimal.NewFromInt(2000)
	}
}

// MetricRange builds a welfare axis that covers v with some margin.
func MetricRange(v decimal.Decimal) Range {
	if v.LessThanOrEqual(DefaultMetricRange.Max) {
		return DefaultMetricRange
	}
	step := metricStep(v)
	r := Range{
		Min:  decimal.Zero,
		Max:  snapUp(v.Mul(decimal.RequireFromString("1.3")), step),
		Step: step,
	}
	if r.Max.Div(step).LessThan(decimal.NewFromInt(minSteps)) {
		r.Max = step.Mul(decimal.NewFromInt(minSteps))
	}
	return r
}

// WelfareMetric is the current position of in on the metric axis: the
// exempt-eligible benefits other than pension contributions.
func WelfareMetric(in payroll.Input) decimal.Decimal {
	w := in.Welfare
	if w == nil {
		return decimal.Zero
	}
	return generic.Sum(w.HealthContributions, w.MealVouchers, w.TransportPass, w.WelfareServices, w.Other())
}

// WithWelfare places in on the grid: the welfare block is replaced by a
// single welfare-services amount, or dropped when v is zero.
func WithWelfare(in payroll.Input, ral, v decimal.Decimal) payroll.Input {
	in.GrossSalary = ral
	if v.IsPositive() {
		in.Welfare = &payroll.WelfareBenefits{WelfareServices: v}
	} else {
		in.Welfare = nil
	}
	return in
}

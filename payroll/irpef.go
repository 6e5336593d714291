package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// ComputeIRPEF applies the national progressive schedule to total income.
func ComputeIRPEF(schedule generic.Schedule, income decimal.Decimal) IRPEFDetail {
	a := schedule.Apply(income)
	return IRPEFDetail{
		Base:         income,
		Gross:        a.Tax,
		MarginalRate: a.MarginalRate(),
		AverageRate:  a.AverageRate(),
		Ledger:       a.Ledger,
	}
}

package fy2026

import "github.com/warp/netpay-engine/payroll"

// Register the 2026 calculator with the payroll registry
func init() {
	payroll.Register(payroll.MustCalculator(Rules()))
}

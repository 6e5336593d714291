package fy2025

import "github.com/warp/netpay-engine/payroll"

// Register the 2025 calculator with the payroll registry
func init() {
	payroll.Register(payroll.MustCalculator(Rules()))
}

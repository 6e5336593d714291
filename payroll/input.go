/*
Package payroll implements the Italian net-salary computation engine.

PURPOSE:
  Converts a gross annual salary (RAL) and optional benefit, family and fund
  parameters into a complete net-salary breakdown. Behaviour is selected by
  fiscal year through a registry of per-year calculators (see registry.go);
  each calculator binds a frozen RuleSet to the shared pipeline.

KEY CONCEPTS IN THIS FILE (input.go):
  - Input: one flat record, mandatory fields plus optional sub-records
  - Resolve*: one pure "apply defaults" function per sub-record, called once
    at the start of the module that consumes it
  - Percentages arrive in 0-100 units and are normalised by the modules

DESIGN PRINCIPLES:
  1. Input and Output are values: built per call, never mutated
  2. Absent optional data is zero/false/empty, never an error
  3. Only the mandatory fields are validated (Validate)

USAGE:
  out, err := payroll.Compute(payroll.Input{
      GrossSalary:  decimal.NewFromInt(35000),
      Mensilita:    13,
      Contract:     payroll.ContractPermanent,
      FiscalYear:   2026,
      Region:       "LO",
      Municipality: "MILANO",
  })

SEE ALSO:
  - output.go: Output record and per-module details
  - pipeline.go: Ordered stages
  - rules.go: Per-year rule tables
*/
package payroll

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// =============================================================================
// ENUMS
// =============================================================================

// ContractType selects INPS rates and the employment-deduction floor.
type ContractType string

const (
	ContractPermanent  ContractType = "indeterminato"
	ContractFixedTerm  ContractType = "determinato"
	ContractApprentice ContractType = "apprendistato"
)

// Valid reports whether c is a known contract type.
func (c ContractType) Valid() bool {
	switch c {
	case ContractPermanent, ContractFixedTerm, ContractApprentice:
		return true
	}
	return false
}

// FuelType selects the company-car percentage outside the legacy CO2 regime.
type FuelType string

const (
	FuelElectric     FuelType = "elettrico"
	FuelPlugInHybrid FuelType = "ibrido_plugin"
	FuelOther        FuelType = "altro"
)

// ReimbursementMode is the travel-expense policy.
type ReimbursementMode string

const (
	ReimbursementNone     ReimbursementMode = ""
	ReimbursementFlat     ReimbursementMode = "forfettario"
	ReimbursementMixed    ReimbursementMode = "misto"
	ReimbursementItemized ReimbursementMode = "analitico"
)

// =============================================================================
// INPUT
// =============================================================================

// Input is the full request for one computation.
type Input struct {
	GrossSalary        decimal.Decimal `json:"gross_salary"`
	Mensilita          int             `json:"mensilita"`
	DaysWorked         *int            `json:"days_worked,omitempty"`
	Contract           ContractType    `json:"contract"`
	CIGSEmployer       bool            `json:"cigs_employer,omitempty"`
	RegisteredPost1996 *bool           `json:"registered_post_1996,omitempty"`
	FiscalYear         int             `json:"fiscal_year"`
	Region             string          `json:"region"`
	Municipality       string          `json:"municipality"`

	Spouse     *Spouse     `json:"spouse,omitempty"`
	Children   []Child     `json:"children,omitempty"`
	Ascendants []Ascendant `json:"ascendants,omitempty"`

	OtherIncome     decimal.Decimal `json:"other_income"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`

	Fringe               *FringeBenefits `json:"fringe,omitempty"`
	HasDependentChildren bool            `json:"has_dependent_children,omitempty"`
	RelocatedNewHire     bool            `json:"relocated_new_hire,omitempty"`

	Travel  *TravelReimbursements `json:"travel,omitempty"`
	Welfare *WelfareBenefits      `json:"welfare,omitempty"`

	ExecutiveFunds ExecutiveFunds `json:"executive_funds"`
	PensionFund    *PensionFund   `json:"pension_fund,omitempty"`
	Expat          *ExpatRegime   `json:"expat,omitempty"`
}

// Validate checks the mandatory fields and the bounded optional ones.
func (in Input) Validate() error {
	if in.GrossSalary.IsNegative() {
		return &InputError{Field: "gross_salary", Reason: "must not be negative"}
	}
	if in.Mensilita < 12 || in.Mensilita > 15 {
		return &InputError{Field: "mensilita", Reason: "must be between 12 and 15"}
	}
	if !in.Contract.Valid() {
		return &InputError{Field: "contract", Reason: "unknown contract type " + string(in.Contract)}
	}
	if in.DaysWorked != nil && (*in.DaysWorked < 0 || *in.DaysWorked > 365) {
		return &InputError{Field: "days_worked", Reason: "must be between 0 and 365"}
	}
	if in.Fringe != nil && in.Fringe.Car != nil && in.Fringe.Car.MonthsOfUse != nil {
		if m := *in.Fringe.Car.MonthsOfUse; m < 0 || m > 12 {
			return &InputError{Field: "fringe.car.months_of_use", Reason: "must be between 0 and 12"}
		}
	}
	if in.Spouse != nil && !validChargePercent(in.Spouse.ChargePercent) {
		return &InputError{Field: "spouse.charge_percent", Reason: "must be between 0 and 100"}
	}
	for i, c := range in.Children {
		if !validChargePercent(c.ChargePercent) {
			return &InputError{Field: fmt.Sprintf("children[%d].charge_percent", i), Reason: "must be between 0 and 100"}
		}
	}
	return nil
}

var hundred = decimal.NewFromInt(100)

func validChargePercent(p *decimal.Decimal) bool {
	return p == nil || (!p.IsNegative() && p.LessThanOrEqual(hundred))
}

// HasChildren is true via the explicit flag or a non-empty children list.
func (in Input) HasChildren() bool {
	return in.HasDependentChildren || len(in.Children) > 0
}

// WorkedDays defaults to a full year.
func (in Input) WorkedDays() decimal.Decimal {
	if in.DaysWorked == nil {
		return generic.DaysPerYear
	}
	return decimal.NewFromInt(int64(*in.DaysWorked))
}

// Post1996 defaults to true.
func (in Input) Post1996() bool {
	return in.RegisteredPost1996 == nil || *in.RegisteredPost1996
}

// normalizeCode upper-cases and trims a region or municipality code.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// =============================================================================
// FRINGE BENEFITS
// =============================================================================

// CompanyCar is a car assigned for mixed business/private use.
type CompanyCar struct {
	ACICostPerKm         decimal.Decimal `json:"aci_cost_per_km"`
	Fuel                 FuelType        `json:"fuel"`
	MonthsOfUse          *int            `json:"months_of_use,omitempty"`
	EmployeeContribution decimal.Decimal `json:"employee_contribution"`
	AssignedBefore2025   bool            `json:"assigned_before_2025,omitempty"`
	CO2                  *int            `json:"co2,omitempty"`
}

// ResolvedCar is CompanyCar with defaults applied.
type ResolvedCar struct {
	ACICostPerKm         decimal.Decimal
	Fuel                 FuelType
	Months               decimal.Decimal
	EmployeeContribution decimal.Decimal
	LegacyCO2            *int
}

// ResolveCar applies defaults: 12 months, legacy regime only when both the
// pre-2025 flag and the CO2 value are present.
func ResolveCar(c CompanyCar) ResolvedCar {
	r := ResolvedCar{
		ACICostPerKm:         generic.NonNegative(c.ACICostPerKm),
		Fuel:                 c.Fuel,
		Months:               generic.MonthsPerYear,
		EmployeeContribution: generic.NonNegative(c.EmployeeContribution),
	}
	if c.MonthsOfUse != nil {
		r.Months = decimal.NewFromInt(int64(*c.MonthsOfUse))
	}
	if c.AssignedBefore2025 && c.CO2 != nil {
		co2 := *c.CO2
		r.LegacyCO2 = &co2
	}
	return r
}

// FringeBenefits lists taxable-in-kind items.
type FringeBenefits struct {
	ShoppingVouchers decimal.Decimal `json:"shopping_vouchers"`
	FuelVouchers     decimal.Decimal `json:"fuel_vouchers"`
	Utilities        decimal.Decimal `json:"utilities"`
	Rent             decimal.Decimal `json:"rent"`
	MortgageInterest decimal.Decimal `json:"mortgage_interest"`
	Other            decimal.Decimal `json:"other"`
	Car              *CompanyCar     `json:"car,omitempty"`
}

// ResolveFringe returns a zero record for nil input.
func ResolveFringe(f *FringeBenefits) FringeBenefits {
	if f == nil {
		return FringeBenefits{}
	}
	return *f
}

// Monetary sums every item except the car.
func (f FringeBenefits) Monetary() decimal.Decimal {
	return generic.Sum(f.ShoppingVouchers, f.FuelVouchers, f.Utilities, f.Rent, f.MortgageInterest, f.Other)
}

// =============================================================================
// TRAVEL
// =============================================================================

// TravelReimbursements is the business-travel policy of the year.
type TravelReimbursements struct {
	Mode              ReimbursementMode `json:"mode"`
	DaysItaly         int               `json:"days_italy"`
	DaysAbroad        int               `json:"days_abroad"`
	Meals             decimal.Decimal   `json:"meals"`
	Lodging           decimal.Decimal   `json:"lodging"`
	Transport         decimal.Decimal   `json:"transport"`
	Mileage           decimal.Decimal   `json:"mileage"`
	TraceablePayments *bool             `json:"traceable_payments,omitempty"`
}

// ResolvedTravel is TravelReimbursements with defaults applied.
type ResolvedTravel struct {
	Mode       ReimbursementMode
	DaysItaly  decimal.Decimal
	DaysAbroad decimal.Decimal
	Meals      decimal.Decimal
	Lodging    decimal.Decimal
	Transport  decimal.Decimal
	Mileage    decimal.Decimal
	Traceable  bool
}

// ResolveTravel applies defaults: payments traceable unless stated otherwise.
func ResolveTravel(t *TravelReimbursements) ResolvedTravel {
	if t == nil {
		return ResolvedTravel{Traceable: true}
	}
	return ResolvedTravel{
		Mode:       t.Mode,
		DaysItaly:  decimal.NewFromInt(int64(max(t.DaysItaly, 0))),
		DaysAbroad: decimal.NewFromInt(int64(max(t.DaysAbroad, 0))),
		Meals:      generic.NonNegative(t.Meals),
		Lodging:    generic.NonNegative(t.Lodging),
		Transport:  generic.NonNegative(t.Transport),
		Mileage:    generic.NonNegative(t.Mileage),
		Traceable:  t.TraceablePayments == nil || *t.TraceablePayments,
	}
}

// =============================================================================
// WELFARE
// =============================================================================

// WelfareBenefits are items exempt up to per-category caps.
type WelfareBenefits struct {
	PensionContributions decimal.Decimal `json:"pension_contributions"`
	HealthContributions  decimal.Decimal `json:"health_contributions"`
	MealVouchers         decimal.Decimal `json:"meal_vouchers"`
	ElectronicVouchers   bool            `json:"electronic_vouchers,omitempty"`
	TransportPass        decimal.Decimal `json:"transport_pass"`
	WelfareServices      decimal.Decimal `json:"welfare_services"`
	OtherMonthly         decimal.Decimal `json:"other_monthly"`
	OtherAnnual          decimal.Decimal `json:"other_annual"`
}

// ResolveWelfare returns a zero record for nil input.
func ResolveWelfare(w *WelfareBenefits) WelfareBenefits {
	if w == nil {
		return WelfareBenefits{}
	}
	return *w
}

// Other annualises the generic "other" items.
func (w WelfareBenefits) Other() decimal.Decimal {
	return w.OtherMonthly.Mul(generic.MonthsPerYear).Add(w.OtherAnnual)
}

// =============================================================================
// DEPENDENTS
// =============================================================================

// Spouse is a dependent spouse.
type Spouse struct {
	Income        decimal.Decimal  `json:"income"`
	ChargePercent *decimal.Decimal `json:"charge_percent,omitempty"`
}

// Child is a dependent child.
type Child struct {
	Age           int              `json:"age"`
	Disabled      bool             `json:"disabled,omitempty"`
	Income        decimal.Decimal  `json:"income"`
	ChargePercent *decimal.Decimal `json:"charge_percent,omitempty"`
}

// Ascendant is a dependent parent or grandparent.
type Ascendant struct {
	Income     decimal.Decimal `json:"income"`
	Cohabiting bool            `json:"cohabiting"`
}

// ChargeShare resolves a 0-100 charge percentage (default 100) to a ratio.
func ChargeShare(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.NewFromInt(1)
	}
	return generic.Percent(*p)
}

// =============================================================================
// FUNDS AND SPECIAL REGIMES
// =============================================================================

// ExecutiveFunds are the commerce-sector executive contract funds.
type ExecutiveFunds struct {
	MarioNegri bool `json:"mario_negri,omitempty"`
	Pastore    bool `json:"pastore,omitempty"`
	CFMT       bool `json:"cfmt,omitempty"`
	FASDAC     bool `json:"fasdac,omitempty"`
}

// Any reports whether the employee is on an executive contract.
func (f ExecutiveFunds) Any() bool {
	return f.MarioNegri || f.Pastore || f.CFMT || f.FASDAC
}

// PensionFund is a supplementary pension plan. Percentages are 0-100 and
// apply to their own reference salary.
type PensionFund struct {
	WorkerPercent   decimal.Decimal `json:"worker_percent"`
	WorkerSalary    decimal.Decimal `json:"worker_salary"`
	EmployerPercent decimal.Decimal `json:"employer_percent"`
	EmployerSalary  decimal.Decimal `json:"employer_salary"`
	EbitempPercent  decimal.Decimal `json:"ebitemp_percent"`
	EbitempSalary   decimal.Decimal `json:"ebitemp_salary"`
	VoluntaryAnnual decimal.Decimal `json:"voluntary_annual"`
}

// ResolvedPensionFund holds the annual contributions of each source.
type ResolvedPensionFund struct {
	Worker    decimal.Decimal
	Employer  decimal.Decimal
	Ebitemp   decimal.Decimal
	Voluntary decimal.Decimal
}

// ResolvePensionFund turns percentages into annual amounts.
func ResolvePensionFund(p PensionFund) ResolvedPensionFund {
	return ResolvedPensionFund{
		Worker:    generic.NonNegative(p.WorkerSalary).Mul(generic.Percent(generic.NonNegative(p.WorkerPercent))),
		Employer:  generic.NonNegative(p.EmployerSalary).Mul(generic.Percent(generic.NonNegative(p.EmployerPercent))),
		Ebitemp:   generic.NonNegative(p.EbitempSalary).Mul(generic.Percent(generic.NonNegative(p.EbitempPercent))),
		Voluntary: generic.NonNegative(p.VoluntaryAnnual),
	}
}

// ExpatRegime enables the inbound-worker exemption.
type ExpatRegime struct {
	MinorChildren bool `json:"minor_children,omitempty"`
}

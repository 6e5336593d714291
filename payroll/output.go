package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// =============================================================================
// OUTPUT
// =============================================================================

// Output is the complete breakdown of one computation. Optional details are
// nil when the corresponding feature is off or not available for the year.
type Output struct {
	GrossSalary decimal.Decimal `json:"gross_salary"`
	FiscalYear  int             `json:"fiscal_year"`
	Mensilita   int             `json:"mensilita"`
	Contract    ContractType    `json:"contract"`

	Fringe         FringeDetail  `json:"fringe"`
	Travel         TravelDetail  `json:"travel"`
	Welfare        WelfareDetail `json:"welfare"`
	SocialSecurity INPSDetail    `json:"social_security"`

	MarioNegri   *FundDetail         `json:"mario_negri,omitempty"`
	Pastore      *FundDetail         `json:"pastore,omitempty"`
	CFMT         *FundDetail         `json:"cfmt,omitempty"`
	FASDAC       *FundDetail         `json:"fasdac,omitempty"`
	PensionFund  *PensionFundDetail  `json:"pension_fund,omitempty"`
	Expat        *ExpatDetail        `json:"expat,omitempty"`
	EmployerCost *EmployerCostDetail `json:"employer_cost,omitempty"`

	IRPEF               IRPEFDetail               `json:"irpef"`
	EmploymentDeduction EmploymentDeductionDetail `json:"employment_deduction"`
	FamilyDeductions    FamilyDeductionsDetail    `json:"family_deductions"`
	TaxWedge            TaxWedgeDetail            `json:"tax_wedge"`
	Integrative         IntegrativeDetail         `json:"integrative"`
	Deductions          DeductionsSummary         `json:"deductions"`
	Surtaxes            SurtaxesDetail            `json:"surtaxes"`

	ContributionBase    decimal.Decimal `json:"contribution_base"`
	EmploymentIncome    decimal.Decimal `json:"employment_income"`
	TotalIncome         decimal.Decimal `json:"total_income"`
	TaxableBase         decimal.Decimal `json:"taxable_base"`
	NetIRPEF            decimal.Decimal `json:"net_irpef"`
	FinalIRPEF          decimal.Decimal `json:"final_irpef"`
	TotalWithholdings   decimal.Decimal `json:"total_withholdings"`
	TotalBonuses        decimal.Decimal `json:"total_bonuses"`
	NetAnnual           decimal.Decimal `json:"net_annual"`
	NetMonthly          decimal.Decimal `json:"net_monthly"`
	NetMonthlyPerceived decimal.Decimal `json:"net_monthly_perceived"`
	EffectiveRate       decimal.Decimal `json:"effective_rate"`
	TotalPerceived      decimal.Decimal `json:"total_perceived"`
}

// =============================================================================
// BENEFIT DETAILS
// =============================================================================

// CarDetail is the in-kind value of a company car.
type CarDetail struct {
	Value   decimal.Decimal `json:"value"`
	Percent decimal.Decimal `json:"percent"`
	Months  decimal.Decimal `json:"months"`
}

// FringeDetail reports the threshold test. Taxable = MonetaryTaxable + CarTaxable.
type FringeDetail struct {
	GrossValue      decimal.Decimal `json:"gross_value"`
	Car             *CarDetail      `json:"car,omitempty"`
	CarContribution decimal.Decimal `json:"car_contribution"`
	Threshold       decimal.Decimal `json:"threshold"`
	Exceeded        bool            `json:"exceeded"`
	Taxable         decimal.Decimal `json:"taxable"`
	Exempt          decimal.Decimal `json:"exempt"`
	MonetaryTaxable decimal.Decimal `json:"monetary_taxable"`
	CarTaxable      decimal.Decimal `json:"car_taxable"`
}

// TravelDetail splits reimbursements into exempt and taxed shares.
type TravelDetail struct {
	Mode       ReimbursementMode `json:"mode"`
	FlatAmount decimal.Decimal   `json:"flat_amount"`
	Reduction  decimal.Decimal   `json:"reduction"`
	Itemized   decimal.Decimal   `json:"itemized"`
	Exempt     decimal.Decimal   `json:"exempt"`
	Taxed      decimal.Decimal   `json:"taxed"`
	Total      decimal.Decimal   `json:"total"`
}

// WelfareDetail reports each capped category.
type WelfareDetail struct {
	Pension      decimal.Decimal `json:"pension"`
	PensionTaxed decimal.Decimal `json:"pension_taxed"`
	Health       decimal.Decimal `json:"health"`
	HealthTaxed  decimal.Decimal `json:"health_taxed"`
	MealsExempt  decimal.Decimal `json:"meals_exempt"`
	MealsTaxed   decimal.Decimal `json:"meals_taxed"`
	OtherWelfare decimal.Decimal `json:"other_welfare"`
	TotalExempt  decimal.Decimal `json:"total_exempt"`
	TotalTaxed   decimal.Decimal `json:"total_taxed"`
}

// =============================================================================
// CONTRIBUTION DETAILS
// =============================================================================

// INPSDetail is the employee social-security contribution. Base is the
// contribution base after the ceiling.
type INPSDetail struct {
	Base           decimal.Decimal `json:"base"`
	Capped         bool            `json:"capped"`
	Rate           decimal.Decimal `json:"rate"`
	Ordinary       decimal.Decimal `json:"ordinary"`
	AdditionalBase decimal.Decimal `json:"additional_base"`
	Additional     decimal.Decimal `json:"additional"`
	Total          decimal.Decimal `json:"total"`
}

// FundDetail is a flat executive-contract fund contribution.
type FundDetail struct {
	Annual     decimal.Decimal `json:"annual"`
	Monthly    decimal.Decimal `json:"monthly"`
	Deductible bool            `json:"deductible"`
	TaxSavings decimal.Decimal `json:"tax_savings"`
}

// PensionFundDetail reports contributions against the deductibility cap.
type PensionFundDetail struct {
	Worker       decimal.Decimal `json:"worker"`
	Employer     decimal.Decimal `json:"employer"`
	Ebitemp      decimal.Decimal `json:"ebitemp"`
	Voluntary    decimal.Decimal `json:"voluntary"`
	Total        decimal.Decimal `json:"total"`
	RemainingCap decimal.Decimal `json:"remaining_cap"`
	Deductible   decimal.Decimal `json:"deductible"`
	Excess       decimal.Decimal `json:"excess"`
	TaxSavings   decimal.Decimal `json:"tax_savings"`
}

// ExpatDetail is the inbound-worker exemption.
type ExpatDetail struct {
	Percent        decimal.Decimal `json:"percent"`
	EligibleIncome decimal.Decimal `json:"eligible_income"`
	Exempt         decimal.Decimal `json:"exempt"`
	MinorChildren  bool            `json:"minor_children"`
}

// EmployerCostDetail is the total cost of the employee to the company.
type EmployerCostDetail struct {
	GrossSalary decimal.Decimal `json:"gross_salary"`
	INPSRate    decimal.Decimal `json:"inps_rate"`
	INPS        decimal.Decimal `json:"inps"`
	TFR         decimal.Decimal `json:"tfr"`
	Funds       decimal.Decimal `json:"funds"`
	PensionFund decimal.Decimal `json:"pension_fund"`
	Fringe      decimal.Decimal `json:"fringe"`
	Travel      decimal.Decimal `json:"travel"`
	Welfare     decimal.Decimal `json:"welfare"`
	Total       decimal.Decimal `json:"total"`
	Monthly     decimal.Decimal `json:"monthly"`
}

// =============================================================================
// TAX DETAILS
// =============================================================================

// IRPEFDetail is the gross national tax with its per-bracket ledger.
type IRPEFDetail struct {
	Base         decimal.Decimal       `json:"base"`
	Gross        decimal.Decimal       `json:"gross"`
	MarginalRate decimal.Decimal       `json:"marginal_rate"`
	AverageRate  decimal.Decimal       `json:"average_rate"`
	Ledger       []generic.LedgerEntry `json:"ledger"`
}

// EmploymentDeductionDetail is the employee tax credit before and after
// the worked-days coefficient.
type EmploymentDeductionDetail struct {
	Theoretical decimal.Decimal `json:"theoretical"`
	Bonus65     decimal.Decimal `json:"bonus_65"`
	Coefficient decimal.Decimal `json:"coefficient"`
	Effective   decimal.Decimal `json:"effective"`
}

// FamilyDeductionsDetail sums the dependent credits.
type FamilyDeductionsDetail struct {
	Spouse          decimal.Decimal `json:"spouse"`
	Children        decimal.Decimal `json:"children"`
	ChildrenCount   int             `json:"children_count"`
	Ascendants      decimal.Decimal `json:"ascendants"`
	AscendantsCount int             `json:"ascendants_count"`
	Total           decimal.Decimal `json:"total"`
}

// TaxWedgeDetail holds the exempt indemnity (low incomes) or the extra
// deduction (middle incomes). At most one is non-zero.
type TaxWedgeDetail struct {
	IndemnityRate decimal.Decimal `json:"indemnity_rate"`
	Indemnity     decimal.Decimal `json:"indemnity"`
	Deduction     decimal.Decimal `json:"deduction"`
}

// IntegrativeDetail is the integrative treatment. Reason explains a refusal.
type IntegrativeDetail struct {
	Granted bool            `json:"granted"`
	Full    bool            `json:"full"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason,omitempty"`
}

// DeductionsSummary lists every credit applied against gross IRPEF.
type DeductionsSummary struct {
	Employment decimal.Decimal `json:"employment"`
	Family     decimal.Decimal `json:"family"`
	TaxWedge   decimal.Decimal `json:"tax_wedge"`
	Other      decimal.Decimal `json:"other"`
	Total      decimal.Decimal `json:"total"`
}

// RegionalSurtaxDetail is the regional surtax for one region code.
type RegionalSurtaxDetail struct {
	Code             string                `json:"code"`
	Name             string                `json:"name"`
	Tax              decimal.Decimal       `json:"tax"`
	AverageRate      decimal.Decimal       `json:"average_rate"`
	ExemptionApplied bool                  `json:"exemption_applied"`
	Ledger           []generic.LedgerEntry `json:"ledger"`
}

// MunicipalSurtaxDetail is the municipal surtax for one municipality code.
type MunicipalSurtaxDetail struct {
	Code             string          `json:"code"`
	Tax              decimal.Decimal `json:"tax"`
	Rate             decimal.Decimal `json:"rate"`
	ExemptionApplied bool            `json:"exemption_applied"`
}

// SurtaxesDetail combines both surtaxes.
type SurtaxesDetail struct {
	Regional  RegionalSurtaxDetail  `json:"regional"`
	Municipal MunicipalSurtaxDetail `json:"municipal"`
	Total     decimal.Decimal       `json:"total"`
}

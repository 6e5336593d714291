/*
rules.go - Per-year rule tables

PURPOSE:
  A RuleSet is the frozen configuration of one fiscal year: IRPEF brackets,
  INPS rates, surtax tables, benefit thresholds and deduction coefficients.
  It is pure data. Modules read it, nothing writes it after construction.

KEY CONCEPTS:
  - Mandatory tables: every year carries them
  - Optional tables (Funds, PensionFund, Expat, EmployerCost): nil when the
    year does not model the feature; the related input flags are ignored
  - Surtax lookup: case-insensitive, aliases resolved, DEFAULT fallback

SEE ALSO:
  - fy2025/tables.go, fy2026/tables.go: Concrete tables
  - surtax.go: Consumes Regional and Municipal
*/
package payroll

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
)

// DefaultCode is the fallback key of both surtax tables.
const DefaultCode = "DEFAULT"

// RuleSet holds every table one fiscal year needs.
type RuleSet struct {
	Year int

	IRPEF               generic.Schedule
	INPS                INPSRules
	Fringe              FringeRules
	Car                 CarRules
	Travel              TravelRules
	Welfare             WelfareRules
	EmploymentDeduction EmploymentDeductionRules
	Spouse              SpouseRules
	Family              FamilyRules
	TaxWedge            TaxWedgeRules
	Integrative         IntegrativeRules

	Regional      map[string]RegionalSurtax
	RegionAliases map[string]string
	Municipal     map[string]MunicipalSurtax

	Funds        *FundRules
	PensionFund  *PensionFundRules
	Expat        *ExpatRules
	EmployerCost *EmployerCostRules
}

// INPSRules are the employee social-security rates.
type INPSRules struct {
	BaseRate            decimal.Decimal
	CIGSRate            decimal.Decimal
	ApprenticeRate      decimal.Decimal
	AdditionalRate      decimal.Decimal
	AdditionalThreshold decimal.Decimal
	Ceiling             decimal.Decimal
}

// FringeRules are the exemption thresholds. RelocatedThreshold is optional.
type FringeRules struct {
	Threshold             decimal.Decimal
	ThresholdWithChildren decimal.Decimal
	RelocatedThreshold    decimal.NullDecimal
}

// CO2Band maps an emission ceiling (g/km) to a percentage.
type CO2Band struct {
	MaxCO2  int
	Percent decimal.Decimal
}

// CarRules value company cars. Legacy bands are ascending; LegacyAbove
// applies past the last band.
type CarRules struct {
	ConventionalKm decimal.Decimal
	Electric       decimal.Decimal
	PlugInHybrid   decimal.Decimal
	Other          decimal.Decimal
	Legacy         []CO2Band
	LegacyAbove    decimal.Decimal
}

// TravelRules are the exempt per-diem amounts.
type TravelRules struct {
	FlatItaly     decimal.Decimal
	FlatAbroad    decimal.Decimal
	ReductionOne  decimal.Decimal
	ReductionBoth decimal.Decimal
}

// WelfareRules are the per-category exemption caps.
type WelfareRules struct {
	PensionCap         decimal.Decimal
	HealthCap          decimal.Decimal
	PaperVoucherDaily  decimal.Decimal
	ElectronicDaily    decimal.Decimal
	VoucherWorkingDays decimal.Decimal
}

// EmploymentDeductionRules are the coefficients of the employee tax credit.
type EmploymentDeductionRules struct {
	FirstLimit       decimal.Decimal
	FirstAmount      decimal.Decimal
	MinimumPermanent decimal.Decimal
	MinimumFixedTerm decimal.Decimal
	SecondLimit      decimal.Decimal
	Base             decimal.Decimal
	SecondSpread     decimal.Decimal
	ThirdLimit       decimal.Decimal
	BonusFrom        decimal.Decimal
	BonusTo          decimal.Decimal
	Bonus            decimal.Decimal
}

// Surcharge adds Amount for incomes in [From, To).
type Surcharge struct {
	From   decimal.Decimal
	To     decimal.Decimal
	Amount decimal.Decimal
}

// SpouseRules are the spouse-credit coefficients.
type SpouseRules struct {
	FirstLimit   decimal.Decimal
	FirstBase    decimal.Decimal
	FirstSpread  decimal.Decimal
	SecondLimit  decimal.Decimal
	SecondAmount decimal.Decimal
	Surcharges   []Surcharge
	ThirdLimit   decimal.Decimal
}

// FamilyRules cover dependency limits, children and ascendants.
type FamilyRules struct {
	DependentIncomeLimit decimal.Decimal
	YoungIncomeLimit     decimal.Decimal
	YoungMaxAge          int
	ChildMinAge          int
	ChildMaxAge          int
	ChildAmount          decimal.Decimal
	ChildCeiling         decimal.Decimal
	ChildCeilingStep     decimal.Decimal
	AscendantAmount      decimal.Decimal
	AscendantCeiling     decimal.Decimal
}

// WedgeTier is one indemnity band, matched on employment income.
type WedgeTier struct {
	Limit decimal.Decimal
	Rate  decimal.Decimal
}

// TaxWedgeRules are the cuneo fiscale parameters.
type TaxWedgeRules struct {
	IndemnityLimit    decimal.Decimal
	Tiers             []WedgeTier
	DeductionLimit    decimal.Decimal
	FullDeductionUpTo decimal.Decimal
	Deduction         decimal.Decimal
}

// IntegrativeRules are the integrative-treatment parameters.
type IntegrativeRules struct {
	FullLimit    decimal.Decimal
	PartialLimit decimal.Decimal
	Amount       decimal.Decimal
	Safeguard    decimal.Decimal
}

// RegionalSurtax is a marginal schedule with an optional exemption floor.
type RegionalSurtax struct {
	Name      string
	Schedule  generic.Schedule
	Exemption decimal.NullDecimal
}

// MunicipalSurtax is a flat or bracketed schedule with an optional floor.
type MunicipalSurtax struct {
	Name      string              `json:"name"`
	Schedule  generic.Schedule    `json:"schedule"`
	Exemption decimal.NullDecimal `json:"exemption"`
}

// FundRules are the annual employee contributions of executive funds.
type FundRules struct {
	MarioNegri decimal.Decimal
	Pastore    decimal.Decimal
	CFMT       decimal.Decimal
	FASDAC     decimal.Decimal
}

// PensionFundRules hold the shared deductibility cap.
type PensionFundRules struct {
	Cap decimal.Decimal
}

// ExpatRules are the inbound-worker parameters.
type ExpatRules struct {
	Percent              decimal.Decimal
	PercentMinorChildren decimal.Decimal
	IncomeCap            decimal.Decimal
}

// EmployerCostRules are the company-side rates.
type EmployerCostRules struct {
	BaseRate          decimal.Decimal
	CIGSRate          decimal.Decimal
	ApprenticeRate    decimal.Decimal
	ExecutiveRate     decimal.Decimal
	ExecutiveCIGSRate decimal.Decimal
	TFRDivisor        decimal.Decimal
	NegriRate         decimal.Decimal
	NegriSalary       decimal.Decimal
	Pastore           decimal.Decimal
	CFMT              decimal.Decimal
	FASDACRate        decimal.Decimal
	FASDACSalary      decimal.Decimal
}

// =============================================================================
// LOOKUP
// =============================================================================

// RegionalFor resolves a region code or alias, falling back to DEFAULT.
// The returned code is the key actually used.
func (r *RuleSet) RegionalFor(code string) (string, RegionalSurtax) {
	key := normalizeCode(code)
	if s, ok := r.Regional[key]; ok {
		return key, s
	}
	if alias, ok := r.RegionAliases[key]; ok {
		if s, ok := r.Regional[alias]; ok {
			return alias, s
		}
	}
	return DefaultCode, r.Regional[DefaultCode]
}

// MunicipalFor resolves a municipality code, falling back to DEFAULT.
func (r *RuleSet) MunicipalFor(code string) (string, MunicipalSurtax) {
	key := normalizeCode(code)
	if s, ok := r.Municipal[key]; ok {
		return key, s
	}
	return DefaultCode, r.Municipal[DefaultCode]
}

// RegionCodes lists the regional table keys, sorted.
func (r *RuleSet) RegionCodes() []string {
	return sortedKeys(r.Regional)
}

// MunicipalityCodes lists the municipal table keys, sorted.
func (r *RuleSet) MunicipalityCodes() []string {
	return sortedKeys(r.Municipal)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WithMunicipal returns a copy of the rule set whose municipal table is
// extended (and overridden) by extra. The receiver is not modified.
func (r *RuleSet) WithMunicipal(extra map[string]MunicipalSurtax) *RuleSet {
	cp := *r
	cp.Municipal = make(map[string]MunicipalSurtax, len(r.Municipal)+len(extra))
	for k, v := range r.Municipal {
		cp.Municipal[k] = v
	}
	for k, v := range extra {
		cp.Municipal[normalizeCode(k)] = v
	}
	return &cp
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks every schedule and the DEFAULT fallbacks.
func (r *RuleSet) Validate() error {
	if err := r.IRPEF.Validate(); err != nil {
		return fmt.Errorf("year %d: irpef: %w", r.Year, err)
	}
	if _, ok := r.Regional[DefaultCode]; !ok {
		return fmt.Errorf("year %d: regional table has no %s entry", r.Year, DefaultCode)
	}
	if _, ok := r.Municipal[DefaultCode]; !ok {
		return fmt.Errorf("year %d: municipal table has no %s entry", r.Year, DefaultCode)
	}
	for code, s := range r.Regional {
		if err := s.Schedule.Validate(); err != nil {
			return fmt.Errorf("year %d: region %s: %w", r.Year, code, err)
		}
	}
	for alias, code := range r.RegionAliases {
		if _, ok := r.Regional[code]; !ok {
			return fmt.Errorf("year %d: region alias %s points to unknown code %s", r.Year, alias, code)
		}
	}
	for code, s := range r.Municipal {
		if err := s.Schedule.Validate(); err != nil {
			return fmt.Errorf("year %d: municipality %s: %w", r.Year, code, err)
		}
	}
	return nil
}

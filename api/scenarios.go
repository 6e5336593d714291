/*
scenarios.go - Preset payroll profiles

PURPOSE:
  Named inputs covering the main branches of the engine, used by the
  frontend as starting points and by smoke tests against a running server.

AVAILABLE SCENARIOS:
  junior-milano:       Plain permanent contract, Milan, 2026
  torino-family:       Spouse and two children, bracketed municipal surtax
  executive-commerce:  Commerce executive with every fund and a pension plan
  expat-roma:          Inbound-worker regime with minor children
  apprentice:          Apprenticeship, low salary, bonuses kick in
  benefits-2025:       Company car, meal vouchers and travel on the 2025 rules

USAGE VIA API:
  GET  /api/v1/scenarios
  GET  /api/v1/scenarios/{id}
  POST /api/v1/scenarios/{id}/compute

ADDING NEW SCENARIOS:
  1. Add an entry to 'scenarios' with ID, name, description
  2. Build its input in a scenarioXxx function

SEE ALSO:
  - handlers.go: Compute path shared with POST /compute
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/payroll"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	build func() payroll.Input
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "junior-milano",
			Name:        "Junior Milano",
			Description: "Permanent contract, 28k RAL in 13 instalments, Milan",
			Category:    "employee",
		},
		build: scenarioJuniorMilano,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "torino-family",
			Name:        "Torino Family",
			Description: "45k RAL with dependent spouse and two children, Turin",
			Category:    "family",
		},
		build: scenarioTorinoFamily,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "executive-commerce",
			Name:        "Executive (commerce)",
			Description: "120k RAL commerce executive: Mario Negri, Pastore, CFMT, FASDAC and pension fund",
			Category:    "executive",
		},
		build: scenarioExecutiveCommerce,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "expat-roma",
			Name:        "Expat Roma",
			Description: "Inbound worker with minor children, 70k RAL, Rome",
			Category:    "regime",
		},
		build: scenarioExpatRoma,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "apprentice",
			Name:        "Apprentice",
			Description: "Apprenticeship at 14k RAL, eligible for the integrative treatment",
			Category:    "employee",
		},
		build: scenarioApprentice,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "benefits-2025",
			Name:        "Benefits 2025",
			Description: "Plug-in hybrid company car, electronic meal vouchers and mixed travel allowance",
			Category:    "benefits",
		},
		build: scenarioBenefits2025,
	},
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns the available presets.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	list := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		list[i] = s.ScenarioDTO
	}
	h.writeJSON(w, r, http.StatusOK, list)
}

// GetScenario returns one preset with its input.
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	s, ok := findScenario(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, ErrScenarioNotFound)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ScenarioResponse{ScenarioDTO: s.ScenarioDTO, Input: s.build()})
}

// ComputeScenario runs a preset through the memoized engine.
func (h *Handler) ComputeScenario(w http.ResponseWriter, r *http.Request) {
	s, ok := findScenario(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, ErrScenarioNotFound)
		return
	}
	h.respondCompute(w, r, s.build())
}

// =============================================================================
// SCENARIO INPUTS
// =============================================================================

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func intPtr(v int) *int { return &v }

func scenarioJuniorMilano() payroll.Input {
	return payroll.Input{
		GrossSalary:  d("28000"),
		Mensilita:    13,
		Contract:     payroll.ContractPermanent,
		FiscalYear:   2026,
		Region:       "LO",
		Municipality: "MILANO",
	}
}

func scenarioTorinoFamily() payroll.Input {
	return payroll.Input{
		GrossSalary:  d("45000"),
		Mensilita:    14,
		Contract:     payroll.ContractPermanent,
		FiscalYear:   2026,
		Region:       "PI",
		Municipality: "TORINO",
		Spouse:       &payroll.Spouse{Income: d("2000")},
		Children: []payroll.Child{
			{Age: 24},
			{Age: 17, ChargePercent: decimalPtr("50")},
		},
		Welfare: &payroll.WelfareBenefits{
			MealVouchers:       d("1600"),
			ElectronicVouchers: true,
			WelfareServices:    d("500"),
		},
	}
}

func scenarioExecutiveCommerce() payroll.Input {
	return payroll.Input{
		GrossSalary:  d("120000"),
		Mensilita:    14,
		Contract:     payroll.ContractPermanent,
		FiscalYear:   2026,
		Region:       "LO",
		Municipality: "MILANO",
		ExecutiveFunds: payroll.ExecutiveFunds{
			MarioNegri: true,
			Pastore:    true,
			CFMT:       true,
			FASDAC:     true,
		},
		PensionFund: &payroll.PensionFund{
			WorkerPercent:   d("1"),
			WorkerSalary:    d("59224.54"),
			EmployerPercent: d("1"),
			EmployerSalary:  d("59224.54"),
			VoluntaryAnnual: d("1000"),
		},
		Fringe: &payroll.FringeBenefits{
			Car: &payroll.CompanyCar{
				ACICostPerKm: d("0.65"),
				Fuel:         payroll.FuelPlugInHybrid,
			},
		},
	}
}

func scenarioExpatRoma() payroll.Input {
	return payroll.Input{
		GrossSalary:  d("70000"),
		Mensilita:    13,
		Contract:     payroll.ContractPermanent,
		FiscalYear:   2026,
		Region:       "LA",
		Municipality: "ROMA",
		Children:     []payroll.Child{{Age: 6}},
		Expat:        &payroll.ExpatRegime{MinorChildren: true},
	}
}

func scenarioApprentice() payroll.Input {
	return payroll.Input{
		GrossSalary:  d("14000"),
		Mensilita:    13,
		Contract:     payroll.ContractApprentice,
		FiscalYear:   2026,
		Region:       "CM",
		Municipality: "DEFAULT",
		DaysWorked:   intPtr(365),
	}
}

func scenarioBenefits2025() payroll.Input {
	return payroll.Input{
		GrossSalary:  d("52000"),
		Mensilita:    13,
		Contract:     payroll.ContractPermanent,
		FiscalYear:   2025,
		Region:       "VE",
		Municipality: "DEFAULT",
		Fringe: &payroll.FringeBenefits{
			ShoppingVouchers: d("300"),
			Car: &payroll.CompanyCar{
				ACICostPerKm:         d("0.58"),
				Fuel:                 payroll.FuelPlugInHybrid,
				MonthsOfUse:          intPtr(10),
				EmployeeContribution: d("600"),
			},
		},
		Welfare: &payroll.WelfareBenefits{
			MealVouchers:       d("1760"),
			ElectronicVouchers: true,
			TransportPass:      d("350"),
		},
		Travel: &payroll.TravelReimbursements{
			Mode:      payroll.ReimbursementMixed,
			DaysItaly: 20,
			Lodging:   d("1800"),
			Transport: d("420"),
		},
	}
}

func decimalPtr(v string) *decimal.Decimal {
	x := d(v)
	return &x
}

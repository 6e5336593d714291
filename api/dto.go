/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON envelopes around the engine types. payroll.Input and
  payroll.Output are already the wire format (snake_case tags, decimals as
  strings), so the DTOs only add request metadata and wrap results.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response wrappers
  - *DTO: Listing entries

SEE ALSO:
  - handlers.go: Uses these types
  - payroll/input.go, payroll/output.go: Engine records
*/
package api

import (
	"github.com/goccy/go-json"
	"github.com/warp/netpay-engine/payroll"
	"github.com/warp/netpay-engine/projection"
	"github.com/warp/netpay-engine/store/sqlite"
)

// =============================================================================
// COMPUTE
// =============================================================================

// ComputeResponse wraps one computation.
type ComputeResponse struct {
	ID          string         `json:"id"`
	Fingerprint string         `json:"fingerprint"`
	Cached      bool           `json:"cached"`
	Result      payroll.Output `json:"result"`
}

// =============================================================================
// PROJECTION
// =============================================================================

// ProjectionRequest asks for a net-salary surface around input. Missing
// ranges are derived from the input.
type ProjectionRequest struct {
	Input       json.RawMessage   `json:"input"`
	RALRange    *projection.Range `json:"ral_range,omitempty"`
	MetricRange *projection.Range `json:"metric_range,omitempty"`
}

// ProjectionResponse is the computed surface.
type ProjectionResponse struct {
	ID      string              `json:"id"`
	Points  int                 `json:"points"`
	Surface *projection.Surface `json:"surface"`
}

// =============================================================================
// RULE TABLES
// =============================================================================

// YearsResponse lists the registered fiscal years.
type YearsResponse struct {
	Years []int `json:"years"`
}

// CodesResponse lists surtax table keys for a year.
type CodesResponse struct {
	Year  int      `json:"year"`
	Codes []string `json:"codes"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a preset in listings.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ScenarioResponse is a preset with its full input.
type ScenarioResponse struct {
	ScenarioDTO
	Input payroll.Input `json:"input"`
}

// =============================================================================
// CACHE
// =============================================================================

// CacheStatsResponse reports the memo cache backend.
type CacheStatsResponse struct {
	Backend string             `json:"backend"`
	Stats   payroll.CacheStats `json:"stats"`
}

// PruneRunsResponse lists recent prune runs, newest first.
type PruneRunsResponse struct {
	Runs []sqlite.PruneRun `json:"runs"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/netpay-engine/api"
)

func TestListScenarios(t *testing.T) {
	srv := newMemoryServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/scenarios", "")

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]api.ScenarioDTO](t, rec)
	require.Len(t, list, 6)
	ids := make([]string, len(list))
	for i, s := range list {
		ids[i] = s.ID
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Description)
	}
	assert.Contains(t, ids, "executive-commerce")
	assert.Contains(t, ids, "benefits-2025")
}

func TestScenarios_AllCompute(t *testing.T) {
	srv := newMemoryServer(t)
	list := decode[[]api.ScenarioDTO](t, srv.do(t, http.MethodGet, "/api/v1/scenarios", ""))

	for _, s := range list {
		t.Run(s.ID, func(t *testing.T) {
			// GIVEN: the preset input
			preset := decode[api.ScenarioResponse](t, srv.do(t, http.MethodGet, "/api/v1/scenarios/"+s.ID, ""))

			// WHEN: computing it
			rec := srv.do(t, http.MethodPost, "/api/v1/scenarios/"+s.ID+"/compute", "")

			// THEN: the result is consistent with the preset
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			out := decode[api.ComputeResponse](t, rec).Result
			assert.Equal(t, preset.Input.FiscalYear, out.FiscalYear)
			assert.True(t, out.GrossSalary.Equal(preset.Input.GrossSalary))
			assert.True(t, out.NetAnnual.IsPositive())
			assert.True(t, out.NetMonthly.IsPositive())
		})
	}
}

func TestScenarios_Specifics(t *testing.T) {
	srv := newMemoryServer(t)
	compute := func(id string) api.ComputeResponse {
		rec := srv.do(t, http.MethodPost, "/api/v1/scenarios/"+id+"/compute", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[api.ComputeResponse](t, rec)
	}

	exec := compute("executive-commerce").Result
	require.NotNil(t, exec.MarioNegri)
	require.NotNil(t, exec.PensionFund)
	require.NotNil(t, exec.EmployerCost)
	assert.NotNil(t, exec.Fringe.Car)

	expat := compute("expat-roma").Result
	require.NotNil(t, expat.Expat)
	assert.Equal(t, "ROMA", expat.Surtaxes.Municipal.Code)

	apprentice := compute("apprentice").Result
	assert.True(t, apprentice.TotalBonuses.IsPositive())

	benefits := compute("benefits-2025").Result
	assert.Nil(t, benefits.EmployerCost)
	assert.True(t, benefits.Travel.Total.IsPositive())
}

func TestScenarios_NotFound(t *testing.T) {
	srv := newMemoryServer(t)

	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/v1/scenarios/ceo", "").Code)
	rec := srv.do(t, http.MethodPost, "/api/v1/scenarios/ceo/compute", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[api.ErrorResponse](t, rec).Details, "scenario not found")
}

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/warp/netpay-engine/payroll"
	"github.com/warp/netpay-engine/projection"
)

var (
	// ErrScenarioNotFound is returned for an unknown preset id.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrBadRequest marks malformed request envelopes.
	ErrBadRequest = errors.New("bad request")
)

// statusFor maps an error to its HTTP status. Undecodable bodies are 400,
// well-formed requests the engine rejects are 422.
func statusFor(err error) int {
	var ierr *payroll.InputError
	switch {
	case errors.Is(err, ErrScenarioNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.As(err, &ierr) && ierr.Field == "body":
		return http.StatusBadRequest
	case payroll.IsClientError(err), projection.IsClientError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Error: http.StatusText(statusFor(err)), Details: err.Error()}
	var ierr *payroll.InputError
	if errors.As(err, &ierr) {
		resp.Field = ierr.Field
	}
	return resp
}

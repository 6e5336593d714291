/*
Package factory converts external JSON documents into engine types.

PURPOSE:
  Request bodies and data files arrive as JSON. The factory decodes them
  strictly (unknown fields are rejected, so a typo never silently drops an
  input) and turns every decoding problem into a payroll.InputError, which
  the API reports as a client error.

DOCUMENTS:
  Input            payroll.Input, snake_case fields
  Municipal table  the converter output, see municipal.go

USAGE:
  in, err := factory.ParseInput(body)
  extra, err := factory.LoadMunicipalFile("comunali_2026.json")
  rules := fy2026.Rules().WithMunicipal(extra)

SEE ALSO:
  - payroll/input.go: Input type and field validation
  - api/handlers.go: Request decoding
*/
package factory

import (
	"bytes"
	"errors"
	"io"

	"github.com/goccy/go-json"
	"github.com/warp/netpay-engine/payroll"
)

// decodeStrict decodes exactly one JSON value from r into v.
func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after the JSON value")
	}
	return nil
}

// DecodeInput reads one Input document from r.
// Field ranges are checked by the engine, not here.
func DecodeInput(r io.Reader) (payroll.Input, error) {
	var in payroll.Input
	if err := decodeStrict(r, &in); err != nil {
		return payroll.Input{}, &payroll.InputError{Field: "body", Reason: err.Error()}
	}
	return in, nil
}

// ParseInput is DecodeInput over a byte slice.
func ParseInput(data []byte) (payroll.Input, error) {
	return DecodeInput(bytes.NewReader(data))
}

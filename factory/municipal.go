package factory

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/generic"
	"github.com/warp/netpay-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// MunicipalJSON is one entry of the municipal surtax converter output:
//
//	{"id": "H501", "nome": "Roma", "aliquota": 0.009, "esenzione": 14000}
//	{"id": "L219", "nome": "Torino", "scaglioni": [{"limite": 28000, "aliquota": 0.008}, ...]}
//
// Rates are fractions. A null limit marks the unbounded last bracket.
type MunicipalJSON struct {
	ID        string           `json:"id"`
	Name      string           `json:"nome"`
	Rate      *decimal.Decimal `json:"aliquota,omitempty"`
	Brackets  []BracketJSON    `json:"scaglioni,omitempty"`
	Exemption *decimal.Decimal `json:"esenzione,omitempty"`
}

// BracketJSON is one progressive bracket.
type BracketJSON struct {
	Limit *decimal.Decimal `json:"limite"`
	Rate  decimal.Decimal  `json:"aliquota"`
}

// =============================================================================
// CONVERSION
// =============================================================================

// Schedule converts the entry's rate or brackets.
func (m MunicipalJSON) Schedule() (generic.Schedule, error) {
	switch {
	case m.Rate != nil && len(m.Brackets) > 0:
		return nil, fmt.Errorf("municipality %s: both aliquota and scaglioni set", m.ID)
	case m.Rate != nil:
		return generic.Schedule{{Rate: *m.Rate}}, nil
	case len(m.Brackets) == 0:
		return nil, fmt.Errorf("municipality %s: no aliquota or scaglioni", m.ID)
	}

	s := make(generic.Schedule, 0, len(m.Brackets))
	for _, b := range m.Brackets {
		br := generic.Bracket{Rate: b.Rate}
		if b.Limit != nil {
			br.UpTo = decimal.NewNullDecimal(*b.Limit)
		}
		s = append(s, br)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("municipality %s: %w", m.ID, err)
	}
	return s, nil
}

// Surtax converts the entry to its engine form.
func (m MunicipalJSON) Surtax() (payroll.MunicipalSurtax, error) {
	s, err := m.Schedule()
	if err != nil {
		return payroll.MunicipalSurtax{}, err
	}
	out := payroll.MunicipalSurtax{Name: m.Name, Schedule: s}
	if m.Exemption != nil {
		out.Exemption = decimal.NewNullDecimal(*m.Exemption)
	}
	return out, nil
}

// nameKey turns a display name into a lookup code: "Reggio Emilia" -> "REGGIO_EMILIA".
func nameKey(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), "_")
}

// LoadMunicipalTable reads a converter document. Each entry is keyed by its
// id and by its upper-cased name; when two municipalities share a name the
// name key is dropped and only the ids remain.
func LoadMunicipalTable(r io.Reader) (map[string]payroll.MunicipalSurtax, error) {
	var entries []MunicipalJSON
	if err := decodeStrict(r, &entries); err != nil {
		return nil, fmt.Errorf("municipal table: %w", err)
	}

	table := make(map[string]payroll.MunicipalSurtax, 2*len(entries))
	byName := make(map[string][]payroll.MunicipalSurtax)
	for _, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			return nil, fmt.Errorf("municipal table: entry %q has no id", e.Name)
		}
		s, err := e.Surtax()
		if err != nil {
			return nil, fmt.Errorf("municipal table: %w", err)
		}
		table[strings.ToUpper(strings.TrimSpace(e.ID))] = s
		if k := nameKey(e.Name); k != "" {
			byName[k] = append(byName[k], s)
		}
	}
	for k, list := range byName {
		if _, taken := table[k]; taken || len(list) != 1 {
			continue
		}
		table[k] = list[0]
	}
	return table, nil
}

// LoadMunicipalFile is LoadMunicipalTable over a file.
func LoadMunicipalFile(path string) (map[string]payroll.MunicipalSurtax, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadMunicipalTable(f)
}

// InstallMunicipalFile merges the table at path into the municipal table of
// every registered year and returns a salt naming the file contents, meant
// for payroll.WithFingerprintSalt. Nothing is registered unless every year
// accepts the table.
func InstallMunicipalFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	table, err := LoadMunicipalTable(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}

	var calcs []payroll.Calculator
	for _, year := range payroll.Years() {
		current, err := payroll.Lookup(year)
		if err != nil {
			return "", err
		}
		calc, err := payroll.NewCalculator(current.Rules().WithMunicipal(table))
		if err != nil {
			return "", fmt.Errorf("municipal table: %w", err)
		}
		calcs = append(calcs, calc)
	}
	for _, c := range calcs {
		payroll.Register(c)
	}

	sum := sha256.Sum256(raw)
	return "municipal:" + hex.EncodeToString(sum[:]), nil
}

package payroll

import "github.com/warp/netpay-engine/generic"

// RegionNames maps the two-letter region codes to display names.
var RegionNames = map[string]string{
	"AB": "Abruzzo",
	"BA": "Basilicata",
	"BZ": "Provincia di Bolzano",
	"CL": "Calabria",
	"CM": "Campania",
	"ER": "Emilia-Romagna",
	"FV": "Friuli Venezia Giulia",
	"LA": "Lazio",
	"LI": "Liguria",
	"LO": "Lombardia",
	"MA": "Marche",
	"MO": "Molise",
	"PI": "Piemonte",
	"PU": "Puglia",
	"SA": "Sardegna",
	"SI": "Sicilia",
	"TN": "Provincia di Trento",
	"TO": "Toscana",
	"UM": "Umbria",
	"VA": "Valle d'Aosta",
	"VE": "Veneto",
}

// RegionAliases maps full upper-case region names to their codes.
var RegionAliases = map[string]string{
	"ABRUZZO":               "AB",
	"BASILICATA":            "BA",
	"CALABRIA":              "CL",
	"CAMPANIA":              "CM",
	"EMILIA_ROMAGNA":        "ER",
	"EMILIA-ROMAGNA":        "ER",
	"FRIULI_VENEZIA_GIULIA": "FV",
	"LAZIO":                 "LA",
	"LIGURIA":               "LI",
	"LOMBARDIA":             "LO",
	"MARCHE":                "MA",
	"MOLISE":                "MO",
	"PIEMONTE":              "PI",
	"PUGLIA":                "PU",
	"SARDEGNA":              "SA",
	"SICILIA":               "SI",
	"TOSCANA":               "TO",
	"PROVINCIA_TRENTO":      "TN",
	"PROVINCIA_BOLZANO":     "BZ",
	"UMBRIA":                "UM",
	"VALLE_AOSTA":           "VA",
	"VENETO":                "VE",
}

// AliasesFor returns the aliases whose code is present in table.
func AliasesFor[V any](table map[string]V) map[string]string {
	out := make(map[string]string)
	for alias, code := range RegionAliases {
		if _, ok := table[code]; ok {
			out[alias] = code
		}
	}
	return out
}

// regionName returns the display name of code, or the code itself.
func regionName(code string) string {
	if name, ok := RegionNames[code]; ok {
		return name
	}
	return code
}

// NewRegional builds a regional entry named after code.
func NewRegional(code string, s generic.Schedule) RegionalSurtax {
	return RegionalSurtax{Name: regionName(code), Schedule: s}
}

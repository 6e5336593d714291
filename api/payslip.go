package api

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/warp/netpay-engine/payroll"
)

var (
	cInk     = [3]int{26, 32, 44}
	cInk50   = [3]int{120, 128, 140}
	cAccent  = [3]int{20, 90, 160}
	cBand    = [3]int{236, 242, 250}
	cNegativ = [3]int{170, 40, 40}
)

const (
	pageW    = 210.0
	marginL  = 18.0
	marginR  = 18.0
	contentW = pageW - marginL - marginR
)

func setFill(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetFillColor(c[0], c[1], c[2]) }
func setText(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetTextColor(c[0], c[1], c[2]) }
func setDraw(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetDrawColor(c[0], c[1], c[2]) }

// euro formats v the Italian way with two decimals: "EUR 1.234,56".
func euro(v decimal.Decimal) string {
	neg := v.IsNegative()
	s := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "EUR " + b.String() + "," + frac
	if neg {
		out = "- " + out
	}
	return out
}

func percent(v decimal.Decimal) string {
	return strings.Replace(v.Mul(decimal.NewFromInt(100)).StringFixed(2), ".", ",", 1) + "%"
}

type payslipRow struct {
	label string
	value decimal.Decimal
	minus bool
}

// RenderPayslip writes a one-page A4 summary of out.
func RenderPayslip(w io.Writer, out payroll.Output, id string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginL, 15, marginR)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(fmt.Sprintf("Cedolino simulato %d", out.FiscalYear), false)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		setDraw(pdf, cInk50)
		pdf.SetLineWidth(0.2)
		pdf.Line(marginL, pdf.GetY(), pageW-marginR, pdf.GetY())
		pdf.SetY(-11)
		pdf.SetFont("Helvetica", "", 6.5)
		setText(pdf, cInk50)
		pdf.CellFormat(contentW/2, 6, "Simulazione indicativa, non sostituisce il cedolino ufficiale", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 6, id, "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// Header band
	setFill(pdf, cAccent)
	pdf.Rect(0, 0, pageW, 32, "F")
	pdf.SetXY(marginL, 9)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(contentW, 9, "Netto in busta", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Anno fiscale %d - generato il %s",
		out.FiscalYear, time.Now().Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.SetY(40)

	// Headline figures
	setFill(pdf, cBand)
	boxW := contentW / 3
	y := pdf.GetY()
	for i, kv := range []struct {
		label string
		value string
	}{
		{"RAL", euro(out.GrossSalary)},
		{fmt.Sprintf("Netto mensile (x%d)", out.Mensilita), euro(out.NetMonthly)},
		{"Netto annuo", euro(out.NetAnnual)},
	} {
		x := marginL + float64(i)*boxW
		pdf.Rect(x+1, y, boxW-2, 18, "F")
		pdf.SetXY(x+4, y+3)
		pdf.SetFont("Helvetica", "", 7.5)
		setText(pdf, cInk50)
		pdf.CellFormat(boxW-8, 4, kv.label, "", 2, "L", false, 0, "")
		pdf.SetX(x + 4)
		pdf.SetFont("Courier", "B", 12)
		setText(pdf, cInk)
		pdf.CellFormat(boxW-8, 7, kv.value, "", 0, "L", false, 0, "")
	}
	pdf.SetY(y + 24)

	section(pdf, "Imponibile")
	rows(pdf, []payslipRow{
		{label: "Retribuzione annua lorda", value: out.GrossSalary},
		{label: "Fringe benefit imponibili", value: out.Fringe.Taxable},
		{label: "Contributi INPS dipendente", value: out.SocialSecurity.Total, minus: true},
		{label: "Reddito da lavoro dipendente", value: out.EmploymentIncome},
		{label: "Reddito complessivo", value: out.TotalIncome},
		{label: "Base imponibile IRPEF", value: out.TaxableBase},
	})

	section(pdf, "Imposte")
	rows(pdf, []payslipRow{
		{label: "IRPEF lorda", value: out.IRPEF.Gross},
		{label: "Detrazioni lavoro dipendente", value: out.Deductions.Employment, minus: true},
		{label: "Detrazioni familiari", value: out.Deductions.Family, minus: true},
		{label: "Ulteriore detrazione cuneo fiscale", value: out.Deductions.TaxWedge, minus: true},
		{label: "IRPEF netta", value: out.FinalIRPEF},
		{label: "Addizionale regionale (" + out.Surtaxes.Regional.Code + ")", value: out.Surtaxes.Regional.Tax},
		{label: "Addizionale comunale (" + out.Surtaxes.Municipal.Code + ")", value: out.Surtaxes.Municipal.Tax},
	})

	section(pdf, "Netto")
	rows(pdf, []payslipRow{
		{label: "Totale trattenute", value: out.TotalWithholdings, minus: true},
		{label: "Bonus (trattamento integrativo, indennita cuneo)", value: out.TotalBonuses},
		{label: "Netto annuo", value: out.NetAnnual},
		{label: "Netto mensile percepito (con welfare)", value: out.NetMonthlyPerceived},
		{label: "Totale percepito", value: out.TotalPerceived},
	})

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 8.5)
	setText(pdf, cInk50)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Aliquota marginale %s - aliquota effettiva %s",
		percent(out.IRPEF.MarginalRate), percent(out.EffectiveRate)), "", 1, "L", false, 0, "")

	if ec := out.EmployerCost; ec != nil {
		section(pdf, "Costo azienda")
		rows(pdf, []payslipRow{
			{label: "Contributi INPS azienda (" + percent(ec.INPSRate) + ")", value: ec.INPS},
			{label: "TFR", value: ec.TFR},
			{label: "Fondi e previdenza complementare", value: ec.Funds.Add(ec.PensionFund)},
			{label: "Costo totale annuo", value: ec.Total},
		})
	}

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 10)
	setText(pdf, cAccent)
	pdf.CellFormat(contentW, 6, title, "", 1, "L", false, 0, "")
	setDraw(pdf, cAccent)
	pdf.SetLineWidth(0.4)
	pdf.Line(marginL, pdf.GetY(), pageW-marginR, pdf.GetY())
	pdf.Ln(1.5)
}

func rows(pdf *gofpdf.Fpdf, list []payslipRow) {
	for _, r := range list {
		pdf.SetFont("Helvetica", "", 9)
		setText(pdf, cInk)
		pdf.CellFormat(contentW*0.65, 5.5, r.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Courier", "", 9.5)
		value := euro(r.value)
		if r.minus && r.value.IsPositive() {
			setText(pdf, cNegativ)
			value = "- " + value
		}
		pdf.CellFormat(contentW*0.35, 5.5, value, "", 1, "R", false, 0, "")
	}
}

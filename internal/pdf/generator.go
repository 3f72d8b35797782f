package pdf

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/contracts-service/internal/model"
)

const fontName = "Helvetica"

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(doc model.ContractStatement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// core fonts are cp1252; translate so accented municipality names render.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	c := doc.Summary.Contract

	pdf.SetFont(fontName, "B", 14)
	pdf.CellFormat(0, 10, tr("Extrato do contrato"), "", 1, "C", false, 0, "")

	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Gerado em %s", formatDateTime(doc.GeneratedAt))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Dados do contrato"), "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	lines := []string{
		fmt.Sprintf("Município: %s", safeValue(c.Municipality)),
		fmt.Sprintf("Objeto: %s", safeValue(c.Object)),
		fmt.Sprintf("Vigência: %s a %s", formatDate(c.StartDate), formatDate(c.EndDate)),
		fmt.Sprintf("Situação: %s", statusLabel(doc.Summary)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	if strings.TrimSpace(c.Notes) != "" {
		pdf.MultiCell(0, 5, tr("Observações: "+c.Notes), "", "L", false)
	}
	pdf.Ln(2)

	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Valores"), "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Valor total: R$ %s", formatAmount(c.TotalValue))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Faturado: R$ %s (%s)", formatAmount(doc.Summary.TotalInvoiced), formatPercent(doc.Summary.ProgressPercentage))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Saldo disponível: R$ %s (%s)", formatAmount(doc.Summary.Balance), formatPercent(doc.Summary.AvailablePercentage))), "", 1, "L", false, 0, "")

	if doc.Summary.Balance < 0 {
		pdf.SetTextColor(200, 0, 0)
		pdf.MultiCell(0, 6, tr("Atenção: o valor faturado excede o valor total do contrato."), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Notas fiscais (%d)", len(doc.Invoices))), "", 1, "L", false, 0, "")

	headers := []string{"Número", "Data", "Valor (R$)"}
	colWidths := []float64{90, 40, 50}
	drawTableRow(pdf, tr, headers, colWidths, true)

	if len(doc.Invoices) == 0 {
		pdf.SetFont(fontName, "", 10)
		pdf.CellFormat(0, 8, tr("Nenhuma nota fiscal registrada."), "", 1, "L", false, 0, "")
	}
	for _, inv := range doc.Invoices {
		row := []string{
			safeValue(inv.Number),
			formatDate(inv.Date),
			formatAmount(inv.Value),
		}
		drawTableRow(pdf, tr, row, colWidths, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func statusLabel(summary model.ContractSummary) string {
	switch summary.Status {
	case model.ContractStatusExpired:
		return "Vencido"
	case model.ContractStatusExpiringSoon:
		return fmt.Sprintf("Vence em %d dias", summary.DaysRemaining)
	default:
		return fmt.Sprintf("Ativo, %d dias restantes", summary.DaysRemaining)
	}
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatPercent(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", value)
}

func formatDate(d model.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("02/01/2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}

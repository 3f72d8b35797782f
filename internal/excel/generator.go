package excel

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contracts-service/internal/model"
)

const (
	summarySheet   = "Resumo"
	contractsSheet = "Contratos"
	maxSheetName   = 31
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(register model.ContractRegister) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	g.writeSummary(file, summarySheet, register)

	if _, err := file.NewSheet(contractsSheet); err != nil {
		return nil, err
	}
	g.writeContracts(file, contractsSheet, register.Contracts)

	usedNames := map[string]struct{}{
		strings.ToLower(summarySheet):   {},
		strings.ToLower(contractsSheet): {},
	}
	for _, summary := range register.Contracts {
		sheetName := buildSheetName(summary.Contract, usedNames)

		if _, err := file.NewSheet(sheetName); err != nil {
			return nil, err
		}
		g.writeInvoices(file, sheetName, summary, invoicesFor(register.Invoices, summary.Contract.ID))
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, register model.ContractRegister) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	stats := register.Stats
	set("A1", "Gerado em")
	set("B1", formatDateTime(register.GeneratedAt))
	set("A2", "Contratos")
	set("B2", stats.TotalContracts)
	set("A3", "Contratos ativos")
	set("B3", stats.ActiveContracts)
	set("A4", "Vencendo em 30 dias")
	set("B4", stats.ExpiringContracts)
	set("A5", "Valor total")
	set("B5", formatAmount(stats.TotalValue))
	set("A6", "Faturado")
	set("B6", formatAmount(stats.TotalInvoiced))

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 22)
}

func (g *Generator) writeContracts(file *excelize.File, sheet string, contracts []model.ContractSummary) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Município",
		"Objeto",
		"Data inicial",
		"Data final",
		"Valor total",
		"Faturado",
		"Saldo",
		"Utilizado, %",
		"Notas fiscais",
		"Dias até o vencimento",
		"Situação",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, summary := range contracts {
		row := i + 2
		c := summary.Contract
		set(fmt.Sprintf("A%d", row), c.Municipality)
		set(fmt.Sprintf("B%d", row), c.Object)
		set(fmt.Sprintf("C%d", row), formatDate(c.StartDate))
		set(fmt.Sprintf("D%d", row), formatDate(c.EndDate))
		set(fmt.Sprintf("E%d", row), formatAmount(c.TotalValue))
		set(fmt.Sprintf("F%d", row), formatAmount(summary.TotalInvoiced))
		set(fmt.Sprintf("G%d", row), formatAmount(summary.Balance))
		set(fmt.Sprintf("H%d", row), formatPercent(summary.ProgressPercentage))
		set(fmt.Sprintf("I%d", row), summary.InvoiceCount)
		set(fmt.Sprintf("J%d", row), summary.DaysUntilExpiry)
		set(fmt.Sprintf("K%d", row), statusLabel(summary.Status))
	}

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "B", 60)
	_ = file.SetColWidth(sheet, "C", "D", 14)
	_ = file.SetColWidth(sheet, "E", "G", 16)
	_ = file.SetColWidth(sheet, "H", "J", 14)
	_ = file.SetColWidth(sheet, "K", "K", 12)
}

func (g *Generator) writeInvoices(file *excelize.File, sheet string, summary model.ContractSummary, invoices []model.Invoice) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	c := summary.Contract
	set("A1", "Município")
	set("B1", c.Municipality)
	set("A2", "Objeto")
	set("B2", c.Object)
	set("A3", "Vigência")
	set("B3", fmt.Sprintf("%s - %s", formatDate(c.StartDate), formatDate(c.EndDate)))
	set("A4", "Valor total")
	set("B4", formatAmount(c.TotalValue))
	set("A5", "Saldo")
	set("B5", formatAmount(summary.Balance))

	tableRow := 7
	headers := []string{"Número", "Data", "Valor"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, inv := range invoices {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), inv.Number)
		set(fmt.Sprintf("B%d", row), formatDate(inv.Date))
		set(fmt.Sprintf("C%d", row), formatAmount(inv.Value))
	}

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	_ = file.SetColWidth(sheet, "C", "C", 16)
}

// buildSheetName returns a sheet name not yet in used and records it there.
// Keys of used are lower case since excel compares sheet names
// case-insensitively.
func buildSheetName(c model.Contract, used map[string]struct{}) string {
	base := fmt.Sprintf("NF - %s", strings.TrimSpace(c.Municipality))
	if strings.TrimSpace(c.Municipality) == "" {
		base = fmt.Sprintf("NF - %s", c.ID)
	}
	base = strings.TrimRight(truncateRunes(sanitizeSheetName(base), maxSheetName), "' ")

	nameCandidate := base
	counter := 2
	for {
		key := strings.ToLower(nameCandidate)
		if _, exists := used[key]; !exists {
			used[key] = struct{}{}
			return nameCandidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		nameCandidate = truncateRunes(base, maxSheetName-len(suffix)) + suffix
		counter++
	}
}

// excel limits sheet names to 31 characters, not bytes.
func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Planilha"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(strings.Trim(replacer.Replace(value), "'"))
	if value == "" {
		return "Planilha"
	}
	return value
}

func invoicesFor(invoices []model.Invoice, contractID string) []model.Invoice {
	result := make([]model.Invoice, 0)
	for _, inv := range invoices {
		if inv.ContractID == contractID {
			result = append(result, inv)
		}
	}
	return result
}

func statusLabel(status model.ContractStatus) string {
	switch status {
	case model.ContractStatusExpired:
		return "Vencido"
	case model.ContractStatusExpiringSoon:
		return "Vencendo"
	default:
		return "Ativo"
	}
}

func formatDate(d model.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04:05")
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatPercent(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ""
	}
	return fmt.Sprintf("%.1f", value)
}

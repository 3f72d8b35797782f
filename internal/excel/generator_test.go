package excel

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contracts-service/internal/model"
)

func sampleRegister() model.ContractRegister {
	c1 := model.Contract{
		ID:           "1",
		Municipality: "Prefeitura de Santos",
		Object:       "Gestão de RH",
		StartDate:    model.NewDate(2026, time.March, 1),
		EndDate:      model.NewDate(2026, time.November, 1),
		TotalValue:   95000,
	}
	c2 := model.Contract{
		ID:           "2",
		Municipality: "Prefeitura de Santos",
		Object:       "Portal",
		StartDate:    model.NewDate(2026, time.March, 1),
		EndDate:      model.NewDate(2027, time.March, 1),
		TotalValue:   0,
	}
	return model.ContractRegister{
		GeneratedAt: time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC),
		Stats:       model.DashboardStats{TotalContracts: 2, ActiveContracts: 2, TotalValue: 95000, TotalInvoiced: 35000, ExpiringContracts: 1},
		Contracts: []model.ContractSummary{
			{Contract: c1, InvoiceCount: 1, TotalInvoiced: 35000, Balance: 60000, ProgressPercentage: 36.842, DaysUntilExpiry: 18, Status: model.ContractStatusExpiringSoon},
			{Contract: c2, ProgressPercentage: math.NaN(), DaysUntilExpiry: 138, Status: model.ContractStatusActive},
		},
		Invoices: []model.Invoice{
			{ID: "i1", ContractID: "1", Number: "004/2026", Value: 35000, Date: model.NewDate(2026, time.April, 1)},
		},
	}
}

func TestGenerate(t *testing.T) {
	content, err := NewGenerator().Generate(sampleRegister())
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"Resumo", "Contratos", "NF - Prefeitura de Santos", "NF - Prefeitura de Santos-2"}, file.GetSheetList())

	value, err := file.GetCellValue("Resumo", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", value)

	value, err = file.GetCellValue("Contratos", "G2")
	require.NoError(t, err)
	assert.Equal(t, "60000.00", value)

	value, err = file.GetCellValue("Contratos", "H2")
	require.NoError(t, err)
	assert.Equal(t, "36.8", value)

	value, err = file.GetCellValue("Contratos", "H3")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	value, err = file.GetCellValue("Contratos", "K2")
	require.NoError(t, err)
	assert.Equal(t, "Vencendo", value)

	value, err = file.GetCellValue("NF - Prefeitura de Santos", "A8")
	require.NoError(t, err)
	assert.Equal(t, "004/2026", value)
}

func TestBuildSheetNameLimitsLength(t *testing.T) {
	used := map[string]struct{}{}
	c := model.Contract{ID: "x", Municipality: "Câmara Municipal de São José dos Campos: Sede"}

	first := buildSheetName(c, used)
	second := buildSheetName(c, used)

	assert.LessOrEqual(t, len([]rune(first)), 31)
	assert.LessOrEqual(t, len([]rune(second)), 31)
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(second, "-2"))
	assert.NotContains(t, first, ":")
}

func TestBuildSheetNameFallsBackToID(t *testing.T) {
	name := buildSheetName(model.Contract{ID: "abc"}, map[string]struct{}{})
	assert.Equal(t, "NF - abc", name)
}

func TestBuildSheetNameIgnoresCase(t *testing.T) {
	used := map[string]struct{}{}

	first := buildSheetName(model.Contract{ID: "1", Municipality: "Prefeitura de Santos"}, used)
	second := buildSheetName(model.Contract{ID: "2", Municipality: "PREFEITURA DE SANTOS"}, used)

	assert.Equal(t, "NF - Prefeitura de Santos", first)
	assert.Equal(t, "NF - PREFEITURA DE SANTOS-2", second)
}

func TestBuildSheetNameStripsQuotes(t *testing.T) {
	name := buildSheetName(model.Contract{ID: "1", Municipality: "Santa Bárbara d'Oeste'"}, map[string]struct{}{})
	assert.Equal(t, "NF - Santa Bárbara d'Oeste", name)
}

func TestGenerateKeepsCaseVariantContractsApart(t *testing.T) {
	c1 := model.Contract{ID: "1", Municipality: "Prefeitura de Santos", TotalValue: 100}
	c2 := model.Contract{ID: "2", Municipality: "PREFEITURA DE SANTOS", TotalValue: 100}
	register := model.ContractRegister{
		Contracts: []model.ContractSummary{{Contract: c1}, {Contract: c2}},
		Invoices: []model.Invoice{
			{ID: "a", ContractID: "1", Number: "001", Value: 10},
			{ID: "b", ContractID: "2", Number: "002", Value: 20},
		},
	}

	content, err := NewGenerator().Generate(register)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"Resumo", "Contratos", "NF - Prefeitura de Santos", "NF - PREFEITURA DE SANTOS-2"}, file.GetSheetList())

	value, err := file.GetCellValue("NF - Prefeitura de Santos", "A8")
	require.NoError(t, err)
	assert.Equal(t, "001", value)

	value, err = file.GetCellValue("NF - PREFEITURA DE SANTOS-2", "A8")
	require.NoError(t, err)
	assert.Equal(t, "002", value)
}

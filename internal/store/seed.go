package store

import (
	"time"

	"github.com/nurpe/contracts-service/internal/model"
)

// DemoSnapshot is the sample data a fresh installation can start from.
func DemoSnapshot() model.Snapshot {
	return model.Snapshot{
		Contracts: []model.Contract{
			{
				ID:           "1",
				Municipality: "Prefeitura de São Paulo",
				Object:       "Prestação de serviços de consultoria em tecnologia da informação para modernização dos sistemas municipais",
				StartDate:    model.NewDate(2024, time.January, 15),
				EndDate:      model.NewDate(2024, time.December, 31),
				TotalValue:   150000,
				Notes:        "Contrato piloto para implementação de sistema integrado de gestão municipal.",
				CreatedAt:    time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
			},
			{
				ID:           "2",
				Municipality: "Câmara Municipal de Campinas",
				Object:       "Desenvolvimento e manutenção de portal de transparência",
				StartDate:    model.NewDate(2024, time.February, 1),
				EndDate:      model.NewDate(2025, time.January, 31),
				TotalValue:   75000,
				Notes:        "Inclui treinamento da equipe e suporte técnico por 12 meses.",
				CreatedAt:    time.Date(2024, time.February, 1, 14, 30, 0, 0, time.UTC),
			},
			{
				ID:           "3",
				Municipality: "Prefeitura de Santos",
				Object:       "Implantação de sistema de gestão de recursos humanos",
				StartDate:    model.NewDate(2024, time.March, 1),
				EndDate:      model.NewDate(2024, time.August, 30),
				TotalValue:   95000,
				Notes:        "Migração de dados do sistema legado incluída no escopo.",
				CreatedAt:    time.Date(2024, time.March, 1, 9, 15, 0, 0, time.UTC),
			},
		},
		Invoices: []model.Invoice{
			{ID: "1", ContractID: "1", Number: "001/2024", Value: 25000, Date: model.NewDate(2024, time.February, 15), CreatedAt: time.Date(2024, time.February, 15, 10, 0, 0, 0, time.UTC)},
			{ID: "2", ContractID: "1", Number: "002/2024", Value: 30000, Date: model.NewDate(2024, time.March, 15), CreatedAt: time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)},
			{ID: "3", ContractID: "2", Number: "003/2024", Value: 15000, Date: model.NewDate(2024, time.March, 1), CreatedAt: time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)},
			{ID: "4", ContractID: "3", Number: "004/2024", Value: 35000, Date: model.NewDate(2024, time.April, 1), CreatedAt: time.Date(2024, time.April, 1, 10, 0, 0, 0, time.UTC)},
		},
	}
}

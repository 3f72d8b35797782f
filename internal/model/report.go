package model

import "time"

// ContractRegister is the input of the spreadsheet export.
type ContractRegister struct {
	GeneratedAt time.Time
	Stats       DashboardStats
	Contracts   []ContractSummary
	Invoices    []Invoice
}

// ContractStatement is the input of the per-contract PDF.
type ContractStatement struct {
	GeneratedAt time.Time
	Summary     ContractSummary
	Invoices    []Invoice
}

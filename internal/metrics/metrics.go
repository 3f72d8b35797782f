// Package metrics derives balances, progress and expiry figures from the
// contract and invoice collections. Every function is pure: callers pass the
// current snapshot and, where expiry matters, the current time.
package metrics

import (
	"math"
	"time"

	"github.com/nurpe/contracts-service/internal/model"
)

const (
	// ExpiryWindowDays is the lookahead used for both the status badge and the alert list.
	ExpiryWindowDays = 30

	day = 24 * time.Hour
)

func TotalInvoiced(invoices []model.Invoice, contractID string) float64 {
	total := 0.0
	for _, inv := range invoices {
		if inv.ContractID == contractID {
			total += inv.Value
		}
	}
	return total
}

func InvoiceCount(invoices []model.Invoice, contractID string) int {
	count := 0
	for _, inv := range invoices {
		if inv.ContractID == contractID {
			count++
		}
	}
	return count
}

func Balance(contract model.Contract, invoices []model.Invoice) float64 {
	return contract.TotalValue - TotalInvoiced(invoices, contract.ID)
}

// ProgressPercentage is the invoiced share of the ceiling. It is NaN when the
// ceiling is zero.
func ProgressPercentage(contract model.Contract, invoices []model.Invoice) float64 {
	return ratio(TotalInvoiced(invoices, contract.ID), contract.TotalValue) * 100
}

// AvailablePercentage is the remaining share of the ceiling, NaN when the
// ceiling is zero.
func AvailablePercentage(contract model.Contract, invoices []model.Invoice) float64 {
	return ratio(Balance(contract, invoices), contract.TotalValue) * 100
}

func ratio(part, whole float64) float64 {
	if whole == 0 {
		return math.NaN()
	}
	return part / whole
}

// DaysUntilExpiry rounds the distance to the end date up to whole days.
// Past end dates give negative values.
func DaysUntilExpiry(contract model.Contract, now time.Time) int {
	diff := contract.EndDate.Sub(now)
	return int(math.Ceil(float64(diff) / float64(day)))
}

// DaysRemaining is DaysUntilExpiry floored at zero.
func DaysRemaining(contract model.Contract, now time.Time) int {
	return max(DaysUntilExpiry(contract, now), 0)
}

// Status classifies a contract for list rows and the detail badge. A contract
// on its last day (0 days) is still EXPIRING_SOON.
func Status(contract model.Contract, now time.Time) model.ContractStatus {
	days := DaysUntilExpiry(contract, now)
	if days < 0 {
		return model.ContractStatusExpired
	}
	if days <= ExpiryWindowDays {
		return model.ContractStatusExpiringSoon
	}
	return model.ContractStatusActive
}

// AlertEligible selects contracts for the expiry banner. Unlike Status it
// excludes day 0.
func AlertEligible(contract model.Contract, now time.Time) bool {
	days := DaysUntilExpiry(contract, now)
	return days > 0 && days <= ExpiryWindowDays
}

func ExpiringAlerts(contracts []model.Contract, now time.Time) []model.ExpiryAlert {
	alerts := make([]model.ExpiryAlert, 0)
	for _, contract := range contracts {
		if !AlertEligible(contract, now) {
			continue
		}
		alerts = append(alerts, model.ExpiryAlert{
			Contract:        contract,
			DaysUntilExpiry: DaysUntilExpiry(contract, now),
		})
	}
	return alerts
}

func Summarize(contract model.Contract, invoices []model.Invoice, now time.Time) model.ContractSummary {
	return model.ContractSummary{
		Contract:            contract,
		InvoiceCount:        InvoiceCount(invoices, contract.ID),
		TotalInvoiced:       TotalInvoiced(invoices, contract.ID),
		Balance:             Balance(contract, invoices),
		ProgressPercentage:  ProgressPercentage(contract, invoices),
		AvailablePercentage: AvailablePercentage(contract, invoices),
		DaysUntilExpiry:     DaysUntilExpiry(contract, now),
		DaysRemaining:       DaysRemaining(contract, now),
		Status:              Status(contract, now),
	}
}

func SummarizeAll(snapshot model.Snapshot, now time.Time) []model.ContractSummary {
	result := make([]model.ContractSummary, 0, len(snapshot.Contracts))
	for _, contract := range snapshot.Contracts {
		result = append(result, Summarize(contract, snapshot.Invoices, now))
	}
	return result
}

// Dashboard computes the totals card. Active means the end date is still in
// the future; invoiced totals include every invoice in the snapshot.
func Dashboard(snapshot model.Snapshot, now time.Time) model.DashboardStats {
	stats := model.DashboardStats{TotalContracts: len(snapshot.Contracts)}
	for _, contract := range snapshot.Contracts {
		if contract.EndDate.After(now) {
			stats.ActiveContracts++
		}
		if AlertEligible(contract, now) {
			stats.ExpiringContracts++
		}
		stats.TotalValue += contract.TotalValue
	}
	for _, inv := range snapshot.Invoices {
		stats.TotalInvoiced += inv.Value
	}
	return stats
}

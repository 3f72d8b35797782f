package model

type ContractStatus string

const (
	ContractStatusActive       ContractStatus = "ACTIVE"
	ContractStatusExpiringSoon ContractStatus = "EXPIRING_SOON"
	ContractStatusExpired      ContractStatus = "EXPIRED"
)

// ContractSummary holds the derived figures for one contract at a point in time.
// ProgressPercentage and AvailablePercentage are NaN when TotalValue is zero.
type ContractSummary struct {
	Contract            Contract
	InvoiceCount        int
	TotalInvoiced       float64
	Balance             float64
	ProgressPercentage  float64
	AvailablePercentage float64
	DaysUntilExpiry     int
	DaysRemaining       int
	Status              ContractStatus
}

type ExpiryAlert struct {
	Contract        Contract
	DaysUntilExpiry int
}

type DashboardStats struct {
	TotalContracts    int
	ActiveContracts   int
	TotalValue        float64
	TotalInvoiced     float64
	ExpiringContracts int
}

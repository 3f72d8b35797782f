package http

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/contracts-service/internal/auth"
	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/service"
)

type userView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	CompanyName string    `json:"companyName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type sessionView struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userView  `json:"user"`
}

type summaryView struct {
	Contract            model.Contract       `json:"contract"`
	InvoiceCount        int                  `json:"invoiceCount"`
	TotalInvoiced       float64              `json:"totalInvoiced"`
	Balance             float64              `json:"balance"`
	ProgressPercentage  *float64             `json:"progressPercentage"`
	AvailablePercentage *float64             `json:"availablePercentage"`
	DaysUntilExpiry     int                  `json:"daysUntilExpiry"`
	DaysRemaining       int                  `json:"daysRemaining"`
	Status              model.ContractStatus `json:"status"`
	StatusLabel         string               `json:"statusLabel"`
}

type detailView struct {
	summaryView
	Invoices []model.Invoice `json:"invoices"`
}

type alertView struct {
	Contract        model.Contract `json:"contract"`
	DaysUntilExpiry int            `json:"daysUntilExpiry"`
}

type dashboardView struct {
	TotalContracts    int     `json:"totalContracts"`
	ActiveContracts   int     `json:"activeContracts"`
	TotalValue        float64 `json:"totalValue"`
	TotalInvoiced     float64 `json:"totalInvoiced"`
	ExpiringContracts int     `json:"expiringContracts"`
}

func newUserView(u model.User) userView {
	return userView{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		CompanyName: u.CompanyName,
		CreatedAt:   u.CreatedAt,
	}
}

func newSessionView(s *auth.Session) sessionView {
	return sessionView{Token: s.Token, ExpiresAt: s.ExpiresAt, User: newUserView(s.User)}
}

func newSummaryView(s model.ContractSummary) summaryView {
	return summaryView{
		Contract:            s.Contract,
		InvoiceCount:        s.InvoiceCount,
		TotalInvoiced:       s.TotalInvoiced,
		Balance:             s.Balance,
		ProgressPercentage:  finiteOrNil(s.ProgressPercentage),
		AvailablePercentage: finiteOrNil(s.AvailablePercentage),
		DaysUntilExpiry:     s.DaysUntilExpiry,
		DaysRemaining:       s.DaysRemaining,
		Status:              s.Status,
		StatusLabel:         statusLabel(s),
	}
}

func newDetailView(d *service.ContractDetail) detailView {
	invoices := d.Invoices
	if invoices == nil {
		invoices = []model.Invoice{}
	}
	return detailView{summaryView: newSummaryView(d.Summary), Invoices: invoices}
}

func newAlertView(a model.ExpiryAlert) alertView {
	return alertView{Contract: a.Contract, DaysUntilExpiry: a.DaysUntilExpiry}
}

func newDashboardView(s model.DashboardStats) dashboardView {
	return dashboardView{
		TotalContracts:    s.TotalContracts,
		ActiveContracts:   s.ActiveContracts,
		TotalValue:        s.TotalValue,
		TotalInvoiced:     s.TotalInvoiced,
		ExpiringContracts: s.ExpiringContracts,
	}
}

// finiteOrNil maps the NaN produced for zero-value contracts to JSON null.
func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func statusLabel(s model.ContractSummary) string {
	switch s.Status {
	case model.ContractStatusExpired:
		return "Vencido"
	case model.ContractStatusExpiringSoon:
		return fmt.Sprintf("Vence em %d dias", s.DaysRemaining)
	default:
		return "Ativo"
	}
}

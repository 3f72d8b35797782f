package service

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/nurpe/contracts-service/internal/metrics"
	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/store"
)

type ExcelGenerator interface {
	Generate(register model.ContractRegister) ([]byte, error)
}

type PDFGenerator interface {
	Generate(statement model.ContractStatement) ([]byte, error)
}

type MutationRecorder interface {
	Mutation(op string)
}

type ContractService struct {
	// mu keeps the balance check and the invoice insert in one step.
	mu sync.Mutex

	store    *store.Store
	excel    ExcelGenerator
	pdf      PDFGenerator
	recorder MutationRecorder
	now      func() time.Time
}

type Option func(*ContractService)

func WithClock(fn func() time.Time) Option {
	return func(s *ContractService) {
		s.now = fn
	}
}

func WithRecorder(r MutationRecorder) Option {
	return func(s *ContractService) {
		s.recorder = r
	}
}

func NewContractService(st *store.Store, excel ExcelGenerator, pdf PDFGenerator, opts ...Option) *ContractService {
	s := &ContractService{
		store: st,
		excel: excel,
		pdf:   pdf,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateContractInput struct {
	Municipality string
	Object       string
	StartDate    model.Date
	EndDate      model.Date
	TotalValue   float64
	Notes        string
}

type AddInvoiceInput struct {
	Number string
	Value  float64
	Date   model.Date
}

type ContractDetail struct {
	Summary  model.ContractSummary
	Invoices []model.Invoice
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func (s *ContractService) Now() time.Time {
	return s.now()
}

func (s *ContractService) ListContracts() []model.ContractSummary {
	return metrics.SummarizeAll(s.store.Snapshot(), s.now())
}

func (s *ContractService) Dashboard() model.DashboardStats {
	return metrics.Dashboard(s.store.Snapshot(), s.now())
}

func (s *ContractService) Alerts() []model.ExpiryAlert {
	return metrics.ExpiringAlerts(s.store.Contracts(), s.now())
}

func (s *ContractService) GetContract(id string) (*ContractDetail, error) {
	snapshot := s.store.Snapshot()
	contract, ok := findContract(snapshot.Contracts, id)
	if !ok {
		return nil, ErrNotFound
	}
	return &ContractDetail{
		Summary:  metrics.Summarize(contract, snapshot.Invoices, s.now()),
		Invoices: invoicesFor(snapshot.Invoices, id),
	}, nil
}

func (s *ContractService) CreateContract(input CreateContractInput) (model.Contract, error) {
	input.Municipality = strings.TrimSpace(input.Municipality)
	input.Object = strings.TrimSpace(input.Object)

	switch {
	case input.Municipality == "":
		return model.Contract{}, fmt.Errorf("%w: municipality is required", ErrInvalidInput)
	case input.Object == "":
		return model.Contract{}, fmt.Errorf("%w: object is required", ErrInvalidInput)
	case input.StartDate.IsZero():
		return model.Contract{}, fmt.Errorf("%w: start date is required", ErrInvalidInput)
	case input.EndDate.IsZero():
		return model.Contract{}, fmt.Errorf("%w: end date is required", ErrInvalidInput)
	}
	if err := validateAmount("total value", input.TotalValue); err != nil {
		return model.Contract{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	contract := s.store.AddContract(model.ContractInput{
		Municipality: input.Municipality,
		Object:       input.Object,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		TotalValue:   input.TotalValue,
		Notes:        input.Notes,
	})
	s.record("add_contract")
	return contract, nil
}

func (s *ContractService) UpdateContract(id string, patch model.ContractPatch) (model.Contract, error) {
	if patch.IsEmpty() {
		return model.Contract{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if patch.Municipality != nil && strings.TrimSpace(*patch.Municipality) == "" {
		return model.Contract{}, fmt.Errorf("%w: municipality cannot be empty", ErrInvalidInput)
	}
	if patch.Object != nil && strings.TrimSpace(*patch.Object) == "" {
		return model.Contract{}, fmt.Errorf("%w: object cannot be empty", ErrInvalidInput)
	}
	if patch.StartDate != nil && patch.StartDate.IsZero() {
		return model.Contract{}, fmt.Errorf("%w: start date cannot be empty", ErrInvalidInput)
	}
	if patch.EndDate != nil && patch.EndDate.IsZero() {
		return model.Contract{}, fmt.Errorf("%w: end date cannot be empty", ErrInvalidInput)
	}
	if patch.TotalValue != nil {
		if err := validateAmount("total value", *patch.TotalValue); err != nil {
			return model.Contract{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	updated, ok := s.store.UpdateContract(id, patch)
	if !ok {
		return model.Contract{}, ErrNotFound
	}
	s.record("update_contract")
	return updated, nil
}

func (s *ContractService) UpdateNotes(id, notes string) (model.Contract, error) {
	return s.UpdateContract(id, model.ContractPatch{Notes: &notes})
}

// RemoveContract deletes the contract and its invoices. Unknown ids are not
// an error.
func (s *ContractService) RemoveContract(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store.RemoveContract(id) {
		s.record("remove_contract")
	}
}

// AddInvoice records an invoice against contractID, refusing values above
// the contract's remaining balance.
func (s *ContractService) AddInvoice(contractID string, input AddInvoiceInput) (model.Invoice, error) {
	input.Number = strings.TrimSpace(input.Number)
	if input.Number == "" {
		return model.Invoice{}, fmt.Errorf("%w: invoice number is required", ErrInvalidInput)
	}
	if input.Date.IsZero() {
		return model.Invoice{}, fmt.Errorf("%w: invoice date is required", ErrInvalidInput)
	}
	if err := validateAmount("invoice value", input.Value); err != nil {
		return model.Invoice{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contract, ok := s.store.Contract(contractID)
	if !ok {
		return model.Invoice{}, ErrNotFound
	}
	balance := metrics.Balance(contract, s.store.InvoicesFor(contractID))
	if input.Value > balance {
		return model.Invoice{}, ErrBalanceExceeded
	}

	invoice := s.store.AddInvoice(model.InvoiceInput{
		ContractID: contractID,
		Number:     input.Number,
		Value:      input.Value,
		Date:       input.Date,
	})
	s.record("add_invoice")
	return invoice, nil
}

// RemoveInvoice deletes one invoice. Unknown ids are not an error.
func (s *ContractService) RemoveInvoice(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store.RemoveInvoice(id) {
		s.record("remove_invoice")
	}
}

func (s *ContractService) ExportContracts() (*ExportResult, error) {
	now := s.now()
	snapshot := s.store.Snapshot()
	register := model.ContractRegister{
		GeneratedAt: now,
		Stats:       metrics.Dashboard(snapshot, now),
		Contracts:   metrics.SummarizeAll(snapshot, now),
		Invoices:    snapshot.Invoices,
	}

	content, err := s.excel.Generate(register)
	if err != nil {
		return nil, fmt.Errorf("generate register: %w", err)
	}
	return &ExportResult{
		FileName: fmt.Sprintf("contracts-%s.xlsx", now.Format("20060102")),
		Content:  content,
	}, nil
}

func (s *ContractService) ContractStatement(id string) (*ExportResult, error) {
	detail, err := s.GetContract(id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	content, err := s.pdf.Generate(model.ContractStatement{
		GeneratedAt: now,
		Summary:     detail.Summary,
		Invoices:    detail.Invoices,
	})
	if err != nil {
		return nil, fmt.Errorf("generate statement: %w", err)
	}

	name := sanitizeFileName(detail.Summary.Contract.Municipality)
	if name == "" {
		name = detail.Summary.Contract.ID
	}
	return &ExportResult{
		FileName: fmt.Sprintf("statement-%s-%s.pdf", name, now.Format("20060102")),
		Content:  content,
	}, nil
}

func (s *ContractService) record(op string) {
	if s.recorder != nil {
		s.recorder.Mutation(op)
	}
}

func validateAmount(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s must be a number", ErrInvalidInput, field)
	}
	if value < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, field)
	}
	return nil
}

func findContract(contracts []model.Contract, id string) (model.Contract, bool) {
	for _, c := range contracts {
		if c.ID == id {
			return c, true
		}
	}
	return model.Contract{}, false
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

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r+'a'-'A')
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}

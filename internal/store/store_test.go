package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contracts-service/internal/metrics"
	"github.com/nurpe/contracts-service/internal/model"
)

var fixedNow = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func newTestStore(opts ...Option) *Store {
	seq := 0
	base := []Option{
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		WithClock(func() time.Time { return fixedNow }),
	}
	return New(append(base, opts...)...)
}

func contractInput(name string, total float64) model.ContractInput {
	return model.ContractInput{
		Municipality: name,
		Object:       "Portal de transparência",
		StartDate:    model.NewDate(2026, time.January, 1),
		EndDate:      model.NewDate(2026, time.December, 31),
		TotalValue:   total,
	}
}

func TestAddContractAssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore()

	c := s.AddContract(contractInput("Campinas", 75000))

	assert.Equal(t, "id-1", c.ID)
	assert.Equal(t, fixedNow, c.CreatedAt)
	assert.Equal(t, "Campinas", c.Municipality)

	got, ok := s.Contract(c.ID)
	require.True(t, ok)
	assert.Equal(t, c, got)
}

func TestAddContractAllowsDuplicateMunicipality(t *testing.T) {
	s := newTestStore()

	a := s.AddContract(contractInput("Santos", 1))
	b := s.AddContract(contractInput("Santos", 2))

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, s.Contracts(), 2)
}

func TestUpdateContractMergesGivenFields(t *testing.T) {
	s := newTestStore()
	c := s.AddContract(contractInput("Santos", 95000))

	notes := "Aditivo assinado"
	total := 120000.0
	updated, ok := s.UpdateContract(c.ID, model.ContractPatch{Notes: &notes, TotalValue: &total})

	require.True(t, ok)
	assert.Equal(t, c.ID, updated.ID)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Santos", updated.Municipality)
	assert.Equal(t, c.EndDate, updated.EndDate)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, total, updated.TotalValue)

	got, _ := s.Contract(c.ID)
	assert.Equal(t, updated, got)
}

func TestUpdateContractUnknownIDIsNoop(t *testing.T) {
	s := newTestStore()
	s.AddContract(contractInput("Santos", 95000))
	before := s.Snapshot()

	notified := 0
	s.Subscribe(func(model.Snapshot) { notified++ })

	notes := "x"
	_, ok := s.UpdateContract("missing", model.ContractPatch{Notes: &notes})

	assert.False(t, ok)
	assert.Equal(t, before, s.Snapshot())
	assert.Zero(t, notified)
}

func TestRemoveContractCascadesToInvoices(t *testing.T) {
	s := newTestStore()
	keep := s.AddContract(contractInput("Campinas", 75000))
	drop := s.AddContract(contractInput("Santos", 95000))

	keptInvoice := s.AddInvoice(model.InvoiceInput{ContractID: keep.ID, Number: "001", Value: 100})
	s.AddInvoice(model.InvoiceInput{ContractID: drop.ID, Number: "002", Value: 200})
	s.AddInvoice(model.InvoiceInput{ContractID: drop.ID, Number: "003", Value: 300})

	require.True(t, s.RemoveContract(drop.ID))

	_, ok := s.Contract(drop.ID)
	assert.False(t, ok)
	assert.Empty(t, s.InvoicesFor(drop.ID))
	assert.Equal(t, []model.Contract{keep}, s.Contracts())
	assert.Equal(t, []model.Invoice{keptInvoice}, s.Invoices())
}

func TestRemoveContractUnknownIDIsNoop(t *testing.T) {
	s := newTestStore()
	c := s.AddContract(contractInput("Santos", 95000))
	s.AddInvoice(model.InvoiceInput{ContractID: c.ID, Number: "001", Value: 10})
	before := s.Snapshot()

	notified := 0
	s.Subscribe(func(model.Snapshot) { notified++ })

	assert.False(t, s.RemoveContract("missing"))
	assert.Equal(t, before, s.Snapshot())
	assert.Zero(t, notified)
}

func TestAddInvoiceDoesNotCheckReferenceOrCeiling(t *testing.T) {
	s := newTestStore()
	c := s.AddContract(contractInput("Santos", 100))

	s.AddInvoice(model.InvoiceInput{ContractID: c.ID, Number: "001", Value: 500})
	orphan := s.AddInvoice(model.InvoiceInput{ContractID: "nowhere", Number: "002", Value: 1})

	assert.Len(t, s.Invoices(), 2)
	assert.Equal(t, "nowhere", orphan.ContractID)
	assert.InDelta(t, -400, metrics.Balance(c, s.Invoices()), 1e-9)
}

func TestRemoveInvoice(t *testing.T) {
	s := newTestStore()
	c := s.AddContract(contractInput("Santos", 100000))
	first := s.AddInvoice(model.InvoiceInput{ContractID: c.ID, Number: "001", Value: 30000})
	second := s.AddInvoice(model.InvoiceInput{ContractID: c.ID, Number: "002", Value: 20000})

	require.True(t, s.RemoveInvoice(first.ID))
	assert.False(t, s.RemoveInvoice(first.ID))

	assert.Equal(t, []model.Invoice{second}, s.InvoicesFor(c.ID))
	_, ok := s.Contract(c.ID)
	assert.True(t, ok)
}

func TestInvoicedTotalsTrackMutations(t *testing.T) {
	s := newTestStore()
	c := s.AddContract(contractInput("Santos", 100000))

	check := func() {
		t.Helper()
		invoices := s.Invoices()
		assert.InDelta(t, c.TotalValue, metrics.Balance(c, invoices)+metrics.TotalInvoiced(invoices, c.ID), 1e-9)
	}

	check()
	before := metrics.TotalInvoiced(s.Invoices(), c.ID)
	inv := s.AddInvoice(model.InvoiceInput{ContractID: c.ID, Number: "001", Value: 12345.67})
	assert.InDelta(t, before+inv.Value, metrics.TotalInvoiced(s.Invoices(), c.ID), 1e-9)
	check()

	s.AddInvoice(model.InvoiceInput{ContractID: c.ID, Number: "002", Value: 100})
	check()

	before = metrics.TotalInvoiced(s.Invoices(), c.ID)
	s.RemoveInvoice(inv.ID)
	assert.InDelta(t, before-inv.Value, metrics.TotalInvoiced(s.Invoices(), c.ID), 1e-9)
	check()
}

func TestReadsReturnCopies(t *testing.T) {
	s := newTestStore()
	c := s.AddContract(contractInput("Santos", 1))
	s.AddInvoice(model.InvoiceInput{ContractID: c.ID, Number: "001", Value: 1})

	contracts := s.Contracts()
	contracts[0].Municipality = "changed"
	invoices := s.InvoicesFor(c.ID)
	invoices[0].Value = 999
	snapshot := s.Snapshot()
	snapshot.Invoices = append(snapshot.Invoices[:0], model.Invoice{ID: "bogus"})

	got, _ := s.Contract(c.ID)
	assert.Equal(t, "Santos", got.Municipality)
	require.Len(t, s.Invoices(), 1)
	assert.Equal(t, 1.0, s.Invoices()[0].Value)
}

func TestSubscribersReceivePostMutationSnapshot(t *testing.T) {
	s := newTestStore()

	var seen []model.Snapshot
	unsubscribe := s.Subscribe(func(snap model.Snapshot) {
		seen = append(seen, snap)
	})

	c := s.AddContract(contractInput("Santos", 1))
	inv := s.AddInvoice(model.InvoiceInput{ContractID: c.ID, Number: "001", Value: 1})
	s.RemoveInvoice(inv.ID)

	require.Len(t, seen, 3)
	assert.Len(t, seen[0].Contracts, 1)
	assert.Empty(t, seen[0].Invoices)
	assert.Len(t, seen[1].Invoices, 1)
	assert.Empty(t, seen[2].Invoices)

	unsubscribe()
	s.AddContract(contractInput("Campinas", 1))
	assert.Len(t, seen, 3)
}

func TestReplaceDoesNotNotify(t *testing.T) {
	s := newTestStore()
	notified := 0
	s.Subscribe(func(model.Snapshot) { notified++ })

	s.Replace(DemoSnapshot())

	assert.Zero(t, notified)
	assert.Equal(t, DemoSnapshot(), s.Snapshot())
}

func TestWithSnapshotStartsFromGivenState(t *testing.T) {
	s := newTestStore(WithSnapshot(DemoSnapshot()))

	assert.Len(t, s.Contracts(), 3)
	assert.Len(t, s.InvoicesFor("1"), 2)
}

func TestConcurrentMutationsNotifyInOrder(t *testing.T) {
	s := New(WithClock(func() time.Time { return fixedNow }))

	var lastCount int
	ordered := true
	s.Subscribe(func(snap model.Snapshot) {
		if len(snap.Contracts) < lastCount {
			ordered = false
		}
		lastCount = len(snap.Contracts)
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AddContract(contractInput(fmt.Sprintf("m-%d", i), float64(i)))
		}(i)
	}
	wg.Wait()

	assert.True(t, ordered)
	assert.Equal(t, 50, lastCount)
	assert.Len(t, s.Contracts(), 50)
}

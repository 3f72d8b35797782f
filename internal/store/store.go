// Package store holds the contract and invoice collections. The Store is the
// only owner of the underlying slices; every read hands out a copy and every
// mutation notifies subscribers with the post-mutation snapshot.
package store

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/contracts-service/internal/model"
)

// Listener receives the state after a mutation. Listeners run synchronously
// in mutation order and must not call back into the Store.
type Listener func(model.Snapshot)

type Option func(*Store)

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		s.now = fn
	}
}

func WithSnapshot(snapshot model.Snapshot) Option {
	return func(s *Store) {
		s.state = snapshot.Clone()
	}
}

type subscription struct {
	id int
	fn Listener
}

type Store struct {
	mu    sync.RWMutex
	state model.Snapshot

	// notifyMu is taken before mu is released so listeners observe
	// snapshots in the same order the mutations happened.
	notifyMu  sync.Mutex
	listeners []subscription
	nextSub   int

	newID func() string
	now   func() time.Time
}

func New(opts ...Option) *Store {
	s := &Store{
		state: model.EmptySnapshot(),
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.notifyMu.Lock()
		defer s.notifyMu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) Contracts() []model.Contract {
	return s.Snapshot().Contracts
}

func (s *Store) Invoices() []model.Invoice {
	return s.Snapshot().Invoices
}

func (s *Store) Contract(id string) (model.Contract, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.state.Contracts {
		if c.ID == id {
			return c, true
		}
	}
	return model.Contract{}, false
}

func (s *Store) InvoicesFor(contractID string) []model.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.Invoice, 0)
	for _, inv := range s.state.Invoices {
		if inv.ContractID == contractID {
			result = append(result, inv)
		}
	}
	return result
}

// Replace swaps the whole state without notifying. Used when hydrating.
func (s *Store) Replace(snapshot model.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = snapshot.Clone()
}

func (s *Store) AddContract(input model.ContractInput) model.Contract {
	contract := model.Contract{
		ID:           s.newID(),
		Municipality: input.Municipality,
		Object:       input.Object,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		TotalValue:   input.TotalValue,
		Notes:        input.Notes,
		CreatedAt:    s.now(),
	}

	s.mutate(func(state *model.Snapshot) bool {
		state.Contracts = append(state.Contracts, contract)
		return true
	})
	return contract
}

// UpdateContract merges patch into the contract with the given id. It
// reports false, and changes nothing, when no such contract exists.
func (s *Store) UpdateContract(id string, patch model.ContractPatch) (model.Contract, bool) {
	var updated model.Contract
	found := s.mutate(func(state *model.Snapshot) bool {
		for i := range state.Contracts {
			if state.Contracts[i].ID == id {
				state.Contracts[i] = patch.Apply(state.Contracts[i])
				updated = state.Contracts[i]
				return true
			}
		}
		return false
	})
	return updated, found
}

// RemoveContract deletes the contract and all of its invoices in one step.
func (s *Store) RemoveContract(id string) bool {
	return s.mutate(func(state *model.Snapshot) bool {
		contracts := make([]model.Contract, 0, len(state.Contracts))
		found := false
		for _, c := range state.Contracts {
			if c.ID == id {
				found = true
				continue
			}
			contracts = append(contracts, c)
		}
		if !found {
			return false
		}

		invoices := make([]model.Invoice, 0, len(state.Invoices))
		for _, inv := range state.Invoices {
			if inv.ContractID != id {
				invoices = append(invoices, inv)
			}
		}

		state.Contracts = contracts
		state.Invoices = invoices
		return true
	})
}

// AddInvoice appends an invoice. It checks neither that the contract exists
// nor that the ceiling holds.
func (s *Store) AddInvoice(input model.InvoiceInput) model.Invoice {
	invoice := model.Invoice{
		ID:         s.newID(),
		ContractID: input.ContractID,
		Number:     input.Number,
		Value:      input.Value,
		Date:       input.Date,
		CreatedAt:  s.now(),
	}

	s.mutate(func(state *model.Snapshot) bool {
		state.Invoices = append(state.Invoices, invoice)
		return true
	})
	return invoice
}

func (s *Store) RemoveInvoice(id string) bool {
	return s.mutate(func(state *model.Snapshot) bool {
		for i, inv := range state.Invoices {
			if inv.ID == id {
				state.Invoices = append(state.Invoices[:i:i], state.Invoices[i+1:]...)
				return true
			}
		}
		return false
	})
}

// mutate applies fn under the write lock. When fn reports a change, the new
// state is delivered to listeners before the next mutation can notify;
// readers are not blocked while listeners run.
func (s *Store) mutate(fn func(state *model.Snapshot) bool) bool {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return false
	}
	snapshot := s.state.Clone()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, sub := range s.listeners {
		sub.fn(snapshot)
	}
	return true
}

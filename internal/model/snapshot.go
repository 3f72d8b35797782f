package model

import "slices"

// Snapshot is the full persisted state: both collections in insertion order.
type Snapshot struct {
	Contracts []Contract `json:"contracts"`
	Invoices  []Invoice  `json:"invoices"`
}

func EmptySnapshot() Snapshot {
	return Snapshot{
		Contracts: []Contract{},
		Invoices:  []Invoice{},
	}
}

// Clone returns a copy that shares no backing arrays with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Contracts: slices.Clone(s.Contracts),
		Invoices:  slices.Clone(s.Invoices),
	}
	if out.Contracts == nil {
		out.Contracts = []Contract{}
	}
	if out.Invoices == nil {
		out.Invoices = []Invoice{}
	}
	return out
}

package model

import "time"

type Contract struct {
	ID           string    `json:"id"`
	Municipality string    `json:"municipality"`
	Object       string    `json:"object"`
	StartDate    Date      `json:"startDate"`
	EndDate      Date      `json:"endDate"`
	TotalValue   float64   `json:"totalValue"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ContractInput carries every contract field except the ones the store assigns.
type ContractInput struct {
	Municipality string
	Object       string
	StartDate    Date
	EndDate      Date
	TotalValue   float64
	Notes        string
}

// ContractPatch is a shallow partial update; nil fields keep their value.
type ContractPatch struct {
	Municipality *string  `json:"municipality,omitempty"`
	Object       *string  `json:"object,omitempty"`
	StartDate    *Date    `json:"startDate,omitempty"`
	EndDate      *Date    `json:"endDate,omitempty"`
	TotalValue   *float64 `json:"totalValue,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

func (p ContractPatch) IsEmpty() bool {
	return p.Municipality == nil &&
		p.Object == nil &&
		p.StartDate == nil &&
		p.EndDate == nil &&
		p.TotalValue == nil &&
		p.Notes == nil
}

// Apply returns c with the patch merged in. ID and CreatedAt never change.
func (p ContractPatch) Apply(c Contract) Contract {
	if p.Municipality != nil {
		c.Municipality = *p.Municipality
	}
	if p.Object != nil {
		c.Object = *p.Object
	}
	if p.StartDate != nil {
		c.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		c.EndDate = *p.EndDate
	}
	if p.TotalValue != nil {
		c.TotalValue = *p.TotalValue
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	return c
}

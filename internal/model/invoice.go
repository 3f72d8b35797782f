package model

import "time"

type Invoice struct {
	ID         string    `json:"id"`
	ContractID string    `json:"contractId"`
	Number     string    `json:"number"`
	Value      float64   `json:"value"`
	Date       Date      `json:"date"`
	CreatedAt  time.Time `json:"createdAt"`
}

type InvoiceInput struct {
	ContractID string
	Number     string
	Value      float64
	Date       Date
}

package model

import "github.com/shopspring/decimal"

type Material struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Code     string          `json:"code,omitempty"`
	Unit     string          `json:"unit,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	IsActive Flag            `json:"is_active"`
}

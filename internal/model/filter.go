package model

import (
	"math"
	"time"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200

	// maxPage keeps (page-1)*page_size inside int.
	maxPage = math.MaxInt / MaxPageSize
)

type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalize clamps page and page size to usable values.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > maxPage {
		p.Page = maxPage
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

type ContractFilter struct {
	Pagination
	Search              string          `form:"search"`
	Status              *ContractStatus `form:"status"`
	CustomerID          *int64          `form:"customer"`
	RequiresMaintenance *bool           `form:"requires_maintenance"`
	PendingOnly         bool            `form:"pending_only"`
	ExpiringSoon        bool            `form:"expiring_soon"`
}

type TicketFilter struct {
	Pagination
	Search     string        `form:"search"`
	Status     *TicketStatus `form:"status"`
	CustomerID *int64        `form:"customer"`
	From       *time.Time    `form:"from" time_format:"2006-01-02"`
	To         *time.Time    `form:"to" time_format:"2006-01-02"`
}

type Page[T any] struct {
	Items    []T `json:"results"`
	Total    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Pages    int `json:"pages"`
}

// Paginate slices items according to p.
func Paginate[T any](items []T, p Pagination) Page[T] {
	p = p.Normalize()
	total := len(items)
	pages := (total + p.PageSize - 1) / p.PageSize
	start := (p.Page - 1) * p.PageSize
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return Page[T]{Items: out, Total: total, Page: p.Page, PageSize: p.PageSize, Pages: pages}
}

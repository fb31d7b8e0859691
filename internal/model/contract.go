package model

import "time"

type ContractStatus string

const (
	ContractStatusActive   ContractStatus = "ACTIVE"
	ContractStatusInactive ContractStatus = "INACTIVE"
	ContractStatusExpired  ContractStatus = "EXPIRED"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusActive, ContractStatusInactive, ContractStatusExpired:
		return true
	}
	return false
}

type MaintenanceFrequency string

const (
	FrequencyWeekly     MaintenanceFrequency = "WEEKLY"
	FrequencyBiweekly   MaintenanceFrequency = "BIWEEKLY"
	FrequencyMonthly    MaintenanceFrequency = "MONTHLY"
	FrequencyQuarterly  MaintenanceFrequency = "QUARTERLY"
	FrequencySemiannual MaintenanceFrequency = "SEMIANNUAL"
	FrequencyAnnual     MaintenanceFrequency = "ANNUAL"
)

type Contract struct {
	ID                   int64                `json:"id"`
	Title                string               `json:"title"`
	CustomerID           int64                `json:"customer"`
	CustomerName         string               `json:"customer_name,omitempty"`
	Status               ContractStatus       `json:"status"`
	StartDate            Date                 `json:"start_date"`
	EndDate              *Date                `json:"end_date"`
	RequiresMaintenance  bool                 `json:"requires_maintenance"`
	MaintenanceFrequency MaintenanceFrequency `json:"maintenance_frequency,omitempty"`
	NextMaintenanceDate  *Date                `json:"next_maintenance_date"`
	Description          string               `json:"description"`
	Observations         string               `json:"observations"`
	CreatedAt            *time.Time           `json:"created_at,omitempty"`
	UpdatedAt            *time.Time           `json:"updated_at,omitempty"`
}

// ContractInput is the full replacement body submitted on create and update.
type ContractInput struct {
	Title                string               `json:"title" validate:"required"`
	CustomerID           int64                `json:"customer" validate:"required,gt=0"`
	Status               ContractStatus       `json:"status" validate:"required,oneof=ACTIVE INACTIVE EXPIRED"`
	StartDate            string               `json:"start_date" validate:"required"`
	EndDate              *string              `json:"end_date"`
	RequiresMaintenance  bool                 `json:"requires_maintenance"`
	MaintenanceFrequency MaintenanceFrequency `json:"maintenance_frequency,omitempty" validate:"omitempty,oneof=WEEKLY BIWEEKLY MONTHLY QUARTERLY SEMIANNUAL ANNUAL"`
	NextMaintenanceDate  *string              `json:"next_maintenance_date"`
	Description          string               `json:"description"`
	Observations         string               `json:"observations"`
}

// ContractView is a contract annotated with the flags computed for the current day.
type ContractView struct {
	Contract
	MaintenancePending bool   `json:"maintenance_pending"`
	ExpiringSoon       bool   `json:"expiring_soon"`
	FrequencyLabel     string `json:"frequency_label,omitempty"`
}

type ContractDetail struct {
	Contract           ContractView        `json:"contract"`
	MaintenanceRecords []MaintenanceRecord `json:"maintenance_records"`
	Documents          []ContractDocument  `json:"documents"`
	Reports            []ContractReport    `json:"reports"`
}

// MaintenanceSheet is the input of the maintenance workbook export.
type MaintenanceSheet struct {
	GeneratedAt time.Time
	Contracts   []ContractView
}

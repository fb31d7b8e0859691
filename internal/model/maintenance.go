package model

import "time"

type MaintenanceType string

const (
	MaintenanceTypePreventive MaintenanceType = "PREVENTIVE"
	MaintenanceTypeCorrective MaintenanceType = "CORRECTIVE"
	MaintenanceTypeEmergency  MaintenanceType = "EMERGENCY"
	MaintenanceTypeInspection MaintenanceType = "INSPECTION"
)

type MaintenanceStatus string

const (
	MaintenanceStatusPending    MaintenanceStatus = "PENDING"
	MaintenanceStatusInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceStatusCompleted  MaintenanceStatus = "COMPLETED"
	MaintenanceStatusCancelled  MaintenanceStatus = "CANCELLED"
)

type MaintenanceRecord struct {
	ID              int64             `json:"id"`
	ContractID      int64             `json:"contract"`
	Date            Date              `json:"date"`
	MaintenanceType MaintenanceType   `json:"maintenance_type"`
	PerformedByID   *int64            `json:"performed_by"`
	PerformedByName string            `json:"performed_by_name,omitempty"`
	Status          MaintenanceStatus `json:"status"`
	Observations    string            `json:"observations"`
	CreatedAt       *time.Time        `json:"created_at,omitempty"`
}

type MaintenanceRecordInput struct {
	ContractID      int64             `json:"contract" validate:"required,gt=0"`
	Date            string            `json:"date" validate:"required"`
	MaintenanceType MaintenanceType   `json:"maintenance_type" validate:"required,oneof=PREVENTIVE CORRECTIVE EMERGENCY INSPECTION"`
	PerformedByID   *int64            `json:"performed_by"`
	Status          MaintenanceStatus `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Observations    string            `json:"observations"`
}

// CompleteMaintenanceInput is posted to a contract's complete_maintenance action.
type CompleteMaintenanceInput struct {
	Date            string          `json:"date" validate:"required"`
	MaintenanceType MaintenanceType `json:"maintenance_type" validate:"required,oneof=PREVENTIVE CORRECTIVE EMERGENCY INSPECTION"`
	PerformedByID   *int64          `json:"performed_by"`
	Observations    string          `json:"observations"`
}

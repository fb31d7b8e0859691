package model

import "time"

type ContractDocument struct {
	ID          int64      `json:"id"`
	ContractID  int64      `json:"contract"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	File        string     `json:"file"`
	UploadedBy  *int64     `json:"uploaded_by"`
	AuthorName  string     `json:"uploaded_by_name,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// DocumentUpload carries a file to be forwarded as multipart/form-data.
type DocumentUpload struct {
	ContractID  int64
	Title       string
	Description string
	FileName    string
	ContentType string
}

type ContractReport struct {
	ID          int64      `json:"id"`
	ContractID  int64      `json:"contract"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        Date       `json:"date"`
	AuthorID    *int64     `json:"author"`
	AuthorName  string     `json:"author_name,omitempty"`
	File        string     `json:"file,omitempty"`
	IsDeleted   Flag       `json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type ContractReportInput struct {
	ContractID  int64  `json:"contract" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required"`
	AuthorID    *int64 `json:"author"`
}

// Dashboard holds the backend's aggregate counters keyed by tile name.
type Dashboard struct {
	Counters           map[string]int64 `json:"counters"`
	MaintenancePending int              `json:"maintenance_pending"`
	ExpiringSoon       int              `json:"expiring_soon"`
}

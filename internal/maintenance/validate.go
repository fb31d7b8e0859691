package maintenance

import (
	"fmt"

	"github.com/nurpe/ops-admin/internal/model"
)

// Problems collects field errors and non-blocking warnings for a contract input.
type Problems struct {
	Fields   map[string]string
	Warnings []string
}

func (p Problems) OK() bool {
	return len(p.Fields) == 0
}

// CheckContract validates date fields and the maintenance settings of a
// contract input. Requiring maintenance without a frequency is only warned.
func CheckContract(in model.ContractInput) Problems {
	p := Problems{Fields: map[string]string{}}

	start := model.ParseDate(in.StartDate)
	if !start.Valid() {
		p.Fields["start_date"] = "invalid date"
	}
	if in.EndDate != nil && *in.EndDate != "" {
		end := model.ParseDate(*in.EndDate)
		switch {
		case !end.Valid():
			p.Fields["end_date"] = "invalid date"
		case start.Valid() && end.Time().Before(start.Time()):
			p.Fields["end_date"] = "must not be before start_date"
		}
	}
	if in.NextMaintenanceDate != nil && *in.NextMaintenanceDate != "" {
		if !model.ParseDate(*in.NextMaintenanceDate).Valid() {
			p.Fields["next_maintenance_date"] = "invalid date"
		}
	}
	if in.RequiresMaintenance && in.MaintenanceFrequency == "" {
		p.Warnings = append(p.Warnings, fmt.Sprintf("contract %q requires maintenance but has no frequency", in.Title))
	}
	return p
}

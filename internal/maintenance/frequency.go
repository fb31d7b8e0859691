package maintenance

import (
	"time"

	"github.com/nurpe/ops-admin/internal/model"
)

func FrequencyLabel(f model.MaintenanceFrequency) string {
	switch f {
	case model.FrequencyWeekly:
		return "Semanal"
	case model.FrequencyBiweekly:
		return "Quincenal"
	case model.FrequencyMonthly:
		return "Mensual"
	case model.FrequencyQuarterly:
		return "Trimestral"
	case model.FrequencySemiannual:
		return "Semestral"
	case model.FrequencyAnnual:
		return "Anual"
	default:
		return string(f)
	}
}

// NextDate estimates the following maintenance date for display only; the
// backend owns the stored next_maintenance_date.
func NextDate(from time.Time, f model.MaintenanceFrequency) (time.Time, bool) {
	switch f {
	case model.FrequencyWeekly:
		return from.AddDate(0, 0, 7), true
	case model.FrequencyBiweekly:
		return from.AddDate(0, 0, 14), true
	case model.FrequencyMonthly:
		return from.AddDate(0, 1, 0), true
	case model.FrequencyQuarterly:
		return from.AddDate(0, 3, 0), true
	case model.FrequencySemiannual:
		return from.AddDate(0, 6, 0), true
	case model.FrequencyAnnual:
		return from.AddDate(1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// Package maintenance decides whether a contract's periodic maintenance is due.
package maintenance

import (
	"time"

	"github.com/nurpe/ops-admin/internal/model"
)

// ExpiringSoonDays is the horizon of the "expiring soon" quick filter.
const ExpiringSoonDays = 30

// DaysUntil returns the number of calendar days from today to d, in the
// local time zone. The second result is false when d is absent or invalid.
func DaysUntil(d *model.Date, today time.Time) (int, bool) {
	if d == nil || !d.Valid() {
		return 0, false
	}
	return daysBetween(today, d.Time()), true
}

// IsPending reports whether maintenance is due today or overdue. A contract
// that requires maintenance but has no usable next date is always pending.
func IsPending(c model.Contract, today time.Time) bool {
	if !c.RequiresMaintenance {
		return false
	}
	days, ok := DaysUntil(c.NextMaintenanceDate, today)
	if !ok {
		return true
	}
	return days <= 0
}

// IsExpiringSoon reports whether the contract ends within the next 30 days.
func IsExpiringSoon(c model.Contract, today time.Time) bool {
	days, ok := DaysUntil(c.EndDate, today)
	if !ok {
		return false
	}
	return days > 0 && days <= ExpiringSoonDays
}

func daysBetween(from, to time.Time) int {
	from = from.In(time.Local)
	to = to.In(time.Local)
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// Calculator evaluates contracts against an injected clock.
type Calculator struct {
	now func() time.Time
}

func NewCalculator(now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

func (c *Calculator) Today() time.Time {
	return c.now()
}

func (c *Calculator) View(contract model.Contract) model.ContractView {
	today := c.now()
	return model.ContractView{
		Contract:           contract,
		MaintenancePending: IsPending(contract, today),
		ExpiringSoon:       IsExpiringSoon(contract, today),
		FrequencyLabel:     FrequencyLabel(contract.MaintenanceFrequency),
	}
}

func (c *Calculator) Views(contracts []model.Contract) []model.ContractView {
	views := make([]model.ContractView, 0, len(contracts))
	for _, contract := range contracts {
		views = append(views, c.View(contract))
	}
	return views
}

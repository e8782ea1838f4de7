package reports

import (
	"time"

	"github.com/merenda-app/merenda/internal/menu"
)

// MonthlyStats summarises one month of planned menus.
type MonthlyStats struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	TotalCost   float64 `json:"total_cost"`
	DaysPlanned int     `json:"days_planned"`
	AverageCost float64 `json:"average_cost"`
	Weekdays    int     `json:"weekdays"`
}

// ComputeMonthly folds menu costs into the month summary. The average
// divides by planned days only; zero-cost menus count as unplanned.
func ComputeMonthly(year int, month time.Month, costs []MenuCost) MonthlyStats {
	stats := MonthlyStats{
		Year:     year,
		Month:    int(month),
		Weekdays: menu.WeekdayCount(year, month),
	}
	for _, c := range costs {
		stats.TotalCost += c.TotalCost
		if c.Planned() {
			stats.DaysPlanned++
		}
	}
	if stats.DaysPlanned > 0 {
		stats.AverageCost = stats.TotalCost / float64(stats.DaysPlanned)
	}
	return stats
}

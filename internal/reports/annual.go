package reports

import "time"

// MonthRef points at one month of an annual report.
type MonthRef struct {
	Month       int     `json:"month"`
	AverageCost float64 `json:"average_cost"`
}

// MonthVariation is the month-over-month change of the average cost,
// computed between consecutive months that both have planned days.
type MonthVariation struct {
	Month   int     `json:"month"`
	Percent float64 `json:"percent"`
}

// AnnualReport aggregates a full year of menu costs.
type AnnualReport struct {
	Year          int              `json:"year"`
	Months        []MonthlyStats   `json:"months"`
	TotalCost     float64          `json:"total_cost"`
	DaysPlanned   int              `json:"days_planned"`
	AverageCost   float64          `json:"average_cost"`
	MostExpensive *MonthRef        `json:"most_expensive,omitempty"`
	Cheapest      *MonthRef        `json:"cheapest,omitempty"`
	Variations    []MonthVariation `json:"variations"`
}

// ComputeAnnual folds one year of menu costs into per-month stats plus the
// annual extremes. Extremes compare average cost among months with at least
// one planned day and stay nil for an empty year.
func ComputeAnnual(year int, costs []MenuCost) AnnualReport {
	byMonth := make(map[time.Month][]MenuCost)
	for _, c := range costs {
		byMonth[c.MenuDate.Month()] = append(byMonth[c.MenuDate.Month()], c)
	}

	report := AnnualReport{Year: year, Months: make([]MonthlyStats, 0, 12)}
	for m := time.January; m <= time.December; m++ {
		stats := ComputeMonthly(year, m, byMonth[m])
		report.Months = append(report.Months, stats)
		report.TotalCost += stats.TotalCost
		report.DaysPlanned += stats.DaysPlanned

		if stats.DaysPlanned == 0 {
			continue
		}
		if report.MostExpensive == nil || stats.AverageCost > report.MostExpensive.AverageCost {
			report.MostExpensive = &MonthRef{Month: int(m), AverageCost: stats.AverageCost}
		}
		if report.Cheapest == nil || stats.AverageCost < report.Cheapest.AverageCost {
			report.Cheapest = &MonthRef{Month: int(m), AverageCost: stats.AverageCost}
		}
	}
	if report.DaysPlanned > 0 {
		report.AverageCost = report.TotalCost / float64(report.DaysPlanned)
	}
	report.Variations = monthVariations(report.Months)
	return report
}

func monthVariations(months []MonthlyStats) []MonthVariation {
	var variations []MonthVariation
	prev := -1
	for i, stats := range months {
		if stats.DaysPlanned == 0 {
			continue
		}
		if prev >= 0 && months[prev].AverageCost > 0 {
			pct := (stats.AverageCost - months[prev].AverageCost) / months[prev].AverageCost * 100
			variations = append(variations, MonthVariation{Month: stats.Month, Percent: pct})
		}
		prev = i
	}
	return variations
}

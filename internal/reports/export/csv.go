package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/merenda-app/merenda/internal/reports"
)

// MonthlyCSV writes the category breakdown as CSV.
func MonthlyCSV(report reports.MonthlyReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"categoria", "total"}); err != nil {
		return nil, err
	}
	for _, slice := range report.Categories {
		if err := w.Write([]string{slice.Name, formatAmount(slice.Total)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AnnualCSV writes the per-month stats as CSV.
func AnnualCSV(report reports.AnnualReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"mes", "total", "dias_planejados", "media"}); err != nil {
		return nil, err
	}
	for _, stats := range report.Months {
		record := []string{
			strconv.Itoa(stats.Month),
			formatAmount(stats.TotalCost),
			strconv.Itoa(stats.DaysPlanned),
			formatAmount(stats.AverageCost),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

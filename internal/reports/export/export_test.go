package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merenda-app/merenda/internal/reports"
)

func TestMonthlyHTMLEscapesAndFormats(t *testing.T) {
	report := reports.MonthlyReport{
		Stats: reports.MonthlyStats{Year: 2026, Month: 3, TotalCost: 123.5, DaysPlanned: 10, AverageCost: 12.35, Weekdays: 22},
		Categories: []reports.CategorySlice{
			{Name: "Grãos & Cereais", Total: 80},
			{Name: "Proteínas", Total: 43.5},
		},
	}
	html := buildMonthlyHTML(report)

	assert.Contains(t, html, "03/2026")
	assert.Contains(t, html, "Grãos &amp; Cereais")
	assert.Contains(t, html, "R$ 123,50")
	assert.False(t, strings.Contains(html, "& Cereais<"))
}

func TestAnnualHTMLListsExtremes(t *testing.T) {
	report := reports.ComputeAnnual(2026, []reports.MenuCost{})
	report.MostExpensive = &reports.MonthRef{Month: 2, AverageCost: 15}
	report.Cheapest = &reports.MonthRef{Month: 5, AverageCost: 5}

	html := buildAnnualHTML(report)
	assert.Contains(t, html, "fevereiro")
	assert.Contains(t, html, "maio")
}

func TestMonthlyCSV(t *testing.T) {
	report := reports.MonthlyReport{
		Categories: []reports.CategorySlice{{Name: "Grãos", Total: 8}, {Name: "Proteínas", Total: 2}},
	}
	payload, err := MonthlyCSV(report)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "categoria,total", lines[0])
	assert.Equal(t, "Grãos,8.00", lines[1])
}

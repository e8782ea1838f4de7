package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func idPtr(v int64) *int64    { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeMonthlyAverageSkipsUnplannedDays(t *testing.T) {
	costs := []MenuCost{
		{MenuDate: day(2026, 3, 2), TotalCost: 0},
		{MenuDate: day(2026, 3, 3), TotalCost: 10},
		{MenuDate: day(2026, 3, 4), TotalCost: 0},
		{MenuDate: day(2026, 3, 5), TotalCost: 20},
	}
	stats := ComputeMonthly(2026, time.March, costs)

	assert.InDelta(t, 30.0, stats.TotalCost, 1e-9)
	assert.Equal(t, 2, stats.DaysPlanned)
	assert.InDelta(t, 15.0, stats.AverageCost, 1e-9)
}

func TestComputeMonthlyEmpty(t *testing.T) {
	stats := ComputeMonthly(2026, time.March, nil)
	assert.Equal(t, 0, stats.DaysPlanned)
	assert.Equal(t, 0.0, stats.AverageCost)
	assert.Equal(t, 22, stats.Weekdays)
}

func TestBreakdownByCategorySortsDescending(t *testing.T) {
	totals := []CategoryTotal{
		{Name: strPtr("Proteínas"), Total: 2},
		{Name: strPtr("Grãos"), Total: 8},
	}
	slices := BreakdownByCategory(totals)
	require.Len(t, slices, 2)
	assert.Equal(t, "Grãos", slices[0].Name)
	assert.InDelta(t, 8.0, slices[0].Total, 1e-9)
	assert.Equal(t, "Proteínas", slices[1].Name)
}

func TestBreakdownByCategoryUncategorizedBucket(t *testing.T) {
	totals := []CategoryTotal{
		{Name: nil, Total: 3},
		{Name: strPtr(""), Total: 2},
		{Name: strPtr("Grãos"), Total: 1},
	}
	slices := BreakdownByCategory(totals)
	require.Len(t, slices, 2)
	assert.Equal(t, NoCategoryLabel, slices[0].Name)
	assert.InDelta(t, 5.0, slices[0].Total, 1e-9)
}

func TestBreakdownByCategoryTiesCollate(t *testing.T) {
	totals := []CategoryTotal{
		{Name: strPtr("Óleos"), Total: 4},
		{Name: strPtr("Ovos"), Total: 4},
	}
	slices := BreakdownByCategory(totals)
	require.Len(t, slices, 2)
	// Collated ordering puts Óleos before Ovos despite the accent.
	assert.Equal(t, "Óleos", slices[0].Name)
}

func TestCompareTypes(t *testing.T) {
	costs := []MenuCost{
		{MenuDate: day(2026, 3, 2), MenuTypeID: idPtr(1), MenuTypeName: strPtr("Almoço"), TotalCost: 10},
		{MenuDate: day(2026, 3, 3), MenuTypeID: idPtr(1), MenuTypeName: strPtr("Almoço"), TotalCost: 20},
		{MenuDate: day(2026, 3, 2), MenuTypeID: nil, TotalCost: 4},
		{MenuDate: day(2026, 3, 4), MenuTypeID: idPtr(2), MenuTypeName: strPtr("Lanche"), TotalCost: 0},
	}
	result := CompareTypes(costs)

	// Lanche has no planned day and is omitted.
	require.Len(t, result, 2)
	assert.Equal(t, "Almoço", result[0].MenuTypeName)
	assert.InDelta(t, 30.0, result[0].TotalCost, 1e-9)
	assert.Equal(t, 2, result[0].DaysPlanned)
	assert.InDelta(t, 15.0, result[0].AverageCost, 1e-9)
	assert.Equal(t, NoTypeLabel, result[1].MenuTypeName)
	assert.Nil(t, result[1].MenuTypeID)
}

func TestComputeAnnualExtremes(t *testing.T) {
	costs := []MenuCost{
		{MenuDate: day(2026, 2, 2), TotalCost: 10},
		{MenuDate: day(2026, 2, 3), TotalCost: 20},
		{MenuDate: day(2026, 5, 4), TotalCost: 5},
		{MenuDate: day(2026, 8, 3), TotalCost: 0},
	}
	report := ComputeAnnual(2026, costs)

	assert.InDelta(t, 35.0, report.TotalCost, 1e-9)
	assert.Equal(t, 3, report.DaysPlanned)
	require.NotNil(t, report.MostExpensive)
	assert.Equal(t, 2, report.MostExpensive.Month)
	assert.InDelta(t, 15.0, report.MostExpensive.AverageCost, 1e-9)
	require.NotNil(t, report.Cheapest)
	assert.Equal(t, 5, report.Cheapest.Month)
	assert.InDelta(t, 5.0, report.Cheapest.AverageCost, 1e-9)

	require.Len(t, report.Variations, 1)
	assert.Equal(t, 5, report.Variations[0].Month)
	assert.InDelta(t, (5.0-15.0)/15.0*100, report.Variations[0].Percent, 1e-9)
}

func TestComputeAnnualEmptyYear(t *testing.T) {
	report := ComputeAnnual(2026, nil)
	assert.Nil(t, report.MostExpensive)
	assert.Nil(t, report.Cheapest)
	assert.Equal(t, 0.0, report.AverageCost)
	assert.Len(t, report.Months, 12)
}

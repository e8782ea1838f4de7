package menu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCalendar(t *testing.T) {
	menus := []DailyMenu{
		{ID: 1, MenuDate: date(2026, 9, 1)},
		{ID: 2, MenuDate: date(2026, 9, 2)},
	}
	cal := BuildCalendar(menus)

	found := cal.At(date(2026, 9, 2))
	require.NotNil(t, found)
	assert.Equal(t, int64(2), found.ID)
	assert.Nil(t, cal.At(date(2026, 9, 3)))
}

func TestWeekdaysExcludeWeekends(t *testing.T) {
	days := Weekdays(2025, time.September)
	assert.Len(t, days, 22)
	for _, d := range days {
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
	}
	assert.Equal(t, "2025-09-01", days[0].Format("2006-01-02"))
	assert.Equal(t, "2025-09-30", days[len(days)-1].Format("2006-01-02"))
}

func TestWeekdayCount(t *testing.T) {
	assert.Equal(t, 22, WeekdayCount(2025, time.September))
	assert.Equal(t, 20, WeekdayCount(2026, time.February))
}

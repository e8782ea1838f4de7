package menu

import "time"

// Calendar indexes one month of menus by their date key. Within a single
// menu type a date holds at most one menu, so lookups are unambiguous.
type Calendar map[string]*DailyMenu

// BuildCalendar indexes menus by date. With duplicate keys the last menu
// wins; callers pass type-filtered lists where that cannot happen.
func BuildCalendar(menus []DailyMenu) Calendar {
	cal := make(Calendar, len(menus))
	for i := range menus {
		cal[menus[i].DateKey()] = &menus[i]
	}
	return cal
}

// At returns the menu planned on a date, or nil.
func (c Calendar) At(date time.Time) *DailyMenu {
	return c[date.Format("2006-01-02")]
}

// Weekdays lists the Monday-to-Friday dates of a month in order. The school
// calendar plans menus on weekdays only.
func Weekdays(year int, month time.Month) []time.Time {
	var days []time.Time
	day := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for day.Month() == month {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return days
}

// WeekdayCount counts the weekdays of a month.
func WeekdayCount(year int, month time.Month) int {
	return len(Weekdays(year, month))
}

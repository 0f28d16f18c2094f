package models

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

const (
	// FilterAll disables a list filter.
	FilterAll = "all"

	DateRangeToday = "today"
	DateRangeWeek  = "week"

	// WeekRangeDays is the inclusive look-ahead of the "week" range.
	WeekRangeDays = 7
)

const (
	// CalendarCells is the size of the month grid: six weeks.
	CalendarCells = 42

	// SlotStep is the booking granularity.
	SlotStep = 30 * time.Minute

	DefaultFirstSlot = "09:00"
	DefaultLastSlot  = "18:30"
)

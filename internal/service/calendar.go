package service

import (
	"time"

	"salondesk/internal/models"
)

// CalendarStart returns the Sunday on or before the first day of the month.
func CalendarStart(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 0, -int(first.Weekday()))
}

// BuildCalendarGrid lays out six full weeks starting at CalendarStart.
// byDate maps a date to its appointments, already ordered by time.
func BuildCalendarGrid(year int, month time.Month, today string, byDate map[string][]models.Appointment) []models.CalendarCell {
	start := CalendarStart(year, month)

	cells := make([]models.CalendarCell, 0, models.CalendarCells)
	for i := 0; i < models.CalendarCells; i++ {
		day := start.AddDate(0, 0, i)
		date := day.Format(models.DateLayout)

		appts := byDate[date]
		if appts == nil {
			appts = []models.Appointment{}
		}
		cells = append(cells, models.CalendarCell{
			Date:         date,
			Day:          day.Day(),
			InMonth:      day.Month() == month,
			IsToday:      date == today,
			Appointments: appts,
		})
	}
	return cells
}

package service

import (
	"testing"
	"time"

	"salondesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarStart(t *testing.T) {
	assert.Equal(t, "2025-07-27", CalendarStart(2025, time.August).Format(models.DateLayout))
	// June 2025 starts on a Sunday
	assert.Equal(t, "2025-06-01", CalendarStart(2025, time.June).Format(models.DateLayout))
	assert.Equal(t, "2024-12-29", CalendarStart(2025, time.January).Format(models.DateLayout))
}

func TestBuildCalendarGrid_Shape(t *testing.T) {
	for year := 2023; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			cells := BuildCalendarGrid(year, month, "", nil)
			require.Len(t, cells, models.CalendarCells)

			first, err := time.Parse(models.DateLayout, cells[0].Date)
			require.NoError(t, err)
			assert.Equal(t, time.Sunday, first.Weekday(), "%d-%02d", year, month)

			inMonth := 0
			for _, c := range cells {
				if c.InMonth {
					inMonth++
				}
			}
			assert.Equal(t, time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(), inMonth)
		}
	}
}

func TestBuildCalendarGrid_Contents(t *testing.T) {
	byDate := map[string][]models.Appointment{
		"2025-08-24": {appt("x", "2025-08-24", "10:30", models.StatusScheduled, "1", 85)},
	}
	cells := BuildCalendarGrid(2025, time.August, "2025-08-20", byDate)

	var today, booked *models.CalendarCell
	for i := range cells {
		switch cells[i].Date {
		case "2025-08-20":
			today = &cells[i]
		case "2025-08-24":
			booked = &cells[i]
		}
	}
	require.NotNil(t, today)
	require.NotNil(t, booked)
	assert.True(t, today.IsToday)
	assert.Equal(t, 20, today.Day)
	assert.Len(t, booked.Appointments, 1)
	assert.False(t, cells[0].InMonth)
	assert.NotNil(t, cells[0].Appointments)
}

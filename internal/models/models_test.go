package models

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() AppointmentInput {
	return AppointmentInput{
		ClientID:  "1",
		ServiceID: "1",
		StylistID: "1",
		Date:      "2025-08-24",
		Time:      "10:30",
		Status:    StatusScheduled,
	}
}

func TestStatusHelpers(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Status("archived").IsValid())

	assert.True(t, StatusScheduled.IsPending())
	assert.True(t, StatusConfirmed.IsPending())
	assert.False(t, StatusInProgress.IsPending())

	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
}

func TestAppointmentInput_ValidateAt(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, validInput().ValidateAt("2025-08-24"))
	})

	t.Run("EmptyStatusAllowed", func(t *testing.T) {
		in := validInput()
		in.Status = ""
		require.NoError(t, in.ValidateAt("2025-08-24"))
	})

	t.Run("MissingFields", func(t *testing.T) {
		err := AppointmentInput{}.ValidateAt("2025-08-24")
		require.Error(t, err)

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs, "clientId")
		assert.Contains(t, errs, "serviceId")
		assert.Contains(t, errs, "stylistId")
		assert.Contains(t, errs, "date")
		assert.Contains(t, errs, "time")
		assert.Equal(t, "client is required", errs["clientId"].Error())
	})

	t.Run("PastDate", func(t *testing.T) {
		in := validInput()
		in.Date = "2025-08-23"
		err := in.ValidateAt("2025-08-24")

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "cannot schedule appointments in the past", errs["date"].Error())
	})

	t.Run("BadDateFormat", func(t *testing.T) {
		in := validInput()
		in.Date = "24/08/2025"
		var errs validation.Errors
		require.ErrorAs(t, in.ValidateAt("2025-08-24"), &errs)
		assert.Contains(t, errs, "date")
	})

	t.Run("OffGridTime", func(t *testing.T) {
		in := validInput()
		in.Time = "10:15"
		var errs validation.Errors
		require.ErrorAs(t, in.ValidateAt("2025-08-24"), &errs)
		assert.Contains(t, errs, "time")
	})

	t.Run("PaddedTime", func(t *testing.T) {
		for _, raw := range []string{" 9:30", "09:30 ", " 09:30"} {
			in := validInput()
			in.Time = raw
			var errs validation.Errors
			require.ErrorAs(t, in.ValidateAt("2025-08-24"), &errs, "time %q", raw)
			assert.Contains(t, errs, "time")
		}
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		in := validInput()
		in.Status = "archived"
		var errs validation.Errors
		require.ErrorAs(t, in.ValidateAt("2025-08-24"), &errs)
		assert.Contains(t, errs, "status")
	})
}

func TestService_Validate(t *testing.T) {
	valid := Service{Name: "Manicure", Price: 25, Duration: 45, Category: "Nails", Description: "Classic manicure"}
	require.NoError(t, valid.Validate())

	err := Service{}.Validate()
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "service name is required", errs["name"].Error())
	assert.Equal(t, "price must be greater than 0", errs["price"].Error())
	assert.Equal(t, "duration must be greater than 0", errs["duration"].Error())
	assert.Contains(t, errs, "category")
	assert.Contains(t, errs, "description")
}

func TestParseClock(t *testing.T) {
	offset, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour+30*time.Minute, offset)
	assert.Equal(t, "09:30", FormatClock(offset))

	for _, raw := range []string{" 9:30", "9:30 ", " 09:30", "09:30\n"} {
		_, err = ParseClock(raw)
		assert.Error(t, err, "%q", raw)
	}
	_, err = ParseClock("9:30")
	assert.Error(t, err)
	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("10:45")
	assert.Error(t, err)
}

func TestAppointment_Input(t *testing.T) {
	a := Appointment{ID: "x", ClientID: "1", ServiceID: "2", StylistID: "3", Date: "2025-08-24", Time: "11:00", Status: StatusConfirmed, Notes: "n"}
	in := a.Input()
	assert.Equal(t, "1", in.ClientID)
	assert.Equal(t, StatusConfirmed, in.Status)
	assert.Equal(t, "n", in.Notes)
}

func TestNoFilters(t *testing.T) {
	f := NoFilters()
	assert.Equal(t, FilterAll, f.Status)
	assert.Equal(t, FilterAll, f.Stylist)
	assert.Equal(t, FilterAll, f.DateRange)
}

package models

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateAt checks the input the way the booking form does. today is the
// current calendar date; appointments cannot be scheduled before it.
func (in AppointmentInput) ValidateAt(today string) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ClientID, validation.Required.Error("client is required")),
		validation.Field(&in.ServiceID, validation.Required.Error("service is required")),
		validation.Field(&in.StylistID, validation.Required.Error("stylist is required")),
		validation.Field(&in.Date,
			validation.Required.Error("date is required"),
			validation.Date(DateLayout).Error("date must be in YYYY-MM-DD format"),
			validation.By(notBefore(today)),
		),
		validation.Field(&in.Time,
			validation.Required.Error("time is required"),
			validation.By(onSlotGrid),
		),
		validation.Field(&in.Status, validation.By(knownStatus)),
		validation.Field(&in.Notes, validation.Length(0, 1000)),
	)
}

func (s Service) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required.Error("service name is required")),
		validation.Field(&s.Price, validation.By(positive("price must be greater than 0"))),
		validation.Field(&s.Duration, validation.By(positive("duration must be greater than 0"))),
		validation.Field(&s.Category, validation.Required.Error("category is required")),
		validation.Field(&s.Description, validation.Required.Error("description is required")),
	)
}

func notBefore(today string) validation.RuleFunc {
	return func(value interface{}) error {
		date, _ := value.(string)
		if date == "" || today == "" {
			return nil
		}
		if date < today {
			return errors.New("cannot schedule appointments in the past")
		}
		return nil
	}
}

func onSlotGrid(value interface{}) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	if _, err := ParseClock(raw); err != nil {
		return err
	}
	return nil
}

func knownStatus(value interface{}) error {
	status, _ := value.(Status)
	if status == "" || status.IsValid() {
		return nil
	}
	return fmt.Errorf("unknown status %q", status)
}

func positive(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		switch v := value.(type) {
		case float64:
			if v <= 0 {
				return errors.New(msg)
			}
		case int:
			if v <= 0 {
				return errors.New(msg)
			}
		}
		return nil
	}
}

// ParseClock parses an "HH:MM" time of day on the 30-minute booking grid and
// returns it as an offset from midnight. Only the canonical zero-padded form
// is accepted.
func ParseClock(raw string) (time.Duration, error) {
	t, err := time.Parse(TimeLayout, raw)
	if err != nil || len(raw) != len(TimeLayout) {
		return 0, errors.New("time must be in HH:MM format")
	}
	offset := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	if offset%SlotStep != 0 {
		return 0, errors.New("time must be on a 30-minute boundary")
	}
	return offset, nil
}

// FormatClock renders an offset from midnight as "HH:MM".
func FormatClock(offset time.Duration) string {
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}

package models

import "time"

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no-show"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

func (s Status) IsValid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the appointment has reached a final outcome.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// IsPending reports whether the appointment still awaits the visit.
func (s Status) IsPending() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

type Client struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Phone  string `json:"phone" yaml:"phone"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar"`
}

type Stylist struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Specialties []string `json:"specialties" yaml:"specialties"`
}

type Appointment struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Client    Client    `json:"client"`
	ServiceID string    `json:"serviceId"`
	Service   Service   `json:"service"`
	StylistID string    `json:"stylistId"`
	Stylist   Stylist   `json:"stylist"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Time      string    `json:"time"` // HH:MM
	Status    Status    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AppointmentInput carries the user-editable fields of an appointment.
// ID and CreatedAt are always owned by the server.
type AppointmentInput struct {
	ClientID  string `json:"clientId"`
	ServiceID string `json:"serviceId"`
	StylistID string `json:"stylistId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Status    Status `json:"status"`
	Notes     string `json:"notes"`
}

// Input returns the editable part of the appointment.
func (a *Appointment) Input() AppointmentInput {
	return AppointmentInput{
		ClientID:  a.ClientID,
		ServiceID: a.ServiceID,
		StylistID: a.StylistID,
		Date:      a.Date,
		Time:      a.Time,
		Status:    a.Status,
		Notes:     a.Notes,
	}
}

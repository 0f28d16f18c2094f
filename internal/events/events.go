package events

import (
	"encoding/json"
	"sync"
	"time"

	"salondesk/internal/models"
)

const (
	EventAppointmentCreated       = "appointment_created"
	EventAppointmentUpdated       = "appointment_updated"
	EventAppointmentStatusChanged = "appointment_status_changed"
	EventAppointmentDeleted       = "appointment_deleted"
	EventServiceCreated           = "service_created"
	EventServiceUpdated           = "service_updated"
	EventServiceDeleted           = "service_deleted"
)

// AppointmentEventPayload describes the minimal appointment snapshot for event consumers.
type AppointmentEventPayload struct {
	AppointmentID  string        `json:"appointment_id"`
	ClientName     string        `json:"client_name,omitempty"`
	ServiceName    string        `json:"service_name,omitempty"`
	StylistID      string        `json:"stylist_id,omitempty"`
	Date           string        `json:"date,omitempty"`
	Time           string        `json:"time,omitempty"`
	Status         models.Status `json:"status,omitempty"`
	PreviousStatus models.Status `json:"previous_status,omitempty"`
}

type ServiceEventPayload struct {
	ServiceID string  `json:"service_id"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	all         []EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for every event type.
func (b *EventBus) SubscribeAll(handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// NewAppointmentPayload builds the event payload for an appointment.
func NewAppointmentPayload(a *models.Appointment) AppointmentEventPayload {
	return AppointmentEventPayload{
		AppointmentID: a.ID,
		ClientName:    a.Client.Name,
		ServiceName:   a.Service.Name,
		StylistID:     a.StylistID,
		Date:          a.Date,
		Time:          a.Time,
		Status:        a.Status,
	}
}

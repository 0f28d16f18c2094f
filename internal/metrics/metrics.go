package metrics

import (
	"strconv"
	"sync"

	"salondesk/internal/events"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salondesk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)

	domainEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salondesk",
			Name:      "events_total",
			Help:      "Domain events published by type.",
		},
		[]string{"type"},
	)

	appointments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "salondesk",
			Name:      "appointments",
			Help:      "Appointments currently held by the view-model.",
		},
	)

	persistenceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salondesk",
			Name:      "persistence_failures_total",
			Help:      "Repository calls that failed and were rolled back, by operation.",
		},
		[]string{"op"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, domainEvents, appointments, persistenceFailures)
	})
}

// IncHTTP increments the counter for a route and response code.
func IncHTTP(route string, code int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func IncEvent(eventType string) {
	domainEvents.WithLabelValues(eventType).Inc()
}

func SetAppointments(n int) {
	appointments.Set(float64(n))
}

func IncPersistenceFailure(op string) {
	persistenceFailures.WithLabelValues(op).Inc()
}

// Subscribe counts every event published on the bus.
func Subscribe(bus *events.EventBus) {
	bus.SubscribeAll(func(event *events.Event) error {
		IncEvent(event.Type)
		return nil
	})
}

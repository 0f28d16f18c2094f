package service

import (
	"io"
	"testing"
	"time"

	"salondesk/internal/domain"
	"salondesk/internal/models"
	"salondesk/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fixed "now" for tests: Wednesday 2025-08-20
var testNow = time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC)

func testLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func testCatalog() models.Catalog {
	return models.Catalog{
		Clients: []models.Client{
			{ID: "1", Name: "Sarah Johnson", Email: "sarah@example.com", Phone: "+1234567890"},
			{ID: "2", Name: "Michael Brown", Email: "michael@example.com", Phone: "+1234567891"},
			{ID: "3", Name: "Lisa Davis", Email: "lisa@example.com", Phone: "+1234567892"},
		},
		Stylists: []models.Stylist{
			{ID: "1", Name: "Emma Wilson", Specialties: []string{"Hair Coloring", "Styling"}},
			{ID: "2", Name: "James Lee", Specialties: []string{"Men's Cuts", "Beard Styling"}},
			{ID: "3", Name: "Anna Smith", Specialties: []string{"Nail Art", "Spa Treatments"}},
		},
		Services: []models.Service{
			{ID: "1", Name: "Hair Cut & Color", Price: 85, Duration: 120, Category: "Hair", Description: "Cut and full color", IsActive: true},
			{ID: "2", Name: "Beard Trim", Price: 25, Duration: 30, Category: "Men", Description: "Beard shaping", IsActive: true},
			{ID: "3", Name: "Manicure & Pedicure", Price: 60, Duration: 90, Category: "Nails", Description: "Hands and feet", IsActive: true},
		},
	}
}

func newTestService(t *testing.T, repo domain.AppointmentRepository, publisher domain.EventPublisher) *AppointmentService {
	t.Helper()
	if repo == nil {
		repo = repository.NewMemoryAppointmentRepository()
	}
	svc, err := NewAppointmentService(repo, repository.NewMemoryCatalogRepository(testCatalog()), publisher, AppointmentOptions{
		Clock:    domain.ClockFunc(func() time.Time { return testNow }),
		Location: time.UTC,
	}, testLogger())
	require.NoError(t, err)
	return svc
}

func appt(id, date, clock string, status models.Status, stylist string, price float64) models.Appointment {
	return models.Appointment{
		ID:        id,
		StylistID: stylist,
		Service:   models.Service{Price: price},
		Date:      date,
		Time:      clock,
		Status:    status,
	}
}

func ids(appts []models.Appointment) []string {
	out := make([]string, 0, len(appts))
	for _, a := range appts {
		out = append(out, a.ID)
	}
	return out
}

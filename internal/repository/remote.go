package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"salondesk/internal/domain"
	"salondesk/internal/models"

	"github.com/rs/zerolog"
)

// RemoteRepository talks to another salondesk API over HTTP and implements
// both the appointment and the catalog repository. Idempotent requests are
// retried on transport errors and 5xx responses; POST is sent once.
type RemoteRepository struct {
	baseURL    string
	apiKey     string
	apiExtra   string
	httpClient *http.Client
	retry      RetryPolicy
	logger     *zerolog.Logger
}

// RemoteOptions configures NewRemoteRepository.
type RemoteOptions struct {
	APIKey   string
	APIExtra string
	Timeout  time.Duration
	Retry    RetryPolicy
}

type remoteError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	Entity string            `json:"entity,omitempty"`
	ID     string            `json:"id,omitempty"`
}

// statusError is an unexpected HTTP status from the remote API.
type statusError struct {
	Code    int
	Message string
}

func (e *statusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Code)
	}
	return fmt.Sprintf("http %d: %s", e.Code, e.Message)
}

func NewRemoteRepository(baseURL string, opts RemoteOptions, logger *zerolog.Logger) *RemoteRepository {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retry.MaxRetries == 0 {
		opts.Retry.MaxRetries = 3
	}
	if opts.Retry.InitialDelay == 0 {
		opts.Retry.InitialDelay = 200 * time.Millisecond
	}
	if opts.Retry.MaxDelay == 0 {
		opts.Retry.MaxDelay = 5 * time.Second
	}
	return &RemoteRepository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     opts.APIKey,
		apiExtra:   opts.APIExtra,
		httpClient: &http.Client{Timeout: opts.Timeout},
		retry:      opts.Retry,
		logger:     logger,
	}
}

func (c *RemoteRepository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	var wrap struct {
		Appointments []models.Appointment `json:"appointments"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/appointments", nil, &wrap); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return wrap.Appointments, nil
}

// CreateAppointment posts the appointment's input fields; the remote side
// assigns the id and creation time, which are copied back into appt.
func (c *RemoteRepository) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	var created models.Appointment
	if err := c.call(ctx, http.MethodPost, "/api/v1/appointments", appt.Input(), &created); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	*appt = created
	return nil
}

func (c *RemoteRepository) UpdateAppointment(ctx context.Context, appt *models.Appointment) error {
	var updated models.Appointment
	path := "/api/v1/appointments/" + url.PathEscape(appt.ID)
	if err := c.call(ctx, http.MethodPut, path, appt.Input(), &updated); err != nil {
		return fmt.Errorf("update appointment %s: %w", appt.ID, err)
	}
	*appt = updated
	return nil
}

// UpdateAppointmentStatus sends only the status, so the remote side does not
// re-validate the date of an appointment that is already in the past.
func (c *RemoteRepository) UpdateAppointmentStatus(ctx context.Context, appt *models.Appointment) error {
	var updated models.Appointment
	path := "/api/v1/appointments/" + url.PathEscape(appt.ID) + "/status"
	body := map[string]models.Status{"status": appt.Status}
	if err := c.call(ctx, http.MethodPatch, path, body, &updated); err != nil {
		return fmt.Errorf("update appointment %s status: %w", appt.ID, err)
	}
	*appt = updated
	return nil
}

func (c *RemoteRepository) DeleteAppointment(ctx context.Context, id string) error {
	if err := c.call(ctx, http.MethodDelete, "/api/v1/appointments/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete appointment %s: %w", id, err)
	}
	return nil
}

func (c *RemoteRepository) ListClients(ctx context.Context) ([]models.Client, error) {
	var wrap struct {
		Clients []models.Client `json:"clients"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/clients", nil, &wrap); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return wrap.Clients, nil
}

func (c *RemoteRepository) GetClient(ctx context.Context, id string) (*models.Client, error) {
	clients, err := c.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	for _, cl := range clients {
		if cl.ID == id {
			return &cl, nil
		}
	}
	return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
}

func (c *RemoteRepository) ListStylists(ctx context.Context) ([]models.Stylist, error) {
	var wrap struct {
		Stylists []models.Stylist `json:"stylists"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/stylists", nil, &wrap); err != nil {
		return nil, fmt.Errorf("list stylists: %w", err)
	}
	return wrap.Stylists, nil
}

func (c *RemoteRepository) GetStylist(ctx context.Context, id string) (*models.Stylist, error) {
	stylists, err := c.ListStylists(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range stylists {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("stylist %s: %w", id, domain.ErrNotFound)
}

func (c *RemoteRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	var wrap struct {
		Services []models.Service `json:"services"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/services", nil, &wrap); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return wrap.Services, nil
}

func (c *RemoteRepository) GetService(ctx context.Context, id string) (*models.Service, error) {
	services, err := c.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range services {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("service %s: %w", id, domain.ErrNotFound)
}

func (c *RemoteRepository) CreateService(ctx context.Context, svc *models.Service) error {
	var created models.Service
	if err := c.call(ctx, http.MethodPost, "/api/v1/services", svc, &created); err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	*svc = created
	return nil
}

func (c *RemoteRepository) UpdateService(ctx context.Context, svc *models.Service) error {
	var updated models.Service
	if err := c.call(ctx, http.MethodPut, "/api/v1/services/"+url.PathEscape(svc.ID), svc, &updated); err != nil {
		return fmt.Errorf("update service %s: %w", svc.ID, err)
	}
	*svc = updated
	return nil
}

func (c *RemoteRepository) DeleteService(ctx context.Context, id string) error {
	if err := c.call(ctx, http.MethodDelete, "/api/v1/services/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete service %s: %w", id, err)
	}
	return nil
}

func (c *RemoteRepository) call(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = data
	}

	attempts := 1
	if method != http.MethodPost {
		attempts += c.retry.MaxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := c.retry.wait(ctx, attempt-1); err != nil {
				return err
			}
		}

		lastErr = c.do(ctx, method, path, payload, out)
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}
		c.logger.Warn().Err(lastErr).Str("method", method).Str("path", path).Int("attempt", attempt).Msg("remote call failed")
	}
	return lastErr
}

func (c *RemoteRepository) do(ctx context.Context, method, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.addHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeRemoteError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *RemoteRepository) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	if c.apiExtra != "" {
		req.Header.Set("x-api-extra", c.apiExtra)
	}
}

// decodeRemoteError maps the remote error body back onto the domain errors.
func decodeRemoteError(resp *http.Response) error {
	var body remoteError
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnprocessableEntity:
		if body.Entity != "" {
			return &domain.ReferenceError{Entity: body.Entity, ID: body.ID}
		}
		if len(body.Fields) > 0 {
			return &domain.ValidationError{Fields: body.Fields}
		}
	}
	return &statusError{Code: resp.StatusCode, Message: body.Error}
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrReferenceNotFound) {
		return false
	}
	// transport failure
	return true
}

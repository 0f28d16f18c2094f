package api

import (
	"net/http"

	"salondesk/internal/models"

	"github.com/go-chi/chi/v5"
)

// serviceRequest is the body of service create/update. isActive defaults
// to true like the dashboard form.
type serviceRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

func (req serviceRequest) service() models.Service {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return models.Service{
		Name:        req.Name,
		Price:       req.Price,
		Duration:    req.Duration,
		Category:    req.Category,
		Description: req.Description,
		IsActive:    active,
	}
}

func (h *handler) listServices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	services, err := h.catalog.ListServices(r.Context(), q.Get("search"), q.Get("category"))
	if err != nil {
		writeDomainError(w, h.log(r), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"services": services,
		"total":    len(services),
	})
}

func (h *handler) createService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svc, err := h.catalog.CreateService(r.Context(), req.service())
	if err != nil {
		writeDomainError(w, h.log(r), err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

func (h *handler) updateService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svc, err := h.catalog.UpdateService(r.Context(), chi.URLParam(r, "id"), req.service())
	if err != nil {
		writeDomainError(w, h.log(r), err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (h *handler) deleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteService(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, h.log(r), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) serviceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.ServiceStats(r.Context())
	if err != nil {
		writeDomainError(w, h.log(r), err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handler) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.Categories(r.Context())
	if err != nil {
		writeDomainError(w, h.log(r), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (h *handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.catalog.ListClients(r.Context())
	if err != nil {
		writeDomainError(w, h.log(r), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

func (h *handler) listStylists(w http.ResponseWriter, r *http.Request) {
	stylists, err := h.catalog.ListStylists(r.Context())
	if err != nil {
		writeDomainError(w, h.log(r), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stylists": stylists})
}

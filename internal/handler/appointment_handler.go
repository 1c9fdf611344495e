package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sweeezy/backend/internal/appointment"
	"github.com/sweeezy/backend/internal/model"
)

// AppointmentHandler serves appointment CRUD.
type AppointmentHandler struct {
	service *appointment.Service
}

// NewAppointmentHandler creates an AppointmentHandler.
func NewAppointmentHandler(service *appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

type appointmentResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	ScheduledAt     string `json:"scheduled_at"`
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status"`
}

func toAppointmentResponse(a *model.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:              a.ID,
		Title:           a.Title,
		Description:     a.Description,
		ScheduledAt:     a.ScheduledAt.UTC().Format(time.RFC3339),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
	}
}

type appointmentRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes int        `json:"duration_minutes"`
	Status          string     `json:"status"`
}

func (req appointmentRequest) toInput() appointment.Input {
	return appointment.Input{
		Title:           req.Title,
		Description:     req.Description,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Status:          model.AppointmentStatus(req.Status),
	}
}

// List handles GET /api/appointments.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.List(r.Context(), model.AppointmentStatus(r.URL.Query().Get("status")))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	items := make([]appointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		items = append(items, toAppointmentResponse(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// Get handles GET /api/appointments/{id}.
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	appt, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

// Create handles POST /api/appointments.
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req appointmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	appt, err := h.service.Create(r.Context(), actor, req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

// Update handles PUT /api/appointments/{id}.
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req appointmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	appt, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

// Delete handles DELETE /api/appointments/{id}.
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/sweeezy/backend/internal/live"
	"github.com/sweeezy/backend/internal/model"
)

// LiveHandler serves live place status lookups.
type LiveHandler struct {
	service *live.Service
}

// NewLiveHandler creates a LiveHandler.
func NewLiveHandler(service *live.Service) *LiveHandler {
	return &LiveHandler{service: service}
}

// PlaceStatus handles GET /api/live/place-status.
func (h *LiveHandler) PlaceStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("name is required"))
		return
	}

	query := live.Query{
		Name:     name,
		Category: q.Get("category"),
		Canton:   q.Get("canton"),
	}
	if lat, err := strconv.ParseFloat(q.Get("lat"), 64); err == nil {
		query.Lat = &lat
	}
	if lng, err := strconv.ParseFloat(q.Get("lng"), 64); err == nil {
		query.Lng = &lng
	}

	writeJSON(w, http.StatusOK, h.service.PlaceStatus(r.Context(), query))
}

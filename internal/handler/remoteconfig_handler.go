package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sweeezy/backend/internal/model"
	"github.com/sweeezy/backend/internal/remoteconfig"
)

// RemoteConfigHandler serves the client feature flags. Reads are public,
// writes are admin-only (enforced at the router).
type RemoteConfigHandler struct {
	store *remoteconfig.Store
}

// NewRemoteConfigHandler creates a RemoteConfigHandler.
func NewRemoteConfigHandler(store *remoteconfig.Store) *RemoteConfigHandler {
	return &RemoteConfigHandler{store: store}
}

// Get handles GET /api/remote-config.
func (h *RemoteConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Config())
}

type setFlagRequest struct {
	Value string `json:"value"`
}

// SetFlag handles PUT /api/admin/remote-config/{key}.
func (h *RemoteConfigHandler) SetFlag(w http.ResponseWriter, r *http.Request) {
	var req setFlagRequest
	if !decodeBody(w, r, &req) {
		return
	}

	key := chi.URLParam(r, "key")
	if err := h.store.Set(r.Context(), key, req.Value); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

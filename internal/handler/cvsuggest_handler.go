package handler

import (
	"context"
	"net/http"

	"github.com/sweeezy/backend/internal/cvsuggest"
	"github.com/sweeezy/backend/internal/model"
)

// CVSuggester generates HR-style CV text. Defined as a subset of
// cvsuggest.Service.
type CVSuggester interface {
	Suggest(ctx context.Context, req *cvsuggest.Request) string
}

// CVSuggestHandler serves CV text suggestions for the admin CV builder.
type CVSuggestHandler struct {
	suggester CVSuggester
}

// NewCVSuggestHandler creates a CVSuggestHandler.
func NewCVSuggestHandler(suggester CVSuggester) *CVSuggestHandler {
	return &CVSuggestHandler{suggester: suggester}
}

// Suggest handles POST /api/admin/cv-suggest.
func (h *CVSuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req cvsuggest.Request
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Target == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("target is required"))
		return
	}

	text := h.suggester.Suggest(r.Context(), &req)
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

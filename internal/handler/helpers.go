// Package handler provides the HTTP handlers and routing.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sweeezy/backend/internal/model"
)

// apiErrorResponse is the unified error response body.
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse writes an error response in the unified format.
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// decodeBody parses the request body as JSON. On failure it writes the 400
// response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("failed to parse the request body"))
		return false
	}
	return true
}

// handleServiceError converts a service-layer error into an HTTP response.
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "An internal error occurred.",
		Category: "system",
		Action:   "Please wait a moment and try again.",
	})
}

// mapAPIErrorToHTTPStatus maps an APIError code to an HTTP status code.
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized, model.ErrCodeInvalidLogin:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodePaymentRequired:
		return http.StatusPaymentRequired
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeEmailTaken, model.ErrCodeDuplicateFeed, model.ErrCodeDuplicateSlug,
		model.ErrCodeTrialUsed, model.ErrCodeInvalidTransition:
		return http.StatusConflict
	case model.ErrCodeInvalidRequest, model.ErrCodeInvalidURL, model.ErrCodeInvalidPlan:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

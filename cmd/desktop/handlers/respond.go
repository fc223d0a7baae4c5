// Package handlers provides REST API handlers for the desktop server.
package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/errors"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
)

// ErrorBody is the error payload of every failed request.
type ErrorBody struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrInvalid, apperrors.ErrImageInvalid:
		return http.StatusBadRequest
	case apperrors.ErrNotFound, apperrors.ErrNotebookNotFound, apperrors.ErrNoteNotFound:
		return http.StatusNotFound
	case apperrors.ErrPermission:
		return http.StatusForbidden
	case apperrors.ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("Failed to write response", map[string]interface{}{"error": err.Error()})
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		logging.Error("Request failed", err)
	}
	writeJSON(w, status, errorEnvelope{Error: ErrorBody{Code: code, Message: apperrors.MessageOf(err)}})
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalid, "Invalid request body", err)
	}
	return nil
}

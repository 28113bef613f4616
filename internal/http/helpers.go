package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/validation"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type successResponse struct {
	Status  string  `json:"status"`
	Message *string `json:"message"`
}

type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func wantsJSON(r *http.Request) bool {
	if r == nil {
		return false
	}
	accept := strings.ToLower(r.Header.Get("Accept"))
	return strings.Contains(accept, "application/json") || strings.Contains(accept, "+json")
}

// mapError turns categorised errors into a status and JSON payload.
func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Status: statusError, Message: "unknown error"}
	}

	var invalid *validation.ValidationError
	if errors.As(err, &invalid) {
		return http.StatusUnprocessableEntity, errorResponse{
			Status:  statusError,
			Message: "The given data was invalid.",
			Code:    entries.TextCodeValidation,
			Errors:  invalid.Fields,
		}
	}

	status := http.StatusInternalServerError
	code := ""
	switch {
	case errors.Is(err, entries.ErrPermissionDenied) || goerrors.IsCategory(err, goerrors.CategoryAuthz):
		status, code = http.StatusForbidden, entries.TextCodePermissionDenied
	case errors.Is(err, entries.ErrNotFound) || goerrors.IsCategory(err, goerrors.CategoryNotFound):
		status, code = http.StatusNotFound, entries.TextCodeNotFound
	case errors.Is(err, entries.ErrDateParse):
		status, code = http.StatusBadRequest, entries.TextCodeDateParse
	case errors.Is(err, entries.ErrConfiguration):
		status, code = http.StatusInternalServerError, entries.TextCodeConfiguration
	case goerrors.IsCategory(err, goerrors.CategoryValidation), goerrors.IsCategory(err, goerrors.CategoryBadInput):
		status = http.StatusBadRequest
	}
	message := err.Error()
	if status == http.StatusInternalServerError && code == "" {
		message = "internal error"
	}
	return status, errorResponse{Status: statusError, Message: message, Code: code}
}

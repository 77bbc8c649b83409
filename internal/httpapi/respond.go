package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"acadesk/internal/core"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateRecord):
		status = http.StatusConflict
	case errors.Is(err, core.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	case isValidationErr(err):
		status = http.StatusUnprocessableEntity
	}

	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "url", r.URL.Path, "error", err)
		// Internals stay out of the response body.
		writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func isValidationErr(err error) bool {
	for _, sentinel := range []error{
		core.ErrEmptyID, core.ErrEmptyName, core.ErrEmptyStudentRef,
		core.ErrEmptyTeacherRef, core.ErrInvalidAmount, core.ErrInvalidMonth,
		core.ErrInvalidYear, core.ErrInvalidStatus, core.ErrInvalidPaymentMethod,
		core.ErrInvalidSalaryType, core.ErrInvalidDate,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// decodeBody decodes and validates a JSON request body into dst, which
// must be a pointer to a struct with validate tags.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("validate request body: %w", err)
	}
	return nil
}

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"fintrack/internal/alerts"
	"fintrack/internal/core"
	"fintrack/internal/finance"
	"fintrack/internal/identity"
	"fintrack/internal/storage"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		writeJSON(w, status, errorBody{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// errDecode tags JSON decode failures so they map to 400 instead of
// being mistaken for server faults.
var errDecode = errors.New("malformed request body")

// decodeJSON reads a bounded JSON body into dst, rejecting unknown
// fields so typos in client payloads fail loudly.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return fmt.Errorf("%w: %v", errDecode, err)
	}
	return nil
}

// validationErrors are client mistakes, not server faults.
var validationErrors = []error{
	core.ErrInvalidType,
	core.ErrNegativeAmount,
	core.ErrInvalidAmount,
	core.ErrEmptyCategory,
	core.ErrEmptyName,
	core.ErrInvalidPeriod,
	core.ErrInvalidBudget,
	core.ErrInvalidFrequency,
	core.ErrInvalidPriority,
	core.ErrInvalidGoal,
	core.ErrZeroDate,
	identity.ErrInvalidEmail,
	identity.ErrPasswordTooShort,
	identity.ErrUnsupportedCurrency,
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, finance.ErrNotFound),
		errors.Is(err, alerts.ErrNotFound),
		errors.Is(err, storage.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return http.StatusUnprocessableEntity
		}
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, errDecode) || errors.Is(err, errBadQuery) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errBadQuery tags unparseable query parameters.
var errBadQuery = errors.New("invalid query parameter")

// clientIP resolves the caller address, trusting proxy headers first.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

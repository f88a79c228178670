package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/khata/internal/adapter/http/dto"
	"github.com/iho/khata/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes. A khata or
// entry belonging to another owner surfaces as not found, so the status
// never reveals whether the resource exists.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrKhataNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicatePerson),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrKhataClosed),
		errors.Is(err, domain.ErrEntryAlreadyDeleted),
		errors.Is(err, domain.ErrEntryNotDeleted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidEntryType),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidKhataType),
		errors.Is(err, domain.ErrInvalidKhataStatus),
		errors.Is(err, domain.ErrInvalidPersonName),
		errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooWeak):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseBoolQuery parses a boolean query parameter, false when absent.
func parseBoolQuery(r *http.Request, key string) bool {
	val, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return false
	}
	return val
}

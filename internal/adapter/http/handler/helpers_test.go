package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/khata/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrKhataNotFound, http.StatusNotFound},
		{domain.ErrEntryNotFound, http.StatusNotFound},
		{domain.ErrDuplicatePerson, http.StatusConflict},
		{domain.ErrKhataClosed, http.StatusConflict},
		{domain.ErrEntryAlreadyDeleted, http.StatusConflict},
		{domain.ErrEntryNotDeleted, http.StatusConflict},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrInvalidEntryType, http.StatusBadRequest},
		{domain.ErrInvalidPersonName, http.StatusBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrExpiredToken, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := mapDomainError(tt.err); got != tt.want {
			t.Errorf("mapDomainError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=abc", nil)

	if got := parseIntQuery(req, "page", 1); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := parseIntQuery(req, "limit", 20); got != 20 {
		t.Errorf("expected default 20, got %d", got)
	}
	if got := parseIntQuery(req, "missing", 7); got != 7 {
		t.Errorf("expected default 7, got %d", got)
	}
}

func TestParseBoolQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?include_deleted=true&bad=notabool", nil)

	if !parseBoolQuery(req, "include_deleted") {
		t.Error("expected true")
	}
	if parseBoolQuery(req, "bad") {
		t.Error("expected false for unparseable value")
	}
	if parseBoolQuery(req, "missing") {
		t.Error("expected false for missing value")
	}
}

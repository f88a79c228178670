package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/khata/internal/adapter/http/dto"
	"github.com/iho/khata/internal/adapter/http/middleware"
	"github.com/iho/khata/internal/domain"
	"github.com/iho/khata/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	AddEntry(ctx context.Context, ownerID, khataID string, input usecase.AddEntryInput) (*domain.Entry, *domain.Khata, error)
	ListEntries(ctx context.Context, ownerID, khataID string, input usecase.ListEntriesInput) ([]*domain.Entry, int64, error)
	DeleteEntry(ctx context.Context, ownerID, khataID, entryID string) (*domain.Entry, error)
	RestoreEntry(ctx context.Context, ownerID, khataID, entryID string) (*domain.Entry, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// Add posts a credit or debit to a khata.
func (h *EntryHandler) Add(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, khata, err := h.entryUC.AddEntry(r.Context(), ownerID, chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add entry", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AddEntryResponse{
		Entry: dto.EntryFromDomain(entry),
		Khata: dto.KhataFromDomain(khata),
	})
}

// List lists a khata's entries newest-first.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	page := parseIntQuery(r, "page", 1)
	limit := parseIntQuery(r, "limit", 20)

	entries, total, err := h.entryUC.ListEntries(r.Context(), ownerID, chi.URLParam(r, "id"), usecase.ListEntriesInput{
		IncludeDeleted: parseBoolQuery(r, "include_deleted"),
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   total,
		Page:    page,
		Limit:   limit,
	})
}

// Delete soft-deletes an entry and returns the updated record.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	entry, err := h.entryUC.DeleteEntry(r.Context(), ownerID, chi.URLParam(r, "id"), chi.URLParam(r, "entryID"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to delete entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Restore un-deletes a soft-deleted entry.
func (h *EntryHandler) Restore(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	entry, err := h.entryUC.RestoreEntry(r.Context(), ownerID, chi.URLParam(r, "id"), chi.URLParam(r, "entryID"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to restore entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

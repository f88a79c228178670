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

// KhataService defines the behavior needed by KhataHandler.
type KhataService interface {
	CreateKhata(ctx context.Context, ownerID string, input usecase.CreateKhataInput) (*domain.Khata, error)
	GetKhata(ctx context.Context, ownerID, khataID string) (*domain.Khata, []*domain.Entry, error)
	ListKhatas(ctx context.Context, ownerID string, input usecase.ListKhatasInput) ([]*domain.Khata, int64, error)
	UpdateKhata(ctx context.Context, ownerID, khataID string, input usecase.UpdateKhataInput) (*domain.Khata, error)
	CloseKhata(ctx context.Context, ownerID, khataID string) (*domain.Khata, error)
	Summary(ctx context.Context, ownerID string, khataType domain.KhataType) (*usecase.SummaryResult, error)
	VerifyKhata(ctx context.Context, ownerID, khataID string) (*usecase.VerifyResult, error)
}

// KhataHandler handles khata-related HTTP requests.
type KhataHandler struct {
	khataUC KhataService
}

// NewKhataHandler creates a new KhataHandler.
func NewKhataHandler(khataUC KhataService) *KhataHandler {
	return &KhataHandler{khataUC: khataUC}
}

// Create opens a new khata.
func (h *KhataHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateKhataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	khata, err := h.khataUC.CreateKhata(r.Context(), ownerID, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create khata", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.KhataFromDomain(khata))
}

// Get retrieves a khata with its most recent entries.
func (h *KhataHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	khata, entries, err := h.khataUC.GetKhata(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get khata", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.KhataDetailResponse{
		Khata:         dto.KhataFromDomain(khata),
		RecentEntries: dto.EntriesFromDomain(entries),
	})
}

// List lists the caller's khatas with optional filters.
func (h *KhataHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	page := parseIntQuery(r, "page", 1)
	limit := parseIntQuery(r, "limit", 20)

	khatas, total, err := h.khataUC.ListKhatas(r.Context(), ownerID, usecase.ListKhatasInput{
		Type:   domain.KhataType(r.URL.Query().Get("type")),
		Status: domain.KhataStatus(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list khatas", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListKhatasResponse{
		Khatas: dto.KhatasFromDomain(khatas),
		Total:  total,
		Page:   page,
		Limit:  limit,
	})
}

// Update applies a partial update to a khata.
func (h *KhataHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.UpdateKhataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	khata, err := h.khataUC.UpdateKhata(r.Context(), ownerID, chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update khata", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.KhataFromDomain(khata))
}

// Close soft-closes a khata, keeping its history.
func (h *KhataHandler) Close(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	khata, err := h.khataUC.CloseKhata(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to close khata", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.KhataFromDomain(khata))
}

// Summary returns aggregate counts and totals across the caller's khatas.
func (h *KhataHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	result, err := h.khataUC.Summary(r.Context(), ownerID, domain.KhataType(r.URL.Query().Get("type")))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromResult(result))
}

// Verify refolds a khata's entries and compares against the stored
// aggregates.
func (h *KhataHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	result, err := h.khataUC.VerifyKhata(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to verify khata", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VerifyFromResult(result))
}

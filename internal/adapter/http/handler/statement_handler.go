package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/khata/internal/adapter/export"
	"github.com/iho/khata/internal/adapter/http/middleware"
	"github.com/iho/khata/internal/domain"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	Statement(ctx context.Context, ownerID, khataID string) (*domain.Khata, []*domain.Entry, error)
}

// StatementHandler serves khata statement downloads.
type StatementHandler struct {
	khataUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(khataUC StatementService) *StatementHandler {
	return &StatementHandler{khataUC: khataUC}
}

// Get renders a khata statement. The format query selects pdf or xlsx,
// defaulting to pdf.
func (h *StatementHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	khata, entries, err := h.khataUC.Statement(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build statement", err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}

	var (
		data        []byte
		contentType string
		extension   string
	)

	switch format {
	case "pdf":
		data, err = export.BuildStatementPDF(khata, entries)
		contentType = "application/pdf"
		extension = "pdf"
	case "xlsx":
		data, err = export.BuildStatementXLSX(khata, entries)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		extension = "xlsx"
	default:
		writeError(w, http.StatusBadRequest, "unsupported format", format)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render statement", err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("khata-%s.%s", khata.ID, extension)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

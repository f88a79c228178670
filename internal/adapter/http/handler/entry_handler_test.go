package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/khata/internal/adapter/http/dto"
	"github.com/iho/khata/internal/domain"
	"github.com/iho/khata/internal/usecase"
)

type entryServiceStub struct {
	addFn     func(ctx context.Context, ownerID, khataID string, input usecase.AddEntryInput) (*domain.Entry, *domain.Khata, error)
	listFn    func(ctx context.Context, ownerID, khataID string, input usecase.ListEntriesInput) ([]*domain.Entry, int64, error)
	deleteFn  func(ctx context.Context, ownerID, khataID, entryID string) (*domain.Entry, error)
	restoreFn func(ctx context.Context, ownerID, khataID, entryID string) (*domain.Entry, error)
}

func (s *entryServiceStub) AddEntry(ctx context.Context, ownerID, khataID string, input usecase.AddEntryInput) (*domain.Entry, *domain.Khata, error) {
	return s.addFn(ctx, ownerID, khataID, input)
}

func (s *entryServiceStub) ListEntries(ctx context.Context, ownerID, khataID string, input usecase.ListEntriesInput) ([]*domain.Entry, int64, error) {
	return s.listFn(ctx, ownerID, khataID, input)
}

func (s *entryServiceStub) DeleteEntry(ctx context.Context, ownerID, khataID, entryID string) (*domain.Entry, error) {
	return s.deleteFn(ctx, ownerID, khataID, entryID)
}

func (s *entryServiceStub) RestoreEntry(ctx context.Context, ownerID, khataID, entryID string) (*domain.Entry, error) {
	return s.restoreFn(ctx, ownerID, khataID, entryID)
}

func TestEntryHandler_Add_Success(t *testing.T) {
	entry := &domain.Entry{
		ID:           "entry-1",
		KhataID:      "khata-1",
		Type:         domain.EntryTypeCredit,
		Amount:       decimal.NewFromInt(1000),
		BalanceAfter: decimal.NewFromInt(1000),
	}
	khata := &domain.Khata{
		ID:             "khata-1",
		CurrentBalance: decimal.NewFromInt(1000),
		TotalCredit:    decimal.NewFromInt(1000),
	}

	var captured usecase.AddEntryInput
	h := NewEntryHandler(&entryServiceStub{
		addFn: func(ctx context.Context, ownerID, khataID string, input usecase.AddEntryInput) (*domain.Entry, *domain.Khata, error) {
			captured = input
			return entry, khata, nil
		},
	})

	body, _ := json.Marshal(dto.AddEntryRequest{
		Type:        "credit",
		Amount:      decimal.NewFromInt(1000),
		Description: "goods on credit",
	})

	rec := httptest.NewRecorder()
	h.Add(rec, authedRequest(http.MethodPost, "/khatas/khata-1/entries", body, map[string]string{"id": "khata-1"}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Type != domain.EntryTypeCredit || !captured.Amount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AddEntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Entry.ID != "entry-1" || !resp.Khata.CurrentBalance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestEntryHandler_Add_ClosedKhata(t *testing.T) {
	h := NewEntryHandler(&entryServiceStub{
		addFn: func(ctx context.Context, ownerID, khataID string, input usecase.AddEntryInput) (*domain.Entry, *domain.Khata, error) {
			return nil, nil, domain.ErrKhataClosed
		},
	})

	body, _ := json.Marshal(dto.AddEntryRequest{Type: "credit", Amount: decimal.NewFromInt(100)})

	rec := httptest.NewRecorder()
	h.Add(rec, authedRequest(http.MethodPost, "/khatas/khata-1/entries", body, map[string]string{"id": "khata-1"}))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestEntryHandler_Add_InvalidAmount(t *testing.T) {
	h := NewEntryHandler(&entryServiceStub{
		addFn: func(ctx context.Context, ownerID, khataID string, input usecase.AddEntryInput) (*domain.Entry, *domain.Khata, error) {
			return nil, nil, domain.ErrInvalidAmount
		},
	})

	body, _ := json.Marshal(dto.AddEntryRequest{Type: "credit", Amount: decimal.NewFromInt(-5)})

	rec := httptest.NewRecorder()
	h.Add(rec, authedRequest(http.MethodPost, "/khatas/khata-1/entries", body, map[string]string{"id": "khata-1"}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_List_IncludeDeleted(t *testing.T) {
	var captured usecase.ListEntriesInput
	h := NewEntryHandler(&entryServiceStub{
		listFn: func(ctx context.Context, ownerID, khataID string, input usecase.ListEntriesInput) ([]*domain.Entry, int64, error) {
			captured = input
			return []*domain.Entry{{ID: "entry-1", IsDeleted: true}}, 1, nil
		},
	})

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/khatas/khata-1/entries?include_deleted=true", nil, map[string]string{"id": "khata-1"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !captured.IncludeDeleted {
		t.Fatal("expected include_deleted to be passed through")
	}

	var resp dto.ListEntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 1 || !resp.Entries[0].IsDeleted {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestEntryHandler_Delete_Success(t *testing.T) {
	h := NewEntryHandler(&entryServiceStub{
		deleteFn: func(ctx context.Context, ownerID, khataID, entryID string) (*domain.Entry, error) {
			if khataID != "khata-1" || entryID != "entry-2" {
				t.Fatalf("unexpected IDs: %s %s", khataID, entryID)
			}
			return &domain.Entry{ID: entryID, IsDeleted: true}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Delete(rec, authedRequest(http.MethodDelete, "/khatas/khata-1/entries/entry-2", nil,
		map[string]string{"id": "khata-1", "entryID": "entry-2"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEntryHandler_Delete_AlreadyDeleted(t *testing.T) {
	h := NewEntryHandler(&entryServiceStub{
		deleteFn: func(ctx context.Context, ownerID, khataID, entryID string) (*domain.Entry, error) {
			return nil, domain.ErrEntryAlreadyDeleted
		},
	})

	rec := httptest.NewRecorder()
	h.Delete(rec, authedRequest(http.MethodDelete, "/khatas/khata-1/entries/entry-2", nil,
		map[string]string{"id": "khata-1", "entryID": "entry-2"}))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestEntryHandler_Restore_NotFound(t *testing.T) {
	h := NewEntryHandler(&entryServiceStub{
		restoreFn: func(ctx context.Context, ownerID, khataID, entryID string) (*domain.Entry, error) {
			return nil, domain.ErrEntryNotFound
		},
	})

	rec := httptest.NewRecorder()
	h.Restore(rec, authedRequest(http.MethodPost, "/khatas/khata-1/entries/missing/restore", nil,
		map[string]string{"id": "khata-1", "entryID": "missing"}))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

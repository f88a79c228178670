package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/khata/internal/domain"
	"github.com/iho/khata/internal/infrastructure/metrics"
)

// KhataUseCase handles khata business logic.
type KhataUseCase struct {
	txManager TransactionManager
	khataRepo KhataRepository
	entryRepo EntryRepository
	idGen     IDGenerator
	cache     Cache
	metrics   *metrics.Metrics
}

// NewKhataUseCase creates a new KhataUseCase.
func NewKhataUseCase(
	txManager TransactionManager,
	khataRepo KhataRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	cache Cache,
	metrics *metrics.Metrics,
) *KhataUseCase {
	return &KhataUseCase{
		txManager: txManager,
		khataRepo: khataRepo,
		entryRepo: entryRepo,
		idGen:     idGen,
		cache:     cache,
		metrics:   metrics,
	}
}

// CreateKhataInput represents input for creating a khata.
type CreateKhataInput struct {
	Type       domain.KhataType
	PersonName string
	Phone      string
	Address    string
	Notes      string
	ContactID  string
}

// CreateKhata creates a new khata with zero aggregates. An active khata
// for the same person (case-insensitive name) or the same linked contact
// is rejected as a duplicate.
func (uc *KhataUseCase) CreateKhata(ctx context.Context, ownerID string, input CreateKhataInput) (*domain.Khata, error) {
	if err := domain.ValidatePersonName(input.PersonName); err != nil {
		return nil, err
	}

	if err := domain.ValidatePhone(input.Phone); err != nil {
		return nil, err
	}

	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidKhataType
	}

	dup, err := uc.khataRepo.FindActiveDuplicate(ctx, ownerID, input.PersonName, input.ContactID)
	if err != nil {
		return nil, err
	}

	if dup != nil {
		return nil, domain.ErrDuplicatePerson
	}

	now := time.Now().UTC()

	khata := &domain.Khata{
		ID:             uc.idGen.Generate(),
		OwnerID:        ownerID,
		ContactID:      input.ContactID,
		Type:           input.Type,
		PersonName:     strings.TrimSpace(input.PersonName),
		Phone:          strings.TrimSpace(input.Phone),
		Address:        input.Address,
		Notes:          input.Notes,
		Status:         domain.KhataStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	khata.SetAggregates(domain.ZeroAggregates())

	if err := uc.khataRepo.Create(ctx, khata); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.KhatasCreated.Inc()
	}

	uc.invalidateSummary(ctx, ownerID)

	return khata, nil
}

// GetKhata retrieves a khata together with its most recent entries.
func (uc *KhataUseCase) GetKhata(ctx context.Context, ownerID, khataID string) (*domain.Khata, []*domain.Entry, error) {
	khata, err := uc.khataRepo.GetByID(ctx, ownerID, khataID)
	if err != nil {
		return nil, nil, err
	}

	entries, _, err := uc.entryRepo.ListByKhata(ctx, khata.ID, false, RecentEntriesLimit, 0)
	if err != nil {
		return nil, nil, err
	}

	return khata, entries, nil
}

// ListKhatasInput represents input for listing khatas.
type ListKhatasInput struct {
	Type   domain.KhataType
	Status domain.KhataStatus
	Search string
	Page   int
	Limit  int
}

// ListKhatas lists a user's khatas, most recently updated first.
func (uc *KhataUseCase) ListKhatas(ctx context.Context, ownerID string, input ListKhatasInput) ([]*domain.Khata, int64, error) {
	if input.Type != "" && !input.Type.IsValid() {
		return nil, 0, domain.ErrInvalidKhataType
	}

	if input.Status != "" && !input.Status.IsValid() {
		return nil, 0, domain.ErrInvalidKhataStatus
	}

	page, limit := domain.ValidatePagination(input.Page, input.Limit)

	return uc.khataRepo.List(ctx, ownerID, KhataFilter{
		Type:   input.Type,
		Status: input.Status,
		Search: strings.TrimSpace(input.Search),
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
}

// UpdateKhataInput represents a partial khata update. Nil fields are
// left untouched.
type UpdateKhataInput struct {
	PersonName *string
	Phone      *string
	Address    *string
	Notes      *string
	Status     *domain.KhataStatus
}

// UpdateKhata applies a partial update to a khata's descriptive fields.
func (uc *KhataUseCase) UpdateKhata(ctx context.Context, ownerID, khataID string, input UpdateKhataInput) (*domain.Khata, error) {
	khata, err := uc.khataRepo.GetByID(ctx, ownerID, khataID)
	if err != nil {
		return nil, err
	}

	if input.PersonName != nil {
		if err := domain.ValidatePersonName(*input.PersonName); err != nil {
			return nil, err
		}
		khata.PersonName = strings.TrimSpace(*input.PersonName)
	}

	if input.Phone != nil {
		if err := domain.ValidatePhone(*input.Phone); err != nil {
			return nil, err
		}
		khata.Phone = strings.TrimSpace(*input.Phone)
	}

	if input.Address != nil {
		khata.Address = *input.Address
	}

	if input.Notes != nil {
		khata.Notes = *input.Notes
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, domain.ErrInvalidKhataStatus
		}
		khata.Status = *input.Status
	}

	khata.UpdatedAt = time.Now().UTC()

	if err := uc.khataRepo.Update(ctx, khata); err != nil {
		return nil, err
	}

	uc.invalidateSummary(ctx, ownerID)

	return khata, nil
}

// CloseKhata soft-closes a khata. The record and its entries are kept.
func (uc *KhataUseCase) CloseKhata(ctx context.Context, ownerID, khataID string) (*domain.Khata, error) {
	status := domain.KhataStatusClosed

	khata, err := uc.UpdateKhata(ctx, ownerID, khataID, UpdateKhataInput{Status: &status})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.KhatasClosed.Inc()
	}

	return khata, nil
}

// SummaryResult aggregates counts and totals over a user's khatas.
type SummaryResult struct {
	Overall domain.KhataSummary
	ByType  []*domain.KhataSummary
}

// Summary returns aggregate counts and totals, optionally restricted to
// one khata type. Values are derived from the khatas' stored aggregates;
// entries are never re-read. Results are cached briefly.
func (uc *KhataUseCase) Summary(ctx context.Context, ownerID string, khataType domain.KhataType) (*SummaryResult, error) {
	if khataType != "" && !khataType.IsValid() {
		return nil, domain.ErrInvalidKhataType
	}

	cacheKey := summaryCacheKey(ownerID, khataType)
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var cached SummaryResult
			if json.Unmarshal(raw, &cached) == nil {
				if uc.metrics != nil {
					uc.metrics.SummaryCacheHits.Inc()
				}
				return &cached, nil
			}
		}
	}

	if uc.metrics != nil {
		uc.metrics.SummaryCacheMisses.Inc()
	}

	rows, err := uc.khataRepo.Summary(ctx, ownerID, khataType)
	if err != nil {
		return nil, err
	}

	result := &SummaryResult{
		Overall: domain.KhataSummary{
			TotalCredit: decimal.Zero,
			TotalDebit:  decimal.Zero,
			NetBalance:  decimal.Zero,
		},
		ByType: rows,
	}

	for _, row := range rows {
		result.Overall.Total += row.Total
		result.Overall.Active += row.Active
		result.Overall.Closed += row.Closed
		result.Overall.TotalCredit = result.Overall.TotalCredit.Add(row.TotalCredit)
		result.Overall.TotalDebit = result.Overall.TotalDebit.Add(row.TotalDebit)
		result.Overall.NetBalance = result.Overall.NetBalance.Add(row.NetBalance)
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, raw, SummaryCacheTTL)
		}
	}

	return result, nil
}

// Statement returns a khata and its entries oldest-first for export.
// Soft-deleted entries are included so the document shows them marked.
func (uc *KhataUseCase) Statement(ctx context.Context, ownerID, khataID string) (*domain.Khata, []*domain.Entry, error) {
	khata, err := uc.khataRepo.GetByID(ctx, ownerID, khataID)
	if err != nil {
		return nil, nil, err
	}

	entries, _, err := uc.entryRepo.ListByKhata(ctx, khata.ID, true, StatementEntriesLimit, 0)
	if err != nil {
		return nil, nil, err
	}

	// The listing is newest-first; statements read top to bottom.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return khata, entries, nil
}

// VerifyResult reports whether a khata's stored aggregates match a fresh
// fold over its live entries.
type VerifyResult struct {
	KhataID    string
	Consistent bool
	Stored     domain.Aggregates
	Computed   domain.Aggregates
	EntryCount int
}

// VerifyKhata refolds the khata's non-deleted entries and compares the
// result with the stored aggregates. Read-only; nothing is repaired.
func (uc *KhataUseCase) VerifyKhata(ctx context.Context, ownerID, khataID string) (*VerifyResult, error) {
	khata, err := uc.khataRepo.GetByID(ctx, ownerID, khataID)
	if err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	entries, err := uc.entryRepo.ListActive(ctx, tx, khata.ID)
	if err != nil {
		return nil, err
	}

	computed := domain.Recompute(entries)
	stored := khata.Aggregates()
	consistent := stored.Equal(computed) && computed.Consistent()

	if uc.metrics != nil {
		uc.metrics.VerificationsRun.Inc()
		if !consistent {
			uc.metrics.VerificationsFailed.Inc()
		}
	}

	return &VerifyResult{
		KhataID:    khata.ID,
		Consistent: consistent,
		Stored:     stored,
		Computed:   computed,
		EntryCount: len(entries),
	}, nil
}

func (uc *KhataUseCase) invalidateSummary(ctx context.Context, ownerID string) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Delete(ctx,
		summaryCacheKey(ownerID, ""),
		summaryCacheKey(ownerID, domain.KhataTypeClient),
		summaryCacheKey(ownerID, domain.KhataTypeVendor),
	)
}

func summaryCacheKey(ownerID string, khataType domain.KhataType) string {
	if khataType == "" {
		return fmt.Sprintf("summary:%s:all", ownerID)
	}

	return fmt.Sprintf("summary:%s:%s", ownerID, khataType)
}

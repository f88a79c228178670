package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/khata/internal/domain"
	"github.com/iho/khata/internal/infrastructure/metrics"
)

// EntryUseCase handles entry business logic. Every mutation runs inside
// a transaction holding a row lock on the owning khata, so concurrent
// writers to one khata are serialized and the incremental balance apply
// cannot lose updates.
type EntryUseCase struct {
	txManager TransactionManager
	khataRepo KhataRepository
	entryRepo EntryRepository
	idGen     IDGenerator
	retrier   Retrier
	cache     Cache
	metrics   *metrics.Metrics
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	txManager TransactionManager,
	khataRepo KhataRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	metrics *metrics.Metrics,
) *EntryUseCase {
	return &EntryUseCase{
		txManager: txManager,
		khataRepo: khataRepo,
		entryRepo: entryRepo,
		idGen:     idGen,
		retrier:   retrier,
		cache:     cache,
		metrics:   metrics,
	}
}

// AddEntryInput represents input for posting an entry.
type AddEntryInput struct {
	Type            domain.EntryType
	Amount          decimal.Decimal
	Description     string
	TransactionDate *time.Time
	Notes           string
}

// AddEntry posts a credit or debit to a khata using the O(1) incremental
// apply: balanceAfter is derived from the locked khata's current balance
// and the aggregates move by the same delta. Entry insert and aggregate
// update commit atomically.
func (uc *EntryUseCase) AddEntry(ctx context.Context, ownerID, khataID string, input AddEntryInput) (*domain.Entry, *domain.Khata, error) {
	if !input.Type.IsValid() {
		return nil, nil, domain.ErrInvalidEntryType
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, nil, err
	}

	var (
		entry *domain.Entry
		khata *domain.Khata
	)

	err := uc.retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		khata, err = uc.khataRepo.GetByIDForUpdate(ctx, tx, ownerID, khataID)
		if err != nil {
			return err
		}

		if khata.IsClosed() {
			return domain.ErrKhataClosed
		}

		now := time.Now().UTC()

		txDate := now
		if input.TransactionDate != nil {
			txDate = input.TransactionDate.UTC()
		}

		agg := khata.Aggregates().Apply(input.Type, input.Amount)

		entry = &domain.Entry{
			ID:              uc.idGen.Generate(),
			KhataID:         khata.ID,
			OwnerID:         ownerID,
			Type:            input.Type,
			Amount:          input.Amount,
			Description:     input.Description,
			TransactionDate: txDate,
			BalanceAfter:    agg.CurrentBalance,
			Notes:           input.Notes,
			CreatedAt:       now,
		}

		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		if err := uc.khataRepo.UpdateAggregates(ctx, tx, khata.ID, agg, now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		khata.SetAggregates(agg)
		khata.UpdatedAt = now

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesCreated.WithLabelValues(string(input.Type)).Inc()
		uc.metrics.EntryAmount.Observe(input.Amount.InexactFloat64())
	}

	uc.invalidateSummary(ctx, ownerID)

	return entry, khata, nil
}

// ListEntriesInput represents input for listing a khata's entries.
type ListEntriesInput struct {
	IncludeDeleted bool
	Page           int
	Limit          int
}

// ListEntries lists a khata's entries newest-first. The khata lookup
// doubles as the ownership check.
func (uc *EntryUseCase) ListEntries(ctx context.Context, ownerID, khataID string, input ListEntriesInput) ([]*domain.Entry, int64, error) {
	khata, err := uc.khataRepo.GetByID(ctx, ownerID, khataID)
	if err != nil {
		return nil, 0, err
	}

	page, limit := domain.ValidatePagination(input.Page, input.Limit)

	return uc.entryRepo.ListByKhata(ctx, khata.ID, input.IncludeDeleted, limit, (page-1)*limit)
}

// DeleteEntry soft-deletes an entry and refolds the khata's aggregates
// from its remaining live entries.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, ownerID, khataID, entryID string) (*domain.Entry, error) {
	return uc.toggleEntry(ctx, ownerID, khataID, entryID, true)
}

// RestoreEntry un-deletes an entry and refolds the khata's aggregates.
func (uc *EntryUseCase) RestoreEntry(ctx context.Context, ownerID, khataID, entryID string) (*domain.Entry, error) {
	return uc.toggleEntry(ctx, ownerID, khataID, entryID, false)
}

// toggleEntry flips an entry's soft-delete flag and runs the O(n) full
// recompute. The toggle invalidates every later entry's balanceAfter
// snapshot, so only the refolded khata aggregates are trusted afterwards;
// snapshots are left as point-in-time history.
func (uc *EntryUseCase) toggleEntry(ctx context.Context, ownerID, khataID, entryID string, deleted bool) (*domain.Entry, error) {
	entry, err := uc.entryRepo.GetByID(ctx, ownerID, khataID, entryID)
	if err != nil {
		return nil, err
	}

	if deleted && entry.IsDeleted {
		return nil, domain.ErrEntryAlreadyDeleted
	}

	if !deleted && !entry.IsDeleted {
		return nil, domain.ErrEntryNotDeleted
	}

	err = uc.retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		// Lock the khata first; all entry mutations take this lock, so
		// the pre-checked entry state cannot change underneath us.
		khata, err := uc.khataRepo.GetByIDForUpdate(ctx, tx, ownerID, khataID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		var deletedAt *time.Time
		if deleted {
			deletedAt = &now
		}

		if err := uc.entryRepo.SetDeleted(ctx, tx, entry.ID, deleted, deletedAt); err != nil {
			return err
		}

		live, err := uc.entryRepo.ListActive(ctx, tx, khata.ID)
		if err != nil {
			return err
		}

		agg := domain.Recompute(live)

		if err := uc.khataRepo.UpdateAggregates(ctx, tx, khata.ID, agg, now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		entry.IsDeleted = deleted
		entry.DeletedAt = deletedAt

		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		if deleted {
			uc.metrics.EntriesDeleted.Inc()
		} else {
			uc.metrics.EntriesRestored.Inc()
		}
	}

	uc.invalidateSummary(ctx, ownerID)

	return entry, nil
}

func (uc *EntryUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}

	return uc.retrier.Retry(ctx, operation)
}

func (uc *EntryUseCase) invalidateSummary(ctx context.Context, ownerID string) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Delete(ctx,
		summaryCacheKey(ownerID, ""),
		summaryCacheKey(ownerID, domain.KhataTypeClient),
		summaryCacheKey(ownerID, domain.KhataTypeVendor),
	)
}

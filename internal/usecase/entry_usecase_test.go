package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/khata/internal/domain"
	"github.com/iho/khata/internal/usecase"
	"github.com/iho/khata/internal/usecase/mocks"
)

func activeKhata(agg domain.Aggregates) *domain.Khata {
	khata := &domain.Khata{
		ID:         "khata-1",
		OwnerID:    testOwnerID,
		Type:       domain.KhataTypeClient,
		PersonName: "Ram Traders",
		Status:     domain.KhataStatusActive,
	}
	khata.SetAggregates(agg)
	return khata
}

func TestEntryUseCase_AddEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	khataRepo := mocks.NewMockKhataRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	khata := activeKhata(domain.Aggregates{
		TotalCredit:    decimal.NewFromInt(1000),
		TotalDebit:     decimal.Zero,
		CurrentBalance: decimal.NewFromInt(1000),
	})

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	khataRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, testOwnerID, "khata-1").Return(khata, nil)
	idGen.EXPECT().Generate().Return("entry-2")
	entryRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, entry *domain.Entry) error {
			assert.Equal(t, "khata-1", entry.KhataID)
			assert.Equal(t, testOwnerID, entry.OwnerID)
			assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(700)))
			return nil
		})
	khataRepo.EXPECT().UpdateAggregates(gomock.Any(), tx, "khata-1", gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, _ string, agg domain.Aggregates, _ time.Time) error {
			assert.True(t, agg.TotalCredit.Equal(decimal.NewFromInt(1000)))
			assert.True(t, agg.TotalDebit.Equal(decimal.NewFromInt(300)))
			assert.True(t, agg.CurrentBalance.Equal(decimal.NewFromInt(700)))
			return nil
		})
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewEntryUseCase(txManager, khataRepo, entryRepo, idGen, nil, nil, nil)
	entry, updated, err := uc.AddEntry(context.Background(), testOwnerID, "khata-1", usecase.AddEntryInput{
		Type:        domain.EntryTypeDebit,
		Amount:      decimal.NewFromInt(300),
		Description: "cash received",
	})

	require.NoError(t, err)
	assert.Equal(t, "entry-2", entry.ID)
	assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(700)))
	assert.True(t, updated.CurrentBalance.Equal(decimal.NewFromInt(700)))
	assert.True(t, updated.Aggregates().Consistent())
}

func TestEntryUseCase_AddEntry_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.AddEntryInput
		wantErr error
	}{
		{
			name:    "invalid entry type",
			input:   usecase.AddEntryInput{Type: "payment", Amount: decimal.NewFromInt(100)},
			wantErr: domain.ErrInvalidEntryType,
		},
		{
			name:    "zero amount",
			input:   usecase.AddEntryInput{Type: domain.EntryTypeCredit, Amount: decimal.Zero},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			input:   usecase.AddEntryInput{Type: domain.EntryTypeCredit, Amount: decimal.NewFromInt(-50)},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "amount above cap",
			input: usecase.AddEntryInput{
				Type:   domain.EntryTypeCredit,
				Amount: decimal.RequireFromString("1000000001"),
			},
			wantErr: domain.ErrAmountTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No mock expectations: validation must fail before any
			// repository or transaction work happens.
			ctrl := gomock.NewController(t)
			txManager := mocks.NewMockTransactionManager(ctrl)

			uc := usecase.NewEntryUseCase(txManager, nil, nil, nil, nil, nil, nil)
			_, _, err := uc.AddEntry(context.Background(), testOwnerID, "khata-1", tt.input)

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEntryUseCase_AddEntry_ClosedKhata(t *testing.T) {
	ctrl := gomock.NewController(t)
	khataRepo := mocks.NewMockKhataRepository(ctrl)
	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	closed := activeKhata(domain.ZeroAggregates())
	closed.Status = domain.KhataStatusClosed

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	khataRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, testOwnerID, "khata-1").Return(closed, nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewEntryUseCase(txManager, khataRepo, nil, nil, nil, nil, nil)
	_, _, err := uc.AddEntry(context.Background(), testOwnerID, "khata-1", usecase.AddEntryInput{
		Type:   domain.EntryTypeCredit,
		Amount: decimal.NewFromInt(100),
	})

	require.ErrorIs(t, err, domain.ErrKhataClosed)
}

func TestEntryUseCase_AddEntry_OwnershipIsolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	khataRepo := mocks.NewMockKhataRepository(ctrl)
	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	// The repository scopes lookups by owner, so another owner's khata
	// is indistinguishable from a missing one.
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	khataRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, "other-owner", "khata-1").
		Return(nil, domain.ErrKhataNotFound)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewEntryUseCase(txManager, khataRepo, nil, nil, nil, nil, nil)
	_, _, err := uc.AddEntry(context.Background(), "other-owner", "khata-1", usecase.AddEntryInput{
		Type:   domain.EntryTypeCredit,
		Amount: decimal.NewFromInt(100),
	})

	require.ErrorIs(t, err, domain.ErrKhataNotFound)
}

func TestEntryUseCase_DeleteThenRestore(t *testing.T) {
	// Scenario: credit 1000 then debit 300 leaves a balance of 700.
	// Deleting the debit refolds to 1000; restoring it refolds back to 700.
	credit := &domain.Entry{
		ID:      "entry-1",
		KhataID: "khata-1",
		OwnerID: testOwnerID,
		Type:    domain.EntryTypeCredit,
		Amount:  decimal.NewFromInt(1000),
	}
	debit := &domain.Entry{
		ID:      "entry-2",
		KhataID: "khata-1",
		OwnerID: testOwnerID,
		Type:    domain.EntryTypeDebit,
		Amount:  decimal.NewFromInt(300),
	}

	ctrl := gomock.NewController(t)
	khataRepo := mocks.NewMockKhataRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(2)
	tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(2)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil).Times(2)
	khataRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, testOwnerID, "khata-1").
		DoAndReturn(func(context.Context, usecase.Transaction, string, string) (*domain.Khata, error) {
			return activeKhata(domain.Recompute([]*domain.Entry{credit, debit})), nil
		}).Times(2)

	// Delete pass.
	entryRepo.EXPECT().GetByID(gomock.Any(), testOwnerID, "khata-1", "entry-2").Return(debit, nil)
	entryRepo.EXPECT().SetDeleted(gomock.Any(), tx, "entry-2", true, gomock.Not(gomock.Nil())).Return(nil)
	entryRepo.EXPECT().ListActive(gomock.Any(), tx, "khata-1").Return([]*domain.Entry{credit}, nil)
	khataRepo.EXPECT().UpdateAggregates(gomock.Any(), tx, "khata-1", gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, _ string, agg domain.Aggregates, _ time.Time) error {
			assert.True(t, agg.CurrentBalance.Equal(decimal.NewFromInt(1000)))
			assert.True(t, agg.TotalDebit.IsZero())
			return nil
		})

	uc := usecase.NewEntryUseCase(txManager, khataRepo, entryRepo, nil, nil, nil, nil)
	deleted, err := uc.DeleteEntry(context.Background(), testOwnerID, "khata-1", "entry-2")
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	require.NotNil(t, deleted.DeletedAt)

	// Restore pass.
	entryRepo.EXPECT().GetByID(gomock.Any(), testOwnerID, "khata-1", "entry-2").Return(debit, nil)
	entryRepo.EXPECT().SetDeleted(gomock.Any(), tx, "entry-2", false, nil).Return(nil)
	entryRepo.EXPECT().ListActive(gomock.Any(), tx, "khata-1").Return([]*domain.Entry{credit, debit}, nil)
	khataRepo.EXPECT().UpdateAggregates(gomock.Any(), tx, "khata-1", gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, _ string, agg domain.Aggregates, _ time.Time) error {
			assert.True(t, agg.CurrentBalance.Equal(decimal.NewFromInt(700)))
			assert.True(t, agg.TotalDebit.Equal(decimal.NewFromInt(300)))
			return nil
		})

	restored, err := uc.RestoreEntry(context.Background(), testOwnerID, "khata-1", "entry-2")
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
	assert.Nil(t, restored.DeletedAt)
}

func TestEntryUseCase_DeleteEntry_AlreadyDeleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	entryRepo := mocks.NewMockEntryRepository(ctrl)

	now := time.Now().UTC()
	entryRepo.EXPECT().GetByID(gomock.Any(), testOwnerID, "khata-1", "entry-1").
		Return(&domain.Entry{ID: "entry-1", IsDeleted: true, DeletedAt: &now}, nil)

	uc := usecase.NewEntryUseCase(nil, nil, entryRepo, nil, nil, nil, nil)
	_, err := uc.DeleteEntry(context.Background(), testOwnerID, "khata-1", "entry-1")

	require.ErrorIs(t, err, domain.ErrEntryAlreadyDeleted)
}

func TestEntryUseCase_RestoreEntry_NotDeleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	entryRepo := mocks.NewMockEntryRepository(ctrl)

	entryRepo.EXPECT().GetByID(gomock.Any(), testOwnerID, "khata-1", "entry-1").
		Return(&domain.Entry{ID: "entry-1"}, nil)

	uc := usecase.NewEntryUseCase(nil, nil, entryRepo, nil, nil, nil, nil)
	_, err := uc.RestoreEntry(context.Background(), testOwnerID, "khata-1", "entry-1")

	require.ErrorIs(t, err, domain.ErrEntryNotDeleted)
}

func TestEntryUseCase_ListEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	khataRepo := mocks.NewMockKhataRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)

	khataRepo.EXPECT().GetByID(gomock.Any(), testOwnerID, "khata-1").
		Return(&domain.Khata{ID: "khata-1", OwnerID: testOwnerID}, nil)
	entryRepo.EXPECT().ListByKhata(gomock.Any(), "khata-1", true, 50, 50).
		Return([]*domain.Entry{{ID: "entry-1"}}, int64(51), nil)

	uc := usecase.NewEntryUseCase(nil, khataRepo, entryRepo, nil, nil, nil, nil)
	entries, total, err := uc.ListEntries(context.Background(), testOwnerID, "khata-1", usecase.ListEntriesInput{
		IncludeDeleted: true,
		Page:           2,
		Limit:          50,
	})

	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, int64(51), total)
}

func TestEntryUseCase_ListEntries_KhataNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	khataRepo := mocks.NewMockKhataRepository(ctrl)

	khataRepo.EXPECT().GetByID(gomock.Any(), testOwnerID, "missing").
		Return(nil, domain.ErrKhataNotFound)

	uc := usecase.NewEntryUseCase(nil, khataRepo, nil, nil, nil, nil, nil)
	_, _, err := uc.ListEntries(context.Background(), testOwnerID, "missing", usecase.ListEntriesInput{})

	require.ErrorIs(t, err, domain.ErrKhataNotFound)
}

func TestEntryUseCase_AddEntry_UsesRetrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	khataRepo := mocks.NewMockKhataRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)

	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, operation func() error) error {
			return operation()
		})

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	khataRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, testOwnerID, "khata-1").
		Return(activeKhata(domain.ZeroAggregates()), nil)
	idGen.EXPECT().Generate().Return("entry-1")
	entryRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	khataRepo.EXPECT().UpdateAggregates(gomock.Any(), tx, "khata-1", gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewEntryUseCase(txManager, khataRepo, entryRepo, idGen, retrier, nil, nil)
	entry, _, err := uc.AddEntry(context.Background(), testOwnerID, "khata-1", usecase.AddEntryInput{
		Type:   domain.EntryTypeCredit,
		Amount: decimal.NewFromInt(1000),
	})

	require.NoError(t, err)
	assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(1000)))
}

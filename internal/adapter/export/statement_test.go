package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/iho/khata/internal/domain"
)

func statementFixture() (*domain.Khata, []*domain.Entry) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	deletedAt := now.Add(time.Hour)

	khata := &domain.Khata{
		ID:             "khata-1",
		OwnerID:        "owner-1",
		Type:           domain.KhataTypeClient,
		PersonName:     "Ravi Traders",
		Phone:          "+91-9876543210",
		Status:         domain.KhataStatusActive,
		TotalCredit:    decimal.RequireFromString("1000"),
		TotalDebit:     decimal.RequireFromString("300"),
		CurrentBalance: decimal.RequireFromString("700"),
	}

	entries := []*domain.Entry{
		{
			ID:              "entry-1",
			KhataID:         khata.ID,
			Type:            domain.EntryTypeCredit,
			Amount:          decimal.RequireFromString("1000"),
			Description:     "goods delivered",
			TransactionDate: now,
			BalanceAfter:    decimal.RequireFromString("1000"),
		},
		{
			ID:              "entry-2",
			KhataID:         khata.ID,
			Type:            domain.EntryTypeDebit,
			Amount:          decimal.RequireFromString("300"),
			Description:     "partial payment",
			TransactionDate: now.Add(time.Hour),
			BalanceAfter:    decimal.RequireFromString("700"),
			IsDeleted:       true,
			DeletedAt:       &deletedAt,
		},
	}

	return khata, entries
}

func TestBuildStatementPDF(t *testing.T) {
	khata, entries := statementFixture()

	data, err := BuildStatementPDF(khata, entries)
	if err != nil {
		t.Fatalf("failed to build pdf: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF header, got %q", data[:min(len(data), 8)])
	}
}

func TestBuildStatementXLSX(t *testing.T) {
	khata, entries := statementFixture()

	data, err := BuildStatementXLSX(khata, entries)
	if err != nil {
		t.Fatalf("failed to build xlsx: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"summary", "entries"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Fatalf("expected sheet %q to exist", sheet)
		}
	}

	person, err := f.GetCellValue("summary", "B3")
	if err != nil || person != khata.PersonName {
		t.Fatalf("expected person name in summary, got %q (err %v)", person, err)
	}

	deleted, err := f.GetCellValue("entries", "F3")
	if err != nil || deleted != "TRUE" {
		t.Fatalf("expected deleted flag on second entry, got %q (err %v)", deleted, err)
	}
}

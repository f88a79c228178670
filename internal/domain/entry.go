package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType marks an entry as a credit or a debit.
type EntryType string

const (
	EntryTypeCredit EntryType = "credit"
	EntryTypeDebit  EntryType = "debit"
)

// IsValid checks if the entry type is credit or debit.
func (t EntryType) IsValid() bool {
	return t == EntryTypeCredit || t == EntryTypeDebit
}

// Entry is a single credit or debit transaction posted to a khata.
// Entries are never hard-deleted; delete and restore toggle IsDeleted.
//
// BalanceAfter is a point-in-time snapshot of the khata balance when the
// entry was created. It is not rewritten when an earlier entry is later
// deleted or restored; only the khata-level aggregates are authoritative
// after such a toggle.
type Entry struct {
	ID              string
	KhataID         string
	OwnerID         string
	Type            EntryType
	Amount          decimal.Decimal
	Description     string
	TransactionDate time.Time
	BalanceAfter    decimal.Decimal
	Notes           string
	IsDeleted       bool
	DeletedAt       *time.Time
	CreatedAt       time.Time
}

// Signed returns the entry amount with its ledger sign: positive for
// credits, negative for debits.
func (e *Entry) Signed() decimal.Decimal {
	if e.Type == EntryTypeDebit {
		return e.Amount.Neg()
	}

	return e.Amount
}

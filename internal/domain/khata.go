package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// KhataType tags a khata as tracking either a client or a vendor.
type KhataType string

const (
	KhataTypeClient KhataType = "client"
	KhataTypeVendor KhataType = "vendor"
)

// IsValid checks if the khata type is one of the known tags.
func (t KhataType) IsValid() bool {
	return t == KhataTypeClient || t == KhataTypeVendor
}

// KhataStatus is the lifecycle state of a khata.
type KhataStatus string

const (
	KhataStatusActive KhataStatus = "active"
	KhataStatusClosed KhataStatus = "closed"
)

// IsValid checks if the status is a known lifecycle state.
func (s KhataStatus) IsValid() bool {
	return s == KhataStatusActive || s == KhataStatusClosed
}

// Khata is a running credit/debit account tied to one client or vendor.
// TotalCredit, TotalDebit and CurrentBalance are derived from the khata's
// non-deleted entries and are never independently authoritative.
type Khata struct {
	ID             string
	OwnerID        string
	ContactID      string // optional link to an external client/vendor record
	Type           KhataType
	PersonName     string
	Phone          string
	Address        string
	Notes          string
	TotalCredit    decimal.Decimal
	TotalDebit     decimal.Decimal
	CurrentBalance decimal.Decimal
	Status         KhataStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsClosed reports whether the khata has been soft-closed.
func (k *Khata) IsClosed() bool {
	return k.Status == KhataStatusClosed
}

// Aggregates returns the khata's derived totals as a value.
func (k *Khata) Aggregates() Aggregates {
	return Aggregates{
		TotalCredit:    k.TotalCredit,
		TotalDebit:     k.TotalDebit,
		CurrentBalance: k.CurrentBalance,
	}
}

// SetAggregates overwrites the three derived fields from a computed value.
func (k *Khata) SetAggregates(agg Aggregates) {
	k.TotalCredit = agg.TotalCredit
	k.TotalDebit = agg.TotalDebit
	k.CurrentBalance = agg.CurrentBalance
}

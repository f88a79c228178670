package domain

import "github.com/shopspring/decimal"

// KhataSummary aggregates counts and totals over a user's khatas of one
// type. It is derived purely from the khatas' stored aggregate fields,
// never from entry recomputation.
type KhataSummary struct {
	Type        KhataType
	Total       int64
	Active      int64
	Closed      int64
	TotalCredit decimal.Decimal
	TotalDebit  decimal.Decimal
	NetBalance  decimal.Decimal
}

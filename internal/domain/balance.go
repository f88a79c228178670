package domain

import (
	"github.com/shopspring/decimal"
)

// Aggregates holds a khata's derived totals. The invariant
// CurrentBalance == TotalCredit - TotalDebit must hold after every
// entry mutation settles.
type Aggregates struct {
	TotalCredit    decimal.Decimal
	TotalDebit     decimal.Decimal
	CurrentBalance decimal.Decimal
}

// ZeroAggregates returns the aggregates of a khata with no entries.
func ZeroAggregates() Aggregates {
	return Aggregates{
		TotalCredit:    decimal.Zero,
		TotalDebit:     decimal.Zero,
		CurrentBalance: decimal.Zero,
	}
}

// Apply returns the aggregates after posting one entry of the given type
// and amount. This is the O(1) fast path used on entry creation; it must
// stay equivalent to folding the full entry history via Recompute.
func (a Aggregates) Apply(entryType EntryType, amount decimal.Decimal) Aggregates {
	switch entryType {
	case EntryTypeCredit:
		a.TotalCredit = a.TotalCredit.Add(amount)
		a.CurrentBalance = a.CurrentBalance.Add(amount)
	case EntryTypeDebit:
		a.TotalDebit = a.TotalDebit.Add(amount)
		a.CurrentBalance = a.CurrentBalance.Sub(amount)
	}

	return a
}

// Consistent reports whether the balance invariant holds.
func (a Aggregates) Consistent() bool {
	return a.CurrentBalance.Equal(a.TotalCredit.Sub(a.TotalDebit))
}

// Equal reports whether two aggregate values are numerically identical.
func (a Aggregates) Equal(other Aggregates) bool {
	return a.TotalCredit.Equal(other.TotalCredit) &&
		a.TotalDebit.Equal(other.TotalDebit) &&
		a.CurrentBalance.Equal(other.CurrentBalance)
}

// Recompute folds a khata's entries, in creation order, into fresh
// aggregates. Soft-deleted entries are skipped. This is the O(n) slow
// path run after a delete or restore invalidates the incremental state.
func Recompute(entries []*Entry) Aggregates {
	agg := ZeroAggregates()
	for _, e := range entries {
		if e.IsDeleted {
			continue
		}

		agg = agg.Apply(e.Type, e.Amount)
	}

	return agg
}

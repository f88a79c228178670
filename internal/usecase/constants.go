package usecase

import "time"

const (
	// RecentEntriesLimit is how many entries a khata detail view embeds.
	RecentEntriesLimit = 20

	// SummaryCacheTTL bounds the staleness of cached summary responses.
	SummaryCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// StatementEntriesLimit caps how many entries a statement export
	// includes.
	StatementEntriesLimit = 1000
)

package usecase

import (
	"context"
	"time"

	"github.com/iho/khata/internal/domain"
)

// KhataFilter narrows a khata listing. Zero values mean "no filter".
type KhataFilter struct {
	Type   domain.KhataType
	Status domain.KhataStatus
	Search string // case-insensitive substring over name/phone/address
	Limit  int
	Offset int
}

// KhataRepository defines data access for khatas. Every lookup is scoped
// by owner; a khata belonging to another user behaves as absent.
type KhataRepository interface {
	Create(ctx context.Context, khata *domain.Khata) error
	GetByID(ctx context.Context, ownerID, khataID string) (*domain.Khata, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, ownerID, khataID string) (*domain.Khata, error)
	List(ctx context.Context, ownerID string, filter KhataFilter) ([]*domain.Khata, int64, error)
	Update(ctx context.Context, khata *domain.Khata) error
	// FindActiveDuplicate returns an active khata with the same
	// case-insensitive person name or the same linked contact, or
	// (nil, nil) when there is none.
	FindActiveDuplicate(ctx context.Context, ownerID, personName, contactID string) (*domain.Khata, error)
	UpdateAggregates(ctx context.Context, tx Transaction, khataID string, agg domain.Aggregates, updatedAt time.Time) error
	Summary(ctx context.Context, ownerID string, khataType domain.KhataType) ([]*domain.KhataSummary, error)
}

// EntryRepository defines data access for khata entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, ownerID, khataID, entryID string) (*domain.Entry, error)
	// ListByKhata returns entries newest-first, excluding soft-deleted
	// entries unless includeDeleted is set.
	ListByKhata(ctx context.Context, khataID string, includeDeleted bool, limit, offset int) ([]*domain.Entry, int64, error)
	// ListActive returns all non-deleted entries of a khata in ascending
	// creation order, read through the given transaction so an
	// uncommitted toggle is visible to the recompute fold.
	ListActive(ctx context.Context, tx Transaction, khataID string) ([]*domain.Entry, error)
	SetDeleted(ctx context.Context, tx Transaction, entryID string, deleted bool, deletedAt *time.Time) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

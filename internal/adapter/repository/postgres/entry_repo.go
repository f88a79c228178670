package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/khata/internal/domain"
	"github.com/iho/khata/internal/usecase"
)

const entryColumns = `id, khata_id, owner_id, type, amount, description, transaction_date,
	balance_after, notes, is_deleted, deleted_at, created_at`

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts an entry inside the given transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		entry.ID,
		entry.KhataID,
		entry.OwnerID,
		string(entry.Type),
		decimalToNumeric(entry.Amount),
		entry.Description,
		entry.TransactionDate,
		decimalToNumeric(entry.BalanceAfter),
		entry.Notes,
		entry.IsDeleted,
		entry.DeletedAt,
		entry.CreatedAt,
	)

	return err
}

// GetByID retrieves an entry scoped to its khata and owner.
func (r *EntryRepository) GetByID(ctx context.Context, ownerID, khataID, entryID string) (*domain.Entry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE id = $1 AND khata_id = $2 AND owner_id = $3`,
		entryID, khataID, ownerID)

	return scanEntry(row)
}

// ListByKhata lists a khata's entries newest-first with pagination.
// Soft-deleted entries are excluded unless includeDeleted is set.
func (r *EntryRepository) ListByKhata(ctx context.Context, khataID string, includeDeleted bool, limit, offset int) ([]*domain.Entry, int64, error) {
	where := "WHERE khata_id = $1"
	if !includeDeleted {
		where += " AND is_deleted = FALSE"
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM entries "+where, khataID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		`+where+`
		ORDER BY transaction_date DESC, id DESC
		LIMIT $2 OFFSET $3`,
		khataID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]*domain.Entry, 0, limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}

	return entries, total, rows.Err()
}

// ListActive lists a khata's non-deleted entries oldest-first through
// the given transaction, so uncommitted toggles in the same transaction
// are visible to the refold.
func (r *EntryRepository) ListActive(ctx context.Context, tx usecase.Transaction, khataID string) ([]*domain.Entry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE khata_id = $1 AND is_deleted = FALSE
		ORDER BY transaction_date ASC, id ASC`,
		khataID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SetDeleted flips an entry's soft-delete flag inside the given
// transaction. The row itself is never removed.
func (r *EntryRepository) SetDeleted(ctx context.Context, tx usecase.Transaction, entryID string, deleted bool, deletedAt *time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE entries
		SET is_deleted = $2, deleted_at = $3
		WHERE id = $1`,
		entryID, deleted, deletedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		entry                domain.Entry
		typ                  string
		amount, balanceAfter pgtype.Numeric
	)

	err := row.Scan(
		&entry.ID,
		&entry.KhataID,
		&entry.OwnerID,
		&typ,
		&amount,
		&entry.Description,
		&entry.TransactionDate,
		&balanceAfter,
		&entry.Notes,
		&entry.IsDeleted,
		&entry.DeletedAt,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	entry.Type = domain.EntryType(typ)
	entry.Amount = numericToDecimal(amount)
	entry.BalanceAfter = numericToDecimal(balanceAfter)

	return &entry, nil
}

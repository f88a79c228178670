package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/khata/internal/domain"
	"github.com/iho/khata/internal/usecase"
)

const khataColumns = `id, owner_id, contact_id, type, person_name, phone, address, notes,
	total_credit, total_debit, current_balance, status, created_at, updated_at`

// KhataRepository implements usecase.KhataRepository.
type KhataRepository struct {
	pool *pgxpool.Pool
}

// NewKhataRepository creates a new KhataRepository.
func NewKhataRepository(pool *pgxpool.Pool) *KhataRepository {
	return &KhataRepository{pool: pool}
}

// Create inserts a new khata.
func (r *KhataRepository) Create(ctx context.Context, khata *domain.Khata) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO khatas (`+khataColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		khata.ID,
		khata.OwnerID,
		khata.ContactID,
		string(khata.Type),
		khata.PersonName,
		khata.Phone,
		khata.Address,
		khata.Notes,
		decimalToNumeric(khata.TotalCredit),
		decimalToNumeric(khata.TotalDebit),
		decimalToNumeric(khata.CurrentBalance),
		string(khata.Status),
		khata.CreatedAt,
		khata.UpdatedAt,
	)

	return err
}

// GetByID retrieves a khata scoped to its owner.
func (r *KhataRepository) GetByID(ctx context.Context, ownerID, khataID string) (*domain.Khata, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+khataColumns+`
		FROM khatas
		WHERE id = $1 AND owner_id = $2`,
		khataID, ownerID)

	return scanKhata(row)
}

// GetByIDForUpdate retrieves a khata with a FOR UPDATE row lock inside
// the given transaction. Entry mutations take this lock so concurrent
// writers to one khata serialize.
func (r *KhataRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, ownerID, khataID string) (*domain.Khata, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+khataColumns+`
		FROM khatas
		WHERE id = $1 AND owner_id = $2
		FOR UPDATE`,
		khataID, ownerID)

	return scanKhata(row)
}

// List lists an owner's khatas with optional filters, most recently
// updated first.
func (r *KhataRepository) List(ctx context.Context, ownerID string, filter usecase.KhataFilter) ([]*domain.Khata, int64, error) {
	where := "WHERE owner_id = $1"
	args := []any{ownerID}

	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (person_name ILIKE $%d OR phone ILIKE $%d OR address ILIKE $%d)",
			len(args), len(args), len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM khatas "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT `+khataColumns+`
		FROM khatas
		%s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	khatas := make([]*domain.Khata, 0)
	for rows.Next() {
		khata, err := scanKhata(rows)
		if err != nil {
			return nil, 0, err
		}
		khatas = append(khatas, khata)
	}

	return khatas, total, rows.Err()
}

// Update persists a khata's descriptive fields and status.
func (r *KhataRepository) Update(ctx context.Context, khata *domain.Khata) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE khatas
		SET person_name = $3, phone = $4, address = $5, notes = $6, status = $7, updated_at = $8
		WHERE id = $1 AND owner_id = $2`,
		khata.ID,
		khata.OwnerID,
		khata.PersonName,
		khata.Phone,
		khata.Address,
		khata.Notes,
		string(khata.Status),
		khata.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrKhataNotFound
	}

	return nil
}

// FindActiveDuplicate returns an active khata for the same person
// (case-insensitive) or the same linked contact, or (nil, nil) when
// there is none.
func (r *KhataRepository) FindActiveDuplicate(ctx context.Context, ownerID, personName, contactID string) (*domain.Khata, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+khataColumns+`
		FROM khatas
		WHERE owner_id = $1
		  AND status = 'active'
		  AND (lower(person_name) = lower($2) OR ($3 <> '' AND contact_id = $3))
		LIMIT 1`,
		ownerID, personName, contactID)

	khata, err := scanKhata(row)
	if errors.Is(err, domain.ErrKhataNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return khata, nil
}

// UpdateAggregates writes the three derived totals inside the given
// transaction, so they commit atomically with the entry change that
// produced them.
func (r *KhataRepository) UpdateAggregates(ctx context.Context, tx usecase.Transaction, khataID string, agg domain.Aggregates, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE khatas
		SET total_credit = $2, total_debit = $3, current_balance = $4, updated_at = $5
		WHERE id = $1`,
		khataID,
		decimalToNumeric(agg.TotalCredit),
		decimalToNumeric(agg.TotalDebit),
		decimalToNumeric(agg.CurrentBalance),
		updatedAt,
	)

	return err
}

// Summary aggregates counts and totals per khata type from the stored
// aggregates. Entries are never touched here.
func (r *KhataRepository) Summary(ctx context.Context, ownerID string, khataType domain.KhataType) ([]*domain.KhataSummary, error) {
	where := "WHERE owner_id = $1"
	args := []any{ownerID}

	if khataType != "" {
		args = append(args, string(khataType))
		where += " AND type = $2"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT type,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'active'),
		       COUNT(*) FILTER (WHERE status = 'closed'),
		       COALESCE(SUM(total_credit), 0),
		       COALESCE(SUM(total_debit), 0),
		       COALESCE(SUM(current_balance), 0)
		FROM khatas
		`+where+`
		GROUP BY type
		ORDER BY type`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]*domain.KhataSummary, 0, 2)
	for rows.Next() {
		var (
			typ                              string
			summary                          domain.KhataSummary
			totalCredit, totalDebit, balance pgtype.Numeric
		)
		if err := rows.Scan(&typ, &summary.Total, &summary.Active, &summary.Closed,
			&totalCredit, &totalDebit, &balance); err != nil {
			return nil, err
		}

		summary.Type = domain.KhataType(typ)
		summary.TotalCredit = numericToDecimal(totalCredit)
		summary.TotalDebit = numericToDecimal(totalDebit)
		summary.NetBalance = numericToDecimal(balance)
		summaries = append(summaries, &summary)
	}

	return summaries, rows.Err()
}

func scanKhata(row pgx.Row) (*domain.Khata, error) {
	var (
		khata                            domain.Khata
		typ, status                      string
		totalCredit, totalDebit, balance pgtype.Numeric
	)

	err := row.Scan(
		&khata.ID,
		&khata.OwnerID,
		&khata.ContactID,
		&typ,
		&khata.PersonName,
		&khata.Phone,
		&khata.Address,
		&khata.Notes,
		&totalCredit,
		&totalDebit,
		&balance,
		&status,
		&khata.CreatedAt,
		&khata.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKhataNotFound
		}

		return nil, err
	}

	khata.Type = domain.KhataType(typ)
	khata.Status = domain.KhataStatus(status)
	khata.TotalCredit = numericToDecimal(totalCredit)
	khata.TotalDebit = numericToDecimal(totalDebit)
	khata.CurrentBalance = numericToDecimal(balance)

	return &khata, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

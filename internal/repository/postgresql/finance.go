package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type financeRepository struct {
	db  *database.DB
	loc *time.Location
}

func NewFinanceRepository(db *database.DB, loc *time.Location) finance.FinanceRepository {
	return &financeRepository{db: db, loc: loc}
}

const financeColumns = `id, type, amount, category, date, description, created_by, created_at, updated_at`

func (r *financeRepository) scanRecord(row pgx.Row) (finance.Record, error) {
	var (
		rec  finance.Record
		date time.Time
	)
	err := row.Scan(&rec.ID, &rec.Type, &rec.Amount, &rec.Category, &date, &rec.Description, &rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return finance.Record{}, err
	}
	rec.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, r.loc)
	return rec, nil
}

// Create implements finance.FinanceRepository.
func (r *financeRepository) Create(ctx context.Context, record finance.Record) (finance.Record, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	created, err := r.scanRecord(q.QueryRow(ctx, `
		INSERT INTO finance_records (id, type, amount, category, date, description, created_by)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7)
		RETURNING `+financeColumns,
		record.ID, record.Type, record.Amount, record.Category,
		record.Date.Format("2006-01-02"), record.Description, record.CreatedBy,
	))
	if err != nil {
		return finance.Record{}, fmt.Errorf("failed to create finance record: %w", err)
	}
	return created, nil
}

// GetByID implements finance.FinanceRepository.
func (r *financeRepository) GetByID(ctx context.Context, id string) (finance.Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return finance.Record{}, finance.ErrFinanceRecordNotFound
	}
	q := GetQuerier(ctx, r.db)

	rec, err := r.scanRecord(q.QueryRow(ctx, `SELECT `+financeColumns+` FROM finance_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return finance.Record{}, finance.ErrFinanceRecordNotFound
		}
		return finance.Record{}, fmt.Errorf("failed to get finance record: %w", err)
	}
	return rec, nil
}

// List implements finance.FinanceRepository.
func (r *financeRepository) List(ctx context.Context, filter finance.ListFilter) ([]finance.Record, error) {
	q := GetQuerier(ctx, r.db)

	var (
		where []string
		args  []any
	)
	if filter.Type != nil && *filter.Type != "" {
		args = append(args, *filter.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		args = append(args, *filter.StartDate)
		where = append(where, fmt.Sprintf("date >= $%d::date", len(args)))
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		args = append(args, *filter.EndDate)
		where = append(where, fmt.Sprintf("date <= $%d::date", len(args)))
	}

	query := `SELECT ` + financeColumns + ` FROM finance_records`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list finance records: %w", err)
	}
	defer rows.Close()

	records := make([]finance.Record, 0)
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan finance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Update implements finance.FinanceRepository.
func (r *financeRepository) Update(ctx context.Context, record finance.Record) (finance.Record, error) {
	if _, err := uuid.Parse(record.ID); err != nil {
		return finance.Record{}, finance.ErrFinanceRecordNotFound
	}
	q := GetQuerier(ctx, r.db)

	updated, err := r.scanRecord(q.QueryRow(ctx, `
		UPDATE finance_records
		SET type = $2, amount = $3, category = $4, date = $5::date, description = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING `+financeColumns,
		record.ID, record.Type, record.Amount, record.Category,
		record.Date.Format("2006-01-02"), record.Description,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return finance.Record{}, finance.ErrFinanceRecordNotFound
		}
		return finance.Record{}, fmt.Errorf("failed to update finance record: %w", err)
	}
	return updated, nil
}

// Delete implements finance.FinanceRepository.
func (r *financeRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return finance.ErrFinanceRecordNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM finance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete finance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return finance.ErrFinanceRecordNotFound
	}
	return nil
}

// Totals implements finance.FinanceRepository.
func (r *financeRepository) Totals(ctx context.Context) (finance.Totals, error) {
	q := GetQuerier(ctx, r.db)

	var t finance.Totals
	err := q.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0)::float8,
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)::float8
		FROM finance_records`).Scan(&t.Income, &t.Expenses)
	if err != nil {
		return finance.Totals{}, fmt.Errorf("failed to sum finance records: %w", err)
	}
	return t, nil
}

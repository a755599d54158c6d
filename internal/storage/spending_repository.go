package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/models"
)

type SpendingRepository struct {
	db *sql.DB
}

func NewSpendingRepository(db *sql.DB) *SpendingRepository {
	return &SpendingRepository{db: db}
}

// Insert appends a spending log entry. Entries are immutable once created.
func (r *SpendingRepository) Insert(ctx context.Context, email, category string, amount decimal.Decimal, loggedAt time.Time) (*models.SpendingLog, error) {
	entry := &models.SpendingLog{
		ID:       uuid.New(),
		Email:    email,
		Category: category,
		Amount:   amount,
		LoggedAt: loggedAt,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO spending_logs (id, email, category, amount, logged_at) VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.Email, entry.Category, entry.Amount, entry.LoggedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert spending log: %w", err)
	}
	return entry, nil
}

// DeleteByCategory removes every log for (email, category) and reports how
// many rows went away.
func (r *SpendingRepository) DeleteByCategory(ctx context.Context, email, category string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM spending_logs WHERE email = $1 AND category = $2`,
		email, category,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete spending logs: %w", err)
	}
	return res.RowsAffected()
}

// SumByCategory aggregates the user's logs per category, largest total first.
func (r *SpendingRepository) SumByCategory(ctx context.Context, email string) ([]models.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount) FROM spending_logs
		 WHERE email = $1 GROUP BY category ORDER BY SUM(amount) DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum spending by category: %w", err)
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var category string
		var total decimal.Decimal
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, models.CategoryTotal{Category: category, TotalAmount: total.InexactFloat64()})
	}
	return totals, rows.Err()
}

// TotalSpending sums every log the user has, across all time.
func (r *SpendingRepository) TotalSpending(ctx context.Context, email string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM spending_logs WHERE email = $1`,
		email,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum spending: %w", err)
	}
	return total, nil
}

// ListBetween returns the user's logs with logged_at in [from, to).
func (r *SpendingRepository) ListBetween(ctx context.Context, email string, from, to time.Time) ([]models.SpendingLog, error) {
	return r.list(ctx,
		`SELECT id, email, category, amount, logged_at FROM spending_logs
		 WHERE email = $1 AND logged_at >= $2 AND logged_at < $3`,
		email, from, to)
}

// ListRecent returns the newest logs first, capped at limit.
func (r *SpendingRepository) ListRecent(ctx context.Context, email string, limit int) ([]models.SpendingLog, error) {
	return r.list(ctx,
		`SELECT id, email, category, amount, logged_at FROM spending_logs
		 WHERE email = $1 ORDER BY logged_at DESC LIMIT $2`,
		email, limit)
}

func (r *SpendingRepository) list(ctx context.Context, query string, args ...any) ([]models.SpendingLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list spending logs: %w", err)
	}
	defer rows.Close()

	var logs []models.SpendingLog
	for rows.Next() {
		var entry models.SpendingLog
		if err := rows.Scan(&entry.ID, &entry.Email, &entry.Category, &entry.Amount, &entry.LoggedAt); err != nil {
			return nil, fmt.Errorf("failed to scan spending log: %w", err)
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

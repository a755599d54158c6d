package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/models"
)

type BillRepository struct {
	db *sql.DB
}

func NewBillRepository(db *sql.DB) *BillRepository {
	return &BillRepository{db: db}
}

const billColumns = `email, bill_name, amount, category, start_date, end_date,
	is_paid, is_notification_enabled, COALESCE(last_notification_date, '')`

func (r *BillRepository) Create(ctx context.Context, bill *models.Bill) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bills (email, bill_name, amount, category, start_date, end_date, is_paid, is_notification_enabled)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (email, bill_name) DO UPDATE SET
		   amount = EXCLUDED.amount,
		   category = EXCLUDED.category,
		   start_date = EXCLUDED.start_date,
		   end_date = EXCLUDED.end_date,
		   is_paid = EXCLUDED.is_paid,
		   is_notification_enabled = EXCLUDED.is_notification_enabled`,
		bill.Email, bill.BillName, bill.Amount, bill.Category,
		bill.StartDate, bill.EndDate, bill.IsPaid, bill.IsNotificationEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// BillUpdate carries the optional fields of a partial bill update.
type BillUpdate struct {
	Amount                *decimal.Decimal
	Category              *string
	StartDate             *string
	EndDate               *string
	IsPaid                *bool
	IsNotificationEnabled *bool
}

func (r *BillRepository) Update(ctx context.Context, email, billName string, update BillUpdate) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills SET
		   amount                  = COALESCE($3, amount),
		   category                = COALESCE($4, category),
		   start_date              = COALESCE($5, start_date),
		   end_date                = COALESCE($6, end_date),
		   is_paid                 = COALESCE($7, is_paid),
		   is_notification_enabled = COALESCE($8, is_notification_enabled)
		 WHERE email = $1 AND bill_name = $2`,
		email, billName,
		decimalOrNil(update.Amount), update.Category, update.StartDate, update.EndDate,
		update.IsPaid, update.IsNotificationEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	return requireAffected(res, ErrNotFound)
}

func (r *BillRepository) Delete(ctx context.Context, email, billName string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM bills WHERE email = $1 AND bill_name = $2`,
		email, billName,
	)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return requireAffected(res, ErrNotFound)
}

func (r *BillRepository) ListUnpaidByEmail(ctx context.Context, email string) ([]models.Bill, error) {
	return r.list(ctx,
		`SELECT `+billColumns+` FROM bills WHERE email = $1 AND is_paid = false ORDER BY end_date`,
		email)
}

func (r *BillRepository) ListPaidByEmail(ctx context.Context, email string) ([]models.Bill, error) {
	return r.list(ctx,
		`SELECT `+billColumns+` FROM bills WHERE email = $1 AND is_paid = true ORDER BY end_date`,
		email)
}

// ListUnpaidDueBetween returns unpaid bills due inside [from, to], inclusive.
func (r *BillRepository) ListUnpaidDueBetween(ctx context.Context, email, from, to string) ([]models.Bill, error) {
	return r.list(ctx,
		`SELECT `+billColumns+` FROM bills
		 WHERE email = $1 AND is_paid = false AND end_date >= $2 AND end_date <= $3
		 ORDER BY end_date`,
		email, from, to)
}

// ListUnpaidNotifiable returns every unpaid bill with reminders enabled,
// across all users. The reminder scheduler scans these on each pass.
func (r *BillRepository) ListUnpaidNotifiable(ctx context.Context) ([]models.Bill, error) {
	return r.list(ctx,
		`SELECT `+billColumns+` FROM bills
		 WHERE is_paid = false AND is_notification_enabled = true`)
}

// SetLastNotificationDate records the calendar date of the last reminder sent
// for a bill. Only called after a delivery succeeded.
func (r *BillRepository) SetLastNotificationDate(ctx context.Context, email, billName, date string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills SET last_notification_date = $3 WHERE email = $1 AND bill_name = $2`,
		email, billName, date,
	)
	if err != nil {
		return fmt.Errorf("failed to set last notification date: %w", err)
	}
	return requireAffected(res, ErrNotFound)
}

func (r *BillRepository) list(ctx context.Context, query string, args ...any) ([]models.Bill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var bill models.Bill
		if err := rows.Scan(&bill.Email, &bill.BillName, &bill.Amount, &bill.Category,
			&bill.StartDate, &bill.EndDate, &bill.IsPaid,
			&bill.IsNotificationEnabled, &bill.LastNotificationDate); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

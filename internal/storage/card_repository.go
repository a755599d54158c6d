package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/models"
)

type CardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{db: db}
}

const cardColumns = `email, bank_name, card_limit, due_date_start, due_date_end, current_balance`

func scanCard(row interface{ Scan(...any) error }) (*models.CreditCard, error) {
	var card models.CreditCard
	err := row.Scan(&card.Email, &card.BankName, &card.CardLimit,
		&card.DueDateStart, &card.DueDateEnd, &card.CurrentBalance)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) Create(ctx context.Context, card *models.CreditCard) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO credit_cards (email, bank_name, card_limit, due_date_start, due_date_end, current_balance)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (email, bank_name) DO UPDATE SET
		   card_limit = EXCLUDED.card_limit,
		   due_date_start = EXCLUDED.due_date_start,
		   due_date_end = EXCLUDED.due_date_end,
		   current_balance = EXCLUDED.current_balance`,
		card.Email, card.BankName, card.CardLimit, card.DueDateStart, card.DueDateEnd, card.CurrentBalance,
	)
	if err != nil {
		return fmt.Errorf("failed to create credit card: %w", err)
	}
	return nil
}

// CardUpdate carries the optional fields of a partial card update; nil fields
// are left untouched.
type CardUpdate struct {
	CardLimit      *decimal.Decimal
	DueDateStart   *string
	DueDateEnd     *string
	CurrentBalance *decimal.Decimal
}

func (r *CardRepository) Update(ctx context.Context, email, bankName string, update CardUpdate) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE credit_cards SET
		   card_limit      = COALESCE($3, card_limit),
		   due_date_start  = COALESCE($4, due_date_start),
		   due_date_end    = COALESCE($5, due_date_end),
		   current_balance = COALESCE($6, current_balance)
		 WHERE email = $1 AND bank_name = $2`,
		email, bankName,
		decimalOrNil(update.CardLimit), update.DueDateStart, update.DueDateEnd, decimalOrNil(update.CurrentBalance),
	)
	if err != nil {
		return fmt.Errorf("failed to update credit card: %w", err)
	}
	return requireAffected(res, ErrCardNotFound)
}

func (r *CardRepository) Delete(ctx context.Context, email, bankName string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM credit_cards WHERE email = $1 AND bank_name = $2`,
		email, bankName,
	)
	if err != nil {
		return fmt.Errorf("failed to delete credit card: %w", err)
	}
	return requireAffected(res, ErrCardNotFound)
}

func (r *CardRepository) ListByEmail(ctx context.Context, email string) ([]models.CreditCard, error) {
	return r.list(ctx,
		`SELECT `+cardColumns+` FROM credit_cards WHERE email = $1 ORDER BY bank_name`,
		email)
}

// ListDueBetween returns the user's cards whose payment deadline falls inside
// [from, to], both bounds inclusive. Dates are ISO strings, so lexical
// comparison in SQL is chronological.
func (r *CardRepository) ListDueBetween(ctx context.Context, email, from, to string) ([]models.CreditCard, error) {
	return r.list(ctx,
		`SELECT `+cardColumns+` FROM credit_cards
		 WHERE email = $1 AND due_date_end >= $2 AND due_date_end <= $3
		 ORDER BY due_date_end`,
		email, from, to)
}

func (r *CardRepository) list(ctx context.Context, query string, args ...any) ([]models.CreditCard, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit cards: %w", err)
	}
	defer rows.Close()

	var cards []models.CreditCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit card: %w", err)
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

func decimalOrNil(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return *d
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

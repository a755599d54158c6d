package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentStore applies a payment across two records in one transaction:
// the bill/card state change and the budget decrement. Locking the budget row
// first serializes concurrent payments per user, so two payments can never
// both pass the sufficiency check and drive the budget negative.
//
// Write order inside the transaction is bill/card first, budget second: if the
// process dies mid-transaction the whole thing rolls back, and the ordering
// keeps "paid but not yet debited" from ever being the committed state.
type PaymentStore struct {
	db *sql.DB
}

func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

// ApplyBillPayment marks the named unpaid bill as paid and decrements the
// budget by amount. Returns the new remaining budget.
func (s *PaymentStore) ApplyBillPayment(ctx context.Context, email, billName string, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.apply(ctx, email, amount, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE bills SET is_paid = true WHERE email = $1 AND bill_name = $2 AND is_paid = false`,
			email, billName,
		)
		if err != nil {
			return fmt.Errorf("failed to mark bill paid: %w", err)
		}
		// An already-paid bill and a missing bill surface identically.
		return requireAffected(res, ErrBillNotFound)
	})
}

// ApplyCardPayment subtracts amount from the card's outstanding balance and
// decrements the budget. The balance has no floor: overpaying leaves a
// negative balance, which models a credit on the card.
func (s *PaymentStore) ApplyCardPayment(ctx context.Context, email, bankName string, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.apply(ctx, email, amount, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE credit_cards SET current_balance = current_balance - $3
			 WHERE email = $1 AND bank_name = $2`,
			email, bankName, amount,
		)
		if err != nil {
			return fmt.Errorf("failed to debit card: %w", err)
		}
		return requireAffected(res, ErrCardNotFound)
	})
}

func (s *PaymentStore) apply(ctx context.Context, email string, amount decimal.Decimal, mutate func(*sql.Tx) error) (decimal.Decimal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin payment transaction: %w", err)
	}
	defer tx.Rollback()

	var remaining decimal.Decimal
	err = tx.QueryRowContext(ctx,
		`SELECT initial_budget FROM budgets WHERE email = $1 FOR UPDATE`,
		email,
	).Scan(&remaining)
	if err == sql.ErrNoRows {
		return decimal.Zero, ErrBudgetNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read budget: %w", err)
	}

	if amount.GreaterThan(remaining) {
		return decimal.Zero, ErrInsufficientBudget
	}

	if err := mutate(tx); err != nil {
		return decimal.Zero, err
	}

	remaining = remaining.Sub(amount)
	if _, err := tx.ExecContext(ctx,
		`UPDATE budgets SET initial_budget = $2 WHERE email = $1`,
		email, remaining,
	); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decrement budget: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit payment: %w", err)
	}
	return remaining, nil
}

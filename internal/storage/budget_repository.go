package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/models"
)

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) GetByEmail(ctx context.Context, email string) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.QueryRowContext(ctx,
		`SELECT email, initial_budget FROM budgets WHERE email = $1`,
		email,
	).Scan(&budget.Email, &budget.InitialBudget)
	if err == sql.ErrNoRows {
		return nil, ErrBudgetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &budget, nil
}

// Upsert creates the budget row or overwrites the stored amount for an
// existing one. The returned flag is true when a new row was created.
func (r *BudgetRepository) Upsert(ctx context.Context, email string, amount decimal.Decimal) (bool, error) {
	var created bool
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO budgets (email, initial_budget) VALUES ($1, $2)
		 ON CONFLICT (email) DO UPDATE SET initial_budget = EXCLUDED.initial_budget
		 RETURNING (xmax = 0)`,
		email, amount,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("failed to upsert budget: %w", err)
	}
	return created, nil
}

// All returns every budget record. Used by the reminder scheduler's
// low-budget pass, which evaluates all users on each run.
func (r *BudgetRepository) All(ctx context.Context) ([]models.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT email, initial_budget FROM budgets`)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var budget models.Budget
		if err := rows.Scan(&budget.Email, &budget.InitialBudget); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

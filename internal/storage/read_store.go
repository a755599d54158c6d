package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/models"
)

// ReadStore bundles the per-entity repositories behind the read-side method
// set the report engine consumes.
type ReadStore struct {
	budgets  *BudgetRepository
	bills    *BillRepository
	cards    *CardRepository
	spending *SpendingRepository
}

func NewReadStore(db *sql.DB) *ReadStore {
	return &ReadStore{
		budgets:  NewBudgetRepository(db),
		bills:    NewBillRepository(db),
		cards:    NewCardRepository(db),
		spending: NewSpendingRepository(db),
	}
}

func (s *ReadStore) Budget(ctx context.Context, email string) (*models.Budget, error) {
	return s.budgets.GetByEmail(ctx, email)
}

func (s *ReadStore) PaidBills(ctx context.Context, email string) ([]models.Bill, error) {
	return s.bills.ListPaidByEmail(ctx, email)
}

func (s *ReadStore) UnpaidBillsDueBetween(ctx context.Context, email, from, to string) ([]models.Bill, error) {
	return s.bills.ListUnpaidDueBetween(ctx, email, from, to)
}

func (s *ReadStore) Cards(ctx context.Context, email string) ([]models.CreditCard, error) {
	return s.cards.ListByEmail(ctx, email)
}

func (s *ReadStore) CardsDueBetween(ctx context.Context, email, from, to string) ([]models.CreditCard, error) {
	return s.cards.ListDueBetween(ctx, email, from, to)
}

func (s *ReadStore) SpendingByCategory(ctx context.Context, email string) ([]models.CategoryTotal, error) {
	return s.spending.SumByCategory(ctx, email)
}

func (s *ReadStore) TotalSpending(ctx context.Context, email string) (decimal.Decimal, error) {
	return s.spending.TotalSpending(ctx, email)
}

func (s *ReadStore) SpendingBetween(ctx context.Context, email string, from, to time.Time) ([]models.SpendingLog, error) {
	return s.spending.ListBetween(ctx, email, from, to)
}

func (s *ReadStore) RecentSpending(ctx context.Context, email string, limit int) ([]models.SpendingLog, error) {
	return s.spending.ListRecent(ctx, email, limit)
}

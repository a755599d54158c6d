package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/models"
	"github.com/fintrack/fintrack/internal/storage"
)

type fakeStore struct {
	budget      *models.Budget
	paidBills   []models.Bill
	unpaidBills []models.Bill
	cards       []models.CreditCard
	byCategory  []models.CategoryTotal
	total       decimal.Decimal
	logs        []models.SpendingLog
	recent      []models.SpendingLog
}

func (f *fakeStore) Budget(_ context.Context, _ string) (*models.Budget, error) {
	if f.budget == nil {
		return nil, storage.ErrBudgetNotFound
	}
	return f.budget, nil
}

func (f *fakeStore) PaidBills(_ context.Context, _ string) ([]models.Bill, error) {
	return f.paidBills, nil
}

func (f *fakeStore) UnpaidBillsDueBetween(_ context.Context, _, from, to string) ([]models.Bill, error) {
	var out []models.Bill
	for _, bill := range f.unpaidBills {
		if bill.EndDate >= from && bill.EndDate <= to {
			out = append(out, bill)
		}
	}
	return out, nil
}

func (f *fakeStore) Cards(_ context.Context, _ string) ([]models.CreditCard, error) {
	return f.cards, nil
}

func (f *fakeStore) CardsDueBetween(_ context.Context, _, from, to string) ([]models.CreditCard, error) {
	var out []models.CreditCard
	for _, card := range f.cards {
		if card.DueDateEnd >= from && card.DueDateEnd <= to {
			out = append(out, card)
		}
	}
	return out, nil
}

func (f *fakeStore) SpendingByCategory(_ context.Context, _ string) ([]models.CategoryTotal, error) {
	return f.byCategory, nil
}

func (f *fakeStore) TotalSpending(_ context.Context, _ string) (decimal.Decimal, error) {
	return f.total, nil
}

func (f *fakeStore) SpendingBetween(_ context.Context, _ string, from, to time.Time) ([]models.SpendingLog, error) {
	var out []models.SpendingLog
	for _, entry := range f.logs {
		if !entry.LoggedAt.Before(from) && entry.LoggedAt.Before(to) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeStore) RecentSpending(_ context.Context, _ string, limit int) ([]models.SpendingLog, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func serviceAt(store *fakeStore, now time.Time) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return now }
	return svc
}

func budgetOf(amount int64) *models.Budget {
	return &models.Budget{Email: "user@example.com", InitialBudget: decimal.NewFromInt(amount)}
}

func TestRemainingBudgetSubtractsSpendingLogs(t *testing.T) {
	store := &fakeStore{budget: budgetOf(1000), total: decimal.NewFromFloat(350.25)}
	svc := NewService(store)

	overview, err := svc.RemainingBudget(context.Background(), "user@example.com")

	require.NoError(t, err)
	assert.Equal(t, 1000.0, overview.InitialBudget)
	assert.Equal(t, 649.75, overview.RemainingAmount)
}

func TestRemainingBudgetMissingBudgetReturnsZeros(t *testing.T) {
	svc := NewService(&fakeStore{})

	overview, err := svc.RemainingBudget(context.Background(), "user@example.com")

	require.NoError(t, err)
	assert.Zero(t, overview.InitialBudget)
	assert.Zero(t, overview.RemainingAmount)
}

func TestCategorySummarySortedDescending(t *testing.T) {
	store := &fakeStore{byCategory: []models.CategoryTotal{
		{Category: "groceries", TotalAmount: 120},
		{Category: "education", TotalAmount: 400},
		{Category: "transport", TotalAmount: 60},
	}}
	svc := NewService(store)

	totals, err := svc.CategorySummary(context.Background(), "user@example.com")

	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.Equal(t, "education", totals[0].Category)
	assert.Equal(t, "groceries", totals[1].Category)
	assert.Equal(t, "transport", totals[2].Category)
}

func TestMonthlyBalanceCoversTwelveMonths(t *testing.T) {
	store := &fakeStore{
		budget: budgetOf(5000),
		paidBills: []models.Bill{
			{BillName: "Electricity", Amount: decimal.NewFromInt(200), EndDate: "2025-02-15", IsPaid: true},
			{BillName: "Water", Amount: decimal.NewFromInt(80), EndDate: "2025-02-28", IsPaid: true},
		},
		cards: []models.CreditCard{
			{BankName: "Garanti", CurrentBalance: decimal.NewFromInt(500), DueDateEnd: "2025-07-10"},
			{BankName: "Akbank", CurrentBalance: decimal.NewFromInt(900), DueDateEnd: "2025-12-31"},
		},
	}
	svc := NewService(store)

	report, err := svc.MonthlyBalance(context.Background(), "user@example.com", 2025)

	require.NoError(t, err)
	require.Len(t, report, 12)

	for _, month := range report {
		assert.Equal(t, 5000.0, month.Income, month.Month)
		assert.GreaterOrEqual(t, month.Expense, 0.0, month.Month)
	}

	assert.Equal(t, "January", report[0].Month)
	assert.Equal(t, 0.0, report[0].Expense)
	assert.Equal(t, 280.0, report[1].Expense, "both February bills")
	assert.Equal(t, 500.0, report[6].Expense, "July card balance")
	// The December bucket ends on the 31st exclusive, so a Dec 31 due date
	// lands in no month at all.
	assert.Equal(t, 0.0, report[11].Expense)
}

func TestMonthlyBalanceRequiresBudget(t *testing.T) {
	svc := NewService(&fakeStore{})

	_, err := svc.MonthlyBalance(context.Background(), "user@example.com", 2025)

	assert.ErrorIs(t, err, storage.ErrBudgetNotFound)
}

func TestCategorySpendingAggregatesYear(t *testing.T) {
	store := &fakeStore{
		budget: budgetOf(5000),
		logs: []models.SpendingLog{
			{Category: "groceries", Amount: decimal.NewFromInt(100), LoggedAt: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)},
			{Category: "groceries", Amount: decimal.NewFromInt(150), LoggedAt: time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)},
			{Category: "transport", Amount: decimal.NewFromInt(60), LoggedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
			{Category: "transport", Amount: decimal.NewFromInt(40), LoggedAt: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
		},
	}
	svc := NewService(store)

	shares, err := svc.CategorySpending(context.Background(), "user@example.com", 2025)

	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.Equal(t, models.CategoryShare{Name: "groceries", Value: 250}, shares[0])
	assert.Equal(t, models.CategoryShare{Name: "transport", Value: 60}, shares[1], "prior-year entry excluded")
}

func TestCategorySpendingNoData(t *testing.T) {
	t.Run("no budget", func(t *testing.T) {
		svc := NewService(&fakeStore{})
		_, err := svc.CategorySpending(context.Background(), "user@example.com", 2025)
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("no logs in range", func(t *testing.T) {
		svc := NewService(&fakeStore{budget: budgetOf(5000)})
		_, err := svc.CategorySpending(context.Background(), "user@example.com", 2025)
		assert.ErrorIs(t, err, ErrNoData)
	})
}

func TestUpcomingPaymentsSortedAndStable(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{
		cards: []models.CreditCard{
			{BankName: "Garanti", CurrentBalance: decimal.NewFromInt(750), DueDateEnd: "2025-05-20"},
		},
		unpaidBills: []models.Bill{
			{BillName: "Internet", Amount: decimal.NewFromInt(30), EndDate: "2025-05-10"},
			{BillName: "Rent", Amount: decimal.NewFromInt(900), EndDate: "2025-05-25"},
			{BillName: "Far Future", Amount: decimal.NewFromInt(10), EndDate: "2025-08-01"},
		},
	}
	svc := serviceAt(store, now)

	payments, err := svc.UpcomingPayments(context.Background(), "user@example.com")
	require.NoError(t, err)

	require.Len(t, payments, 3, "the August bill is outside the 30-day window")
	assert.Equal(t, "Internet", payments[0].Name)
	assert.Equal(t, "Garanti Credit Card", payments[1].Name)
	assert.Equal(t, "Rent", payments[2].Name)

	// A read must not change what the next read sees.
	again, err := svc.UpcomingPayments(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, payments, again)
}

func TestTotalPaymentsSumsBillsAndCards(t *testing.T) {
	store := &fakeStore{
		paidBills: []models.Bill{
			{Amount: decimal.NewFromInt(200), IsPaid: true},
			{Amount: decimal.NewFromFloat(49.90), IsPaid: true},
		},
		cards: []models.CreditCard{
			{CurrentBalance: decimal.NewFromInt(1000)},
		},
	}
	svc := NewService(store)

	total, err := svc.TotalPayments(context.Background(), "user@example.com")

	require.NoError(t, err)
	assert.Equal(t, 1249.90, total)
}

func TestAdvisoryMessages(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	logAt := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		store *fakeStore
		want  []string
	}{
		{
			name: "budget nearly exhausted",
			store: &fakeStore{budget: budgetOf(1000), logs: []models.SpendingLog{
				{Category: "groceries", Amount: decimal.NewFromInt(950), LoggedAt: logAt},
			}},
			want: []string{msgBudgetNearlyExhausted},
		},
		{
			name: "education on top",
			store: &fakeStore{budget: budgetOf(10000), logs: []models.SpendingLog{
				{Category: "education", Amount: decimal.NewFromInt(300), LoggedAt: logAt},
				{Category: "groceries", Amount: decimal.NewFromInt(100), LoggedAt: logAt},
			}},
			want: []string{msgEducationHighest},
		},
		{
			name:  "nothing logged",
			store: &fakeStore{budget: budgetOf(1000)},
			want:  []string{msgNoSpendingLogged},
		},
		{
			name: "sports elevated",
			store: &fakeStore{budget: budgetOf(1000), logs: []models.SpendingLog{
				{Category: "sports", Amount: decimal.NewFromInt(400), LoggedAt: logAt},
			}},
			want: []string{msgSportsElevated},
		},
		{
			name: "all quiet",
			store: &fakeStore{budget: budgetOf(10000), logs: []models.SpendingLog{
				{Category: "groceries", Amount: decimal.NewFromInt(50), LoggedAt: logAt},
			}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := serviceAt(tt.store, now)
			messages, err := svc.AdvisoryMessages(context.Background(), "user@example.com")
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, messages, want)
			}
			if len(tt.want) == 0 {
				assert.Empty(t, messages)
			}
		})
	}
}

func TestAdvisoryMessagesIgnoresOtherMonths(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{budget: budgetOf(1000), logs: []models.SpendingLog{
		{Category: "sports", Amount: decimal.NewFromInt(900), LoggedAt: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)},
	}}
	svc := serviceAt(store, now)

	messages, err := svc.AdvisoryMessages(context.Background(), "user@example.com")

	require.NoError(t, err)
	assert.NotContains(t, messages, msgSportsElevated)
	assert.Contains(t, messages, msgNoSpendingLogged)
}

func TestRecentExpensesFormatsDates(t *testing.T) {
	store := &fakeStore{recent: []models.SpendingLog{
		{Category: "groceries", Amount: decimal.NewFromFloat(42.50), LoggedAt: time.Date(2025, 5, 14, 18, 30, 0, 0, time.UTC)},
	}}
	svc := NewService(store)

	entries, err := svc.RecentExpenses(context.Background(), "user@example.com")

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ExpenseEntry{Description: "groceries", Amount: 42.50, Date: "2025-05-14"}, entries[0])
}

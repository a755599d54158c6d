package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/models"
	"github.com/fintrack/fintrack/internal/storage"
)

const dateLayout = "2006-01-02"

// ErrNoData means the requested report has nothing to show for the period.
var ErrNoData = errors.New("no data available for the specified period")

// Store is the read-side slice of the record store the report engine needs.
type Store interface {
	Budget(ctx context.Context, email string) (*models.Budget, error)
	PaidBills(ctx context.Context, email string) ([]models.Bill, error)
	UnpaidBillsDueBetween(ctx context.Context, email, from, to string) ([]models.Bill, error)
	Cards(ctx context.Context, email string) ([]models.CreditCard, error)
	CardsDueBetween(ctx context.Context, email, from, to string) ([]models.CreditCard, error)
	SpendingByCategory(ctx context.Context, email string) ([]models.CategoryTotal, error)
	TotalSpending(ctx context.Context, email string) (decimal.Decimal, error)
	SpendingBetween(ctx context.Context, email string, from, to time.Time) ([]models.SpendingLog, error)
	RecentSpending(ctx context.Context, email string, limit int) ([]models.SpendingLog, error)
}

// Service derives read-only financial views from the record store.
//
// Note the dual expenditure tracks: RemainingBudget derives from spending
// logs only, while MonthlyBalance and TotalPayments derive from paid bills
// and card balances only. The two are never reconciled against each other.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// RemainingBudget reports the stored budget next to what is left after all
// spending logs. A user without a budget record gets zeros, not an error.
func (s *Service) RemainingBudget(ctx context.Context, email string) (*models.BudgetOverview, error) {
	budget, err := s.store.Budget(ctx, email)
	if errors.Is(err, storage.ErrBudgetNotFound) {
		return &models.BudgetOverview{}, nil
	}
	if err != nil {
		return nil, err
	}

	totalSpent, err := s.store.TotalSpending(ctx, email)
	if err != nil {
		return nil, err
	}

	return &models.BudgetOverview{
		InitialBudget:   budget.InitialBudget.InexactFloat64(),
		RemainingAmount: budget.InitialBudget.Sub(totalSpent).InexactFloat64(),
	}, nil
}

// CategorySummary totals the user's spending logs per category, largest first.
func (s *Service) CategorySummary(ctx context.Context, email string) ([]models.CategoryTotal, error) {
	totals, err := s.store.SpendingByCategory(ctx, email)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalAmount > totals[j].TotalAmount
	})
	return totals, nil
}

// MonthlyBalance produces one entry per calendar month: income is the stored
// budget, expense sums paid bills due in the month plus balances of cards due
// in the month. Month buckets are [first-of-month, first-of-next-month);
// December's upper bound is Dec 31 rather than Jan 1, so Dec 31 itself falls
// outside every bucket. That asymmetry is long-standing observed behavior.
func (s *Service) MonthlyBalance(ctx context.Context, email string, year int) ([]models.MonthlyBalance, error) {
	budget, err := s.store.Budget(ctx, email)
	if err != nil {
		return nil, err
	}

	paidBills, err := s.store.PaidBills(ctx, email)
	if err != nil {
		return nil, err
	}
	cards, err := s.store.Cards(ctx, email)
	if err != nil {
		return nil, err
	}

	income := budget.InitialBudget.InexactFloat64()
	report := make([]models.MonthlyBalance, 0, 12)
	for month := 1; month <= 12; month++ {
		start := fmt.Sprintf("%d-%02d-01", year, month)
		var end string
		if month == 12 {
			end = fmt.Sprintf("%d-12-31", year)
		} else {
			end = fmt.Sprintf("%d-%02d-01", year, month+1)
		}

		expense := decimal.Zero
		for _, bill := range paidBills {
			if bill.EndDate >= start && bill.EndDate < end {
				expense = expense.Add(bill.Amount)
			}
		}
		for _, card := range cards {
			if card.DueDateEnd >= start && card.DueDateEnd < end {
				expense = expense.Add(card.CurrentBalance)
			}
		}

		report = append(report, models.MonthlyBalance{
			Month:   time.Month(month).String(),
			Income:  income,
			Expense: expense.InexactFloat64(),
		})
	}
	return report, nil
}

// CategorySpending totals spending logs per category over the calendar year.
// Returns ErrNoData when the user has no budget or logged nothing in range.
func (s *Service) CategorySpending(ctx context.Context, email string, year int) ([]models.CategoryShare, error) {
	if _, err := s.store.Budget(ctx, email); err != nil {
		if errors.Is(err, storage.ErrBudgetNotFound) {
			return nil, ErrNoData
		}
		return nil, err
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	logs, err := s.store.SpendingBetween(ctx, email, from, to)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, ErrNoData
	}

	totals := map[string]decimal.Decimal{}
	for _, entry := range logs {
		totals[entry.Category] = totals[entry.Category].Add(entry.Amount)
	}

	shares := make([]models.CategoryShare, 0, len(totals))
	for category, amount := range totals {
		shares = append(shares, models.CategoryShare{Name: category, Value: amount.InexactFloat64()})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Value > shares[j].Value
	})
	return shares, nil
}

// UpcomingPayments merges cards and unpaid bills due within the next 30 days
// into one date-ascending list.
func (s *Service) UpcomingPayments(ctx context.Context, email string) ([]models.UpcomingPayment, error) {
	from := s.now().Format(dateLayout)
	to := s.now().AddDate(0, 0, 30).Format(dateLayout)

	cards, err := s.store.CardsDueBetween(ctx, email, from, to)
	if err != nil {
		return nil, err
	}
	bills, err := s.store.UnpaidBillsDueBetween(ctx, email, from, to)
	if err != nil {
		return nil, err
	}

	payments := make([]models.UpcomingPayment, 0, len(cards)+len(bills))
	for _, card := range cards {
		payments = append(payments, models.UpcomingPayment{
			Name:    card.BankName + " Credit Card",
			Amount:  card.CurrentBalance.InexactFloat64(),
			DueDate: card.DueDateEnd,
		})
	}
	for _, bill := range bills {
		payments = append(payments, models.UpcomingPayment{
			Name:    bill.BillName,
			Amount:  bill.Amount.InexactFloat64(),
			DueDate: bill.EndDate,
		})
	}

	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].DueDate < payments[j].DueDate
	})
	return payments, nil
}

// RecentExpenses returns the user's ten most recent spending logs.
func (s *Service) RecentExpenses(ctx context.Context, email string) ([]models.ExpenseEntry, error) {
	logs, err := s.store.RecentSpending(ctx, email, 10)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ExpenseEntry, 0, len(logs))
	for _, entry := range logs {
		entries = append(entries, models.ExpenseEntry{
			Description: entry.Category,
			Amount:      entry.Amount.InexactFloat64(),
			Date:        entry.LoggedAt.Format(dateLayout),
		})
	}
	return entries, nil
}

// TotalPayments sums paid bill amounts and card balances for the user.
func (s *Service) TotalPayments(ctx context.Context, email string) (float64, error) {
	paidBills, err := s.store.PaidBills(ctx, email)
	if err != nil {
		return 0, err
	}
	cards, err := s.store.Cards(ctx, email)
	if err != nil {
		return 0, err
	}

	total := decimal.Zero
	for _, bill := range paidBills {
		total = total.Add(bill.Amount)
	}
	for _, card := range cards {
		total = total.Add(card.CurrentBalance)
	}
	return total.InexactFloat64(), nil
}

// Advisory message texts. Each condition below is evaluated independently;
// any subset of them may fire.
const (
	msgBudgetNearlyExhausted = "💸 Your budget is nearly exhausted, watch your spending!"
	msgEducationHighest      = "🎓 Your education spending is higher than any other category this month."
	msgNoSpendingLogged      = "🔍 You have not logged any spending yet. Record your expenses."
	msgSportsElevated        = "🏋️ Your sports spending looks elevated this month."
)

// AdvisoryMessages computes the current-month warnings shown on the home
// screen. Fails with the budget-not-found error when the user has no budget.
func (s *Service) AdvisoryMessages(ctx context.Context, email string) ([]string, error) {
	budget, err := s.store.Budget(ctx, email)
	if err != nil {
		return nil, err
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	logs, err := s.store.SpendingBetween(ctx, email, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	byCategory := map[string]decimal.Decimal{}
	for _, entry := range logs {
		total = total.Add(entry.Amount)
		byCategory[entry.Category] = byCategory[entry.Category].Add(entry.Amount)
	}

	var topCategory string
	top := decimal.Zero
	for category, amount := range byCategory {
		if amount.GreaterThan(top) {
			top = amount
			topCategory = category
		}
	}

	messages := []string{}

	if total.GreaterThanOrEqual(budget.InitialBudget.Mul(decimal.NewFromFloat(0.9))) {
		messages = append(messages, msgBudgetNearlyExhausted)
	}
	if topCategory == "education" {
		messages = append(messages, msgEducationHighest)
	}
	if len(logs) == 0 {
		messages = append(messages, msgNoSpendingLogged)
	}
	if byCategory["sports"].GreaterThan(budget.InitialBudget.Mul(decimal.NewFromFloat(0.3))) {
		messages = append(messages, msgSportsElevated)
	}

	return messages, nil
}

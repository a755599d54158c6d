package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/models"
)

type fakeBills struct {
	bills []models.Bill
}

func (f *fakeBills) ListUnpaidNotifiable(_ context.Context) ([]models.Bill, error) {
	out := make([]models.Bill, len(f.bills))
	copy(out, f.bills)
	return out, nil
}

func (f *fakeBills) SetLastNotificationDate(_ context.Context, email, billName, date string) error {
	for i := range f.bills {
		if f.bills[i].Email == email && f.bills[i].BillName == billName {
			f.bills[i].LastNotificationDate = date
			return nil
		}
	}
	return errors.New("bill not found")
}

type fakeBudgets struct {
	budgets []models.Budget
}

func (f *fakeBudgets) All(_ context.Context) ([]models.Budget, error) {
	return f.budgets, nil
}

type fakeNotifier struct {
	err  error
	sent []string
}

func (f *fakeNotifier) Send(to, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func schedulerAt(bills *fakeBills, budgets *fakeBudgets, notifier *fakeNotifier, now time.Time) *Scheduler {
	s := New(bills, budgets, notifier, nil, time.Hour, decimal.NewFromInt(200))
	s.now = func() time.Time { return now }
	return s
}

func bill(email, name, endDate string) models.Bill {
	return models.Bill{
		Email:                 email,
		BillName:              name,
		Amount:                decimal.NewFromInt(100),
		EndDate:               endDate,
		IsNotificationEnabled: true,
	}
}

func TestBillRemindersDueInTwoDays(t *testing.T) {
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	bills := &fakeBills{bills: []models.Bill{
		bill("due@example.com", "Electricity", "2025-05-12"),
		bill("later@example.com", "Water", "2025-05-15"),
		bill("tomorrow@example.com", "Gas", "2025-05-11"),
	}}
	notifier := &fakeNotifier{}
	s := schedulerAt(bills, &fakeBudgets{}, notifier, now)

	require.NoError(t, s.RunBillReminders(context.Background()))

	assert.Equal(t, []string{"due@example.com"}, notifier.sent,
		"only the bill due in exactly two days qualifies")
	assert.Equal(t, "2025-05-10", bills.bills[0].LastNotificationDate)
}

func TestBillRemindersOverdue(t *testing.T) {
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	bills := &fakeBills{bills: []models.Bill{
		bill("overdue@example.com", "Rent", "2025-05-01"),
	}}
	notifier := &fakeNotifier{}
	s := schedulerAt(bills, &fakeBudgets{}, notifier, now)

	require.NoError(t, s.RunBillReminders(context.Background()))

	assert.Equal(t, []string{"overdue@example.com"}, notifier.sent)
}

func TestBillRemindersOncePerDay(t *testing.T) {
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	bills := &fakeBills{bills: []models.Bill{
		bill("user@example.com", "Rent", "2025-05-01"),
	}}
	notifier := &fakeNotifier{}
	s := schedulerAt(bills, &fakeBudgets{}, notifier, now)

	require.NoError(t, s.RunBillReminders(context.Background()))
	require.NoError(t, s.RunBillReminders(context.Background()))
	assert.Len(t, notifier.sent, 1, "second run the same day must not resend")

	// The next calendar day the reminder goes out again.
	s.now = func() time.Time { return now.AddDate(0, 0, 1) }
	require.NoError(t, s.RunBillReminders(context.Background()))
	assert.Len(t, notifier.sent, 2)
}

func TestBillRemindersRetryAfterFailedSend(t *testing.T) {
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	bills := &fakeBills{bills: []models.Bill{
		bill("user@example.com", "Rent", "2025-05-01"),
	}}
	notifier := &fakeNotifier{err: errors.New("smtp: connection refused")}
	s := schedulerAt(bills, &fakeBudgets{}, notifier, now)

	require.NoError(t, s.RunBillReminders(context.Background()))
	assert.Empty(t, notifier.sent)
	assert.Empty(t, bills.bills[0].LastNotificationDate,
		"a failed delivery must not count as notified")

	notifier.err = nil
	require.NoError(t, s.RunBillReminders(context.Background()))
	assert.Equal(t, []string{"user@example.com"}, notifier.sent)
}

func TestBillRemindersSkipBadDates(t *testing.T) {
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	bills := &fakeBills{bills: []models.Bill{
		bill("bad@example.com", "Broken", "not-a-date"),
		bill("ok@example.com", "Rent", "2025-05-01"),
	}}
	notifier := &fakeNotifier{}
	s := schedulerAt(bills, &fakeBudgets{}, notifier, now)

	require.NoError(t, s.RunBillReminders(context.Background()))

	assert.Equal(t, []string{"ok@example.com"}, notifier.sent)
}

func TestBudgetAlertsBelowThreshold(t *testing.T) {
	budgets := &fakeBudgets{budgets: []models.Budget{
		{Email: "low@example.com", InitialBudget: decimal.NewFromInt(150)},
		{Email: "exact@example.com", InitialBudget: decimal.NewFromInt(200)},
		{Email: "high@example.com", InitialBudget: decimal.NewFromInt(800)},
	}}
	notifier := &fakeNotifier{}
	s := schedulerAt(&fakeBills{}, budgets, notifier, time.Now())

	require.NoError(t, s.RunBudgetAlerts(context.Background()))

	assert.Equal(t, []string{"low@example.com"}, notifier.sent,
		"exactly at threshold does not alert")
}

func TestBudgetAlertsRepeatEveryRun(t *testing.T) {
	budgets := &fakeBudgets{budgets: []models.Budget{
		{Email: "low@example.com", InitialBudget: decimal.NewFromInt(50)},
	}}
	notifier := &fakeNotifier{}
	s := schedulerAt(&fakeBills{}, budgets, notifier, time.Now())

	require.NoError(t, s.RunBudgetAlerts(context.Background()))
	require.NoError(t, s.RunBudgetAlerts(context.Background()))

	assert.Len(t, notifier.sent, 2, "the alert repeats while the budget stays low")
}

func TestRunDailyChecksCombinesBothPasses(t *testing.T) {
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	bills := &fakeBills{bills: []models.Bill{
		bill("bills@example.com", "Rent", "2025-05-01"),
	}}
	budgets := &fakeBudgets{budgets: []models.Budget{
		{Email: "low@example.com", InitialBudget: decimal.NewFromInt(10)},
	}}
	notifier := &fakeNotifier{}
	s := schedulerAt(bills, budgets, notifier, now)

	require.NoError(t, s.RunDailyChecks(context.Background()))

	assert.ElementsMatch(t, []string{"bills@example.com", "low@example.com"}, notifier.sent)
}

package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/models"
	"github.com/fintrack/fintrack/internal/storage"
)

type fakeUsers struct {
	err error
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{Email: email, Username: "test"}, nil
}

// fakeStore mirrors the transactional store semantics in memory: the bill or
// card mutation and the budget decrement either both happen or neither does.
type fakeStore struct {
	budget    decimal.Decimal
	hasBudget bool
	unpaid    map[string]bool
	cards     map[string]decimal.Decimal
}

func newFakeStore(budget float64) *fakeStore {
	return &fakeStore{
		budget:    decimal.NewFromFloat(budget),
		hasBudget: true,
		unpaid:    map[string]bool{},
		cards:     map[string]decimal.Decimal{},
	}
}

func (f *fakeStore) checkBudget(amount decimal.Decimal) error {
	if !f.hasBudget {
		return storage.ErrBudgetNotFound
	}
	if amount.GreaterThan(f.budget) {
		return storage.ErrInsufficientBudget
	}
	return nil
}

func (f *fakeStore) ApplyBillPayment(_ context.Context, _, billName string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := f.checkBudget(amount); err != nil {
		return decimal.Zero, err
	}
	if !f.unpaid[billName] {
		return decimal.Zero, storage.ErrBillNotFound
	}
	f.unpaid[billName] = false
	f.budget = f.budget.Sub(amount)
	return f.budget, nil
}

func (f *fakeStore) ApplyCardPayment(_ context.Context, _, bankName string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := f.checkBudget(amount); err != nil {
		return decimal.Zero, err
	}
	balance, ok := f.cards[bankName]
	if !ok {
		return decimal.Zero, storage.ErrCardNotFound
	}
	f.cards[bankName] = balance.Sub(amount)
	f.budget = f.budget.Sub(amount)
	return f.budget, nil
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

type fakePublisher struct {
	types []string
}

func (f *fakePublisher) Publish(_ context.Context, _, eventType string, _ any) error {
	f.types = append(f.types, eventType)
	return nil
}

func TestApplyBillPaymentDecrementsBudgetExactly(t *testing.T) {
	store := newFakeStore(500)
	store.unpaid["Electricity"] = true
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	svc := NewService(&fakeUsers{}, store, notifier, publisher)

	remaining, err := svc.Apply(context.Background(), "user@example.com", TypeBill, "Electricity", decimal.NewFromFloat(120.50))

	require.NoError(t, err)
	assert.True(t, remaining.Equal(decimal.NewFromFloat(379.50)), "remaining = %s", remaining)
	assert.False(t, store.unpaid["Electricity"], "bill should be marked paid")
	assert.Equal(t, []string{"user@example.com"}, notifier.sent)
	assert.Equal(t, []string{"payment.completed"}, publisher.types)
}

func TestApplyInsufficientBudgetLeavesStateUnchanged(t *testing.T) {
	store := newFakeStore(100)
	store.unpaid["Rent"] = true
	notifier := &fakeNotifier{}
	svc := NewService(&fakeUsers{}, store, notifier, nil)

	_, err := svc.Apply(context.Background(), "user@example.com", TypeBill, "Rent", decimal.NewFromInt(250))

	require.ErrorIs(t, err, storage.ErrInsufficientBudget)
	assert.True(t, store.budget.Equal(decimal.NewFromInt(100)), "budget must not change")
	assert.True(t, store.unpaid["Rent"], "bill must stay unpaid")
	assert.Empty(t, notifier.sent)
}

func TestApplySameBillTwiceFailsSecondTime(t *testing.T) {
	store := newFakeStore(500)
	store.unpaid["Water"] = true
	svc := NewService(&fakeUsers{}, store, &fakeNotifier{}, nil)

	_, err := svc.Apply(context.Background(), "user@example.com", TypeBill, "Water", decimal.NewFromInt(60))
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), "user@example.com", TypeBill, "Water", decimal.NewFromInt(60))
	require.ErrorIs(t, err, storage.ErrBillNotFound)
	assert.True(t, store.budget.Equal(decimal.NewFromInt(440)), "budget charged exactly once")
}

func TestApplyCardPaymentAllowsNegativeBalance(t *testing.T) {
	store := newFakeStore(1000)
	store.cards["Garanti"] = decimal.NewFromInt(50)
	svc := NewService(&fakeUsers{}, store, &fakeNotifier{}, nil)

	remaining, err := svc.Apply(context.Background(), "user@example.com", TypeCard, "Garanti", decimal.NewFromInt(80))

	require.NoError(t, err)
	assert.True(t, remaining.Equal(decimal.NewFromInt(920)))
	assert.True(t, store.cards["Garanti"].Equal(decimal.NewFromInt(-30)), "overpayment leaves a credit on the card")
}

func TestApplyRejectsInvalidType(t *testing.T) {
	svc := NewService(&fakeUsers{}, newFakeStore(500), &fakeNotifier{}, nil)

	_, err := svc.Apply(context.Background(), "user@example.com", "loan", "Anything", decimal.NewFromInt(10))

	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestApplyRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(&fakeUsers{}, newFakeStore(500), &fakeNotifier{}, nil)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := svc.Apply(context.Background(), "user@example.com", TypeBill, "Rent", amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %s", amount)
	}
}

func TestApplyUnknownUser(t *testing.T) {
	svc := NewService(&fakeUsers{err: storage.ErrNotFound}, newFakeStore(500), &fakeNotifier{}, nil)

	_, err := svc.Apply(context.Background(), "ghost@example.com", TypeBill, "Rent", decimal.NewFromInt(10))

	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestApplyMailFailureDoesNotFailPayment(t *testing.T) {
	store := newFakeStore(300)
	store.unpaid["Internet"] = true
	notifier := &fakeNotifier{err: errors.New("smtp: connection refused")}
	svc := NewService(&fakeUsers{}, store, notifier, nil)

	remaining, err := svc.Apply(context.Background(), "user@example.com", TypeBill, "Internet", decimal.NewFromInt(90))

	require.NoError(t, err, "payment already committed; mail failure must not surface")
	assert.True(t, remaining.Equal(decimal.NewFromInt(210)))
}

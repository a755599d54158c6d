package payment

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/events"
	"github.com/fintrack/fintrack/internal/mailer"
	"github.com/fintrack/fintrack/internal/models"
)

// Payment target kinds accepted by Apply.
const (
	TypeBill = "bill"
	TypeCard = "card"
)

var (
	ErrInvalidType   = errors.New("invalid payment type")
	ErrInvalidAmount = errors.New("payment amount must be greater than zero")
)

// Store applies the bill/card mutation and the budget decrement atomically and
// returns the new remaining budget.
type Store interface {
	ApplyBillPayment(ctx context.Context, email, billName string, amount decimal.Decimal) (decimal.Decimal, error)
	ApplyCardPayment(ctx context.Context, email, bankName string, amount decimal.Decimal) (decimal.Decimal, error)
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Notifier interface {
	Send(to, subject, body string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// Service is the payment processor: it validates a payment request, applies it
// through the transactional store, and fires the best-effort side effects
// (confirmation email, audit event).
type Service struct {
	users     UserStore
	store     Store
	notifier  Notifier
	publisher EventPublisher
}

func NewService(users UserStore, store Store, notifier Notifier, publisher EventPublisher) *Service {
	return &Service{users: users, store: store, notifier: notifier, publisher: publisher}
}

// Apply processes a payment of amount against the named bill or card and
// decrements the user's budget. Returns the new remaining budget.
//
// Email delivery failure never fails the payment: the money movement has
// already committed, so the failure is logged and swallowed.
func (s *Service) Apply(ctx context.Context, email, paymentType, name string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		return decimal.Zero, err
	}

	var remaining decimal.Decimal
	var err error
	switch paymentType {
	case TypeBill:
		remaining, err = s.store.ApplyBillPayment(ctx, email, name, amount)
	case TypeCard:
		remaining, err = s.store.ApplyCardPayment(ctx, email, name, amount)
	default:
		return decimal.Zero, ErrInvalidType
	}
	if err != nil {
		return decimal.Zero, err
	}

	subject, body := mailer.PaymentNotification(paymentType, name, amount, remaining)
	if err := s.notifier.Send(email, subject, body); err != nil {
		log.Printf("Payment confirmation email to %s failed: %v", email, err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.FinanceEventsStream, events.PaymentCompleted, events.PaymentCompletedEvent{
			Email:           email,
			PaymentType:     paymentType,
			Name:            name,
			Amount:          amount.InexactFloat64(),
			RemainingBudget: remaining.InexactFloat64(),
		}); err != nil {
			log.Printf("Failed to publish payment.completed event: %v", err)
		}
	}

	return remaining, nil
}

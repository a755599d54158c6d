package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/events"
	"github.com/fintrack/fintrack/internal/mailer"
	"github.com/fintrack/fintrack/internal/models"
)

const dateLayout = "2006-01-02"

// passTimeout bounds a single scan so a hung store or mail server cannot
// stall the ticker loop forever.
const passTimeout = 5 * time.Minute

type BillStore interface {
	ListUnpaidNotifiable(ctx context.Context) ([]models.Bill, error)
	SetLastNotificationDate(ctx context.Context, email, billName, date string) error
}

type BudgetStore interface {
	All(ctx context.Context) ([]models.Budget, error)
}

type Notifier interface {
	Send(to, subject, body string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// Scheduler runs the recurring reminder scans: bill due-date reminders
// (deduplicated to one per bill per calendar day) and low-budget alerts
// (re-sent on every run for as long as the budget stays under threshold —
// that repeat is deliberate, not missing dedup state).
type Scheduler struct {
	bills     BillStore
	budgets   BudgetStore
	notifier  Notifier
	publisher EventPublisher

	interval  time.Duration
	threshold decimal.Decimal
	now       func() time.Time
}

func New(bills BillStore, budgets BudgetStore, notifier Notifier, publisher EventPublisher, interval time.Duration, threshold decimal.Decimal) *Scheduler {
	return &Scheduler{
		bills:     bills,
		budgets:   budgets,
		notifier:  notifier,
		publisher: publisher,
		interval:  interval,
		threshold: threshold,
		now:       time.Now,
	}
}

// Start runs the scan loop until ctx is cancelled. The first scan fires
// immediately, then once per interval.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	scanCtx, cancel := context.WithTimeout(ctx, passTimeout)
	defer cancel()

	if err := s.RunDailyChecks(scanCtx); err != nil {
		log.Printf("Daily checks failed: %v", err)
	}
}

// RunDailyChecks executes both passes. It backs the scheduled runs and the
// manual /run-daily-checks trigger alike, and is safe to re-run: the bill
// pass dedups by calendar day and the budget pass has no state at all.
func (s *Scheduler) RunDailyChecks(ctx context.Context) error {
	return errors.Join(
		s.RunBillReminders(ctx),
		s.RunBudgetAlerts(ctx),
	)
}

// RunBillReminders scans every unpaid, notification-enabled bill and sends a
// reminder for the ones overdue or due in exactly two days. The last
// notification date is advanced only after a delivery succeeded, so a failed
// send is retried on the next pass.
func (s *Scheduler) RunBillReminders(ctx context.Context) error {
	bills, err := s.bills.ListUnpaidNotifiable(ctx)
	if err != nil {
		return err
	}

	today := s.today()
	todayStr := today.Format(dateLayout)

	for _, bill := range bills {
		dueDate, err := time.Parse(dateLayout, bill.EndDate)
		if err != nil {
			log.Printf("Skipping bill %q for %s: bad end date %q", bill.BillName, bill.Email, bill.EndDate)
			continue
		}

		daysUntilDue := int(dueDate.Sub(today).Hours() / 24)
		if daysUntilDue >= 0 && daysUntilDue != 2 {
			continue
		}

		// At most one reminder per bill per calendar day.
		if bill.LastNotificationDate == todayStr {
			continue
		}

		subject, body := mailer.BillReminder(bill.BillName, bill.Amount, bill.EndDate)
		if err := s.notifier.Send(bill.Email, subject, body); err != nil {
			log.Printf("Bill reminder to %s for %q failed: %v", bill.Email, bill.BillName, err)
			continue
		}

		if err := s.bills.SetLastNotificationDate(ctx, bill.Email, bill.BillName, todayStr); err != nil {
			log.Printf("Failed to record notification date for bill %q: %v", bill.BillName, err)
		}
		s.publish(ctx, events.BillReminderSent, events.BillReminderSentEvent{
			Email:    bill.Email,
			BillName: bill.BillName,
			DueDate:  bill.EndDate,
		})
	}
	return nil
}

// RunBudgetAlerts notifies every user whose budget sits below the threshold.
func (s *Scheduler) RunBudgetAlerts(ctx context.Context) error {
	budgets, err := s.budgets.All(ctx)
	if err != nil {
		return err
	}

	for _, budget := range budgets {
		if budget.InitialBudget.GreaterThanOrEqual(s.threshold) {
			continue
		}

		subject, body := mailer.LowBudgetAlert(budget.InitialBudget, s.threshold)
		if err := s.notifier.Send(budget.Email, subject, body); err != nil {
			log.Printf("Low budget alert to %s failed: %v", budget.Email, err)
			continue
		}
		s.publish(ctx, events.BudgetAlertSent, events.BudgetAlertSentEvent{
			Email:     budget.Email,
			Remaining: budget.InitialBudget.InexactFloat64(),
			Threshold: s.threshold.InexactFloat64(),
		})
	}
	return nil
}

func (s *Scheduler) publish(ctx context.Context, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.FinanceEventsStream, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}

func (s *Scheduler) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

package events

import "time"

// Event types
const (
	PaymentCompleted    = "payment.completed"
	BillReminderSent    = "notification.bill_reminder_sent"
	BudgetAlertSent     = "notification.budget_alert_sent"
	SpendingLogRecorded = "spending_log.recorded"
)

// Stream name
const FinanceEventsStream = "finance.events"

// Base event structure
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type PaymentCompletedEvent struct {
	Email           string  `json:"email"`
	PaymentType     string  `json:"paymentType"`
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
	RemainingBudget float64 `json:"remainingBudget"`
}

type BillReminderSentEvent struct {
	Email    string `json:"email"`
	BillName string `json:"billName"`
	DueDate  string `json:"dueDate"`
}

type BudgetAlertSentEvent struct {
	Email     string  `json:"email"`
	Remaining float64 `json:"remaining"`
	Threshold float64 `json:"threshold"`
}

type SpendingLogRecordedEvent struct {
	Email    string  `json:"email"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

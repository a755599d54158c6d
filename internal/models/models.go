package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64     `json:"-"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// Budget holds a single spendable amount per user. The initial_budget field
// stores the *current remaining* budget: the payment processor decrements it
// in place, so "initial" only holds until the first payment.
type Budget struct {
	Email         string          `json:"email"`
	InitialBudget decimal.Decimal `json:"initial_budget"`
}

type CreditCard struct {
	Email          string          `json:"email"`
	BankName       string          `json:"bank_name"`
	CardLimit      decimal.Decimal `json:"card_limit"`
	DueDateStart   string          `json:"due_date_start"`
	DueDateEnd     string          `json:"due_date_end"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// Bill dates are calendar dates in ISO YYYY-MM-DD form, no time component.
// LastNotificationDate is empty until the first reminder goes out.
type Bill struct {
	Email                 string          `json:"email"`
	BillName              string          `json:"bill_name"`
	Amount                decimal.Decimal `json:"amount"`
	Category              string          `json:"category"`
	StartDate             string          `json:"start_date"`
	EndDate               string          `json:"end_date"`
	IsPaid                bool            `json:"is_paid"`
	IsNotificationEnabled bool            `json:"is_notification_enabled"`
	LastNotificationDate  string          `json:"last_notification_date,omitempty"`
}

// SpendingLog entries are append-only; they are never updated after creation.
type SpendingLog struct {
	ID       uuid.UUID       `json:"-"`
	Email    string          `json:"email"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	LoggedAt time.Time       `json:"date"`
}

package storage

import "errors"

// Sentinel errors shared across repositories and services. Handlers map these
// to HTTP status codes with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrBudgetNotFound     = errors.New("budget not found")
	ErrBillNotFound       = errors.New("unpaid bill not found")
	ErrCardNotFound       = errors.New("credit card not found")
	ErrInsufficientBudget = errors.New("payment amount exceeds available budget")
)

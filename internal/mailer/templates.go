package mailer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Message templates for the three notification kinds. Each returns a subject
// and a plain-text body.

func PaymentNotification(paymentType, name string, amount, remainingBudget decimal.Decimal) (string, string) {
	subject := fmt.Sprintf("%s Payment Notification", capitalize(paymentType))
	body := fmt.Sprintf(`Dear user,

Your payment of %s for %s has been completed successfully.

Remaining budget: %s

Kind regards,
Fintrack`, amount.StringFixed(2), name, remainingBudget.StringFixed(2))
	return subject, body
}

func BillReminder(billName string, amount decimal.Decimal, dueDate string) (string, string) {
	subject := "Bill Payment Reminder"
	body := fmt.Sprintf(`Dear user,

The due date for your %s bill is approaching.

Bill amount: %s
Due date: %s

Please make your payment on time.

Kind regards,
Fintrack`, billName, amount.StringFixed(2), dueDate)
	return subject, body
}

func LowBudgetAlert(currentBudget, threshold decimal.Decimal) (string, string) {
	subject := "Low Budget Alert"
	body := fmt.Sprintf(`Dear user,

Your budget has fallen below %s.

Current budget: %s

Please review your spending.

Kind regards,
Fintrack`, threshold.StringFixed(2), currentBudget.StringFixed(2))
	return subject, body
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

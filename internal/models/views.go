package models

// Read model views returned by the report engine. Amounts are plain floats on
// the wire; decimals stay internal to the write path.

type CategoryTotal struct {
	Category    string  `json:"category"`
	TotalAmount float64 `json:"total_amount"`
}

type BudgetOverview struct {
	InitialBudget   float64 `json:"initial_budget"`
	RemainingAmount float64 `json:"remaining_amount"`
}

type MonthlyBalance struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type CategoryShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type UpcomingPayment struct {
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	DueDate string  `json:"due_date"`
}

type ExpenseEntry struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

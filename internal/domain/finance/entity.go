package finance

import "time"

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Record is one ledger entry.
type Record struct {
	ID          string
	Type        Type
	Amount      float64
	Category    string
	Date        time.Time
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Totals struct {
	Income   float64
	Expenses float64
}

func (t Totals) Balance() float64 {
	return t.Income - t.Expenses
}

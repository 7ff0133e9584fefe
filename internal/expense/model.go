package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a joint purchase recorded by a household member.
// Expenses are immutable once created: there is no edit or delete operation,
// corrections are made by recording payments.
type Expense struct {
	ID          int64           `json:"id"`
	HouseholdID int64           `json:"household_id"`
	PayerID     int64           `json:"payer_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Populated via JOIN
	PayerUsername string `json:"payer_username,omitempty"`
}

// Participant is one member's share of an expense. For every expense the
// participant shares sum exactly to the expense amount, and the payer is
// always among the participants.
type Participant struct {
	ID        int64           `json:"id"`
	ExpenseID int64           `json:"expense_id"`
	UserID    int64           `json:"user_id"`
	Share     decimal.Decimal `json:"share"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// ExpenseWithParticipants combines an expense with its participant shares
type ExpenseWithParticipants struct {
	Expense      *Expense       `json:"expense"`
	Participants []*Participant `json:"participants"`
}

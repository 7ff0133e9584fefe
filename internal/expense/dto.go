package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExpenseRequest represents the request to create an expense.
// The amount is split evenly across all participants; the payer must be one
// of them.
type CreateExpenseRequest struct {
	Description    string          `json:"description" validate:"required,min=1,max=255"`
	Amount         decimal.Decimal `json:"amount"`
	Date           *time.Time      `json:"date,omitempty"`
	ParticipantIDs []int64         `json:"participant_ids" validate:"required,min=1,dive,gt=0"`
}

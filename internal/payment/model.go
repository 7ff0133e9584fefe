package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a direct settlement payment between two household
// members. Amounts are whole currency units. Payments are immutable: never
// edited, deleted, or reversed.
type Payment struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	FromUserID  int64     `json:"from_user_id"`
	ToUserID    int64     `json:"to_user_id"`
	Amount      int64     `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`

	// Populated via JOIN
	FromUsername string `json:"from_username,omitempty"`
	ToUsername   string `json:"to_username,omitempty"`
}

// PaymentResult is returned after recording a payment: the stored row plus
// the direct debt still routed between the same pair afterwards.
type PaymentResult struct {
	Payment       *Payment        `json:"payment"`
	RemainingDebt decimal.Decimal `json:"remaining_debt"`
}

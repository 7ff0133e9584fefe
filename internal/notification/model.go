package notification

import "time"

// Notification represents a notification delivered to a household member
type Notification struct {
	ID                int64     `json:"id"`
	RecipientID       int64     `json:"recipient_id"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"is_read"`
	RelatedEntityType *string   `json:"related_entity_type,omitempty"` // e.g. "EXPENSE", "PAYMENT"
	RelatedEntityID   *int64    `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// EventKind names the ledger state changes the engine broadcasts
type EventKind string

const (
	EventExpenseCreated  EventKind = "EXPENSE_CREATED"
	EventPaymentRecorded EventKind = "PAYMENT_RECORDED"
	EventBalanceUpdated  EventKind = "BALANCE_UPDATED"
)

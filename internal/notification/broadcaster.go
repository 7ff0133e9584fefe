package notification

import (
	"context"
	"fmt"
	"log/slog"
)

// Broadcaster adapts the notification service into the fire-and-forget sink
// the expense and payment writers call. Delivery failures are logged and
// dropped: a missed notification must never fail the underlying write.
type Broadcaster struct {
	service *Service
}

// NewBroadcaster creates a new broadcaster over the notification service
func NewBroadcaster(service *Service) *Broadcaster {
	return &Broadcaster{service: service}
}

// ExpenseCreated notifies a participant that someone recorded an expense
// they share in.
func (b *Broadcaster) ExpenseCreated(ctx context.Context, recipientID int64, payerName, description string, expenseID int64) {
	message := fmt.Sprintf("%s recorded an expense you share in: %s", payerName, description)
	entityType := "EXPENSE"
	if _, err := b.service.Create(ctx, recipientID, message, &entityType, &expenseID); err != nil {
		slog.Warn("failed to deliver notification",
			"event", EventExpenseCreated, "recipient_id", recipientID, "error", err)
	}
}

// PaymentRecorded notifies the receiver that a payment was recorded to them.
func (b *Broadcaster) PaymentRecorded(ctx context.Context, recipientID int64, senderName string, amount int64, paymentID int64) {
	message := fmt.Sprintf("%s recorded a payment of %d to you", senderName, amount)
	entityType := "PAYMENT"
	if _, err := b.service.Create(ctx, recipientID, message, &entityType, &paymentID); err != nil {
		slog.Warn("failed to deliver notification",
			"event", EventPaymentRecorded, "recipient_id", recipientID, "error", err)
	}
}

// BalanceUpdated records that a household's derived balances changed.
// Balances are recomputed on read, so this is purely a broadcast signal.
func (b *Broadcaster) BalanceUpdated(ctx context.Context, householdID int64) {
	slog.Debug("balances updated", "event", EventBalanceUpdated, "household_id", householdID)
}

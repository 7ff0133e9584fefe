package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tmasri/hometab/internal/user"
	"github.com/tmasri/hometab/pkg/apperrors"
	"github.com/tmasri/hometab/pkg/validate"
)

// Common errors
var (
	ErrInvalidHousehold  = fmt.Errorf("%w: household id is required", apperrors.ErrInvalidRequest)
	ErrSelfPayment       = fmt.Errorf("%w: cannot record a payment to yourself", apperrors.ErrInvalidRequest)
	ErrUserNotFound      = fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	ErrUserNotMember     = fmt.Errorf("%w: user is not a member of this household", apperrors.ErrForbidden)
	ErrNoDirectDebt      = fmt.Errorf("%w: no direct debt between these users", apperrors.ErrInvalidRequest)
	ErrExceedsDirectDebt = fmt.Errorf("%w: amount exceeds the direct debt", apperrors.ErrInvalidRequest)
)

// Store is the persistence surface the payment service needs.
type Store interface {
	Create(ctx context.Context, payment *Payment) error
	ListByHousehold(ctx context.Context, householdID int64, limit, offset int) ([]*Payment, int, error)
}

// UserStore resolves a referenced user and their household membership in one
// read, so an absent user is reported as NotFound and a cross-household one
// as Forbidden, never conflated.
type UserStore interface {
	GetByIDWithMembership(ctx context.Context, id, householdID int64) (*user.User, bool, error)
}

// DebtReader reports the direct debt the current settlement plan routes
// between two users. Satisfied by the settlement service.
type DebtReader interface {
	DirectDebt(ctx context.Context, householdID, fromUserID, toUserID int64) (decimal.Decimal, error)
}

// TxRunner runs a function inside one database transaction. Repository calls
// made with the callback's context land on that transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(context.Context) error) error
}

// Notifier is the fire-and-forget notification sink for payment events.
type Notifier interface {
	PaymentRecorded(ctx context.Context, recipientID int64, senderName string, amount int64, paymentID int64)
	BalanceUpdated(ctx context.Context, householdID int64)
}

// Service handles payment business logic
type Service struct {
	store    Store
	users    UserStore
	debts    DebtReader
	txs      TxRunner
	notifier Notifier
}

// NewService creates a new payment service
func NewService(store Store, users UserStore, debts DebtReader, txs TxRunner, notifier Notifier) *Service {
	return &Service{store: store, users: users, debts: debts, txs: txs, notifier: notifier}
}

// Create validates and records a direct payment from the caller to another
// household member. The membership reads, the debt snapshot, and the insert
// all run in one transaction, so the validated state is the state written
// against. The amount must not exceed the direct debt the settlement plan
// routes between the pair; since payments are whole units, a fractional
// routed debt effectively caps at its whole-unit floor and any sub-unit
// residue stays visible in the balances.
//
// The remaining debt is recomputed after commit. If that read fails the
// payment is already durable, so the snapshot-derived remainder is returned
// instead of an error.
func (s *Service) Create(ctx context.Context, householdID, fromUserID int64, req *CreatePaymentRequest) (*PaymentResult, error) {
	if householdID <= 0 {
		return nil, ErrInvalidHousehold
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if fromUserID == req.ToUserID {
		return nil, ErrSelfPayment
	}

	var (
		senderName string
		debt       decimal.Decimal
		payment    *Payment
	)
	err := s.txs.InTx(ctx, func(ctx context.Context) error {
		for _, userID := range []int64{fromUserID, req.ToUserID} {
			u, isMember, err := s.users.GetByIDWithMembership(ctx, userID, householdID)
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("%w (user %d)", ErrUserNotFound, userID)
			}
			if !isMember {
				return fmt.Errorf("%w (user %d)", ErrUserNotMember, userID)
			}
			if userID == fromUserID {
				senderName = u.Username
			}
		}

		var err error
		debt, err = s.debts.DirectDebt(ctx, householdID, fromUserID, req.ToUserID)
		if err != nil {
			return err
		}
		if debt.IsZero() {
			return ErrNoDirectDebt
		}
		if decimal.NewFromInt(req.Amount).GreaterThan(debt) {
			return fmt.Errorf("%w (debt is %s)", ErrExceedsDirectDebt, debt)
		}

		payment = &Payment{
			HouseholdID: householdID,
			FromUserID:  fromUserID,
			ToUserID:    req.ToUserID,
			Amount:      req.Amount,
		}
		return s.store.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PaymentRecorded(ctx, payment.ToUserID, senderName, payment.Amount, payment.ID)
	s.notifier.BalanceUpdated(ctx, householdID)

	remaining, err := s.debts.DirectDebt(ctx, householdID, fromUserID, req.ToUserID)
	if err != nil {
		slog.Warn("failed to recompute direct debt after payment",
			"payment_id", payment.ID, "household_id", householdID, "error", err)
		remaining = debt.Sub(decimal.NewFromInt(payment.Amount))
	}

	return &PaymentResult{Payment: payment, RemainingDebt: remaining}, nil
}

// List retrieves a household's payments with pagination
func (s *Service) List(ctx context.Context, householdID int64, page, perPage int) ([]*Payment, int, error) {
	if householdID <= 0 {
		return nil, 0, ErrInvalidHousehold
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.store.ListByHousehold(ctx, householdID, perPage, offset)
}

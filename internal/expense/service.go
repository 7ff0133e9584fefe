package expense

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tmasri/hometab/internal/household"
	"github.com/tmasri/hometab/pkg/apperrors"
	"github.com/tmasri/hometab/pkg/validate"
)

// Common errors
var (
	ErrExpenseNotFound      = fmt.Errorf("%w: expense not found", apperrors.ErrNotFound)
	ErrExpenseForbidden     = fmt.Errorf("%w: expense belongs to a different household", apperrors.ErrForbidden)
	ErrInvalidHousehold     = fmt.Errorf("%w: household id is required", apperrors.ErrInvalidRequest)
	ErrNonPositiveAmount    = fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidRequest)
	ErrPayerNotParticipant  = fmt.Errorf("%w: payer must be among the participants", apperrors.ErrInvalidRequest)
	ErrDuplicateParticipant = fmt.Errorf("%w: duplicate participant", apperrors.ErrInvalidRequest)
	ErrParticipantNotMember = fmt.Errorf("%w: participant does not belong to the household", apperrors.ErrInvalidRequest)
)

// Store is the persistence surface the expense service needs.
type Store interface {
	CreateWithParticipants(ctx context.Context, expense *Expense, participants []*Participant) error
	GetByID(ctx context.Context, id int64) (*Expense, error)
	GetParticipants(ctx context.Context, expenseID int64) ([]*Participant, error)
	ListByHousehold(ctx context.Context, householdID int64, limit, offset int) ([]*Expense, int, error)
}

// MemberStore resolves household membership for participant validation.
type MemberStore interface {
	GetMember(ctx context.Context, householdID, userID int64) (*household.Member, error)
}

// TxRunner runs a function inside one database transaction. Repository calls
// made with the callback's context land on that transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(context.Context) error) error
}

// Notifier is the fire-and-forget notification sink. Implementations must
// never let a delivery failure propagate into the write path.
type Notifier interface {
	ExpenseCreated(ctx context.Context, recipientID int64, payerName, description string, expenseID int64)
	BalanceUpdated(ctx context.Context, householdID int64)
}

// Service handles expense business logic
type Service struct {
	store    Store
	members  MemberStore
	txs      TxRunner
	notifier Notifier
}

// NewService creates a new expense service
func NewService(store Store, members MemberStore, txs TxRunner, notifier Notifier) *Service {
	return &Service{store: store, members: members, txs: txs, notifier: notifier}
}

// Create validates and records a new expense, splitting the amount evenly
// across the participants. All validation happens before any write, and the
// membership reads plus the expense and participant inserts share one
// transaction.
func (s *Service) Create(ctx context.Context, householdID, payerID int64, req *CreateExpenseRequest) (*ExpenseWithParticipants, error) {
	if householdID <= 0 {
		return nil, ErrInvalidHousehold
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrNonPositiveAmount
	}

	payerIncluded := false
	seen := make(map[int64]bool, len(req.ParticipantIDs))
	for _, userID := range req.ParticipantIDs {
		if seen[userID] {
			return nil, fmt.Errorf("%w (user %d)", ErrDuplicateParticipant, userID)
		}
		seen[userID] = true
		if userID == payerID {
			payerIncluded = true
		}
	}
	if !payerIncluded {
		return nil, ErrPayerNotParticipant
	}

	shares := evenShares(req.Amount, len(req.ParticipantIDs))
	participants := make([]*Participant, len(req.ParticipantIDs))
	for i, userID := range req.ParticipantIDs {
		participants[i] = &Participant{UserID: userID, Share: shares[i]}
	}

	expense := &Expense{
		HouseholdID: householdID,
		PayerID:     payerID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
	}

	var payerName string
	err := s.txs.InTx(ctx, func(ctx context.Context) error {
		// Every participant, payer included, must belong to the household,
		// checked against the same snapshot the insert lands on.
		for _, userID := range req.ParticipantIDs {
			member, err := s.members.GetMember(ctx, householdID, userID)
			if err != nil {
				return err
			}
			if member == nil {
				return fmt.Errorf("%w (user %d)", ErrParticipantNotMember, userID)
			}
			if userID == payerID {
				payerName = member.Username
			}
		}

		return s.store.CreateWithParticipants(ctx, expense, participants)
	})
	if err != nil {
		return nil, err
	}

	for _, p := range participants {
		if p.UserID != payerID {
			s.notifier.ExpenseCreated(ctx, p.UserID, payerName, expense.Description, expense.ID)
		}
	}
	s.notifier.BalanceUpdated(ctx, householdID)

	return &ExpenseWithParticipants{Expense: expense, Participants: participants}, nil
}

// GetByID retrieves an expense with its participant shares, scoped to the
// caller's household.
func (s *Service) GetByID(ctx context.Context, householdID, id int64) (*ExpenseWithParticipants, error) {
	expense, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	if expense.HouseholdID != householdID {
		return nil, ErrExpenseForbidden
	}

	participants, err := s.store.GetParticipants(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithParticipants{Expense: expense, Participants: participants}, nil
}

// List retrieves a household's expenses with pagination
func (s *Service) List(ctx context.Context, householdID int64, page, perPage int) ([]*Expense, int, error) {
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

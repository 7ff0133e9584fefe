package settlement

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tmasri/hometab/internal/expense"
	"github.com/tmasri/hometab/internal/ledger"
	"github.com/tmasri/hometab/internal/payment"
	"github.com/tmasri/hometab/pkg/apperrors"
)

// Common errors
var (
	ErrInvalidHousehold = fmt.Errorf("%w: household id is required", apperrors.ErrInvalidRequest)
)

// ExpenseStore is the ledger accessor for expense facts.
type ExpenseStore interface {
	ListAllByHousehold(ctx context.Context, householdID int64) ([]*expense.Expense, error)
	ListParticipantsByHousehold(ctx context.Context, householdID int64) ([]*expense.Participant, error)
}

// PaymentStore is the ledger accessor for payment facts.
type PaymentStore interface {
	ListAllByHousehold(ctx context.Context, householdID int64) ([]*payment.Payment, error)
}

// Service answers the derived-view questions: who owes whom net, and what
// is the smallest set of transfers that settles everything. Nothing is
// cached; every call refetches the raw records and recomputes.
type Service struct {
	expenses ExpenseStore
	payments PaymentStore
}

// NewService creates a new settlement service
func NewService(expenses ExpenseStore, payments PaymentStore) *Service {
	return &Service{expenses: expenses, payments: payments}
}

// balances fetches the household's ledger facts and folds them into nets.
func (s *Service) balances(ctx context.Context, householdID int64) (map[int64]decimal.Decimal, error) {
	if householdID <= 0 {
		return nil, ErrInvalidHousehold
	}

	expenses, err := s.expenses.ListAllByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	participants, err := s.expenses.ListParticipantsByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListAllByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}

	expenseFacts := make([]ledger.ExpenseFact, len(expenses))
	for i, e := range expenses {
		expenseFacts[i] = ledger.ExpenseFact{PayerID: e.PayerID, Amount: e.Amount}
	}
	shareFacts := make([]ledger.ShareFact, len(participants))
	for i, p := range participants {
		shareFacts[i] = ledger.ShareFact{UserID: p.UserID, Amount: p.Share}
	}
	paymentFacts := make([]ledger.PaymentFact, len(payments))
	for i, p := range payments {
		paymentFacts[i] = ledger.PaymentFact{FromUserID: p.FromUserID, ToUserID: p.ToUserID, Amount: p.Amount}
	}

	return ledger.NetBalances(expenseFacts, shareFacts, paymentFacts), nil
}

// Balances computes one net balance per user with any ledger activity,
// ordered by user id.
func (s *Service) Balances(ctx context.Context, householdID int64) ([]BalanceEntry, error) {
	nets, err := s.balances(ctx, householdID)
	if err != nil {
		return nil, err
	}

	entries := make([]BalanceEntry, 0, len(nets))
	for userID, net := range nets {
		entries = append(entries, BalanceEntry{UserID: userID, Net: net})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserID < entries[j].UserID })

	return entries, nil
}

// Settlements computes the minimal transfer plan for the household.
func (s *Service) Settlements(ctx context.Context, householdID int64) (*Plan, error) {
	nets, err := s.balances(ctx, householdID)
	if err != nil {
		return nil, err
	}

	transfers, err := ledger.Plan(nets)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(transfers))
	for i, t := range transfers {
		entries[i] = Entry{FromUserID: t.FromUserID, ToUserID: t.ToUserID, Amount: t.Amount}
	}

	return &Plan{Scale: ledger.Scale, Entries: entries}, nil
}

// MySettlements filters the household plan to the entries touching the
// given user, on either side.
func (s *Service) MySettlements(ctx context.Context, householdID, userID int64) (*Plan, error) {
	plan, err := s.Settlements(ctx, householdID)
	if err != nil {
		return nil, err
	}

	mine := make([]Entry, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		if e.FromUserID == userID || e.ToUserID == userID {
			mine = append(mine, e)
		}
	}
	plan.Entries = mine

	return plan, nil
}

// DirectDebt reports the amount the current settlement plan routes from one
// user to another; zero when the plan pairs neither. Used by the payment
// writer to cap new payments.
func (s *Service) DirectDebt(ctx context.Context, householdID, fromUserID, toUserID int64) (decimal.Decimal, error) {
	nets, err := s.balances(ctx, householdID)
	if err != nil {
		return decimal.Zero, err
	}

	return ledger.DirectDebt(nets, fromUserID, toUserID)
}

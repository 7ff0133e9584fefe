package payment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmasri/hometab/internal/user"
	"github.com/tmasri/hometab/pkg/apperrors"
)

// fakeTx tracks whether its callback is currently running, so the other
// fakes can record which calls landed inside the transactional scope.
type fakeTx struct {
	active bool
	calls  int
}

func (f *fakeTx) InTx(ctx context.Context, fn func(context.Context) error) error {
	f.calls++
	f.active = true
	defer func() { f.active = false }()
	return fn(ctx)
}

type fakeStore struct {
	tx         *fakeTx
	nextID     int64
	payments   []*Payment
	createInTx []bool
}

func (s *fakeStore) Create(ctx context.Context, payment *Payment) error {
	s.nextID++
	payment.ID = s.nextID
	s.payments = append(s.payments, payment)
	s.createInTx = append(s.createInTx, s.tx.active)
	return nil
}

func (s *fakeStore) ListByHousehold(ctx context.Context, householdID int64, limit, offset int) ([]*Payment, int, error) {
	var out []*Payment
	for _, p := range s.payments {
		if p.HouseholdID == householdID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

type fakeUsers struct {
	tx      *fakeTx
	users   map[int64]*user.User
	members map[int64]bool
	readsIn []bool
}

func (u *fakeUsers) GetByIDWithMembership(ctx context.Context, id, householdID int64) (*user.User, bool, error) {
	u.readsIn = append(u.readsIn, u.tx.active)
	usr := u.users[id]
	if usr == nil {
		return nil, false, nil
	}
	return usr, householdID == 1 && u.members[id], nil
}

type debtResponse struct {
	amount decimal.Decimal
	err    error
}

// fakeDebts returns queued responses, one per DirectDebt call, so a test can
// script the debt before and after the write.
type fakeDebts struct {
	tx        *fakeTx
	responses []debtResponse
	readsIn   []bool
}

func (d *fakeDebts) DirectDebt(ctx context.Context, householdID, fromUserID, toUserID int64) (decimal.Decimal, error) {
	d.readsIn = append(d.readsIn, d.tx.active)
	if len(d.responses) == 0 {
		return decimal.Zero, nil
	}
	next := d.responses[0]
	d.responses = d.responses[1:]
	return next.amount, next.err
}

type recordedNotification struct {
	recipientID int64
	senderName  string
	amount      int64
}

type fakeNotifier struct {
	recorded       []recordedNotification
	balanceUpdates []int64
}

func (n *fakeNotifier) PaymentRecorded(ctx context.Context, recipientID int64, senderName string, amount int64, paymentID int64) {
	n.recorded = append(n.recorded, recordedNotification{recipientID, senderName, amount})
}

func (n *fakeNotifier) BalanceUpdated(ctx context.Context, householdID int64) {
	n.balanceUpdates = append(n.balanceUpdates, householdID)
}

type testDeps struct {
	tx       *fakeTx
	store    *fakeStore
	users    *fakeUsers
	debts    *fakeDebts
	notifier *fakeNotifier
}

func newTestService(responses []debtResponse, memberIDs ...int64) (*Service, *testDeps) {
	tx := &fakeTx{}
	users := &fakeUsers{tx: tx, users: make(map[int64]*user.User), members: make(map[int64]bool)}
	for _, id := range memberIDs {
		users.users[id] = &user.User{ID: id, Username: fmt.Sprintf("user%d", id)}
		users.members[id] = true
	}
	deps := &testDeps{
		tx:       tx,
		store:    &fakeStore{tx: tx},
		users:    users,
		debts:    &fakeDebts{tx: tx, responses: responses},
		notifier: &fakeNotifier{},
	}
	return NewService(deps.store, deps.users, deps.debts, deps.tx, deps.notifier), deps
}

func debts(amounts ...string) []debtResponse {
	out := make([]debtResponse, len(amounts))
	for i, a := range amounts {
		out[i] = debtResponse{amount: decimal.RequireFromString(a)}
	}
	return out
}

func TestCreate_SettlesDirectDebt(t *testing.T) {
	svc, deps := newTestService(debts("30", "0"), 1, 2, 3)

	result, err := svc.Create(context.Background(), 1, 2, &CreatePaymentRequest{ToUserID: 1, Amount: 30})
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Payment.FromUserID)
	assert.Equal(t, int64(1), result.Payment.ToUserID)
	assert.Equal(t, int64(30), result.Payment.Amount)
	assert.True(t, result.RemainingDebt.IsZero(), "remaining debt: %s", result.RemainingDebt)

	require.Len(t, deps.store.payments, 1)
	require.Len(t, deps.notifier.recorded, 1)
	assert.Equal(t, int64(1), deps.notifier.recorded[0].recipientID)
	assert.Equal(t, "user2", deps.notifier.recorded[0].senderName)
	assert.Equal(t, []int64{1}, deps.notifier.balanceUpdates)
}

func TestCreate_ValidationAndInsertShareOneTransaction(t *testing.T) {
	svc, deps := newTestService(debts("30", "10"), 1, 2)

	_, err := svc.Create(context.Background(), 1, 2, &CreatePaymentRequest{ToUserID: 1, Amount: 20})
	require.NoError(t, err)

	assert.Equal(t, 1, deps.tx.calls)
	require.Len(t, deps.users.readsIn, 2)
	assert.Equal(t, []bool{true, true}, deps.users.readsIn, "membership reads must run in the transaction")
	require.Len(t, deps.debts.readsIn, 2)
	assert.True(t, deps.debts.readsIn[0], "the debt snapshot must run in the transaction")
	assert.False(t, deps.debts.readsIn[1], "the remaining-debt recompute runs after commit")
	assert.Equal(t, []bool{true}, deps.store.createInTx, "the insert must run in the transaction")
}

func TestCreate_FailedValidationWritesNothing(t *testing.T) {
	svc, deps := newTestService(debts("30"), 1, 2)

	_, err := svc.Create(context.Background(), 1, 2, &CreatePaymentRequest{ToUserID: 1, Amount: 31})
	assert.ErrorIs(t, err, ErrExceedsDirectDebt)
	assert.Empty(t, deps.store.payments)
	assert.Empty(t, deps.notifier.recorded)
}

func TestCreate_PartialPaymentLeavesRemainder(t *testing.T) {
	svc, _ := newTestService(debts("30", "10"), 1, 2)

	result, err := svc.Create(context.Background(), 1, 2, &CreatePaymentRequest{ToUserID: 1, Amount: 20})
	require.NoError(t, err)
	assert.True(t, result.RemainingDebt.Equal(decimal.NewFromInt(10)))
}

func TestCreate_FractionalDebtCapsAtWholeUnits(t *testing.T) {
	// A routed debt of 30.5 admits a whole-unit payment of at most 30; the
	// half unit stays visible as remaining debt.
	svc, _ := newTestService(debts("30.5"), 1, 2)
	_, err := svc.Create(context.Background(), 1, 2, &CreatePaymentRequest{ToUserID: 1, Amount: 31})
	assert.ErrorIs(t, err, ErrExceedsDirectDebt)

	svc, _ = newTestService(debts("30.5", "0.5"), 1, 2)
	result, err := svc.Create(context.Background(), 1, 2, &CreatePaymentRequest{ToUserID: 1, Amount: 30})
	require.NoError(t, err)
	assert.True(t, result.RemainingDebt.Equal(decimal.RequireFromString("0.5")),
		"remaining debt: %s", result.RemainingDebt)
}

func TestCreate_RecomputeFailureKeepsStoredPayment(t *testing.T) {
	responses := []debtResponse{
		{amount: decimal.NewFromInt(30)},
		{err: errors.New("connection reset")},
	}
	svc, deps := newTestService(responses, 1, 2)

	result, err := svc.Create(context.Background(), 1, 2, &CreatePaymentRequest{ToUserID: 1, Amount: 20})
	require.NoError(t, err, "a failed recompute must not fail the persisted payment")
	require.Len(t, deps.store.payments, 1)
	assert.True(t, result.RemainingDebt.Equal(decimal.NewFromInt(10)),
		"remaining falls back to the snapshot-derived remainder, got %s", result.RemainingDebt)
}

func TestCreate_AmountExceedsDirectDebt(t *testing.T) {
	svc, deps := newTestService(debts("30"), 1, 2)

	_, err := svc.Create(context.Background(), 1, 2, &CreatePaymentRequest{ToUserID: 1, Amount: 31})
	assert.ErrorIs(t, err, ErrExceedsDirectDebt)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	assert.Empty(t, deps.store.payments)
}

func TestCreate_NoDirectDebt(t *testing.T) {
	svc, _ := newTestService(debts("0"), 1, 2)

	_, err := svc.Create(context.Background(), 1, 2, &CreatePaymentRequest{ToUserID: 1, Amount: 5})
	assert.ErrorIs(t, err, ErrNoDirectDebt)
}

func TestCreate_SelfPayment(t *testing.T) {
	svc, _ := newTestService(nil, 1)

	_, err := svc.Create(context.Background(), 1, 1, &CreatePaymentRequest{ToUserID: 1, Amount: 5})
	assert.ErrorIs(t, err, ErrSelfPayment)
}

func TestCreate_NonPositiveAmount(t *testing.T) {
	svc, _ := newTestService(nil, 1, 2)

	for _, amount := range []int64{0, -10} {
		_, err := svc.Create(context.Background(), 1, 2, &CreatePaymentRequest{ToUserID: 1, Amount: amount})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	}
}

func TestCreate_UnknownReceiver(t *testing.T) {
	svc, _ := newTestService(nil, 1, 2)

	_, err := svc.Create(context.Background(), 1, 2, &CreatePaymentRequest{ToUserID: 99, Amount: 5})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreate_ReceiverOutsideHousehold(t *testing.T) {
	svc, deps := newTestService(nil, 1, 2)
	// user 3 exists but is not a member of household 1
	deps.users.users[3] = &user.User{ID: 3, Username: "user3"}

	_, err := svc.Create(context.Background(), 1, 2, &CreatePaymentRequest{ToUserID: 3, Amount: 5})
	assert.ErrorIs(t, err, ErrUserNotMember)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNetBalances_SingleExpenseEvenSplit(t *testing.T) {
	// User 1 pays 90, split evenly across users 1, 2, 3.
	nets := NetBalances(
		[]ExpenseFact{{PayerID: 1, Amount: dec("90")}},
		[]ShareFact{
			{UserID: 1, Amount: dec("30")},
			{UserID: 2, Amount: dec("30")},
			{UserID: 3, Amount: dec("30")},
		},
		nil,
	)

	require.Len(t, nets, 3)
	assert.True(t, nets[1].Equal(dec("60")), "payer net, got %s", nets[1])
	assert.True(t, nets[2].Equal(dec("-30")), "got %s", nets[2])
	assert.True(t, nets[3].Equal(dec("-30")), "got %s", nets[3])
}

func TestNetBalances_PaymentRaisesSenderLowersReceiver(t *testing.T) {
	nets := NetBalances(
		[]ExpenseFact{{PayerID: 1, Amount: dec("90")}},
		[]ShareFact{
			{UserID: 1, Amount: dec("30")},
			{UserID: 2, Amount: dec("30")},
			{UserID: 3, Amount: dec("30")},
		},
		[]PaymentFact{{FromUserID: 2, ToUserID: 1, Amount: 30}},
	)

	assert.True(t, nets[1].Equal(dec("30")), "got %s", nets[1])
	assert.True(t, nets[2].IsZero(), "settled user stays in the result, got %s", nets[2])
	assert.True(t, nets[3].Equal(dec("-30")), "got %s", nets[3])
}

func TestNetBalances_OmitsInactiveUsers(t *testing.T) {
	nets := NetBalances(
		[]ExpenseFact{{PayerID: 1, Amount: dec("10")}},
		[]ShareFact{
			{UserID: 1, Amount: dec("5")},
			{UserID: 2, Amount: dec("5")},
		},
		nil,
	)

	_, ok := nets[99]
	assert.False(t, ok, "users with no activity must be omitted, not zeroed")
	assert.Len(t, nets, 2)
}

func TestNetBalances_ZeroSumAcrossMixedActivity(t *testing.T) {
	expenses := []ExpenseFact{
		{PayerID: 1, Amount: dec("100")},
		{PayerID: 2, Amount: dec("45.50")},
		{PayerID: 3, Amount: dec("12.99")},
	}
	shares := []ShareFact{
		// 100 split three ways with the odd cent on the first share.
		{UserID: 1, Amount: dec("33.34")},
		{UserID: 2, Amount: dec("33.33")},
		{UserID: 3, Amount: dec("33.33")},
		// 45.50 split two ways.
		{UserID: 2, Amount: dec("22.75")},
		{UserID: 4, Amount: dec("22.75")},
		// 12.99 split three ways with the odd cent on the first share.
		{UserID: 3, Amount: dec("4.33")},
		{UserID: 1, Amount: dec("4.33")},
		{UserID: 4, Amount: dec("4.33")},
	}
	payments := []PaymentFact{
		{FromUserID: 4, ToUserID: 1, Amount: 10},
		{FromUserID: 2, ToUserID: 1, Amount: 5},
	}

	nets := NetBalances(expenses, shares, payments)

	sum := decimal.Zero
	for _, net := range nets {
		sum = sum.Add(net)
	}
	tolerance := decimal.New(int64(len(nets)), -2) // one minor unit per user
	assert.True(t, sum.Abs().LessThanOrEqual(tolerance),
		"balances must sum to zero within rounding tolerance, got %s", sum)
}

func TestNetBalances_RoundsHalfAwayFromZero(t *testing.T) {
	nets := NetBalances(
		[]ExpenseFact{{PayerID: 1, Amount: dec("0.125")}},
		[]ShareFact{{UserID: 2, Amount: dec("0.125")}},
		nil,
	)

	assert.True(t, nets[1].Equal(dec("0.13")), "got %s", nets[1])
	assert.True(t, nets[2].Equal(dec("-0.13")), "got %s", nets[2])
}

func TestNetBalances_IdempotentReads(t *testing.T) {
	expenses := []ExpenseFact{{PayerID: 1, Amount: dec("90")}}
	shares := []ShareFact{
		{UserID: 1, Amount: dec("30")},
		{UserID: 2, Amount: dec("30")},
		{UserID: 3, Amount: dec("30")},
	}

	first := NetBalances(expenses, shares, nil)
	second := NetBalances(expenses, shares, nil)

	require.Equal(t, len(first), len(second))
	for userID, net := range first {
		assert.True(t, net.Equal(second[userID]))
	}
}

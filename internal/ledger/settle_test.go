package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmasri/hometab/pkg/apperrors"
)

func balancesOf(pairs map[int64]string) map[int64]decimal.Decimal {
	balances := make(map[int64]decimal.Decimal, len(pairs))
	for userID, amount := range pairs {
		balances[userID] = dec(amount)
	}
	return balances
}

func TestPlan_TwoDebtorsOneCreditor(t *testing.T) {
	transfers, err := Plan(balancesOf(map[int64]string{1: "60", 2: "-30", 3: "-30"}))
	require.NoError(t, err)

	require.Len(t, transfers, 2)
	assert.Equal(t, int64(2), transfers[0].FromUserID)
	assert.Equal(t, int64(1), transfers[0].ToUserID)
	assert.True(t, transfers[0].Amount.Equal(dec("30")), "got %s", transfers[0].Amount)
	assert.Equal(t, int64(3), transfers[1].FromUserID)
	assert.Equal(t, int64(1), transfers[1].ToUserID)
	assert.True(t, transfers[1].Amount.Equal(dec("30")), "got %s", transfers[1].Amount)
}

func TestPlan_SmallestPairsMatchFirst(t *testing.T) {
	// Debtors ascending: 4 (10), 2 (40). Creditors ascending: 3 (15), 1 (35).
	transfers, err := Plan(balancesOf(map[int64]string{1: "35", 2: "-40", 3: "15", 4: "-10"}))
	require.NoError(t, err)

	require.Len(t, transfers, 3)
	// Smallest debtor pays the smallest creditor first.
	expected := []struct {
		from, to int64
		amount   string
	}{
		{4, 3, "10"},
		{2, 3, "5"},
		{2, 1, "35"},
	}
	for i, want := range expected {
		assert.Equal(t, want.from, transfers[i].FromUserID, "step %d", i)
		assert.Equal(t, want.to, transfers[i].ToUserID, "step %d", i)
		assert.True(t, transfers[i].Amount.Equal(dec(want.amount)),
			"step %d: got %s", i, transfers[i].Amount)
	}
}

func TestPlan_Deterministic(t *testing.T) {
	balances := balancesOf(map[int64]string{
		5: "-12.50", 9: "25", 2: "-12.50", 7: "12.50", 4: "-12.50",
	})

	first, err := Plan(balances)
	require.NoError(t, err)
	second, err := Plan(balances)
	require.NoError(t, err)

	assert.Equal(t, first, second, "reads with no intervening writes must match exactly")
}

func TestPlan_AmountTiesBreakOnUserID(t *testing.T) {
	transfers, err := Plan(balancesOf(map[int64]string{3: "-10", 2: "-10", 1: "20"}))
	require.NoError(t, err)

	require.Len(t, transfers, 2)
	assert.Equal(t, int64(2), transfers[0].FromUserID)
	assert.Equal(t, int64(3), transfers[1].FromUserID)
}

func TestPlan_TransferCountBound(t *testing.T) {
	balances := balancesOf(map[int64]string{
		1: "100", 2: "-10", 3: "-20", 4: "-30", 5: "-15", 6: "-25",
	})

	transfers, err := Plan(balances)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(transfers), 5, "at most n-1 transfers for n nonzero users")
}

func TestPlan_EmptyAndSettled(t *testing.T) {
	transfers, err := Plan(nil)
	require.NoError(t, err)
	assert.Empty(t, transfers)

	transfers, err = Plan(balancesOf(map[int64]string{1: "0", 2: "0"}))
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

func TestPlan_ResidueIsConsistencyError(t *testing.T) {
	_, err := Plan(balancesOf(map[int64]string{1: "10", 2: "-4"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInternalConsistency)

	_, err = Plan(balancesOf(map[int64]string{1: "-10"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInternalConsistency)
}

func TestPlan_IntegerScaledArithmetic(t *testing.T) {
	// Many repeating-cent balances; float accumulation would drift here.
	balances := balancesOf(map[int64]string{
		1: "66.67", 2: "-33.33", 3: "-33.34",
		4: "0.03", 5: "-0.01", 6: "-0.02",
	})

	transfers, err := Plan(balances)
	require.NoError(t, err)

	total := decimal.Zero
	for _, tr := range transfers {
		total = total.Add(tr.Amount)
	}
	assert.True(t, total.Equal(dec("66.70")), "got %s", total)
}

func TestScaleMatchesMinorUnits(t *testing.T) {
	assert.Equal(t, 100, Scale)
}

func TestDirectDebt_PairedStep(t *testing.T) {
	balances := balancesOf(map[int64]string{1: "60", 2: "-30", 3: "-30"})

	amount, err := DirectDebt(balances, 2, 1)
	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("30")), "got %s", amount)
}

func TestDirectDebt_NoPairingIsZero(t *testing.T) {
	balances := balancesOf(map[int64]string{1: "60", 2: "-30", 3: "-30"})

	amount, err := DirectDebt(balances, 2, 3)
	require.NoError(t, err)
	assert.True(t, amount.IsZero())

	// Reversed direction of an existing pairing is also zero.
	amount, err = DirectDebt(balances, 1, 2)
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestDirectDebt_ReroutedThroughThirdMember(t *testing.T) {
	// User 2 owes user 1 bilaterally (1 paid for 2), but user 3's larger
	// debt absorbs it: the plan routes 3 -> 1 and 3 -> 2 instead. The routed
	// debt between 2 and 1 is zero by design.
	balances := balancesOf(map[int64]string{1: "10", 2: "30", 3: "-40"})

	amount, err := DirectDebt(balances, 2, 1)
	require.NoError(t, err)
	assert.True(t, amount.IsZero(), "greedy plan reroutes bilateral debt, got %s", amount)

	amount, err = DirectDebt(balances, 3, 2)
	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("30")), "got %s", amount)
}

func TestPlan_SettlementCompleteness(t *testing.T) {
	balances := balancesOf(map[int64]string{
		1: "42.17", 2: "-13.50", 3: "-28.67", 4: "25", 5: "-25",
	})

	transfers, err := Plan(balances)
	require.NoError(t, err)

	// Applying every transfer as a payment zeroes all nets.
	remaining := make(map[int64]decimal.Decimal, len(balances))
	for userID, net := range balances {
		remaining[userID] = net
	}
	for _, tr := range transfers {
		remaining[tr.FromUserID] = remaining[tr.FromUserID].Add(tr.Amount)
		remaining[tr.ToUserID] = remaining[tr.ToUserID].Sub(tr.Amount)
	}
	for userID, net := range remaining {
		assert.True(t, net.IsZero(), "user %d left with %s", userID, net)
	}
}

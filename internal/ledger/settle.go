package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tmasri/hometab/pkg/apperrors"
)

// Scale is the integer scaling factor the planner matches on: net balances
// are multiplied by Scale into minor units before matching and divided back
// for display. Exposed alongside settlement results so callers can convert.
const Scale = 100

// Transfer is one directed settlement entry: FromUserID pays ToUserID Amount.
type Transfer struct {
	FromUserID int64
	ToUserID   int64
	Amount     decimal.Decimal
}

// party is one side of the greedy match in minor units.
type party struct {
	userID int64
	amount int64
}

// Plan turns signed net balances into a minimal list of directed transfers
// using greedy debt simplification.
//
// Users are partitioned into creditors (net > 0) and debtors (net < 0, held
// as positive owed amounts). Both sides are sorted ascending by amount, ties
// broken by ascending user id. The smallest remaining debtor and creditor
// are matched repeatedly, transferring min(debtor, creditor) and advancing
// past whichever side reaches zero. Matching runs on integer minor units
// (see Scale) so no floating-point drift accumulates across iterations.
//
// If the balances hold the zero-sum invariant both sides exhaust together
// and the plan has at most n−1 transfers for n nonzero users. Residue on
// either side means an upstream balance bug and yields ErrInternalConsistency.
func Plan(balances map[int64]decimal.Decimal) ([]Transfer, error) {
	var creditors, debtors []party

	// Walk users in id order so the amount sort has a stable tie-break.
	userIDs := make([]int64, 0, len(balances))
	for userID := range balances {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	for _, userID := range userIDs {
		cents := balances[userID].Mul(decimal.NewFromInt(Scale)).IntPart()
		switch {
		case cents > 0:
			creditors = append(creditors, party{userID: userID, amount: cents})
		case cents < 0:
			debtors = append(debtors, party{userID: userID, amount: -cents})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount < creditors[j].amount })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount < debtors[j].amount })

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}

		transfers = append(transfers, Transfer{
			FromUserID: debtors[i].userID,
			ToUserID:   creditors[j].userID,
			Amount:     decimal.New(amount, -minorUnits),
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount
		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}

	// Both sides must exhaust together; leftover debt or credit means the
	// balances did not sum to zero.
	if i < len(debtors) {
		return nil, fmt.Errorf("%w: debtor %d left owing %d minor units after creditors exhausted",
			apperrors.ErrInternalConsistency, debtors[i].userID, debtors[i].amount)
	}
	if j < len(creditors) {
		return nil, fmt.Errorf("%w: creditor %d left owed %d minor units after debtors exhausted",
			apperrors.ErrInternalConsistency, creditors[j].userID, creditors[j].amount)
	}

	return transfers, nil
}

// DirectDebt reports the amount the current settlement plan routes from one
// specific user to another: the transfer amount at the step, if any, where
// the plan pairs fromUserID with toUserID, and zero otherwise.
//
// This is not "how much A originally owed B". The greedy planner pairs by
// sorted magnitude, so two users with a real bilateral debt history can show
// zero here when the plan routes their debt through a third member instead.
func DirectDebt(balances map[int64]decimal.Decimal, fromUserID, toUserID int64) (decimal.Decimal, error) {
	transfers, err := Plan(balances)
	if err != nil {
		return decimal.Zero, err
	}

	for _, t := range transfers {
		if t.FromUserID == fromUserID && t.ToUserID == toUserID {
			return t.Amount, nil
		}
	}
	return decimal.Zero, nil
}

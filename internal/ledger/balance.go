// Package ledger computes net balances and minimal settlement plans for a
// household. It is pure: callers fetch the raw facts (expenses, participant
// shares, payments) and every result is recomputed from them on each call.
package ledger

import "github.com/shopspring/decimal"

// ExpenseFact is the slice of an expense the balance calculation needs:
// who paid and how much.
type ExpenseFact struct {
	PayerID int64
	Amount  decimal.Decimal
}

// ShareFact is one participant's owed portion of an expense.
type ShareFact struct {
	UserID int64
	Amount decimal.Decimal
}

// PaymentFact is a recorded direct payment between two household members.
// Payment amounts are whole currency units.
type PaymentFact struct {
	FromUserID int64
	ToUserID   int64
	Amount     int64
}

// minorUnits is the currency's minor-unit precision. Nets are rounded to it
// half away from zero.
const minorUnits = 2

// NetBalances folds ledger facts into one net balance per user:
// paid − owed − payments sent + payments received. Positive means the user
// is owed money, negative means they owe. Users with no activity at all are
// omitted, not zeroed. The values sum to zero for any consistent ledger.
func NetBalances(expenses []ExpenseFact, shares []ShareFact, payments []PaymentFact) map[int64]decimal.Decimal {
	nets := make(map[int64]decimal.Decimal)

	for _, e := range expenses {
		nets[e.PayerID] = nets[e.PayerID].Add(e.Amount)
	}
	for _, s := range shares {
		nets[s.UserID] = nets[s.UserID].Sub(s.Amount)
	}
	for _, p := range payments {
		amount := decimal.NewFromInt(p.Amount)
		nets[p.FromUserID] = nets[p.FromUserID].Add(amount)
		nets[p.ToUserID] = nets[p.ToUserID].Sub(amount)
	}

	for userID, net := range nets {
		nets[userID] = net.Round(minorUnits)
	}

	return nets
}

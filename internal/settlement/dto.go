package settlement

import "github.com/shopspring/decimal"

// BalanceEntry is one user's net balance: positive means owed money,
// negative means owing money.
type BalanceEntry struct {
	UserID int64           `json:"user_id"`
	Net    decimal.Decimal `json:"net"`
}

// Entry is one directed transfer of the settlement plan
type Entry struct {
	FromUserID int64           `json:"from_user_id"`
	ToUserID   int64           `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// Plan is a full settlement plan: the transfers that would zero every net
// balance, plus the integer scale factor the planner matched on so callers
// can convert amounts to minor units.
type Plan struct {
	Scale   int     `json:"scale"`
	Entries []Entry `json:"entries"`
}

package expense

import "github.com/shopspring/decimal"

// evenShares splits a total into n equal two-decimal shares. Rounding
// residue lands on the first share so the shares always sum exactly to the
// total.
func evenShares(total decimal.Decimal, n int) []decimal.Decimal {
	base := total.Div(decimal.NewFromInt(int64(n))).Round(2)

	shares := make([]decimal.Decimal, n)
	rest := total
	for i := 1; i < n; i++ {
		shares[i] = base
		rest = rest.Sub(base)
	}
	shares[0] = rest

	return shares
}

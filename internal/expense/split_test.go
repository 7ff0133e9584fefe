package expense

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvenShares(t *testing.T) {
	tests := []struct {
		name  string
		total string
		n     int
		want  []string
	}{
		{"divides evenly", "90", 3, []string{"30", "30", "30"}},
		{"residue lands on first share", "100", 3, []string{"33.34", "33.33", "33.33"}},
		{"two way split", "45.50", 2, []string{"22.75", "22.75"}},
		{"single participant", "12.99", 1, []string{"12.99"}},
		{"sub cent total", "0.01", 3, []string{"0.01", "0", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := decimal.NewFromString(tt.total)
			require.NoError(t, err)

			shares := evenShares(total, tt.n)
			require.Len(t, shares, tt.n)

			sum := decimal.Zero
			for i, share := range shares {
				want, err := decimal.NewFromString(tt.want[i])
				require.NoError(t, err)
				assert.True(t, share.Equal(want), "share %d: want %s got %s", i, want, share)
				sum = sum.Add(share)
			}
			assert.True(t, sum.Equal(total), "shares must sum to the total, got %s", sum)
		})
	}
}

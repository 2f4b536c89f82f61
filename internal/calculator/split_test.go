package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func TestEqualShares(t *testing.T) {
	tests := []struct {
		name         string
		amount       models.Money
		participants []models.Member
		want         map[models.Member]models.Money
		wantErr      error
	}{
		{
			name:         "even split",
			amount:       9000,
			participants: []models.Member{"A", "B", "C"},
			want:         map[models.Member]models.Money{"A": 3000, "B": 3000, "C": 3000},
		},
		{
			name:         "remainder cent goes to first participant",
			amount:       10000,
			participants: []models.Member{"A", "B", "C"},
			want:         map[models.Member]models.Money{"A": 3334, "B": 3333, "C": 3333},
		},
		{
			name:         "two remainder cents",
			amount:       1001,
			participants: []models.Member{"A", "B", "C"},
			want:         map[models.Member]models.Money{"A": 334, "B": 334, "C": 333},
		},
		{
			name:         "amount smaller than participant count",
			amount:       2,
			participants: []models.Member{"A", "B", "C"},
			want:         map[models.Member]models.Money{"A": 1, "B": 1, "C": 0},
		},
		{
			name:         "negative amount conserves",
			amount:       -1000,
			participants: []models.Member{"A", "B", "C"},
			want:         map[models.Member]models.Money{"A": -334, "B": -333, "C": -333},
		},
		{
			name:    "no participants",
			amount:  100,
			wantErr: ErrNoParticipants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EqualShares(tt.amount, tt.participants)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			var sum models.Money
			for _, v := range got {
				sum += v
			}
			assert.Equal(t, tt.amount, sum)
		})
	}
}

func TestItemizedShares(t *testing.T) {
	tests := []struct {
		name         string
		items        []Item
		total        models.Money
		wantErr      error
		validateFunc func(t *testing.T, shares map[models.Member]models.Money)
	}{
		{
			name: "simple two-person split with tax",
			items: []Item{
				{Description: "Pizza", Amount: 2000, AssignedTo: []models.Member{"Alice", "Bob"}},
				{Description: "Salad", Amount: 1000, AssignedTo: []models.Member{"Alice"}},
			},
			total: 3300,
			validateFunc: func(t *testing.T, shares map[models.Member]models.Money) {
				// Alice: subtotal 20, tax 2, total 22
				// Bob: subtotal 10, tax 1, total 11
				assert.Equal(t, models.Money(2200), shares["Alice"])
				assert.Equal(t, models.Money(1100), shares["Bob"])
			},
		},
		{
			name: "rounding keeps the total exact",
			items: []Item{
				{Description: "Shared plate", Amount: 1000, AssignedTo: []models.Member{"A", "B", "C"}},
			},
			total: 1100,
			validateFunc: func(t *testing.T, shares map[models.Member]models.Money) {
				// Subtotals 3.34 / 3.33 / 3.33 scale to 3.674 / 3.663 / 3.663;
				// the leftover cent goes to the largest remainder.
				assert.Equal(t, models.Money(368), shares["A"])
				assert.Equal(t, models.Money(366), shares["B"])
				assert.Equal(t, models.Money(366), shares["C"])
			},
		},
		{
			name: "discount below subtotal",
			items: []Item{
				{Description: "Steak", Amount: 3000, AssignedTo: []models.Member{"Charlie"}},
				{Description: "Salad", Amount: 2000, AssignedTo: []models.Member{"Diana"}},
			},
			total: 4000,
			validateFunc: func(t *testing.T, shares map[models.Member]models.Money) {
				assert.Equal(t, models.Money(2400), shares["Charlie"])
				assert.Equal(t, models.Money(1600), shares["Diana"])
			},
		},
		{
			name:    "no items",
			total:   1000,
			wantErr: ErrZeroSubtotal,
		},
		{
			name:    "unassigned item is rejected",
			items:   []Item{{Description: "Beer", Amount: 500}},
			total:   500,
			wantErr: ErrUnassignedItem,
		},
		{
			name:    "zero item amount",
			items:   []Item{{Description: "Water", Amount: 0, AssignedTo: []models.Member{"A"}}},
			total:   500,
			wantErr: ErrNonPositiveItem,
		},
		{
			name:    "zero total",
			items:   []Item{{Description: "Beer", Amount: 500, AssignedTo: []models.Member{"A"}}},
			total:   0,
			wantErr: ErrNonPositiveTotal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := ItemizedShares(tt.items, tt.total)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			var sum models.Money
			for _, v := range shares {
				sum += v
			}
			assert.Equal(t, tt.total, sum, "shares must sum to the bill total")

			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

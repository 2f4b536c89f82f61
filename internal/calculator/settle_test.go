package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func TestPlanSettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances models.Balances
		want     []models.Transfer
	}{
		{
			name:     "scenario A: two debtors pay one creditor",
			balances: models.Balances{"A": 6000, "B": -3000, "C": -3000},
			want: []models.Transfer{
				{From: "B", To: "A", Amount: 3000},
				{From: "C", To: "A", Amount: 3000},
			},
		},
		{
			name:     "scenario B: one debtor pays two creditors, largest first",
			balances: models.Balances{"A": 1000, "B": 4000, "C": -5000},
			want: []models.Transfer{
				{From: "C", To: "B", Amount: 4000},
				{From: "C", To: "A", Amount: 1000},
			},
		},
		{
			name:     "re-sorts after partial settlement",
			balances: models.Balances{"A": 7000, "B": 5000, "C": -6000, "D": -6000},
			want: []models.Transfer{
				{From: "C", To: "A", Amount: 6000},
				{From: "D", To: "B", Amount: 5000},
				{From: "D", To: "A", Amount: 1000},
			},
		},
		{
			name:     "settled members are dropped",
			balances: models.Balances{"A": 0, "B": 0},
			want:     nil,
		},
		{
			name:     "empty balances",
			balances: models.Balances{},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanSettlements(tt.balances)
			assert.Equal(t, tt.want, plan)
			require.NoError(t, VerifyPlan(tt.balances, plan))
		})
	}
}

func TestPlanSettlementsIsDeterministic(t *testing.T) {
	balances := models.Balances{"A": 2500, "B": 2500, "C": -2500, "D": -2500, "E": 0}
	first := PlanSettlements(balances)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, PlanSettlements(balances))
	}
}

func TestApplyTransfersDoesNotMutateInput(t *testing.T) {
	balances := models.Balances{"A": 100, "B": -100}
	after := ApplyTransfers(balances, []models.Transfer{{From: "B", To: "A", Amount: 100}})

	assert.Equal(t, models.Balances{"A": 0, "B": 0}, after)
	assert.Equal(t, models.Balances{"A": 100, "B": -100}, balances)
}

func TestVerifyPlanDetectsDefects(t *testing.T) {
	balances := models.Balances{"A": 6000, "B": -3000, "C": -3000}

	tests := []struct {
		name  string
		plan  []models.Transfer
		check string
	}{
		{
			name:  "incomplete plan",
			plan:  []models.Transfer{{From: "B", To: "A", Amount: 3000}},
			check: "creditor completeness",
		},
		{
			name:  "non-positive transfer",
			plan:  []models.Transfer{{From: "B", To: "A", Amount: 0}},
			check: "positive transfer",
		},
		{
			name:  "self transfer",
			plan:  []models.Transfer{{From: "A", To: "A", Amount: 10}},
			check: "distinct parties",
		},
		{
			name: "over the length bound",
			plan: []models.Transfer{
				{From: "B", To: "A", Amount: 1000},
				{From: "B", To: "A", Amount: 2000},
				{From: "C", To: "A", Amount: 3000},
			},
			check: "plan bound",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPlan(balances, tt.plan)
			require.ErrorIs(t, err, ErrInvariantViolation)

			var inv *InvariantError
			require.ErrorAs(t, err, &inv)
			assert.Equal(t, tt.check, inv.Check)
		})
	}
}

func TestCheckConservation(t *testing.T) {
	require.NoError(t, CheckConservation(models.Balances{"A": 10, "B": -10}))

	err := CheckConservation(models.Balances{"A": 10, "B": -9})
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

func newTestLedger(t *testing.T, members ...models.Member) *Ledger {
	t.Helper()
	l, err := New("Flat", "EUR", members)
	require.NoError(t, err)
	return l
}

func TestNew(t *testing.T) {
	l := newTestLedger(t, "A", "B", "C")
	assert.NotEmpty(t, l.ID())
	assert.Equal(t, []models.Member{"A", "B", "C"}, l.Members())
	assert.Empty(t, l.Expenses())

	_, err := New("Flat", "EUR", []models.Member{"A", "A"})
	assert.ErrorIs(t, err, ErrDuplicateMember)
}

func TestAddExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("fills in id, timestamp and participant snapshot", func(t *testing.T) {
		l := newTestLedger(t, "A", "B", "C")

		e, err := l.AddExpense(ctx, models.Expense{Amount: 9000, Payer: "A", SplitType: models.SplitEqual}, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, e.ID)
		assert.NotZero(t, e.CreatedAt)
		assert.Equal(t, []models.Member{"A", "B", "C"}, e.Participants)
		assert.Len(t, l.Expenses(), 1)
	})

	t.Run("rejected expense is not appended", func(t *testing.T) {
		l := newTestLedger(t, "A", "B", "C")

		_, err := l.AddExpense(ctx, models.Expense{
			Amount: 10000, Payer: "A", SplitType: models.SplitCustom,
			Shares: map[models.Member]models.Money{"A": 5000, "B": 4000},
		}, nil)
		require.ErrorIs(t, err, ErrShareSumMismatch)
		assert.Empty(t, l.Expenses())
	})

	t.Run("persistence failure leaves the ledger unchanged", func(t *testing.T) {
		l := newTestLedger(t, "A", "B")
		boom := errors.New("disk full")

		_, err := l.AddExpense(ctx, models.Expense{Amount: 100, Payer: "A", SplitType: models.SplitEqual},
			func(context.Context, models.Expense) error { return boom })
		require.ErrorIs(t, err, boom)
		assert.Empty(t, l.Expenses())
	})

	t.Run("persist receives the admitted expense", func(t *testing.T) {
		l := newTestLedger(t, "A", "B")
		var persisted models.Expense

		admitted, err := l.AddExpense(ctx, models.Expense{Amount: 100, Payer: "A", SplitType: models.SplitEqual},
			func(_ context.Context, e models.Expense) error {
				persisted = e
				return nil
			})
		require.NoError(t, err)
		assert.Equal(t, admitted, persisted)
	})

	t.Run("caller cannot mutate admitted shares", func(t *testing.T) {
		l := newTestLedger(t, "A", "B")
		shares := map[models.Member]models.Money{"A": 60, "B": 40}

		_, err := l.AddExpense(ctx, models.Expense{Amount: 100, Payer: "A", SplitType: models.SplitCustom, Shares: shares}, nil)
		require.NoError(t, err)

		shares["A"] = 1000
		l.Expenses()[0].Shares["B"] = 1000
		assert.Equal(t, map[models.Member]models.Money{"A": 60, "B": 40}, l.Expenses()[0].Shares)
	})
}

func TestAddMembersDoesNotRewritePastExpenses(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, "A", "B", "C")

	_, err := l.AddExpense(ctx, models.Expense{Amount: 9000, Payer: "A", SplitType: models.SplitEqual}, nil)
	require.NoError(t, err)
	require.NoError(t, l.AddMembers(ctx, []models.Member{"D"}, nil))

	balances, err := calculator.ComputeBalances(l.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, models.Balances{"A": 6000, "B": -3000, "C": -3000, "D": 0}, balances)

	assert.ErrorIs(t, l.AddMembers(ctx, []models.Member{"D"}, nil), ErrDuplicateMember)
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, "A", "B")

	p, err := l.RecordPayment(ctx, models.Payment{From: "B", To: "A", Amount: 500}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Len(t, l.Payments(), 1)

	_, err = l.RecordPayment(ctx, models.Payment{From: "B", To: "B", Amount: 500}, nil)
	assert.ErrorIs(t, err, ErrSelfPayment)
	assert.Len(t, l.Payments(), 1)
}

func TestLoad(t *testing.T) {
	stored := models.Group{
		ID:      "g1",
		Members: []models.Member{"A", "B"},
		Expenses: []models.Expense{
			{ID: "e1", Amount: 100, Payer: "A", SplitType: models.SplitEqual, Participants: []models.Member{"A", "B"}},
		},
		Payments: []models.Payment{{ID: "p1", From: "B", To: "A", Amount: 50}},
	}

	l, err := Load(stored)
	require.NoError(t, err)
	assert.Equal(t, "g1", l.ID())
	assert.Len(t, l.Expenses(), 1)
	assert.Len(t, l.Payments(), 1)

	stored.Expenses = append(stored.Expenses, models.Expense{ID: "bad", Amount: 0, Payer: "A", SplitType: models.SplitEqual})
	_, err = Load(stored)
	assert.ErrorIs(t, err, ErrNegativeOrZeroAmount)
}

func TestConcurrentWritesKeepSnapshotsBalanced(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, "A", "B", "C", "D")
	members := l.Members()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, err := l.AddExpense(ctx, models.Expense{
					Description: fmt.Sprintf("w%d-%d", w, i),
					Amount:      models.Money(101 + i),
					Payer:       members[(w+i)%len(members)],
					SplitType:   models.SplitEqual,
				}, nil)
				assert.NoError(t, err)
			}
		}(w)
	}

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				balances, err := calculator.ComputeBalances(l.Snapshot())
				assert.NoError(t, err)
				assert.NoError(t, calculator.CheckConservation(balances))
			}
		}()
	}

	wg.Wait()
	assert.Len(t, l.Expenses(), 400)
}

package calculator

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrInvariantViolation marks a defect in the calculator itself. It never
// results from validated input.
var ErrInvariantViolation = errors.New("ledger invariant violated")

// InvariantError describes which check failed.
type InvariantError struct {
	Check  string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvariantViolation, e.Check, e.Detail)
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }

// CheckConservation verifies that balances sum to zero within Epsilon.
func CheckConservation(balances models.Balances) error {
	if total := balances.Total(); !total.IsSettled() {
		return &InvariantError{Check: "conservation", Detail: fmt.Sprintf("balances sum to %s", total)}
	}
	return nil
}

// VerifyPlan checks a settlement plan against the balances it was derived from:
// every transfer is positive and between distinct members, each debtor sends
// exactly their debt, each creditor receives exactly their credit, applying
// the plan settles everyone and the plan is within the greedy length bound.
func VerifyPlan(balances models.Balances, plan []models.Transfer) error {
	sent := make(map[models.Member]models.Money)
	received := make(map[models.Member]models.Money)
	for i, t := range plan {
		if t.Amount <= 0 {
			return &InvariantError{Check: "positive transfer", Detail: fmt.Sprintf("transfer %d amount %s", i, t.Amount)}
		}
		if t.From == t.To {
			return &InvariantError{Check: "distinct parties", Detail: fmt.Sprintf("transfer %d from %s to itself", i, t.From)}
		}
		sent[t.From] += t.Amount
		received[t.To] += t.Amount
	}

	members := slices.Sorted(maps.Keys(balances))

	var debtors, creditors int
	for _, m := range members {
		b := balances[m]
		switch {
		case b.IsSettled():
		case b < 0:
			debtors++
			if sent[m] != -b {
				return &InvariantError{Check: "debtor completeness", Detail: fmt.Sprintf("%s owes %s but sends %s", m, -b, sent[m])}
			}
		default:
			creditors++
			if received[m] != b {
				return &InvariantError{Check: "creditor completeness", Detail: fmt.Sprintf("%s is owed %s but receives %s", m, b, received[m])}
			}
		}
	}

	after := ApplyTransfers(balances, plan)
	for _, m := range slices.Sorted(maps.Keys(after)) {
		if b := after[m]; !b.IsSettled() {
			return &InvariantError{Check: "settled after plan", Detail: fmt.Sprintf("%s left at %s", m, b)}
		}
	}

	if bound := max(debtors+creditors-1, 0); len(plan) > bound {
		return &InvariantError{Check: "plan bound", Detail: fmt.Sprintf("%d transfers exceed bound %d", len(plan), bound)}
	}
	return nil
}

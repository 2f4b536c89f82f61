package calculator

import (
	"fmt"
	"slices"

	"github.com/mmynk/splitledger/internal/models"
)

// ComputeBalances folds a group's expenses and recorded payments into a
// net balance per member.
//
// Algorithm:
//   - every member starts at zero
//   - for each expense the payer gains the amount and every participant
//     loses their share (Equal: EqualShares over the snapshot, Custom: the
//     explicit shares)
//   - for each payment the sender gains and the receiver loses the amount
//
// Integer minor units make the fold exact, so the result does not depend on
// the order of expenses and always sums to zero for validated input.
func ComputeBalances(g models.Group) (models.Balances, error) {
	totals, err := fold(g)
	if err != nil {
		return nil, err
	}

	balances := make(models.Balances, len(totals))
	for m, t := range totals {
		balances[m] = t.Paid - t.Owed
	}
	return balances, nil
}

// MemberTotals returns each member's gross paid and owed amounts along with
// the net balance, in group member order. Members referenced by the ledger
// but no longer listed in the group follow, sorted by identifier.
func MemberTotals(g models.Group) ([]models.MemberBalance, error) {
	totals, err := fold(g)
	if err != nil {
		return nil, err
	}

	out := make([]models.MemberBalance, 0, len(totals))
	listed := make(map[models.Member]bool, len(g.Members))
	for _, m := range g.Members {
		if listed[m] {
			continue
		}
		listed[m] = true
		out = append(out, *totals[m])
	}

	var extra []models.Member
	for m := range totals {
		if !listed[m] {
			extra = append(extra, m)
		}
	}
	slices.Sort(extra)
	for _, m := range extra {
		out = append(out, *totals[m])
	}

	for i := range out {
		out[i].Net = out[i].Paid - out[i].Owed
	}
	return out, nil
}

func fold(g models.Group) (map[models.Member]*models.MemberBalance, error) {
	totals := make(map[models.Member]*models.MemberBalance, len(g.Members))
	entry := func(m models.Member) *models.MemberBalance {
		t, ok := totals[m]
		if !ok {
			t = &models.MemberBalance{Member: m}
			totals[m] = t
		}
		return t
	}
	for _, m := range g.Members {
		entry(m)
	}

	for _, e := range g.Expenses {
		entry(e.Payer).Paid += e.Amount

		shares, err := expenseShares(g, e)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		for m, share := range shares {
			entry(m).Owed += share
		}
	}

	for _, p := range g.Payments {
		entry(p.From).Paid += p.Amount
		entry(p.To).Owed += p.Amount
	}

	return totals, nil
}

func expenseShares(g models.Group, e models.Expense) (map[models.Member]models.Money, error) {
	switch e.SplitType {
	case models.SplitEqual:
		participants := e.Participants
		if len(participants) == 0 {
			participants = g.Members
		}
		return EqualShares(e.Amount, participants)
	case models.SplitCustom:
		return e.Shares, nil
	default:
		return nil, fmt.Errorf("unknown split type %q", e.SplitType)
	}
}

package calculator

import (
	"container/heap"

	"github.com/mmynk/splitledger/internal/models"
)

// PlanSettlements produces transfers that bring every balance to zero using
// greedy largest-first matching.
//
// Debtors and creditors are kept in max-heaps keyed by remaining magnitude
// (ties: smaller member identifier first). Each step pairs the largest debtor
// with the largest creditor and transfers the smaller of the two amounts, so
// at least one party is fully settled per step and the plan has at most
// debtors+creditors-1 entries. This is not guaranteed to be the minimum
// number of transfers.
func PlanSettlements(balances models.Balances) []models.Transfer {
	debtors := &parties{}
	creditors := &parties{}
	for m, b := range balances {
		switch {
		case b.IsSettled():
		case b < 0:
			*debtors = append(*debtors, party{member: m, remaining: -b})
		default:
			*creditors = append(*creditors, party{member: m, remaining: b})
		}
	}
	heap.Init(debtors)
	heap.Init(creditors)

	var plan []models.Transfer
	for debtors.Len() > 0 && creditors.Len() > 0 {
		d := heap.Pop(debtors).(party)
		c := heap.Pop(creditors).(party)

		amount := min(d.remaining, c.remaining)
		plan = append(plan, models.Transfer{From: d.member, To: c.member, Amount: amount})

		d.remaining -= amount
		c.remaining -= amount
		if !d.remaining.IsSettled() {
			heap.Push(debtors, d)
		}
		if !c.remaining.IsSettled() {
			heap.Push(creditors, c)
		}
	}
	return plan
}

// ApplyTransfers returns a copy of balances with every transfer executed:
// the sender's balance rises and the receiver's falls by the amount.
func ApplyTransfers(balances models.Balances, plan []models.Transfer) models.Balances {
	out := make(models.Balances, len(balances))
	for m, b := range balances {
		out[m] = b
	}
	for _, t := range plan {
		out[t.From] += t.Amount
		out[t.To] -= t.Amount
	}
	return out
}

type party struct {
	member    models.Member
	remaining models.Money
}

// parties implements heap.Interface as a max-heap on remaining.
type parties []party

func (p parties) Len() int { return len(p) }

func (p parties) Less(i, j int) bool {
	if p[i].remaining != p[j].remaining {
		return p[i].remaining > p[j].remaining
	}
	return p[i].member < p[j].member
}

func (p parties) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

func (p *parties) Push(x any) { *p = append(*p, x.(party)) }

func (p *parties) Pop() any {
	old := *p
	n := len(old)
	x := old[n-1]
	*p = old[:n-1]
	return x
}

package calculator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	ErrNoParticipants   = errors.New("must have at least one participant")
	ErrNonPositiveTotal = errors.New("bill total must be positive")
	ErrZeroSubtotal     = errors.New("items subtotal must be positive")
	ErrUnassignedItem   = errors.New("item has no assigned participants")
	ErrNonPositiveItem  = errors.New("item amount must be positive")
)

// EqualShares divides amount across participants in minor units.
// The remainder is handed out one unit at a time to the first participants
// in order, so the shares always sum to amount: 100.00 / 3 gives
// 33.34, 33.33, 33.33.
func EqualShares(amount models.Money, participants []models.Member) (map[models.Member]models.Money, error) {
	n := models.Money(len(participants))
	if n == 0 {
		return nil, ErrNoParticipants
	}

	base := amount / n
	rem := amount % n
	step := models.Money(1)
	if rem < 0 {
		step, rem = -1, -rem
	}

	shares := make(map[models.Member]models.Money, len(participants))
	for i, p := range participants {
		share := base
		if models.Money(i) < rem {
			share += step
		}
		shares[p] += share
	}
	return shares, nil
}

// Item is a line on an itemized bill, shared equally by AssignedTo.
type Item struct {
	Description string
	Amount      models.Money
	AssignedTo  []models.Member
}

// ItemizedShares turns an itemized bill into Custom split shares.
//
// Each member's item subtotal is scaled by total/subtotal, which spreads tax,
// tip and fees proportionally:
//
//	share = member_subtotal × total / items_subtotal
//
// Rounding uses the largest-remainder method so that the shares sum exactly
// to total. Ties go to the member that appears first on the bill.
func ItemizedShares(items []Item, total models.Money) (map[models.Member]models.Money, error) {
	if total <= 0 {
		return nil, ErrNonPositiveTotal
	}

	subtotals := make(map[models.Member]models.Money)
	var order []models.Member
	var subtotal models.Money
	for i, item := range items {
		if item.Amount <= 0 {
			return nil, fmt.Errorf("%w: item %d (%s)", ErrNonPositiveItem, i+1, item.Description)
		}
		if len(item.AssignedTo) == 0 {
			return nil, fmt.Errorf("%w: item %d (%s)", ErrUnassignedItem, i+1, item.Description)
		}
		perPerson, err := EqualShares(item.Amount, item.AssignedTo)
		if err != nil {
			return nil, err
		}
		for _, m := range item.AssignedTo {
			if _, seen := subtotals[m]; !seen {
				order = append(order, m)
			}
			subtotals[m] += perPerson[m]
			perPerson[m] = 0
		}
		subtotal += item.Amount
	}
	if subtotal <= 0 {
		return nil, ErrZeroSubtotal
	}

	type portion struct {
		member models.Member
		rank   int
		rem    decimal.Decimal
	}

	den := decimal.NewFromInt(int64(subtotal))
	tot := decimal.NewFromInt(int64(total))
	shares := make(map[models.Member]models.Money, len(order))
	portions := make([]portion, 0, len(order))
	var allocated models.Money
	for i, m := range order {
		q, r := decimal.NewFromInt(int64(subtotals[m])).Mul(tot).QuoRem(den, 0)
		shares[m] = models.Money(q.IntPart())
		allocated += shares[m]
		portions = append(portions, portion{member: m, rank: i, rem: r})
	}

	slices.SortStableFunc(portions, func(a, b portion) int {
		if c := b.rem.Cmp(a.rem); c != 0 {
			return c
		}
		return a.rank - b.rank
	})
	for i := 0; allocated < total; i++ {
		shares[portions[i%len(portions)].member]++
		allocated++
	}

	return shares, nil
}

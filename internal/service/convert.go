package service

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

const dateLayout = "2006-01-02"

// toMembers trims identifiers. Empty ones are left for the ledger to reject.
func toMembers(in []string) []models.Member {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.Member, len(in))
	for i, m := range in {
		out[i] = toMember(m)
	}
	return out
}

func toMember(s string) models.Member {
	return models.Member(strings.TrimSpace(s))
}

func fromMembers(in []models.Member) []string {
	out := make([]string, len(in))
	for i, m := range in {
		out[i] = string(m)
	}
	return out
}

func parseAmount(field, s string) (models.Money, error) {
	m, err := models.ParseMoney(s)
	if err != nil {
		return 0, badRequest(ReasonInvalidAmount, fmt.Errorf("%s: %w", field, err))
	}
	return m, nil
}

func toGroup(g models.Group) api.Group {
	return api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Currency:  g.Currency,
		Members:   fromMembers(g.Members),
		CreatedAt: g.CreatedAt,
	}
}

// toExpense converts a wire expense. Amount and share strings must parse;
// everything else is left to ledger validation.
func toExpense(in api.Expense) (models.Expense, error) {
	amount, err := parseAmount("amount", in.Amount)
	if err != nil {
		return models.Expense{}, err
	}

	e := models.Expense{
		Amount:       amount,
		Payer:        toMember(in.Payer),
		SplitType:    models.SplitType(strings.ToLower(strings.TrimSpace(in.SplitType))),
		Participants: toMembers(in.Participants),
		Category:     in.Category,
		Description:  in.Description,
		RecordedBy:   in.RecordedBy,
	}

	if len(in.Shares) > 0 {
		e.Shares = make(map[models.Member]models.Money, len(in.Shares))
		for _, name := range slices.Sorted(maps.Keys(in.Shares)) {
			share, err := parseAmount("share of "+name, in.Shares[name])
			if err != nil {
				return models.Expense{}, err
			}
			m := toMember(name)
			if _, dup := e.Shares[m]; dup {
				return models.Expense{}, &ledger.ValidationError{Reason: ledger.ErrDuplicateMember, Member: m, Detail: "share listed twice"}
			}
			e.Shares[m] = share
		}
	}

	if in.SpentOn != "" {
		spent, err := time.Parse(dateLayout, in.SpentOn)
		if err != nil {
			return models.Expense{}, badRequest(ReasonInvalidDate, fmt.Errorf("spentOn: %w", err))
		}
		e.SpentOn = spent
	}
	return e, nil
}

func fromExpense(e models.Expense) api.Expense {
	out := api.Expense{
		ID:           e.ID,
		Amount:       e.Amount.String(),
		Payer:        string(e.Payer),
		SplitType:    string(e.SplitType),
		Participants: fromMembers(e.Participants),
		Category:     e.Category,
		Description:  e.Description,
		RecordedBy:   e.RecordedBy,
		CreatedAt:    e.CreatedAt,
	}
	if len(e.Participants) == 0 {
		out.Participants = nil
	}
	if len(e.Shares) > 0 {
		out.Shares = fromShares(e.Shares)
	}
	if !e.SpentOn.IsZero() {
		out.SpentOn = e.SpentOn.Format(dateLayout)
	}
	return out
}

func fromShares(shares map[models.Member]models.Money) map[string]string {
	out := make(map[string]string, len(shares))
	for m, v := range shares {
		out[string(m)] = v.String()
	}
	return out
}

func toPayment(in api.Payment) (models.Payment, error) {
	amount, err := parseAmount("amount", in.Amount)
	if err != nil {
		return models.Payment{}, err
	}
	return models.Payment{
		From:       toMember(in.From),
		To:         toMember(in.To),
		Amount:     amount,
		Note:       in.Note,
		RecordedBy: in.RecordedBy,
	}, nil
}

func fromPayment(p models.Payment) api.Payment {
	return api.Payment{
		ID:         p.ID,
		From:       string(p.From),
		To:         string(p.To),
		Amount:     p.Amount.String(),
		Note:       p.Note,
		RecordedBy: p.RecordedBy,
		CreatedAt:  p.CreatedAt,
	}
}

func fromTransfers(plan []models.Transfer) []api.Transfer {
	out := make([]api.Transfer, len(plan))
	for i, t := range plan {
		out[i] = api.Transfer{From: string(t.From), To: string(t.To), Amount: t.Amount.String()}
	}
	return out
}

func fromMemberBalances(in []models.MemberBalance) []api.MemberBalance {
	out := make([]api.MemberBalance, len(in))
	for i, b := range in {
		out[i] = api.MemberBalance{
			Member: string(b.Member),
			Paid:   b.Paid.String(),
			Owed:   b.Owed.String(),
			Net:    b.Net.String(),
		}
	}
	return out
}

func toItems(in []api.Item) ([]calculator.Item, error) {
	out := make([]calculator.Item, len(in))
	for i, it := range in {
		amount, err := parseAmount(fmt.Sprintf("items[%d].amount", i), it.Amount)
		if err != nil {
			return nil, err
		}
		out[i] = calculator.Item{
			Description: it.Description,
			Amount:      amount,
			AssignedTo:  toMembers(it.AssignedTo),
		}
	}
	return out, nil
}

package ledger

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/mmynk/splitledger/internal/models"
)

// Rejection reasons. Every admission failure wraps exactly one of these.
var (
	ErrNegativeOrZeroAmount   = errors.New("NegativeOrZeroAmount")
	ErrUnknownMember          = errors.New("UnknownMember")
	ErrShareSumMismatch       = errors.New("ShareSumMismatch")
	ErrEmptyGroupDivision     = errors.New("EmptyGroupDivision")
	ErrNegativeShare          = errors.New("NegativeShare")
	ErrUnexpectedShares       = errors.New("UnexpectedShares")
	ErrUnexpectedParticipants = errors.New("UnexpectedParticipants")
	ErrUnknownSplitType       = errors.New("UnknownSplitType")
	ErrSelfPayment            = errors.New("SelfPayment")
	ErrDuplicateMember        = errors.New("DuplicateMember")
	ErrInvalidMember          = errors.New("InvalidMember")
)

// ValidationError reports why an expense, payment or member was rejected.
type ValidationError struct {
	// Reason is one of the Err* sentinels above.
	Reason error

	// Member is set when the rejection concerns a specific member.
	Member models.Member

	Detail string
}

func (e *ValidationError) Error() string {
	msg := "rejected: " + e.Reason.Error()
	if e.Member != "" {
		msg += fmt.Sprintf(" (member %q)", e.Member)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// ReasonOf returns the rejection reason name of err, or "" when err is not a
// validation error.
func ReasonOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason.Error()
	}
	return ""
}

func reject(reason error, member models.Member, format string, args ...any) error {
	return &ValidationError{Reason: reason, Member: member, Detail: fmt.Sprintf(format, args...)}
}

// Validate checks that e can be admitted to g. It has no side effects and
// never adjusts the expense; any inconsistency is returned to the caller.
func Validate(g *models.Group, e models.Expense) error {
	if e.Amount <= 0 {
		return reject(ErrNegativeOrZeroAmount, "", "amount %s", e.Amount)
	}
	// An empty group cannot divide anything, whoever claims to have paid.
	if e.SplitType == models.SplitEqual && len(e.Participants) == 0 && len(g.Members) == 0 {
		return reject(ErrEmptyGroupDivision, "", "group has no members")
	}
	if !g.HasMember(e.Payer) {
		return reject(ErrUnknownMember, e.Payer, "payer is not in the group")
	}

	switch e.SplitType {
	case models.SplitEqual:
		if len(e.Shares) > 0 {
			return reject(ErrUnexpectedShares, "", "equal split takes no shares")
		}
		participants := e.Participants
		if len(participants) == 0 {
			participants = g.Members
		}
		seen := make(map[models.Member]bool, len(participants))
		for _, m := range participants {
			if !g.HasMember(m) {
				return reject(ErrUnknownMember, m, "participant is not in the group")
			}
			if seen[m] {
				return reject(ErrDuplicateMember, m, "participant listed twice")
			}
			seen[m] = true
		}

	case models.SplitCustom:
		if len(e.Participants) > 0 {
			return reject(ErrUnexpectedParticipants, "", "custom split takes shares, not participants")
		}
		var sum models.Money
		for _, m := range slices.Sorted(maps.Keys(e.Shares)) {
			share := e.Shares[m]
			if !g.HasMember(m) {
				return reject(ErrUnknownMember, m, "share holder is not in the group")
			}
			if share < 0 {
				return reject(ErrNegativeShare, m, "share %s", share)
			}
			sum += share
		}
		if sum != e.Amount {
			return reject(ErrShareSumMismatch, "", "shares sum to %s, amount is %s", sum, e.Amount)
		}

	default:
		return reject(ErrUnknownSplitType, "", "split type %q", e.SplitType)
	}

	return nil
}

// ValidatePayment checks that p can be recorded against g.
func ValidatePayment(g *models.Group, p models.Payment) error {
	if p.Amount <= 0 {
		return reject(ErrNegativeOrZeroAmount, "", "amount %s", p.Amount)
	}
	if !g.HasMember(p.From) {
		return reject(ErrUnknownMember, p.From, "payer is not in the group")
	}
	if !g.HasMember(p.To) {
		return reject(ErrUnknownMember, p.To, "receiver is not in the group")
	}
	if p.From == p.To {
		return reject(ErrSelfPayment, p.From, "payment to self")
	}
	return nil
}

// ValidateNewMembers checks that members can join g: identifiers are non-empty,
// not yet in the group and not repeated.
func ValidateNewMembers(g *models.Group, members []models.Member) error {
	seen := make(map[models.Member]bool, len(members))
	for _, m := range members {
		if normalized, err := models.NewMember(string(m)); err != nil || normalized != m {
			return reject(ErrInvalidMember, m, "identifier must be non-empty and trimmed")
		}
		if g.HasMember(m) || seen[m] {
			return reject(ErrDuplicateMember, m, "already a member")
		}
		seen[m] = true
	}
	return nil
}

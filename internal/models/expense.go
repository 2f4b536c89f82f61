package models

import (
	"maps"
	"slices"
	"time"
)

// SplitType selects how an expense is divided.
type SplitType string

const (
	// SplitEqual divides the amount across the participant snapshot.
	SplitEqual SplitType = "equal"
	// SplitCustom uses explicit per-member shares.
	SplitCustom SplitType = "custom"
)

// Expense is a single payment made by one member on behalf of others.
// Expenses are immutable once admitted to a Ledger.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Amount is the total paid. Always positive.
	Amount Money

	// Payer is the member who paid.
	Payer Member

	SplitType SplitType

	// Participants is the member snapshot an Equal split divides across.
	// Filled with all current members at admission when left empty.
	Participants []Member

	// Shares is the owed amount per member for a Custom split.
	Shares map[Member]Money

	// Category, Description and SpentOn are opaque to the calculator.
	Category    string
	Description string
	SpentOn     time.Time

	// RecordedBy is the authenticated member that submitted the expense, if any.
	RecordedBy string

	// CreatedAt is the Unix timestamp when the expense was admitted.
	CreatedAt int64
}

// Clone returns a copy of e with its own Participants and Shares.
func (e Expense) Clone() Expense {
	out := e
	out.Participants = slices.Clone(e.Participants)
	if e.Shares != nil {
		out.Shares = maps.Clone(e.Shares)
	}
	return out
}

package models

import (
	"errors"
	"slices"
	"strings"
)

var ErrEmptyMember = errors.New("member identifier cannot be empty")

// Member identifies a participant. It is unique within a Group and has no
// lifecycle outside of its Group.
type Member string

// NewMember trims s and rejects empty identifiers.
func NewMember(s string) (Member, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyMember
	}
	return Member(s), nil
}

// Group is a set of participants sharing expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Trip to Lisbon").
	Name string

	// Currency is an informational ISO code. No conversion is performed.
	Currency string

	// Members in the order they joined.
	Members []Member

	// Expenses is append-only. Corrections are new compensating expenses.
	Expenses []Expense

	// Payments is append-only, like Expenses.
	Payments []Payment

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether m belongs to the group.
func (g *Group) HasMember(m Member) bool {
	return slices.Contains(g.Members, m)
}

// Clone returns a deep copy that shares no mutable state with g.
func (g Group) Clone() Group {
	out := g
	out.Members = slices.Clone(g.Members)
	out.Expenses = make([]Expense, len(g.Expenses))
	for i, e := range g.Expenses {
		out.Expenses[i] = e.Clone()
	}
	out.Payments = slices.Clone(g.Payments)
	return out
}

// Package ledger guards admission to a group's expense sequence and owns that
// sequence.
//
// A Ledger is the only mutable piece of the engine. Writes are serialized by
// the Ledger's lock (one writer per group); readers take a Snapshot, a deep
// copy that the pure calculator functions can use without further locking.
package ledger

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

// PersistFunc durably stores a value before the Ledger appends it.
// Returning an error leaves the Ledger unchanged.
type PersistFunc[T any] func(ctx context.Context, v T) error

// Ledger holds one group's members, expenses and payments.
type Ledger struct {
	mu    sync.RWMutex
	group models.Group
}

// New creates an empty ledger for a new group.
func New(name, currency string, members []models.Member) (*Ledger, error) {
	g := models.Group{
		ID:        uuid.New().String(),
		Name:      name,
		Currency:  currency,
		CreatedAt: time.Now().Unix(),
	}
	if err := ValidateNewMembers(&g, members); err != nil {
		return nil, err
	}
	g.Members = slices.Clone(members)
	return &Ledger{group: g}, nil
}

// Load rebuilds a ledger from a stored group, re-validating every expense and
// payment in sequence order.
func Load(stored models.Group) (*Ledger, error) {
	g := stored.Clone()
	expenses, payments := g.Expenses, g.Payments
	g.Expenses, g.Payments = nil, nil

	for _, e := range expenses {
		if err := Validate(&g, e); err != nil {
			return nil, fmt.Errorf("load group %s: expense %s: %w", g.ID, e.ID, err)
		}
		g.Expenses = append(g.Expenses, e)
	}
	for _, p := range payments {
		if err := ValidatePayment(&g, p); err != nil {
			return nil, fmt.Errorf("load group %s: payment %s: %w", g.ID, p.ID, err)
		}
		g.Payments = append(g.Payments, p)
	}
	return &Ledger{group: g}, nil
}

// ID returns the group identifier.
func (l *Ledger) ID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.group.ID
}

// Members returns the current members in join order.
func (l *Ledger) Members() []models.Member {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.group.Members)
}

// Expenses returns the admitted expenses in admission order.
func (l *Ledger) Expenses() []models.Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Expense, len(l.group.Expenses))
	for i, e := range l.group.Expenses {
		out[i] = e.Clone()
	}
	return out
}

// Payments returns the recorded payments in order.
func (l *Ledger) Payments() []models.Payment {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.group.Payments)
}

// Snapshot returns a consistent deep copy of the group.
func (l *Ledger) Snapshot() models.Group {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.group.Clone()
}

// AddMembers appends new members. Past expenses are unaffected because Equal
// splits carry their own participant snapshot.
func (l *Ledger) AddMembers(ctx context.Context, members []models.Member, persist PersistFunc[[]models.Member]) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ValidateNewMembers(&l.group, members); err != nil {
		return err
	}
	if persist != nil {
		if err := persist(ctx, members); err != nil {
			return err
		}
	}
	l.group.Members = append(l.group.Members, members...)
	return nil
}

// AddExpense validates e, persists it and appends it. It returns the expense
// as admitted, with ID, CreatedAt and (for Equal splits) the participant
// snapshot filled in.
func (l *Ledger) AddExpense(ctx context.Context, e models.Expense, persist PersistFunc[models.Expense]) (models.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := Validate(&l.group, e); err != nil {
		return models.Expense{}, err
	}

	admitted := e.Clone()
	if admitted.ID == "" {
		admitted.ID = uuid.New().String()
	}
	if admitted.CreatedAt == 0 {
		admitted.CreatedAt = time.Now().Unix()
	}
	if admitted.SplitType == models.SplitEqual && len(admitted.Participants) == 0 {
		admitted.Participants = slices.Clone(l.group.Members)
	}

	if persist != nil {
		if err := persist(ctx, admitted); err != nil {
			return models.Expense{}, err
		}
	}
	l.group.Expenses = append(l.group.Expenses, admitted)
	return admitted.Clone(), nil
}

// RecordPayment validates p, persists it and appends it.
func (l *Ledger) RecordPayment(ctx context.Context, p models.Payment, persist PersistFunc[models.Payment]) (models.Payment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ValidatePayment(&l.group, p); err != nil {
		return models.Payment{}, err
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}

	if persist != nil {
		if err := persist(ctx, p); err != nil {
			return models.Payment{}, err
		}
	}
	l.group.Payments = append(l.group.Payments, p)
	return p, nil
}

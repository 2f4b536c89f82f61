// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is returned when a group does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the ledger service needs.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer. The store never validates ledger
// semantics; that happens before anything reaches it.
type Store interface {
	// CreateGroup persists a new group with its initial members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with members, expenses and payments in
	// admission order. Returns ErrNotFound when the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns every group with its members but without expenses
	// or payments, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddMembers appends members to an existing group.
	AddMembers(ctx context.Context, groupID string, members []models.Member) error

	// AppendExpense stores an admitted expense at the end of the group's sequence.
	AppendExpense(ctx context.Context, groupID string, expense models.Expense) error

	// AppendPayment stores a recorded payment at the end of the group's sequence.
	AppendPayment(ctx context.Context, groupID string, payment models.Payment) error

	// Close releases any resources held by the store.
	Close() error
}

package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/notify"
	"github.com/mmynk/splitledger/pkg/api"
)

// recordedBy prefers the authenticated member over the client-supplied value.
func recordedBy(ctx context.Context, claimed string) string {
	if member := middleware.GetMember(ctx); member != "" {
		return string(member)
	}
	return claimed
}

// AddExpense validates an expense and appends it to the group's ledger.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.InfoContext(ctx, "AddExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Expense.Amount,
		"payer", req.Msg.Expense.Payer,
		"split_type", req.Msg.Expense.SplitType,
	)

	e, err := toExpense(req.Msg.Expense)
	if err != nil {
		return nil, s.toConnectError(ctx, "AddExpense", err)
	}

	admitted, err := s.addExpense(ctx, req.Msg.GroupID, e)
	if err != nil {
		return nil, s.toConnectError(ctx, "AddExpense", err)
	}

	return connect.NewResponse(&api.AddExpenseResponse{Expense: fromExpense(admitted)}), nil
}

// addExpense admits e under the group's write lock, persisting it first.
func (s *LedgerService) addExpense(ctx context.Context, groupID string, e models.Expense) (models.Expense, error) {
	l, err := s.ledgerFor(ctx, groupID)
	if err != nil {
		return models.Expense{}, err
	}

	e.ID, e.CreatedAt = "", 0
	e.RecordedBy = recordedBy(ctx, e.RecordedBy)

	persist := func(ctx context.Context, admitted models.Expense) error {
		return s.store.AppendExpense(ctx, groupID, admitted)
	}
	admitted, err := l.AddExpense(ctx, e, persist)
	if err != nil {
		return models.Expense{}, err
	}
	s.metrics.ExpensesAdmitted.Inc()

	slog.InfoContext(ctx, "Expense added",
		"group_id", groupID,
		"expense_id", admitted.ID,
		"amount", admitted.Amount.String(),
	)

	if err := s.notifier.NotifyExpense(ctx, notify.NewExpenseMessage(groupID, admitted)); err != nil {
		slog.WarnContext(ctx, "Expense notification failed", "group_id", groupID, "error", err)
	}
	return admitted, nil
}

// ListExpenses returns a group's expenses in admission order.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	l, err := s.ledgerFor(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.toConnectError(ctx, "ListExpenses", err)
	}

	expenses := l.Expenses()
	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = fromExpense(e)
	}

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// RecordPayment appends a real-world payment between two members.
func (s *LedgerService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	slog.InfoContext(ctx, "RecordPayment request received",
		"group_id", req.Msg.GroupID,
		"from", req.Msg.Payment.From,
		"to", req.Msg.Payment.To,
		"amount", req.Msg.Payment.Amount,
	)

	p, err := toPayment(req.Msg.Payment)
	if err != nil {
		return nil, s.toConnectError(ctx, "RecordPayment", err)
	}
	p.RecordedBy = recordedBy(ctx, p.RecordedBy)

	l, err := s.ledgerFor(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.toConnectError(ctx, "RecordPayment", err)
	}

	persist := func(ctx context.Context, recorded models.Payment) error {
		return s.store.AppendPayment(ctx, req.Msg.GroupID, recorded)
	}
	recorded, err := l.RecordPayment(ctx, p, persist)
	if err != nil {
		return nil, s.toConnectError(ctx, "RecordPayment", err)
	}
	s.metrics.PaymentsRecorded.Inc()

	slog.InfoContext(ctx, "Payment recorded", "group_id", req.Msg.GroupID, "payment_id", recorded.ID)

	return connect.NewResponse(&api.RecordPaymentResponse{Payment: fromPayment(recorded)}), nil
}

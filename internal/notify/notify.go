// Package notify delivers ledger events (settlement plans, admitted
// expenses) to the outside world.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// Message types, carried in the AMQP Type property.
const (
	TypeSettlementPlan = "settlement.plan"
	TypeExpenseAdded   = "expense.added"
)

// Notifier publishes ledger events. Implementations must be safe for
// concurrent use.
type Notifier interface {
	NotifyPlan(ctx context.Context, msg *PlanMessage) error
	NotifyExpense(ctx context.Context, msg *ExpenseMessage) error
	Close() error
}

// TransferLine is one "From owes To Amount" instruction.
type TransferLine struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// PlanMessage announces a settlement plan for a group.
type PlanMessage struct {
	GroupID   string         `json:"group_id"`
	GroupName string         `json:"group_name"`
	Currency  string         `json:"currency,omitempty"`
	Transfers []TransferLine `json:"transfers"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewPlanMessage builds a message from a computed plan.
func NewPlanMessage(g models.Group, plan []models.Transfer) *PlanMessage {
	lines := make([]TransferLine, len(plan))
	for i, t := range plan {
		lines[i] = TransferLine{From: string(t.From), To: string(t.To), Amount: t.Amount.String()}
	}
	return &PlanMessage{
		GroupID:   g.ID,
		GroupName: g.Name,
		Currency:  g.Currency,
		Transfers: lines,
		Timestamp: time.Now(),
	}
}

// Lines renders the plan as human-readable sentences.
func (m *PlanMessage) Lines() []string {
	out := make([]string, len(m.Transfers))
	for i, t := range m.Transfers {
		out[i] = fmt.Sprintf("%s owes %s %s", t.From, t.To, t.Amount)
		if m.Currency != "" {
			out[i] += " " + m.Currency
		}
	}
	return out
}

// ExpenseMessage announces an admitted expense. Consumers fetch the full
// expense from the service if they need it.
type ExpenseMessage struct {
	GroupID   string    `json:"group_id"`
	ExpenseID string    `json:"expense_id"`
	Payer     string    `json:"payer"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseMessage builds a message for an admitted expense.
func NewExpenseMessage(groupID string, e models.Expense) *ExpenseMessage {
	return &ExpenseMessage{
		GroupID:   groupID,
		ExpenseID: e.ID,
		Payer:     string(e.Payer),
		Amount:    e.Amount.String(),
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PlanMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PlanMessageFromJSON decodes a plan message.
func PlanMessageFromJSON(data []byte) (*PlanMessage, error) {
	var msg PlanMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal plan message: %w", err)
	}
	return &msg, nil
}

// LogNotifier writes events to the structured log. It is the notifier used
// when no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a LogNotifier writing to logger, or to the default
// logger when logger is nil.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyPlan(ctx context.Context, msg *PlanMessage) error {
	if len(msg.Transfers) == 0 {
		n.logger.InfoContext(ctx, "Group settled", "group_id", msg.GroupID)
		return nil
	}
	for _, line := range msg.Lines() {
		n.logger.InfoContext(ctx, "Settlement", "group_id", msg.GroupID, "instruction", line)
	}
	return nil
}

func (n *LogNotifier) NotifyExpense(ctx context.Context, msg *ExpenseMessage) error {
	n.logger.InfoContext(ctx, "Expense added",
		"group_id", msg.GroupID,
		"expense_id", msg.ExpenseID,
		"payer", msg.Payer,
		"amount", msg.Amount,
	)
	return nil
}

func (n *LogNotifier) Close() error { return nil }

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/notify"
	"github.com/mmynk/splitledger/pkg/api"
)

// balanceSheet computes per-member totals and checks conservation.
func balanceSheet(g models.Group) ([]models.MemberBalance, models.Balances, error) {
	totals, err := calculator.MemberTotals(g)
	if err != nil {
		return nil, nil, fmt.Errorf("compute balances of group %s: %w", g.ID, err)
	}
	balances := make(models.Balances, len(totals))
	for _, t := range totals {
		balances[t.Member] = t.Net
	}
	if err := calculator.CheckConservation(balances); err != nil {
		return nil, nil, fmt.Errorf("group %s: %w", g.ID, err)
	}
	return totals, balances, nil
}

// settle plans the transfers for balances and verifies the plan.
func (s *LedgerService) settle(g models.Group, balances models.Balances) ([]models.Transfer, error) {
	plan := calculator.PlanSettlements(balances)
	if err := calculator.VerifyPlan(balances, plan); err != nil {
		return nil, fmt.Errorf("group %s: %w", g.ID, err)
	}
	s.metrics.PlanSize.Observe(float64(len(plan)))
	return plan, nil
}

// GetBalances returns every member's paid, owed and net amounts.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	l, err := s.ledgerFor(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.toConnectError(ctx, "GetBalances", err)
	}

	totals, _, err := balanceSheet(l.Snapshot())
	if err != nil {
		return nil, s.toConnectError(ctx, "GetBalances", err)
	}

	return connect.NewResponse(&api.GetBalancesResponse{Balances: fromMemberBalances(totals)}), nil
}

// PlanSettlements computes the transfers that settle a group. Nothing is
// recorded; members record payments once they actually happen.
func (s *LedgerService) PlanSettlements(ctx context.Context, req *connect.Request[api.PlanSettlementsRequest]) (*connect.Response[api.PlanSettlementsResponse], error) {
	slog.InfoContext(ctx, "PlanSettlements request received", "group_id", req.Msg.GroupID, "notify", req.Msg.Notify)

	l, err := s.ledgerFor(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.toConnectError(ctx, "PlanSettlements", err)
	}

	g := l.Snapshot()
	_, balances, err := balanceSheet(g)
	if err != nil {
		return nil, s.toConnectError(ctx, "PlanSettlements", err)
	}
	plan, err := s.settle(g, balances)
	if err != nil {
		return nil, s.toConnectError(ctx, "PlanSettlements", err)
	}

	if req.Msg.Notify {
		if err := s.notifier.NotifyPlan(ctx, notify.NewPlanMessage(g, plan)); err != nil {
			slog.ErrorContext(ctx, "Settlement notification failed", "group_id", g.ID, "error", err)
			return nil, connect.NewError(connect.CodeUnavailable, fmt.Errorf("notify settlement plan: %w", err))
		}
	}

	slog.InfoContext(ctx, "Settlement plan computed", "group_id", g.ID, "transfers", len(plan))

	return connect.NewResponse(&api.PlanSettlementsResponse{
		Transfers: fromTransfers(plan),
		Settled:   len(plan) == 0,
	}), nil
}

// SplitItems turns an itemized bill into custom shares, spreading the
// difference between total and item subtotal (tax, tip) proportionally.
// With Record set the shares are added to the group as a custom expense.
func (s *LedgerService) SplitItems(ctx context.Context, req *connect.Request[api.SplitItemsRequest]) (*connect.Response[api.SplitItemsResponse], error) {
	slog.InfoContext(ctx, "SplitItems request received",
		"group_id", req.Msg.GroupID,
		"items_count", len(req.Msg.Items),
		"total", req.Msg.Total,
		"record", req.Msg.Record,
	)

	total, err := parseAmount("total", req.Msg.Total)
	if err != nil {
		return nil, s.toConnectError(ctx, "SplitItems", err)
	}
	items, err := toItems(req.Msg.Items)
	if err != nil {
		return nil, s.toConnectError(ctx, "SplitItems", err)
	}

	shares, err := calculator.ItemizedShares(items, total)
	if err != nil {
		return nil, s.toConnectError(ctx, "SplitItems", badRequest(ReasonInvalidItems, err))
	}

	resp := &api.SplitItemsResponse{Shares: fromShares(shares)}

	if req.Msg.Record {
		if req.Msg.GroupID == "" || req.Msg.Payer == "" {
			err := errors.New("recording an itemized bill requires a group and a payer")
			return nil, s.toConnectError(ctx, "SplitItems", badRequest(ReasonInvalidRequest, err))
		}
		admitted, err := s.addExpense(ctx, req.Msg.GroupID, models.Expense{
			Amount:      total,
			Payer:       toMember(req.Msg.Payer),
			SplitType:   models.SplitCustom,
			Shares:      shares,
			Category:    req.Msg.Category,
			Description: req.Msg.Description,
		})
		if err != nil {
			return nil, s.toConnectError(ctx, "SplitItems", err)
		}
		expense := fromExpense(admitted)
		resp.Expense = &expense
	}

	return connect.NewResponse(resp), nil
}

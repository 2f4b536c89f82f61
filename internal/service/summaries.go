package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitledger/pkg/api"
)

// ListSummaries returns balances and a settlement plan for every group.
// Groups are independent, so they are summarized in parallel, at most
// summaryWorkers at a time.
func (s *LedgerService) ListSummaries(ctx context.Context, req *connect.Request[api.ListSummariesRequest]) (*connect.Response[api.ListSummariesResponse], error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, s.toConnectError(ctx, "ListSummaries", err)
	}

	summaries := make([]api.GroupSummary, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.summaryWorkers)

	for i, stored := range groups {
		g.Go(func() error {
			l, err := s.ledgerFor(gctx, stored.ID)
			if err != nil {
				return err
			}
			snapshot := l.Snapshot()

			totals, balances, err := balanceSheet(snapshot)
			if err != nil {
				return err
			}
			plan, err := s.settle(snapshot, balances)
			if err != nil {
				return err
			}

			summaries[i] = api.GroupSummary{
				Group:     toGroup(snapshot),
				Balances:  fromMemberBalances(totals),
				Transfers: fromTransfers(plan),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.toConnectError(ctx, "ListSummaries", err)
	}

	slog.DebugContext(ctx, "ListSummaries successful", "groups", len(summaries))

	return connect.NewResponse(&api.ListSummariesResponse{Summaries: summaries}), nil
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// CreateGroup creates a new group with its initial members.
func (s *LedgerService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.InfoContext(ctx, "CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, s.toConnectError(ctx, "CreateGroup", badRequest(ReasonInvalidRequest, errors.New("group name is required")))
	}

	l, err := ledger.New(name, strings.ToUpper(strings.TrimSpace(req.Msg.Currency)), toMembers(req.Msg.Members))
	if err != nil {
		return nil, s.toConnectError(ctx, "CreateGroup", err)
	}

	group := l.Snapshot()
	if err := s.store.CreateGroup(ctx, &group); err != nil {
		return nil, s.toConnectError(ctx, "CreateGroup", err)
	}
	s.register(l)

	slog.InfoContext(ctx, "Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: toGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *LedgerService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.DebugContext(ctx, "GetGroup request received", "group_id", req.Msg.GroupID)

	l, err := s.ledgerFor(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.toConnectError(ctx, "GetGroup", err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toGroup(l.Snapshot())}), nil
}

// ListGroups retrieves all groups.
func (s *LedgerService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, s.toConnectError(ctx, "ListGroups", err)
	}

	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = toGroup(*g)
	}

	slog.DebugContext(ctx, "ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// AddMembers appends members to a group. Existing expenses keep their
// participant snapshot.
func (s *LedgerService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	slog.InfoContext(ctx, "AddMembers request received",
		"group_id", req.Msg.GroupID,
		"members_count", len(req.Msg.Members),
	)

	l, err := s.ledgerFor(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.toConnectError(ctx, "AddMembers", err)
	}

	persist := func(ctx context.Context, members []models.Member) error {
		return s.store.AddMembers(ctx, req.Msg.GroupID, members)
	}
	if err := l.AddMembers(ctx, toMembers(req.Msg.Members), persist); err != nil {
		return nil, s.toConnectError(ctx, "AddMembers", err)
	}

	group := l.Snapshot()
	slog.InfoContext(ctx, "Members added", "group_id", group.ID, "members", len(group.Members))

	return connect.NewResponse(&api.AddMembersResponse{Group: toGroup(group)}), nil
}

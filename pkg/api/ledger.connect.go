package api

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "splitledger.v1.LedgerService"

// Procedure names, usable as HTTP paths and in interceptors.
const (
	LedgerServiceCreateGroupProcedure     = "/splitledger.v1.LedgerService/CreateGroup"
	LedgerServiceGetGroupProcedure        = "/splitledger.v1.LedgerService/GetGroup"
	LedgerServiceListGroupsProcedure      = "/splitledger.v1.LedgerService/ListGroups"
	LedgerServiceAddMembersProcedure      = "/splitledger.v1.LedgerService/AddMembers"
	LedgerServiceAddExpenseProcedure      = "/splitledger.v1.LedgerService/AddExpense"
	LedgerServiceListExpensesProcedure    = "/splitledger.v1.LedgerService/ListExpenses"
	LedgerServiceRecordPaymentProcedure   = "/splitledger.v1.LedgerService/RecordPayment"
	LedgerServiceGetBalancesProcedure     = "/splitledger.v1.LedgerService/GetBalances"
	LedgerServicePlanSettlementsProcedure = "/splitledger.v1.LedgerService/PlanSettlements"
	LedgerServiceSplitItemsProcedure      = "/splitledger.v1.LedgerService/SplitItems"
	LedgerServiceListSummariesProcedure   = "/splitledger.v1.LedgerService/ListSummaries"
)

// RejectionReasonKey is the error metadata key carrying the admission
// rejection reason (e.g. "ShareSumMismatch") on invalid_argument errors.
const RejectionReasonKey = "Ledger-Rejection-Reason"

// RejectionReason returns the admission rejection reason carried by err, or
// "" if there is none.
func RejectionReason(err error) string {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Meta().Get(RejectionReasonKey)
	}
	return ""
}

// LedgerServiceHandler is implemented by the server.
type LedgerServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	AddMembers(context.Context, *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	PlanSettlements(context.Context, *connect.Request[PlanSettlementsRequest]) (*connect.Response[PlanSettlementsResponse], error)
	SplitItems(context.Context, *connect.Request[SplitItemsRequest]) (*connect.Response[SplitItemsResponse], error)
	ListSummaries(context.Context, *connect.Request[ListSummariesRequest]) (*connect.Response[ListSummariesResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	read := slices.Concat(opts, []connect.HandlerOption{connect.WithIdempotency(connect.IdempotencyNoSideEffects)})

	mux := http.NewServeMux()
	mux.Handle(LedgerServiceCreateGroupProcedure, connect.NewUnaryHandler(LedgerServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(LedgerServiceGetGroupProcedure, connect.NewUnaryHandler(LedgerServiceGetGroupProcedure, svc.GetGroup, read...))
	mux.Handle(LedgerServiceListGroupsProcedure, connect.NewUnaryHandler(LedgerServiceListGroupsProcedure, svc.ListGroups, read...))
	mux.Handle(LedgerServiceAddMembersProcedure, connect.NewUnaryHandler(LedgerServiceAddMembersProcedure, svc.AddMembers, opts...))
	mux.Handle(LedgerServiceAddExpenseProcedure, connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(LedgerServiceListExpensesProcedure, connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, read...))
	mux.Handle(LedgerServiceRecordPaymentProcedure, connect.NewUnaryHandler(LedgerServiceRecordPaymentProcedure, svc.RecordPayment, opts...))
	mux.Handle(LedgerServiceGetBalancesProcedure, connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, read...))
	mux.Handle(LedgerServicePlanSettlementsProcedure, connect.NewUnaryHandler(LedgerServicePlanSettlementsProcedure, svc.PlanSettlements, opts...))
	mux.Handle(LedgerServiceSplitItemsProcedure, connect.NewUnaryHandler(LedgerServiceSplitItemsProcedure, svc.SplitItems, opts...))
	mux.Handle(LedgerServiceListSummariesProcedure, connect.NewUnaryHandler(LedgerServiceListSummariesProcedure, svc.ListSummaries, read...))

	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient is a typed client for LedgerService.
type LedgerServiceClient struct {
	createGroup     *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup        *connect.Client[GetGroupRequest, GetGroupResponse]
	listGroups      *connect.Client[ListGroupsRequest, ListGroupsResponse]
	addMembers      *connect.Client[AddMembersRequest, AddMembersResponse]
	addExpense      *connect.Client[AddExpenseRequest, AddExpenseResponse]
	listExpenses    *connect.Client[ListExpensesRequest, ListExpensesResponse]
	recordPayment   *connect.Client[RecordPaymentRequest, RecordPaymentResponse]
	getBalances     *connect.Client[GetBalancesRequest, GetBalancesResponse]
	planSettlements *connect.Client[PlanSettlementsRequest, PlanSettlementsResponse]
	splitItems      *connect.Client[SplitItemsRequest, SplitItemsResponse]
	listSummaries   *connect.Client[ListSummariesRequest, ListSummariesResponse]
}

// NewLedgerServiceClient constructs a client for the service at baseURL
// (for example, http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &LedgerServiceClient{
		createGroup:     connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+LedgerServiceCreateGroupProcedure, opts...),
		getGroup:        connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+LedgerServiceGetGroupProcedure, opts...),
		listGroups:      connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+LedgerServiceListGroupsProcedure, opts...),
		addMembers:      connect.NewClient[AddMembersRequest, AddMembersResponse](httpClient, baseURL+LedgerServiceAddMembersProcedure, opts...),
		addExpense:      connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		listExpenses:    connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		recordPayment:   connect.NewClient[RecordPaymentRequest, RecordPaymentResponse](httpClient, baseURL+LedgerServiceRecordPaymentProcedure, opts...),
		getBalances:     connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		planSettlements: connect.NewClient[PlanSettlementsRequest, PlanSettlementsResponse](httpClient, baseURL+LedgerServicePlanSettlementsProcedure, opts...),
		splitItems:      connect.NewClient[SplitItemsRequest, SplitItemsResponse](httpClient, baseURL+LedgerServiceSplitItemsProcedure, opts...),
		listSummaries:   connect.NewClient[ListSummariesRequest, ListSummariesResponse](httpClient, baseURL+LedgerServiceListSummariesProcedure, opts...),
	}
}

func (c *LedgerServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddMembers(ctx context.Context, req *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error) {
	return c.addMembers.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) PlanSettlements(ctx context.Context, req *connect.Request[PlanSettlementsRequest]) (*connect.Response[PlanSettlementsResponse], error) {
	return c.planSettlements.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SplitItems(ctx context.Context, req *connect.Request[SplitItemsRequest]) (*connect.Response[SplitItemsResponse], error) {
	return c.splitItems.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListSummaries(ctx context.Context, req *connect.Request[ListSummariesRequest]) (*connect.Response[ListSummariesResponse], error) {
	return c.listSummaries.CallUnary(ctx, req)
}

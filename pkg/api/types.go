// Package api defines the wire messages of the splitledger.v1.LedgerService
// Connect service and a typed client for it.
//
// Amounts travel as decimal strings with two fractional digits ("33.34").
// Dates are "YYYY-MM-DD". Timestamps are Unix seconds.
package api

// Group is a set of members sharing expenses.
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Currency  string   `json:"currency,omitempty"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"createdAt"`
}

// Split types accepted in Expense.SplitType.
const (
	SplitEqual  = "equal"
	SplitCustom = "custom"
)

// Expense is one payment made by Payer on behalf of the group.
type Expense struct {
	ID     string `json:"id,omitempty"`
	Amount string `json:"amount"`
	Payer  string `json:"payer"`

	// SplitType is "equal" or "custom".
	SplitType string `json:"splitType"`

	// Participants optionally narrows an equal split. Empty means every
	// current member.
	Participants []string `json:"participants,omitempty"`

	// Shares maps member to owed amount for a custom split.
	Shares map[string]string `json:"shares,omitempty"`

	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	SpentOn     string `json:"spentOn,omitempty"`
	RecordedBy  string `json:"recordedBy,omitempty"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
}

// Payment is a transfer between two members that already happened.
type Payment struct {
	ID         string `json:"id,omitempty"`
	From       string `json:"from"`
	To         string `json:"to"`
	Amount     string `json:"amount"`
	Note       string `json:"note,omitempty"`
	RecordedBy string `json:"recordedBy,omitempty"`
	CreatedAt  int64  `json:"createdAt,omitempty"`
}

// Transfer is one recommended payment of a settlement plan.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// MemberBalance is a member's net position. Positive Net means the group
// owes the member.
type MemberBalance struct {
	Member string `json:"member"`
	Paid   string `json:"paid"`
	Owed   string `json:"owed"`
	Net    string `json:"net"`
}

// Item is one line of an itemized bill.
type Item struct {
	Description string   `json:"description,omitempty"`
	Amount      string   `json:"amount"`
	AssignedTo  []string `json:"assignedTo"`
}

// GroupSummary is the balance sheet and settlement plan of one group.
type GroupSummary struct {
	Group     Group           `json:"group"`
	Balances  []MemberBalance `json:"balances"`
	Transfers []Transfer      `json:"transfers"`
}

type CreateGroupRequest struct {
	Name     string   `json:"name"`
	Currency string   `json:"currency,omitempty"`
	Members  []string `json:"members"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type AddMembersRequest struct {
	GroupID string   `json:"groupId"`
	Members []string `json:"members"`
}

type AddMembersResponse struct {
	Group Group `json:"group"`
}

type AddExpenseRequest struct {
	GroupID string  `json:"groupId"`
	Expense Expense `json:"expense"`
}

type AddExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type RecordPaymentRequest struct {
	GroupID string  `json:"groupId"`
	Payment Payment `json:"payment"`
}

type RecordPaymentResponse struct {
	Payment Payment `json:"payment"`
}

type GetBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type GetBalancesResponse struct {
	Balances []MemberBalance `json:"balances"`
}

type PlanSettlementsRequest struct {
	GroupID string `json:"groupId"`

	// Notify publishes the plan to the configured notifier.
	Notify bool `json:"notify,omitempty"`
}

type PlanSettlementsResponse struct {
	Transfers []Transfer `json:"transfers"`
	Settled   bool       `json:"settled"`
}

// SplitItemsRequest computes custom shares from an itemized bill. Total
// includes tax and tip and is spread proportionally over the item subtotal.
// When Record is set, the result is added to GroupID as a custom expense paid
// by Payer.
type SplitItemsRequest struct {
	GroupID     string `json:"groupId,omitempty"`
	Payer       string `json:"payer,omitempty"`
	Total       string `json:"total"`
	Items       []Item `json:"items"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Record      bool   `json:"record,omitempty"`
}

type SplitItemsResponse struct {
	Shares  map[string]string `json:"shares"`
	Expense *Expense          `json:"expense,omitempty"`
}

type ListSummariesRequest struct{}

type ListSummariesResponse struct {
	Summaries []GroupSummary `json:"summaries"`
}

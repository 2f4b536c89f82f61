package models

// Payment is a real-world transfer between two members, recorded after it
// happened. Recording a payment moves the payer's balance up and the
// receiver's balance down by Amount.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// From is the member who paid (debtor settling up).
	From Member

	// To is the member who received payment (creditor being paid).
	To Member

	Amount Money

	// Note is an optional description for the payment.
	Note string

	// RecordedBy is the authenticated member that recorded this payment, if any.
	RecordedBy string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}

// Transfer is one recommended payment of a settlement plan.
type Transfer struct {
	From   Member
	To     Member
	Amount Money
}

// Balances maps each member to a signed amount: positive means the group
// owes the member, negative means the member owes the group.
type Balances map[Member]Money

// Total sums every balance. It is zero for any balance map derived from a
// valid Group.
func (b Balances) Total() Money {
	var total Money
	for _, v := range b {
		total += v
	}
	return total
}

// MemberBalance is one member's position with its gross components.
type MemberBalance struct {
	Member Member

	// Paid is the sum of expenses paid plus payments sent.
	Paid Money

	// Owed is the sum of expense shares plus payments received.
	Owed Money

	// Net is Paid - Owed.
	Net Money
}

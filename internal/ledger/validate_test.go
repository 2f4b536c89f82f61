package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func TestValidate(t *testing.T) {
	group := &models.Group{Members: []models.Member{"A", "B", "C"}}

	tests := []struct {
		name    string
		group   *models.Group
		expense models.Expense
		reason  error
		member  models.Member
	}{
		{
			name:    "valid equal split",
			expense: models.Expense{Amount: 9000, Payer: "A", SplitType: models.SplitEqual},
		},
		{
			name: "valid custom split",
			expense: models.Expense{
				Amount: 10000, Payer: "B", SplitType: models.SplitCustom,
				Shares: map[models.Member]models.Money{"A": 5000, "B": 3000, "C": 2000},
			},
		},
		{
			name: "custom split with zero share",
			expense: models.Expense{
				Amount: 100, Payer: "A", SplitType: models.SplitCustom,
				Shares: map[models.Member]models.Money{"A": 0, "B": 100},
			},
		},
		{
			name:    "zero amount",
			expense: models.Expense{Amount: 0, Payer: "A", SplitType: models.SplitEqual},
			reason:  ErrNegativeOrZeroAmount,
		},
		{
			name:    "negative amount",
			expense: models.Expense{Amount: -500, Payer: "A", SplitType: models.SplitEqual},
			reason:  ErrNegativeOrZeroAmount,
		},
		{
			name:    "unknown payer",
			expense: models.Expense{Amount: 100, Payer: "Z", SplitType: models.SplitEqual},
			reason:  ErrUnknownMember,
			member:  "Z",
		},
		{
			name: "custom share for unknown member",
			expense: models.Expense{
				Amount: 100, Payer: "A", SplitType: models.SplitCustom,
				Shares: map[models.Member]models.Money{"A": 50, "Z": 50},
			},
			reason: ErrUnknownMember,
			member: "Z",
		},
		{
			name: "shares short by one cent",
			expense: models.Expense{
				Amount: 10000, Payer: "A", SplitType: models.SplitCustom,
				Shares: map[models.Member]models.Money{"A": 3333, "B": 3333, "C": 3333},
			},
			reason: ErrShareSumMismatch,
		},
		{
			name: "shares exceed amount",
			expense: models.Expense{
				Amount: 100, Payer: "A", SplitType: models.SplitCustom,
				Shares: map[models.Member]models.Money{"A": 100, "B": 50},
			},
			reason: ErrShareSumMismatch,
		},
		{
			name:    "custom split without shares",
			expense: models.Expense{Amount: 100, Payer: "A", SplitType: models.SplitCustom},
			reason:  ErrShareSumMismatch,
		},
		{
			name: "negative share",
			expense: models.Expense{
				Amount: 100, Payer: "A", SplitType: models.SplitCustom,
				Shares: map[models.Member]models.Money{"A": 150, "B": -50},
			},
			reason: ErrNegativeShare,
			member: "B",
		},
		{
			name: "shares on equal split",
			expense: models.Expense{
				Amount: 100, Payer: "A", SplitType: models.SplitEqual,
				Shares: map[models.Member]models.Money{"A": 100},
			},
			reason: ErrUnexpectedShares,
		},
		{
			name: "participants on custom split",
			expense: models.Expense{
				Amount: 30, Payer: "A", SplitType: models.SplitCustom,
				Participants: []models.Member{"A", "B"},
				Shares:       map[models.Member]models.Money{"A": 10, "B": 20},
			},
			reason: ErrUnexpectedParticipants,
		},
		{
			name: "equal split participant outside group",
			expense: models.Expense{
				Amount: 100, Payer: "A", SplitType: models.SplitEqual,
				Participants: []models.Member{"A", "Z"},
			},
			reason: ErrUnknownMember,
			member: "Z",
		},
		{
			name: "equal split participant listed twice",
			expense: models.Expense{
				Amount: 100, Payer: "A", SplitType: models.SplitEqual,
				Participants: []models.Member{"A", "B", "A"},
			},
			reason: ErrDuplicateMember,
			member: "A",
		},
		{
			name:    "unknown split type",
			expense: models.Expense{Amount: 100, Payer: "A", SplitType: "percent"},
			reason:  ErrUnknownSplitType,
		},
		{
			name:    "empty group division",
			group:   &models.Group{},
			expense: models.Expense{Amount: 100, Payer: "A", SplitType: models.SplitEqual},
			reason:  ErrEmptyGroupDivision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.group
			if g == nil {
				g = group
			}
			err := Validate(g, tt.expense)
			if tt.reason == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.reason)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.member, ve.Member)
			assert.Equal(t, tt.reason.Error(), ReasonOf(err))
		})
	}
}

func TestValidatePayment(t *testing.T) {
	group := &models.Group{Members: []models.Member{"A", "B"}}

	tests := []struct {
		name    string
		payment models.Payment
		reason  error
	}{
		{name: "valid", payment: models.Payment{From: "B", To: "A", Amount: 100}},
		{name: "zero amount", payment: models.Payment{From: "B", To: "A"}, reason: ErrNegativeOrZeroAmount},
		{name: "unknown sender", payment: models.Payment{From: "Z", To: "A", Amount: 1}, reason: ErrUnknownMember},
		{name: "unknown receiver", payment: models.Payment{From: "A", To: "Z", Amount: 1}, reason: ErrUnknownMember},
		{name: "self payment", payment: models.Payment{From: "A", To: "A", Amount: 1}, reason: ErrSelfPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayment(group, tt.payment)
			if tt.reason == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.reason)
		})
	}
}

func TestValidateNewMembers(t *testing.T) {
	group := &models.Group{Members: []models.Member{"A"}}

	assert.NoError(t, ValidateNewMembers(group, []models.Member{"B", "C"}))
	assert.ErrorIs(t, ValidateNewMembers(group, []models.Member{"A"}), ErrDuplicateMember)
	assert.ErrorIs(t, ValidateNewMembers(group, []models.Member{"B", "B"}), ErrDuplicateMember)
	assert.ErrorIs(t, ValidateNewMembers(group, []models.Member{""}), ErrInvalidMember)
	assert.ErrorIs(t, ValidateNewMembers(group, []models.Member{" B"}), ErrInvalidMember)
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr error
	}{
		{in: "1", want: 100},
		{in: "1.0", want: 100},
		{in: "1.23", want: 123},
		{in: "1,23", want: 123},
		{in: "0.01", want: 1},
		{in: " 2.50 ", want: 250},
		{in: "-4.20", want: -420},
		{in: "0", want: 0},
		{in: "1.005", wantErr: ErrSubMinorUnit},
		{in: "abc", wantErr: ErrInvalidMoney},
		{in: "1.2.3", wantErr: ErrInvalidMoney},
		{in: "", wantErr: ErrInvalidMoney},
		{in: "1000000000000000", wantErr: ErrMoneyOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "33.34", Money(3334).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-30.00", Money(-3000).String())
	assert.True(t, Money(1234).Decimal().Equal(decimal.RequireFromString("12.34")))
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{Amount: 9000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"90.00"}`, string(data))

	var fromString, fromNumber Money
	require.NoError(t, json.Unmarshal([]byte(`"12.5"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`12.5`), &fromNumber))
	assert.Equal(t, Money(1250), fromString)
	assert.Equal(t, Money(1250), fromNumber)

	var bad Money
	assert.ErrorIs(t, json.Unmarshal([]byte(`"0.001"`), &bad), ErrSubMinorUnit)
}

func TestMoneyIsSettled(t *testing.T) {
	assert.True(t, Money(0).IsSettled())
	assert.False(t, Money(1).IsSettled())
	assert.False(t, Money(-1).IsSettled())
}

func TestGroupClone(t *testing.T) {
	g := Group{
		Members: []Member{"A", "B"},
		Expenses: []Expense{{
			Amount:    100,
			Payer:     "A",
			SplitType: SplitCustom,
			Shares:    map[Member]Money{"A": 50, "B": 50},
		}},
	}

	c := g.Clone()
	c.Members[0] = "Z"
	c.Expenses[0].Shares["A"] = 1

	assert.Equal(t, Member("A"), g.Members[0])
	assert.Equal(t, Money(50), g.Expenses[0].Shares["A"])
}

func TestNewMember(t *testing.T) {
	m, err := NewMember("  Alice ")
	require.NoError(t, err)
	assert.Equal(t, Member("Alice"), m)

	_, err = NewMember("   ")
	assert.ErrorIs(t, err, ErrEmptyMember)
}

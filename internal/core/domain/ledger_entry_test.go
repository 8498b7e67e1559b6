package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestRecomputeNet(t *testing.T) {
	e := LedgerEntry{Amount: d("1000"), PlatformFee: d("100")}
	e.RecomputeNet()
	assert.True(t, e.NetAmount.Equal(d("900")))

	// Withdrawals carry a negative gross and no fee.
	w := LedgerEntry{Amount: d("-250"), PlatformFee: decimal.Zero}
	w.RecomputeNet()
	assert.True(t, w.NetAmount.Equal(d("-250")))
}

func TestEntryStatusTransitions(t *testing.T) {
	cases := []struct {
		from    EntryStatus
		to      EntryStatus
		allowed bool
	}{
		{EntryPending, EntryProcessing, true},
		{EntryPending, EntryCompleted, true},
		{EntryPending, EntryFailed, true},
		{EntryPending, EntryCancelled, true},
		{EntryProcessing, EntryCompleted, true},
		{EntryProcessing, EntryFailed, true},
		{EntryProcessing, EntryPending, false},
		{EntryCompleted, EntryPending, false},
		{EntryCompleted, EntryFailed, false},
		{EntryCompleted, EntryUnderReview, true},
		{EntryCompleted, EntryVerified, true},
		{EntryUnderReview, EntryVerified, true},
		{EntryUnderReview, EntryCompleted, true},
		{EntryFailed, EntryPending, false},
		{EntryCancelled, EntryProcessing, false},
		{EntryVerified, EntryUnderReview, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestBalanceFromEntries(t *testing.T) {
	userID := "freelancer-1"
	entries := []LedgerEntry{
		// Two completed payments in.
		{Type: EntryMilestonePayment, ToUserID: userID, Status: EntryCompleted, Amount: d("1000"), PlatformFee: d("100"), NetAmount: d("900")},
		{Type: EntryBonus, ToUserID: userID, Status: EntryCompleted, Amount: d("50"), NetAmount: d("50")},
		// A pending payment contributes nothing yet.
		{Type: EntryMilestonePayment, ToUserID: userID, Status: EntryPending, Amount: d("500"), NetAmount: d("450")},
		// A completed withdrawal is subtracted by magnitude.
		{Type: EntryWithdrawal, FromUserID: userID, ToUserID: userID, Status: EntryCompleted, Amount: d("-300"), NetAmount: d("-300")},
		// A failed withdrawal never left, so it costs nothing.
		{Type: EntryWithdrawal, FromUserID: userID, ToUserID: userID, Status: EntryFailed, Amount: d("-400"), NetAmount: d("-400")},
		// Money this user paid out to someone else.
		{Type: EntryMilestonePayment, FromUserID: userID, ToUserID: "other", Status: EntryCompleted, Amount: d("200"), NetAmount: d("180")},
	}

	balance := BalanceFromEntries(userID, entries)
	require.True(t, balance.Equal(d("650")), "900 + 50 - 300, got %s", balance)
}

func TestBalanceFromEntriesEmpty(t *testing.T) {
	assert.True(t, BalanceFromEntries("nobody", nil).IsZero())
}

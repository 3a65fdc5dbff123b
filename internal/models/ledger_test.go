package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }

func TestBankTransactionAmount(t *testing.T) {
	income := BankTransaction{Income: int64Ptr(5_000_000)}
	assert.Equal(t, int64(5_000_000), income.Amount())

	outlay := BankTransaction{Outlay: int64Ptr(3_000_000)}
	assert.Equal(t, int64(3_000_000), outlay.Amount())

	empty := BankTransaction{}
	assert.Equal(t, int64(0), empty.Amount())
}

func TestBankTransactionChildrenBalanced(t *testing.T) {
	parent := BankTransaction{
		Income: int64Ptr(10_000_000),
		Children: []BankTransaction{
			{Income: int64Ptr(6_000_000)},
			{Income: int64Ptr(4_000_000)},
		},
	}
	assert.True(t, parent.ChildrenBalanced())

	parent.Children[1].Income = int64Ptr(3_000_000)
	assert.False(t, parent.ChildrenBalanced())

	// A transaction without splits is trivially balanced
	assert.True(t, (&BankTransaction{Income: int64Ptr(1)}).ChildrenBalanced())
}

func TestBankTransactionEntriesBalanced(t *testing.T) {
	txn := BankTransaction{
		Income: int64Ptr(10_000_000),
		Entries: []AccountingEntry{
			{Amount: 7_000_000},
			{Amount: 3_000_000},
		},
	}
	assert.True(t, txn.EntriesBalanced())

	txn.Entries = txn.Entries[:1]
	assert.False(t, txn.EntriesBalanced())
}

func TestProjectCashBookBalancedResponse(t *testing.T) {
	row := ProjectCashBook{
		ID:        1,
		ProjectID: 10,
		Account:   Account{Code: "1101", Name: "Payment"},
		Income:    int64Ptr(10_000_000),
		DealDate:  time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Children: []ProjectCashBook{
			{Income: int64Ptr(4_000_000)},
			{Income: int64Ptr(6_000_000)},
		},
	}
	resp := row.ToResponse()
	assert.True(t, resp.Balanced)
	assert.Equal(t, "1101", resp.AccountCode)

	row.Children[0].Income = int64Ptr(5_000_000)
	assert.False(t, row.ToResponse().Balanced)
}

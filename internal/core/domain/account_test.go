package domain_test

import (
	"testing"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountType_NormalBalance(t *testing.T) {
	tests := []struct {
		accountType domain.AccountType
		want        domain.BalanceSide
	}{
		{domain.Asset, domain.DebitSide},
		{domain.Expense, domain.DebitSide},
		{domain.CostOfSales, domain.DebitSide},
		{domain.Liability, domain.CreditSide},
		{domain.Equity, domain.CreditSide},
		{domain.Revenue, domain.CreditSide},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.accountType.NormalBalance())
		})
	}
}

func TestAccountType_Classification(t *testing.T) {
	assert.True(t, domain.Revenue.IsIncomeStatement())
	assert.True(t, domain.Expense.IsIncomeStatement())
	assert.True(t, domain.CostOfSales.IsIncomeStatement())
	assert.False(t, domain.Asset.IsIncomeStatement())

	assert.True(t, domain.Expense.IsExpenseClass())
	assert.True(t, domain.CostOfSales.IsExpenseClass())
	assert.False(t, domain.Revenue.IsExpenseClass())

	assert.True(t, domain.Asset.IsBalanceSheet())
	assert.True(t, domain.Liability.IsBalanceSheet())
	assert.True(t, domain.Equity.IsBalanceSheet())
	assert.False(t, domain.Revenue.IsBalanceSheet())
}

func TestBuildAccountTree(t *testing.T) {
	rootID := "acc-root"
	childID := "acc-child"
	accounts := []domain.Account{
		{AccountID: rootID, Code: "1000"},
		{AccountID: childID, Code: "1100", ParentAccountID: &rootID},
		{AccountID: "acc-grandchild", Code: "1110", ParentAccountID: &childID},
		{AccountID: "acc-other-root", Code: "2000"},
	}

	roots := domain.BuildAccountTree(accounts)
	require.Len(t, roots, 2)

	assert.Equal(t, "1000", roots[0].Code)
	assert.Equal(t, "2000", roots[1].Code)

	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "1100", roots[0].Children[0].Code)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "1110", roots[0].Children[0].Children[0].Code)
}

func TestBuildAccountTree_OrphanBecomesRoot(t *testing.T) {
	missingParent := "acc-missing"
	accounts := []domain.Account{
		{AccountID: "acc-orphan", Code: "3000", ParentAccountID: &missingParent},
	}

	roots := domain.BuildAccountTree(accounts)
	require.Len(t, roots, 1)
	assert.Equal(t, "3000", roots[0].Code)
	assert.Empty(t, roots[0].Children)
}

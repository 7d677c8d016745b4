package accounting

import (
	"testing"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedBalanceChange(t *testing.T) {
	tests := []struct {
		name        string
		line        domain.EntryLine
		accountType domain.AccountType
		want        string
	}{
		{
			name:        "debit increases debit-normal asset",
			line:        domain.EntryLine{Debit: decimal.NewFromInt(100), ExchangeRate: decimal.NewFromInt(1)},
			accountType: domain.Asset,
			want:        "100",
		},
		{
			name:        "credit decreases debit-normal asset",
			line:        domain.EntryLine{Credit: decimal.NewFromInt(100), ExchangeRate: decimal.NewFromInt(1)},
			accountType: domain.Asset,
			want:        "-100",
		},
		{
			name:        "credit increases credit-normal revenue",
			line:        domain.EntryLine{Credit: decimal.NewFromInt(250), ExchangeRate: decimal.NewFromInt(1)},
			accountType: domain.Revenue,
			want:        "250",
		},
		{
			name:        "debit decreases credit-normal liability",
			line:        domain.EntryLine{Debit: decimal.NewFromInt(40), ExchangeRate: decimal.NewFromInt(1)},
			accountType: domain.Liability,
			want:        "-40",
		},
		{
			name:        "debit increases debit-normal cost of sales",
			line:        domain.EntryLine{Debit: decimal.NewFromInt(75), ExchangeRate: decimal.NewFromInt(1)},
			accountType: domain.CostOfSales,
			want:        "75",
		},
		{
			name:        "exchange rate converts to base currency",
			line:        domain.EntryLine{Debit: decimal.NewFromInt(1000), ExchangeRate: decimal.NewFromFloat(4.35)},
			accountType: domain.Expense,
			want:        "4350",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SignedBalanceChange(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSignedBalanceChangeUnknownType(t *testing.T) {
	line := domain.EntryLine{AccountID: "acc-1", Debit: decimal.NewFromInt(10), ExchangeRate: decimal.NewFromInt(1)}
	_, err := SignedBalanceChange(line, domain.AccountType("BOGUS"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "acc-1")
}

func TestIsBalanced(t *testing.T) {
	tests := []struct {
		name    string
		debits  string
		credits string
		want    bool
	}{
		{"exactly equal", "100", "100", true},
		{"difference within tolerance", "100.005", "100", true},
		{"difference at tolerance boundary", "100.01", "100", true},
		{"difference beyond tolerance", "100.011", "100", false},
		{"credits exceed debits", "100", "100.02", false},
		{"both zero", "0", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsBalanced(decimal.RequireFromString(tt.debits), decimal.RequireFromString(tt.credits))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClosingLine(t *testing.T) {
	tests := []struct {
		name       string
		acctType   domain.AccountType
		balance    string
		wantDebit  string
		wantCredit string
	}{
		{
			name:       "revenue with credit balance is reversed with a debit",
			acctType:   domain.Revenue,
			balance:    "100000",
			wantDebit:  "100000",
			wantCredit: "0",
		},
		{
			name:       "expense with debit balance is reversed with a credit",
			acctType:   domain.Expense,
			balance:    "75000",
			wantDebit:  "0",
			wantCredit: "75000",
		},
		{
			name:       "revenue sitting on its abnormal side flips direction",
			acctType:   domain.Revenue,
			balance:    "-500",
			wantDebit:  "0",
			wantCredit: "500",
		},
		{
			name:       "expense sitting on its abnormal side flips direction",
			acctType:   domain.Expense,
			balance:    "-250",
			wantDebit:  "250",
			wantCredit: "0",
		},
		{
			name:       "cost of sales behaves like an expense",
			acctType:   domain.CostOfSales,
			balance:    "1200",
			wantDebit:  "0",
			wantCredit: "1200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := domain.Account{AccountType: tt.acctType}
			debit, credit := ClosingLine(account, decimal.RequireFromString(tt.balance))
			assert.True(t, debit.Equal(decimal.RequireFromString(tt.wantDebit)), "debit: got %s, want %s", debit, tt.wantDebit)
			assert.True(t, credit.Equal(decimal.RequireFromString(tt.wantCredit)), "credit: got %s, want %s", credit, tt.wantCredit)
		})
	}
}

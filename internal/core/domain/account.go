package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset       AccountType = "ASSET"
	Liability   AccountType = "LIABILITY"
	Equity      AccountType = "EQUITY"
	Revenue     AccountType = "REVENUE"
	Expense     AccountType = "EXPENSE"
	CostOfSales AccountType = "COST_OF_SALES"
)

// BalanceSide indicates which side an account balance is conventionally expressed on.
type BalanceSide string

const (
	DebitSide  BalanceSide = "DEBIT"
	CreditSide BalanceSide = "CREDIT"
)

// NormalBalance returns the side on which accounts of this type carry their balance.
func (t AccountType) NormalBalance() BalanceSide {
	switch t {
	case Asset, Expense, CostOfSales:
		return DebitSide
	default:
		return CreditSide
	}
}

// IsExpenseClass reports whether the type contributes to expenses at year end.
func (t AccountType) IsExpenseClass() bool {
	return t == Expense || t == CostOfSales
}

// IsIncomeStatement reports whether the type is swept into equity by the closing entry.
func (t AccountType) IsIncomeStatement() bool {
	return t == Revenue || t.IsExpenseClass()
}

// IsBalanceSheet reports whether the type carries its balance across fiscal years.
func (t AccountType) IsBalanceSheet() bool {
	return t == Asset || t == Liability || t == Equity
}

// Account represents a financial account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID         string          `json:"accountID"`         // Primary Key (e.g., UUID)
	OrganizationID    string          `json:"organizationID"`    // FK -> organizations (NON-NULL)
	Code              string          `json:"code"`              // Chart-of-accounts code, unique per organization
	Name              string          `json:"name"`              // User-defined name
	AccountType       AccountType     `json:"accountType"`       // ASSET, LIABILITY, etc.
	CurrencyCode      string          `json:"currencyCode"`      // Currency the account is kept in
	ParentAccountID   *string         `json:"parentAccountID"`   // Nullable self-reference for the account tree
	Description       string          `json:"description"`       // Nullable user description
	IsActive          bool            `json:"isActive"`          // Soft delete or status flag
	AllowPosting      bool            `json:"allowPosting"`      // False for summary/header accounts
	RequireCostCenter bool            `json:"requireCostCenter"` // Lines must carry a cost center
	Balance           decimal.Decimal `json:"balance"`           // Persisted balance, signed on the normal side
	AuditFields
}

// NormalBalance returns the side this account's balance is expressed on.
func (a *Account) NormalBalance() BalanceSide {
	return a.AccountType.NormalBalance()
}

// AccountNode is an account with its resolved children, used for tree views.
type AccountNode struct {
	Account
	Children []*AccountNode `json:"children,omitempty"`
}

// BuildAccountTree arranges a flat account list into a forest keyed by parent
// references. Accounts whose parent is absent from the list become roots. The
// input order is preserved within each sibling group.
func BuildAccountTree(accounts []Account) []*AccountNode {
	nodes := make(map[string]*AccountNode, len(accounts))
	order := make([]*AccountNode, 0, len(accounts))
	for i := range accounts {
		n := &AccountNode{Account: accounts[i]}
		nodes[accounts[i].AccountID] = n
		order = append(order, n)
	}

	roots := make([]*AccountNode, 0)
	for _, n := range order {
		if n.ParentAccountID != nil {
			if parent, ok := nodes[*n.ParentAccountID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

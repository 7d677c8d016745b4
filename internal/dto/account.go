package dto

import (
	"time"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	Code              string             `json:"code" binding:"required"`
	Name              string             `json:"name" binding:"required"`
	AccountType       domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE COST_OF_SALES"`
	CurrencyCode      string             `json:"currencyCode" binding:"required,len=3"`
	ParentAccountID   *string            `json:"parentAccountID"`
	Description       string             `json:"description"`
	AllowPosting      bool               `json:"allowPosting"`
	RequireCostCenter bool               `json:"requireCostCenter"`
}

// UpdateAccountRequest defines the payload for updating account details.
// Nil fields are left unchanged.
type UpdateAccountRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	AllowPosting      *bool   `json:"allowPosting"`
	RequireCostCenter *bool   `json:"requireCostCenter"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID         string             `json:"accountID"`
	Code              string             `json:"code"`
	Name              string             `json:"name"`
	AccountType       domain.AccountType `json:"accountType"`
	NormalBalance     domain.BalanceSide `json:"normalBalance"`
	CurrencyCode      string             `json:"currencyCode"`
	ParentAccountID   *string            `json:"parentAccountID,omitempty"`
	Description       string             `json:"description,omitempty"`
	IsActive          bool               `json:"isActive"`
	AllowPosting      bool               `json:"allowPosting"`
	RequireCostCenter bool               `json:"requireCostCenter"`
	Balance           decimal.Decimal    `json:"balance"`
	CreatedAt         time.Time          `json:"createdAt"`
}

// AccountTreeNodeResponse is an account with its resolved children.
type AccountTreeNodeResponse struct {
	AccountResponse
	Children []AccountTreeNodeResponse `json:"children,omitempty"`
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to its DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:         a.AccountID,
		Code:              a.Code,
		Name:              a.Name,
		AccountType:       a.AccountType,
		NormalBalance:     a.NormalBalance(),
		CurrencyCode:      a.CurrencyCode,
		ParentAccountID:   a.ParentAccountID,
		Description:       a.Description,
		IsActive:          a.IsActive,
		AllowPosting:      a.AllowPosting,
		RequireCostCenter: a.RequireCostCenter,
		Balance:           a.Balance,
		CreatedAt:         a.CreatedAt,
	}
}

// ToAccountTreeResponse converts an account forest to its DTO form.
func ToAccountTreeResponse(nodes []*domain.AccountNode) []AccountTreeNodeResponse {
	out := make([]AccountTreeNodeResponse, len(nodes))
	for i, n := range nodes {
		out[i] = AccountTreeNodeResponse{
			AccountResponse: ToAccountResponse(&n.Account),
			Children:        ToAccountTreeResponse(n.Children),
		}
	}
	return out
}

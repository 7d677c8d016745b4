package domain

import "github.com/shopspring/decimal"

// OpeningBalance carries a balance-sheet account's closing balance forward
// into the first period of the next fiscal year. The amount is signed on the
// account's normal-balance side. Income-statement accounts never get one;
// the closing entry zeroes them.
type OpeningBalance struct {
	OpeningBalanceID string          `json:"openingBalanceID"`
	OrganizationID   string          `json:"organizationID"`
	FiscalYearID     string          `json:"fiscalYearID"` // The year the balance opens
	AccountID        string          `json:"accountID"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode"`
	AuditFields
}

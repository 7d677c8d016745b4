package dto

import (
	"time"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateFiscalYearRequest defines the payload for creating a fiscal year.
// Monthly periods are generated separately.
type CreateFiscalYearRequest struct {
	Name                      string    `json:"name" binding:"required"`
	StartDate                 time.Time `json:"startDate" binding:"required"`
	EndDate                   time.Time `json:"endDate" binding:"required"`
	RetainedEarningsAccountID string    `json:"retainedEarningsAccountID" binding:"required"`
	GeneratePeriods           bool      `json:"generatePeriods"`
}

// CloseFiscalYearRequest defines the payload for the year-end close.
type CloseFiscalYearRequest struct {
	ClosingDate             time.Time `json:"closingDate" binding:"required"`
	GenerateOpeningBalances bool      `json:"generateOpeningBalances"`
}

// FiscalYearResponse defines the data returned for a fiscal year.
type FiscalYearResponse struct {
	FiscalYearID              string              `json:"fiscalYearID"`
	Name                      string              `json:"name"`
	StartDate                 time.Time           `json:"startDate"`
	EndDate                   time.Time           `json:"endDate"`
	Status                    domain.PeriodStatus `json:"status"`
	RetainedEarningsAccountID string              `json:"retainedEarningsAccountID"`
	ClosingEntryID            *string             `json:"closingEntryID,omitempty"`
}

// ListFiscalYearsResponse wraps an organization's fiscal years.
type ListFiscalYearsResponse struct {
	FiscalYears []FiscalYearResponse `json:"fiscalYears"`
}

// CloseFiscalYearResponse summarizes a completed year-end close.
type CloseFiscalYearResponse struct {
	FiscalYearID           string          `json:"fiscalYearID"`
	ClosingEntryID         string          `json:"closingEntryID"`
	TotalRevenue           decimal.Decimal `json:"totalRevenue"`
	TotalExpenses          decimal.Decimal `json:"totalExpenses"`
	NetIncome              decimal.Decimal `json:"netIncome"`
	AccountsClosed         int             `json:"accountsClosed"`
	PeriodsClosed          int             `json:"periodsClosed"`
	OpeningBalancesCreated int             `json:"openingBalancesCreated"`
}

// ToFiscalYearResponse converts a domain.FiscalYear to its DTO.
func ToFiscalYearResponse(y *domain.FiscalYear) FiscalYearResponse {
	return FiscalYearResponse{
		FiscalYearID:              y.FiscalYearID,
		Name:                      y.Name,
		StartDate:                 y.StartDate,
		EndDate:                   y.EndDate,
		Status:                    y.Status,
		RetainedEarningsAccountID: y.RetainedEarningsAccountID,
		ClosingEntryID:            y.ClosingEntryID,
	}
}

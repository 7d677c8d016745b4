package dto

import (
	"time"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
)

// GeneratePeriodsRequest selects how the monthly boundaries are drawn. The
// default snaps every period to its calendar month; custom boundaries anchor
// each period to the fiscal year's start day instead.
type GeneratePeriodsRequest struct {
	CustomBoundaries bool `json:"customBoundaries"`
}

// ChangePeriodStatusRequest defines the payload for a period status transition.
type ChangePeriodStatusRequest struct {
	Status   domain.PeriodStatus `json:"status" binding:"required,oneof=OPEN SOFT_CLOSED CLOSED"`
	Override bool                `json:"override"` // Close despite unposted entries; recorded in the audit log
}

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID     string              `json:"periodID"`
	FiscalYearID string              `json:"fiscalYearID"`
	Number       int                 `json:"number"`
	Name         string              `json:"name"`
	StartDate    time.Time           `json:"startDate"`
	EndDate      time.Time           `json:"endDate"`
	Status       domain.PeriodStatus `json:"status"`
	PeriodType   domain.PeriodType   `json:"periodType"`
}

// ListPeriodsResponse wraps the periods of a fiscal year.
type ListPeriodsResponse struct {
	Periods []PeriodResponse `json:"periods"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to its DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:     p.PeriodID,
		FiscalYearID: p.FiscalYearID,
		Number:       p.Number,
		Name:         p.Name,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Status:       p.Status,
		PeriodType:   p.PeriodType,
	}
}

// ToPeriodResponses converts a slice of periods to DTOs.
func ToPeriodResponses(periods []domain.AccountingPeriod) []PeriodResponse {
	out := make([]PeriodResponse, len(periods))
	for i := range periods {
		out[i] = ToPeriodResponse(&periods[i])
	}
	return out
}

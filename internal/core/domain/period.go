package domain

import (
	"time"
)

// PeriodStatus indicates whether a period (or fiscal year) admits postings.
type PeriodStatus string

const (
	StatusOpen       PeriodStatus = "OPEN"
	StatusSoftClosed PeriodStatus = "SOFT_CLOSED"
	StatusClosed     PeriodStatus = "CLOSED"
)

// CanTransitionTo reports whether the status change is legal. A fully closed
// period can only be reopened one step, back to SOFT_CLOSED.
func (s PeriodStatus) CanTransitionTo(target PeriodStatus) bool {
	switch s {
	case StatusOpen:
		return target == StatusSoftClosed || target == StatusClosed
	case StatusSoftClosed:
		return target == StatusOpen || target == StatusClosed
	case StatusClosed:
		return target == StatusSoftClosed
	}
	return false
}

// PeriodType distinguishes the regular monthly sequence from special periods.
type PeriodType string

const (
	PeriodRegular   PeriodType = "REGULAR"
	PeriodAdjusting PeriodType = "ADJUSTING"
	PeriodOpening   PeriodType = "OPENING"
)

// AdjustingPeriodNumber is reserved for the single year-end adjusting period.
const AdjustingPeriodNumber = 13

// AccountingPeriod is one posting window within a fiscal year. Regular
// periods are numbered 1-12, contiguous and non-overlapping; the adjusting
// period sits outside the regular sequence.
type AccountingPeriod struct {
	PeriodID       string       `json:"periodID"`       // Primary Key (e.g., UUID)
	OrganizationID string       `json:"organizationID"` // FK -> organizations (Not Null)
	FiscalYearID   string       `json:"fiscalYearID"`   // FK -> fiscal_years (Not Null)
	Number         int          `json:"number"`         // 1-12 regular, 13 adjusting
	Name           string       `json:"name"`           // e.g., "2026-03"
	StartDate      time.Time    `json:"startDate"`
	EndDate        time.Time    `json:"endDate"`
	Status         PeriodStatus `json:"status"`
	PeriodType     PeriodType   `json:"periodType"`
	AuditFields
}

// Covers reports whether the date falls within the period (inclusive bounds).
func (p *AccountingPeriod) Covers(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}

// FiscalYear aggregates the periods of one accounting year. Its status
// mirrors the aggregate of its periods and flips to CLOSED only through the
// year-end close, which also records the generated closing entry.
type FiscalYear struct {
	FiscalYearID              string       `json:"fiscalYearID"`   // Primary Key (e.g., UUID)
	OrganizationID            string       `json:"organizationID"` // FK -> organizations (Not Null)
	Name                      string       `json:"name"`           // e.g., "FY2026"
	StartDate                 time.Time    `json:"startDate"`
	EndDate                   time.Time    `json:"endDate"` // Must be after StartDate
	Status                    PeriodStatus `json:"status"`
	RetainedEarningsAccountID string       `json:"retainedEarningsAccountID"` // Equity account receiving net income
	ClosingEntryID            *string      `json:"closingEntryID"`            // Set once closed
	AuditFields
}

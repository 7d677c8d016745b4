package dto

import (
	"time"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryLineRequest defines one line of a proposed entry. Exactly one of
// debit/credit must be non-zero; the validator reports violations.
type CreateEntryLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	CostCenterID *string         `json:"costCenterID"`
	Notes        string          `json:"notes"`
}

// CreateEntryRequest defines the payload for capturing a journal entry.
type CreateEntryRequest struct {
	Date        time.Time                `json:"date" binding:"required"`
	EntryType   domain.EntryType         `json:"entryType" binding:"omitempty,oneof=STANDARD ADJUSTING"`
	Description string                   `json:"description" binding:"required"`
	Submit      bool                     `json:"submit"` // false keeps the entry DRAFT, true makes it PENDING
	Lines       []CreateEntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateEntryRequest defines the payload for editing a DRAFT entry.
// Nil fields are left unchanged.
type UpdateEntryRequest struct {
	Date        *time.Time                `json:"date"`
	Description *string                   `json:"description"`
	Lines       *[]CreateEntryLineRequest `json:"lines"`
}

// ListEntriesParams holds query parameters for listing entries.
type ListEntriesParams struct {
	Limit        int     `form:"limit"`
	NextToken    *string `form:"nextToken"`
	IncludeLines bool    `form:"includeLines"`
}

// EntryLineResponse defines the data returned for an entry line.
type EntryLineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	CostCenterID *string         `json:"costCenterID,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID        string              `json:"entryID"`
	Date           time.Time           `json:"date"`
	EntryType      domain.EntryType    `json:"entryType"`
	Status         domain.EntryStatus  `json:"status"`
	Description    string              `json:"description"`
	PeriodID       *string             `json:"periodID,omitempty"`
	IsClosingEntry bool                `json:"isClosingEntry,omitempty"`
	Lines          []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	CreatedBy      string              `json:"createdBy"`
}

// ListEntriesResponse wraps a page of entries with the continuation token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain.EntryLine to its DTO.
func ToEntryLineResponse(l *domain.EntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:       l.LineID,
		AccountID:    l.AccountID,
		Debit:        l.Debit,
		Credit:       l.Credit,
		CurrencyCode: l.CurrencyCode,
		ExchangeRate: l.ExchangeRate,
		CostCenterID: l.CostCenterID,
		Notes:        l.Notes,
	}
}

// ToEntryResponse converts a domain.JournalEntry to its DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:        e.EntryID,
		Date:           e.EntryDate,
		EntryType:      e.EntryType,
		Status:         e.Status,
		Description:    e.Description,
		PeriodID:       e.PeriodID,
		IsClosingEntry: e.IsClosingEntry,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToEntryLineResponse(&e.Lines[i])
		}
	}
	return resp
}

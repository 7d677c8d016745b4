package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType tags the business nature of a journal entry.
type EntryType string

const (
	Standard  EntryType = "STANDARD"
	Adjusting EntryType = "ADJUSTING"
	Closing   EntryType = "CLOSING"
	Opening   EntryType = "OPENING"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft   EntryStatus = "DRAFT"
	Pending EntryStatus = "PENDING"
	Posted  EntryStatus = "POSTED"
)

// IsFinal reports whether the status admits no further edits.
func (s EntryStatus) IsFinal() bool {
	return s == Posted
}

// EntryLine is a single line of a journal entry, affecting one account.
// Exactly one of Debit/Credit is non-zero on a valid line. Amounts are in the
// line's currency; base amounts derive from the exchange rate.
type EntryLine struct {
	LineID       string          `json:"lineID"`    // Primary Key (e.g., UUID)
	EntryID      string          `json:"entryID"`   // FK -> JournalEntry (Not Null)
	AccountID    string          `json:"accountID"` // FK -> Account (Not Null)
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"` // Rate to the organization's base currency
	CostCenterID *string         `json:"costCenterID"` // Nullable cost center reference
	Notes        string          `json:"notes"`        // Nullable
	AuditFields
}

// BaseDebit returns the debit amount converted to the base currency.
func (l *EntryLine) BaseDebit() decimal.Decimal {
	return l.Debit.Mul(l.ExchangeRate)
}

// BaseCredit returns the credit amount converted to the base currency.
func (l *EntryLine) BaseCredit() decimal.Decimal {
	return l.Credit.Mul(l.ExchangeRate)
}

// JournalEntry represents a single financial event composed of multiple lines.
// Once POSTED an entry is immutable apart from the closing-entry flag.
type JournalEntry struct {
	EntryID        string      `json:"entryID"`        // Primary Key (e.g., UUID)
	OrganizationID string      `json:"organizationID"` // FK -> organizations (Not Null)
	EntryDate      time.Time   `json:"entryDate"`      // Date the event occurred
	EntryType      EntryType   `json:"entryType"`      // STANDARD, ADJUSTING, CLOSING, OPENING
	Status         EntryStatus `json:"status"`
	Description    string      `json:"description"`
	PeriodID       *string     `json:"periodID"`       // Resolved accounting period, set on post
	IsClosingEntry bool        `json:"isClosingEntry"` // Set by the year-end close
	Lines          []EntryLine `json:"lines,omitempty"`
	AuditFields
}

// TotalBaseDebits sums the base-currency debit side of all lines.
func (e *JournalEntry) TotalBaseDebits() decimal.Decimal {
	total := decimal.Zero
	for i := range e.Lines {
		total = total.Add(e.Lines[i].BaseDebit())
	}
	return total
}

// TotalBaseCredits sums the base-currency credit side of all lines.
func (e *JournalEntry) TotalBaseCredits() decimal.Decimal {
	total := decimal.Zero
	for i := range e.Lines {
		total = total.Add(e.Lines[i].BaseCredit())
	}
	return total
}

package domain

// Organization is the tenancy scope for all ledger data. Every account,
// period, fiscal year and rule belongs to exactly one organization, and all
// balance checks resolve to its base currency.
type Organization struct {
	OrganizationID   string `json:"organizationID"`   // Primary Key (e.g., UUID)
	Name             string `json:"name"`             // Display name
	BaseCurrencyCode string `json:"baseCurrencyCode"` // Reporting currency (e.g., "USD")
	IsActive         bool   `json:"isActive"`
	AuditFields
}

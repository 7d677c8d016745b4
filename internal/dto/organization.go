package dto

import (
	"time"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
)

// CreateOrganizationRequest defines the payload for creating an organization.
type CreateOrganizationRequest struct {
	Name             string `json:"name" binding:"required"`
	BaseCurrencyCode string `json:"baseCurrencyCode" binding:"required,len=3"`
}

// OrganizationResponse defines the data returned for an organization.
type OrganizationResponse struct {
	OrganizationID   string    `json:"organizationID"`
	Name             string    `json:"name"`
	BaseCurrencyCode string    `json:"baseCurrencyCode"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ToOrganizationResponse converts a domain.Organization to its DTO.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID:   o.OrganizationID,
		Name:             o.Name,
		BaseCurrencyCode: o.BaseCurrencyCode,
		IsActive:         o.IsActive,
		CreatedAt:        o.CreatedAt,
	}
}

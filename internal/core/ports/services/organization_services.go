package services

import (
	"context"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/jash90/ledger_posting_app/internal/dto"
)

// OrganizationSvcFacade defines operations for managing organizations.
type OrganizationSvcFacade interface {
	// CreateOrganization creates a new organization with its base currency.
	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error)

	// GetOrganizationByID retrieves a specific organization.
	GetOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
}

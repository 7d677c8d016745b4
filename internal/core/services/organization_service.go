package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	portsrepo "github.com/jash90/ledger_posting_app/internal/core/ports/repositories"
	portssvc "github.com/jash90/ledger_posting_app/internal/core/ports/services"
	"github.com/jash90/ledger_posting_app/internal/dto"
	"github.com/jash90/ledger_posting_app/internal/middleware"
)

// organizationService provides organization management.
type organizationService struct {
	orgRepo portsrepo.OrganizationRepositoryFacade
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade) portssvc.OrganizationSvcFacade {
	return &organizationService{orgRepo: orgRepo}
}

// Ensure organizationService implements the portssvc.OrganizationSvcFacade interface
var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

// CreateOrganization creates a new organization. The base currency is fixed
// for the organization's lifetime; every balance check runs against it.
func (s *organizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	org := domain.Organization{
		OrganizationID:   uuid.NewString(),
		Name:             req.Name,
		BaseCurrencyCode: strings.ToUpper(req.BaseCurrencyCode),
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		logger.Error("Failed to save organization", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save organization: %w", err)
	}

	logger.Info("Organization created", slog.String("organization_id", org.OrganizationID), slog.String("base_currency", org.BaseCurrencyCode))
	return &org, nil
}

// GetOrganizationByID retrieves a specific organization.
func (s *organizationService) GetOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organization %s: %w", organizationID, err)
	}
	return org, nil
}

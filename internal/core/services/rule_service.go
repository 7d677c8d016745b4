package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jash90/ledger_posting_app/internal/apperrors"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	portsrepo "github.com/jash90/ledger_posting_app/internal/core/ports/repositories"
	portssvc "github.com/jash90/ledger_posting_app/internal/core/ports/services"
	"github.com/jash90/ledger_posting_app/internal/dto"
	"github.com/jash90/ledger_posting_app/internal/middleware"
)

// ruleService provides validation rule configuration.
type ruleService struct {
	ruleRepo  portsrepo.RuleRepositoryFacade
	auditRepo portsrepo.AuditRecorder
}

// NewRuleService creates a new RuleService.
func NewRuleService(ruleRepo portsrepo.RuleRepositoryFacade, auditRepo portsrepo.AuditRecorder) portssvc.RuleSvcFacade {
	return &ruleService{ruleRepo: ruleRepo, auditRepo: auditRepo}
}

// Ensure ruleService implements the portssvc.RuleSvcFacade interface
var _ portssvc.RuleSvcFacade = (*ruleService)(nil)

// CreateRule creates a new validation rule. The kind must be one the
// validator knows how to evaluate; anything else is a configuration error,
// rejected here so it can never reach a validation run.
func (s *ruleService) CreateRule(ctx context.Context, organizationID string, req dto.CreateRuleRequest, creatorUserID string) (*domain.ValidationRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.SupportedRuleKind(req.Kind) {
		return nil, fmt.Errorf("%w: unsupported rule kind %q", apperrors.ErrConfiguration, req.Kind)
	}
	switch req.Kind {
	case domain.KindRequiresAccountType:
		if req.Params.AccountType == "" {
			return nil, fmt.Errorf("%w: rule kind %s requires an account type parameter", apperrors.ErrConfiguration, req.Kind)
		}
	case domain.KindMaxLineAmount:
		if !req.Params.MaxAmount.IsPositive() {
			return nil, fmt.Errorf("%w: rule kind %s requires a positive max amount", apperrors.ErrConfiguration, req.Kind)
		}
	}

	now := time.Now().UTC()
	rule := domain.ValidationRule{
		RuleID:         uuid.NewString(),
		OrganizationID: organizationID,
		Code:           req.Code,
		Name:           req.Name,
		Category:       req.Category,
		Severity:       req.Severity,
		Kind:           req.Kind,
		Params: domain.RuleParams{
			AccountType: req.Params.AccountType,
			MaxAmount:   req.Params.MaxAmount,
		},
		AppliesTo: req.AppliesTo,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		logger.Error("Failed to save rule", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}

	logger.Info("Rule created", slog.String("rule_id", rule.RuleID), slog.String("code", rule.Code), slog.String("kind", string(rule.Kind)))
	return &rule, nil
}

// ToggleRule activates or deactivates a rule. The change is audited.
func (s *ruleService) ToggleRule(ctx context.Context, organizationID string, ruleID string, active bool, userID string) (*domain.ValidationRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find rule %s: %w", ruleID, err)
	}
	if rule.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	if rule.IsActive == active {
		return rule, nil
	}

	now := time.Now().UTC()
	if err := s.ruleRepo.SetRuleActive(ctx, ruleID, active, userID, now); err != nil {
		logger.Error("Failed to toggle rule", slog.String("error", err.Error()), slog.String("rule_id", ruleID))
		return nil, fmt.Errorf("failed to toggle rule: %w", err)
	}

	if err := s.auditRepo.RecordEvent(ctx, domain.AuditEvent{
		EventID:        uuid.NewString(),
		OrganizationID: organizationID,
		EntityType:     "rule",
		EntityID:       ruleID,
		Action:         domain.ActionRuleToggled,
		Before:         fmt.Sprintf("%t", rule.IsActive),
		After:          fmt.Sprintf("%t", active),
		ActorUserID:    userID,
		OccurredAt:     now,
	}); err != nil {
		logger.Warn("Failed to record rule toggle audit event", slog.String("error", err.Error()), slog.String("rule_id", ruleID))
	}

	rule.IsActive = active
	rule.LastUpdatedAt = now
	rule.LastUpdatedBy = userID
	return rule, nil
}

// ListRules retrieves all rules of an organization.
func (s *ruleService) ListRules(ctx context.Context, organizationID string) ([]domain.ValidationRule, error) {
	return s.ruleRepo.ListRules(ctx, organizationID)
}

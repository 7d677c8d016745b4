package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jash90/ledger_posting_app/internal/apperrors"
	portssvc "github.com/jash90/ledger_posting_app/internal/core/ports/services"
	"github.com/jash90/ledger_posting_app/internal/dto"
	"github.com/jash90/ledger_posting_app/internal/middleware"
)

// ruleHandler handles HTTP requests related to validation rules.
type ruleHandler struct {
	ruleService portssvc.RuleSvcFacade
}

// newRuleHandler creates a new ruleHandler.
func newRuleHandler(ruleService portssvc.RuleSvcFacade) *ruleHandler {
	return &ruleHandler{ruleService: ruleService}
}

// createRule godoc
// @Summary Create a validation rule
// @Description Creates a custom validation rule. Rule kinds the validator cannot evaluate are rejected.
// @Tags rules
// @Accept json
// @Produce json
// @Param rule body dto.CreateRuleRequest true "Rule details"
// @Success 201 {object} dto.RuleResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 409 {object} ErrorResponse "Rule code already exists"
// @Failure 422 {object} ErrorResponse "Unsupported rule kind or invalid parameters"
// @Failure 500 {object} ErrorResponse "Failed to create rule"
// @Router /rules [post]
func (h *ruleHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	organizationID, _ := middleware.GetOrganizationIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	rule, err := h.ruleService.CreateRule(c.Request.Context(), organizationID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrConfiguration):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to create rule", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create rule"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToRuleResponse(rule))
}

// listRules godoc
// @Summary List validation rules
// @Description Retrieves all validation rules of the organization
// @Tags rules
// @Produce json
// @Success 200 {object} dto.ListRulesResponse
// @Failure 500 {object} ErrorResponse "Failed to list rules"
// @Router /rules [get]
func (h *ruleHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)

	rules, err := h.ruleService.ListRules(c.Request.Context(), organizationID)
	if err != nil {
		logger.Error("Failed to list rules", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list rules"})
		return
	}

	resp := dto.ListRulesResponse{Rules: make([]dto.RuleResponse, len(rules))}
	for i := range rules {
		resp.Rules[i] = dto.ToRuleResponse(&rules[i])
	}
	c.JSON(http.StatusOK, resp)
}

// toggleRule godoc
// @Summary Toggle a validation rule
// @Description Activates or deactivates a rule without deleting it
// @Tags rules
// @Accept json
// @Produce json
// @Param ruleID path string true "Rule ID"
// @Param toggle body dto.ToggleRuleRequest true "Desired active state"
// @Success 200 {object} dto.RuleResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 404 {object} ErrorResponse "Rule not found"
// @Failure 500 {object} ErrorResponse "Failed to toggle rule"
// @Router /rules/{ruleID}/toggle [put]
func (h *ruleHandler) toggleRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ruleID := c.Param("ruleID")
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req dto.ToggleRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for toggleRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	rule, err := h.ruleService.ToggleRule(c.Request.Context(), organizationID, ruleID, *req.IsActive, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Rule not found"})
			return
		}
		logger.Error("Failed to toggle rule", slog.String("error", err.Error()), slog.String("rule_id", ruleID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to toggle rule"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRuleResponse(rule))
}

// registerRuleRoutes registers validation rule specific routes
func registerRuleRoutes(group *gin.RouterGroup, ruleService portssvc.RuleSvcFacade) {
	h := newRuleHandler(ruleService)

	rules := group.Group("/rules")
	{
		rules.POST("", h.createRule)
		rules.GET("", h.listRules)
		rules.PUT("/:ruleID/toggle", h.toggleRule)
	}
}

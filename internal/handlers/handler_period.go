package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jash90/ledger_posting_app/internal/apperrors"
	portssvc "github.com/jash90/ledger_posting_app/internal/core/ports/services"
	"github.com/jash90/ledger_posting_app/internal/core/services"
	"github.com/jash90/ledger_posting_app/internal/dto"
	"github.com/jash90/ledger_posting_app/internal/middleware"
)

// periodHandler handles HTTP requests related to accounting periods.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

// newPeriodHandler creates a new periodHandler.
func newPeriodHandler(periodService portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: periodService}
}

// getPeriod godoc
// @Summary Get a period
// @Description Retrieves an accounting period by its ID
// @Tags periods
// @Produce json
// @Param periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} ErrorResponse "Period not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve period"
// @Router /periods/{periodID} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)

	period, err := h.periodService.GetPeriodByID(c.Request.Context(), organizationID, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Period not found"})
			return
		}
		logger.Error("Failed to get period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve period"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// changePeriodStatus godoc
// @Summary Change a period's status
// @Description Transitions a period between OPEN, SOFT_CLOSED and CLOSED. Closing a period with unposted entries requires the override flag.
// @Tags periods
// @Accept json
// @Produce json
// @Param periodID path string true "Period ID"
// @Param transition body dto.ChangePeriodStatusRequest true "Target status"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 404 {object} ErrorResponse "Period not found"
// @Failure 409 {object} ErrorResponse "Transition not allowed"
// @Failure 500 {object} ErrorResponse "Failed to change period status"
// @Router /periods/{periodID}/status [put]
func (h *periodHandler) changePeriodStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req dto.ChangePeriodStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for changePeriodStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	period, err := h.periodService.ChangePeriodStatus(c.Request.Context(), organizationID, periodID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Period not found"})
		case errors.Is(err, services.ErrIllegalTransition),
			errors.Is(err, services.ErrPeriodHasUnposted),
			errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to change period status", slog.String("error", err.Error()), slog.String("period_id", periodID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to change period status"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// registerPeriodRoutes registers period specific routes
func registerPeriodRoutes(group *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := group.Group("/periods")
	{
		periods.GET("/:periodID", h.getPeriod)
		periods.PUT("/:periodID/status", h.changePeriodStatus)
	}
}

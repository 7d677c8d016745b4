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

// fiscalYearHandler handles HTTP requests related to fiscal years and their periods.
type fiscalYearHandler struct {
	fiscalYearService portssvc.FiscalYearSvcFacade
	periodService     portssvc.PeriodSvcFacade
}

// newFiscalYearHandler creates a new fiscalYearHandler.
func newFiscalYearHandler(fiscalYearService portssvc.FiscalYearSvcFacade, periodService portssvc.PeriodSvcFacade) *fiscalYearHandler {
	return &fiscalYearHandler{fiscalYearService: fiscalYearService, periodService: periodService}
}

// createFiscalYear godoc
// @Summary Create a fiscal year
// @Description Creates a new fiscal year, optionally generating its monthly periods
// @Tags fiscal-years
// @Accept json
// @Produce json
// @Param fiscalYear body dto.CreateFiscalYearRequest true "Fiscal year details"
// @Success 201 {object} dto.FiscalYearResponse
// @Failure 400 {object} ErrorResponse "Invalid dates or retained earnings account"
// @Failure 409 {object} ErrorResponse "Overlaps an existing fiscal year"
// @Failure 500 {object} ErrorResponse "Failed to create fiscal year"
// @Router /fiscal-years [post]
func (h *fiscalYearHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createFiscalYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	organizationID, _ := middleware.GetOrganizationIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	year, err := h.fiscalYearService.CreateFiscalYear(c.Request.Context(), organizationID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrYearDates), errors.Is(err, services.ErrRetainedEarningsInvalid):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrYearOverlap), errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to create fiscal year", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create fiscal year"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToFiscalYearResponse(year))
}

// listFiscalYears godoc
// @Summary List fiscal years
// @Description Retrieves the organization's fiscal years ordered by start date
// @Tags fiscal-years
// @Produce json
// @Success 200 {object} dto.ListFiscalYearsResponse
// @Failure 500 {object} ErrorResponse "Failed to list fiscal years"
// @Router /fiscal-years [get]
func (h *fiscalYearHandler) listFiscalYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)

	years, err := h.fiscalYearService.ListFiscalYears(c.Request.Context(), organizationID)
	if err != nil {
		logger.Error("Failed to list fiscal years", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list fiscal years"})
		return
	}

	resp := dto.ListFiscalYearsResponse{FiscalYears: make([]dto.FiscalYearResponse, len(years))}
	for i := range years {
		resp.FiscalYears[i] = dto.ToFiscalYearResponse(&years[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getFiscalYear godoc
// @Summary Get a fiscal year
// @Description Retrieves a fiscal year by its ID
// @Tags fiscal-years
// @Produce json
// @Param fiscalYearID path string true "Fiscal year ID"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 404 {object} ErrorResponse "Fiscal year not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve fiscal year"
// @Router /fiscal-years/{fiscalYearID} [get]
func (h *fiscalYearHandler) getFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscalYearID")
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)

	year, err := h.fiscalYearService.GetFiscalYearByID(c.Request.Context(), organizationID, fiscalYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fiscal year not found"})
			return
		}
		logger.Error("Failed to get fiscal year", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve fiscal year"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(year))
}

// closeFiscalYear godoc
// @Summary Close a fiscal year
// @Description Runs the atomic year-end close: sweeps income statement balances into retained earnings, posts the closing entry, closes the year's periods and optionally carries opening balances into the next year
// @Tags fiscal-years
// @Accept json
// @Produce json
// @Param fiscalYearID path string true "Fiscal year ID"
// @Param close body dto.CloseFiscalYearRequest true "Close parameters"
// @Success 200 {object} dto.CloseFiscalYearResponse
// @Failure 400 {object} ErrorResponse "Invalid closing date or missing next fiscal year"
// @Failure 404 {object} ErrorResponse "Fiscal year not found"
// @Failure 409 {object} ErrorResponse "Year already closed or periods still open"
// @Failure 500 {object} ErrorResponse "Failed to close fiscal year"
// @Router /fiscal-years/{fiscalYearID}/close [post]
func (h *fiscalYearHandler) closeFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscalYearID")
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req dto.CloseFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for closeFiscalYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	result, err := h.fiscalYearService.CloseFiscalYear(c.Request.Context(), organizationID, fiscalYearID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fiscal year not found"})
		case errors.Is(err, services.ErrClosingDateOutsideYear),
			errors.Is(err, services.ErrRetainedEarningsInvalid),
			errors.Is(err, services.ErrNoNextFiscalYear),
			errors.Is(err, services.ErrNoRegularPeriods):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrYearAlreadyClosed),
			errors.Is(err, services.ErrOpenPeriods),
			errors.Is(err, services.ErrTrialBalance),
			errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to close fiscal year", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to close fiscal year"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// listPeriods godoc
// @Summary List a fiscal year's periods
// @Description Retrieves the periods of a fiscal year ordered by number
// @Tags fiscal-years
// @Produce json
// @Param fiscalYearID path string true "Fiscal year ID"
// @Success 200 {object} dto.ListPeriodsResponse
// @Failure 404 {object} ErrorResponse "Fiscal year not found"
// @Failure 500 {object} ErrorResponse "Failed to list periods"
// @Router /fiscal-years/{fiscalYearID}/periods [get]
func (h *fiscalYearHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscalYearID")
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)

	periods, err := h.periodService.ListPeriods(c.Request.Context(), organizationID, fiscalYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fiscal year not found"})
			return
		}
		logger.Error("Failed to list periods", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list periods"})
		return
	}

	c.JSON(http.StatusOK, dto.ListPeriodsResponse{Periods: dto.ToPeriodResponses(periods)})
}

// generatePeriods godoc
// @Summary Generate monthly periods
// @Description Creates the consecutive monthly periods of a fiscal year, each bounded by its calendar month unless custom boundaries are requested, the last one truncated to the year's end date
// @Tags fiscal-years
// @Accept json
// @Produce json
// @Param fiscalYearID path string true "Fiscal year ID"
// @Param layout body dto.GeneratePeriodsRequest false "Boundary layout"
// @Success 201 {object} dto.ListPeriodsResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 404 {object} ErrorResponse "Fiscal year not found"
// @Failure 409 {object} ErrorResponse "Periods already exist"
// @Failure 500 {object} ErrorResponse "Failed to generate periods"
// @Router /fiscal-years/{fiscalYearID}/periods [post]
func (h *fiscalYearHandler) generatePeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscalYearID")
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	// The body is optional; an empty one means calendar boundaries.
	var req dto.GeneratePeriodsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind JSON for generatePeriods", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
			return
		}
	}

	periods, err := h.periodService.GeneratePeriods(c.Request.Context(), organizationID, fiscalYearID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fiscal year not found"})
		case errors.Is(err, services.ErrPeriodsAlreadyExist), errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to generate periods", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate periods"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ListPeriodsResponse{Periods: dto.ToPeriodResponses(periods)})
}

// createAdjustingPeriod godoc
// @Summary Create the adjusting period
// @Description Creates the single adjusting period spanning only the fiscal year's end date
// @Tags fiscal-years
// @Produce json
// @Param fiscalYearID path string true "Fiscal year ID"
// @Success 201 {object} dto.PeriodResponse
// @Failure 404 {object} ErrorResponse "Fiscal year not found"
// @Failure 409 {object} ErrorResponse "Adjusting period already exists"
// @Failure 500 {object} ErrorResponse "Failed to create adjusting period"
// @Router /fiscal-years/{fiscalYearID}/periods/adjusting [post]
func (h *fiscalYearHandler) createAdjustingPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscalYearID")
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	period, err := h.periodService.CreateAdjustingPeriod(c.Request.Context(), organizationID, fiscalYearID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fiscal year not found"})
		case errors.Is(err, services.ErrAdjustingPeriodExists), errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to create adjusting period", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create adjusting period"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// registerFiscalYearRoutes registers fiscal year specific routes
func registerFiscalYearRoutes(group *gin.RouterGroup, fiscalYearService portssvc.FiscalYearSvcFacade, periodService portssvc.PeriodSvcFacade) {
	h := newFiscalYearHandler(fiscalYearService, periodService)

	years := group.Group("/fiscal-years")
	{
		years.POST("", h.createFiscalYear)
		years.GET("", h.listFiscalYears)
		years.GET("/:fiscalYearID", h.getFiscalYear)
		years.POST("/:fiscalYearID/close", h.closeFiscalYear)
		years.GET("/:fiscalYearID/periods", h.listPeriods)
		years.POST("/:fiscalYearID/periods", h.generatePeriods)
		years.POST("/:fiscalYearID/periods/adjusting", h.createAdjustingPeriod)
	}
}

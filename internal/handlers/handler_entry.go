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

// entryHandler handles HTTP requests related to journal entries.
type entryHandler struct {
	entryService portssvc.EntrySvcFacade
}

// newEntryHandler creates a new entryHandler.
func newEntryHandler(entryService portssvc.EntrySvcFacade) *entryHandler {
	return &entryHandler{entryService: entryService}
}

// createEntry godoc
// @Summary Capture a journal entry
// @Description Creates a new journal entry as DRAFT, or PENDING when submitted
// @Tags entries
// @Accept json
// @Produce json
// @Param entry body dto.CreateEntryRequest true "Entry and its lines"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 500 {object} ErrorResponse "Failed to create entry"
// @Router /entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	organizationID, _ := middleware.GetOrganizationIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	entry, err := h.entryService.CreateEntry(c.Request.Context(), organizationID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEntryMinLines),
			errors.Is(err, services.ErrEntryMinAccounts),
			errors.Is(err, services.ErrDescriptionMissing):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Organization not found"})
		default:
			logger.Error("Failed to create entry", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create entry"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves an entry with its lines
// @Tags entries
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} ErrorResponse "Entry not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve entry"
// @Router /entries/{entryID} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)

	entry, err := h.entryService.GetEntryByID(c.Request.Context(), organizationID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Entry not found"})
			return
		}
		logger.Error("Failed to get entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve entry"})
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a paginated list of the organization's entries
// @Tags entries
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Continuation token from the previous page"
// @Param includeLines query bool false "Include entry lines"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Failure 500 {object} ErrorResponse "Failed to list entries"
// @Router /entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	resp, err := h.entryService.ListEntries(c.Request.Context(), organizationID, params)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid pagination token"})
			return
		}
		logger.Error("Failed to list entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateEntry godoc
// @Summary Update a draft entry
// @Description Edits an entry that is still DRAFT; posted entries are immutable
// @Tags entries
// @Accept json
// @Produce json
// @Param entryID path string true "Entry ID"
// @Param entry body dto.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 404 {object} ErrorResponse "Entry not found"
// @Failure 409 {object} ErrorResponse "Entry is not in draft"
// @Failure 500 {object} ErrorResponse "Failed to update entry"
// @Router /entries/{entryID} [put]
func (h *entryHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	entry, err := h.entryService.UpdateEntry(c.Request.Context(), organizationID, entryID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Entry not found"})
		case errors.Is(err, services.ErrEntryNotDraft), errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// validateEntry godoc
// @Summary Validate a proposed entry
// @Description Runs every applicable rule against the proposed entry without persisting anything
// @Tags entries
// @Accept json
// @Produce json
// @Param entry body dto.ValidateEntryRequest true "Proposed entry"
// @Success 200 {object} dto.ValidationResultResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 422 {object} ErrorResponse "Rule configuration error"
// @Failure 500 {object} ErrorResponse "Failed to validate entry"
// @Router /entries/validate [post]
func (h *entryHandler) validateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)

	var req dto.ValidateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for validateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	verdict, err := h.entryService.ValidateEntry(c.Request.Context(), organizationID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrConfiguration) {
			logger.Error("Rule configuration error during validation", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to validate entry", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to validate entry"})
		return
	}

	c.JSON(http.StatusOK, dto.ToValidationResultResponse(verdict))
}

// postEntryResponse bundles the posted entry with its validation verdict.
type postEntryResponse struct {
	Entry   dto.EntryResponse            `json:"entry"`
	Verdict dto.ValidationResultResponse `json:"verdict"`
}

// postEntry godoc
// @Summary Post an entry to the books
// @Description Validates the entry and, when the verdict allows, flips it to POSTED and moves account balances
// @Tags entries
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} postEntryResponse
// @Failure 404 {object} ErrorResponse "Entry not found"
// @Failure 409 {object} ErrorResponse "Entry already posted or modified concurrently"
// @Failure 422 {object} dto.ValidationResultResponse "Entry failed validation"
// @Failure 500 {object} ErrorResponse "Failed to post entry"
// @Router /entries/{entryID}/post [post]
func (h *entryHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	organizationID, _ := middleware.GetOrganizationIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	entry, verdict, err := h.entryService.PostEntry(c.Request.Context(), organizationID, entryID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Entry not found"})
		case errors.Is(err, services.ErrEntryNotPostable):
			// Return the full verdict so the caller sees every failure at once.
			c.JSON(http.StatusUnprocessableEntity, dto.ToValidationResultResponse(verdict))
		case errors.Is(err, services.ErrEntryPosted), errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrConfiguration):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to post entry"})
		}
		return
	}

	c.JSON(http.StatusOK, postEntryResponse{
		Entry:   dto.ToEntryResponse(entry),
		Verdict: dto.ToValidationResultResponse(verdict),
	})
}

// registerEntryRoutes registers entry specific routes
func registerEntryRoutes(group *gin.RouterGroup, entryService portssvc.EntrySvcFacade) {
	h := newEntryHandler(entryService)

	entries := group.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.POST("/validate", h.validateEntry)
		entries.GET("/:entryID", h.getEntry)
		entries.PUT("/:entryID", h.updateEntry)
		entries.POST("/:entryID/post", h.postEntry)
	}
}

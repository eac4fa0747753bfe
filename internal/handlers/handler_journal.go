package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/SscSPs/school_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// RegisterJournalRoutes registers journal entry routes under a school group.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.GET("", h.listJournalEntries)
		entries.POST("", h.createJournalEntry)
		entries.GET("/:entry_id", h.getJournalEntry)
		entries.PUT("/:entry_id", h.updateJournalEntry)
		entries.DELETE("/:entry_id", h.deleteJournalEntry)
		entries.POST("/:entry_id/post", h.postJournalEntry)
		entries.POST("/:entry_id/reverse", h.reverseJournalEntry)
	}
}

// createJournalEntry godoc
// @Summary Create a draft journal entry
// @Description Validates the lines, assigns an entry number and stores a DRAFT entry. Balances are untouched until posting.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   entry body dto.CreateJournalEntryRequest true "Entry header and lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Unbalanced lines, invalid accounts or no open period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to create journal entry"
// @Security BearerAuth
// @Router /schools/{school_id}/journal-entries [post]
func (h *journalHandler) createJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.CreateJournalEntry(c.Request.Context(), scope.caller, scope.schoolID, req)
	if err != nil {
		respondWithError(c, err, "Failed to create journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getJournalEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journal-entries
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   entry_id path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entry"
// @Security BearerAuth
// @Router /schools/{school_id}/journal-entries/{entry_id} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), scope.caller, scope.schoolID, c.Param("entry_id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listJournalEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first using token-based pagination.
// @Tags journal-entries
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   status query string false "Entry status" Enums(DRAFT, POSTED, REVERSED)
// @Param   referenceType query string false "Reference type"
// @Param   startDate query string false "Start date (YYYY-MM-DD)"
// @Param   endDate query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Failed to list journal entries"
// @Security BearerAuth
// @Router /schools/{school_id}/journal-entries [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListJournalEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListJournalEntries(c.Request.Context(), scope.caller, scope.schoolID, params)
	if err != nil {
		respondWithError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateJournalEntry godoc
// @Summary Update a draft journal entry
// @Description Only the description of a DRAFT entry can change.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   entry_id path string true "Journal entry ID"
// @Param   entry body dto.UpdateJournalEntryRequest true "New description"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Entry is not a draft"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to update journal entry"
// @Security BearerAuth
// @Router /schools/{school_id}/journal-entries/{entry_id} [put]
func (h *journalHandler) updateJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.UpdateJournalEntry(c.Request.Context(), scope.caller, scope.schoolID, c.Param("entry_id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteJournalEntry godoc
// @Summary Delete a draft journal entry
// @Tags journal-entries
// @Param   school_id path string true "School ID"
// @Param   entry_id path string true "Journal entry ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Entry is not a draft"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to delete journal entry"
// @Security BearerAuth
// @Router /schools/{school_id}/journal-entries/{entry_id} [delete]
func (h *journalHandler) deleteJournalEntry(c *gin.Context) {
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	if err := h.journalService.DeleteJournalEntry(c.Request.Context(), scope.caller, scope.schoolID, c.Param("entry_id")); err != nil {
		respondWithError(c, err, "Failed to delete journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// postJournalEntry godoc
// @Summary Post a journal entry
// @Description Moves a DRAFT entry to POSTED and applies its lines to account balances atomically.
// @Tags journal-entries
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   entry_id path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Entry is not a draft or its period is closed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to post journal entry"
// @Security BearerAuth
// @Router /schools/{school_id}/journal-entries/{entry_id}/post [post]
func (h *journalHandler) postJournalEntry(c *gin.Context) {
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	entry, err := h.journalService.PostJournalEntry(c.Request.Context(), scope.caller, scope.schoolID, c.Param("entry_id"))
	if err != nil {
		respondWithError(c, err, "Failed to post journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseJournalEntry godoc
// @Summary Reverse a posted journal entry
// @Description Posts a compensating entry with debits and credits swapped and marks the original REVERSED.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   entry_id path string true "Journal entry ID"
// @Param   reversal body dto.ReverseJournalEntryRequest true "Reason and optional reversal date"
// @Success 201 {object} dto.JournalEntryResponse "The reversing entry"
// @Failure 400 {object} map[string]string "Entry is not posted or the reversal date has no open period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to reverse journal entry"
// @Security BearerAuth
// @Router /schools/{school_id}/journal-entries/{entry_id}/reverse [post]
func (h *journalHandler) reverseJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	reversal, err := h.journalService.ReverseJournalEntry(c.Request.Context(), scope.caller, scope.schoolID, c.Param("entry_id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to reverse journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}

package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/SscSPs/school_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type fiscalPeriodHandler struct {
	periodService portssvc.FiscalPeriodSvcFacade
}

func newFiscalPeriodHandler(ps portssvc.FiscalPeriodSvcFacade) *fiscalPeriodHandler {
	return &fiscalPeriodHandler{periodService: ps}
}

// RegisterFiscalPeriodRoutes registers fiscal period routes under a school group.
func RegisterFiscalPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.FiscalPeriodSvcFacade) {
	h := newFiscalPeriodHandler(periodService)

	periods := rg.Group("/fiscal-periods")
	{
		periods.GET("", h.listPeriods)
		periods.POST("", h.createPeriod)
		periods.GET("/:period_id", h.getPeriod)
		periods.POST("/:period_id/close", h.closePeriod)
		periods.POST("/:period_id/reopen", h.reopenPeriod)
	}
}

// createPeriod godoc
// @Summary Create a fiscal period
// @Description Opens a new period. Date ranges of a school's periods may not overlap.
// @Tags fiscal-periods
// @Accept  json
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   period body dto.CreateFiscalPeriodRequest true "Period details"
// @Success 201 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} map[string]string "Invalid dates or overlapping period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Failed to create fiscal period"
// @Security BearerAuth
// @Router /schools/{school_id}/fiscal-periods [post]
func (h *fiscalPeriodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	var req dto.CreateFiscalPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFiscalPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), scope.caller, scope.schoolID, req)
	if err != nil {
		respondWithError(c, err, "Failed to create fiscal period")
		return
	}
	c.JSON(http.StatusCreated, dto.ToFiscalPeriodResponse(period))
}

// listPeriods godoc
// @Summary List fiscal periods
// @Tags fiscal-periods
// @Produce  json
// @Param   school_id path string true "School ID"
// @Success 200 {array} dto.FiscalPeriodResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Failed to list fiscal periods"
// @Security BearerAuth
// @Router /schools/{school_id}/fiscal-periods [get]
func (h *fiscalPeriodHandler) listPeriods(c *gin.Context) {
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	periods, err := h.periodService.ListPeriods(c.Request.Context(), scope.caller, scope.schoolID)
	if err != nil {
		respondWithError(c, err, "Failed to list fiscal periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponses(periods))
}

// getPeriod godoc
// @Summary Get a fiscal period
// @Tags fiscal-periods
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   period_id path string true "Fiscal period ID"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fiscal period"
// @Security BearerAuth
// @Router /schools/{school_id}/fiscal-periods/{period_id} [get]
func (h *fiscalPeriodHandler) getPeriod(c *gin.Context) {
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	period, err := h.periodService.GetPeriod(c.Request.Context(), scope.caller, scope.schoolID, c.Param("period_id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// closePeriod godoc
// @Summary Close a fiscal period
// @Description Closes an OPEN period. Fails while draft entries are dated inside it.
// @Tags fiscal-periods
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   period_id path string true "Fiscal period ID"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} map[string]string "Period is not open or has drafts"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to close fiscal period"
// @Security BearerAuth
// @Router /schools/{school_id}/fiscal-periods/{period_id}/close [post]
func (h *fiscalPeriodHandler) closePeriod(c *gin.Context) {
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	period, err := h.periodService.ClosePeriod(c.Request.Context(), scope.caller, scope.schoolID, c.Param("period_id"))
	if err != nil {
		respondWithError(c, err, "Failed to close fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// reopenPeriod godoc
// @Summary Reopen a fiscal period
// @Description Reopens a CLOSED period. Restricted to super administrators.
// @Tags fiscal-periods
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   period_id path string true "Fiscal period ID"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} map[string]string "Period is not closed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 500 {object} map[string]string "Failed to reopen fiscal period"
// @Security BearerAuth
// @Router /schools/{school_id}/fiscal-periods/{period_id}/reopen [post]
func (h *fiscalPeriodHandler) reopenPeriod(c *gin.Context) {
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	period, err := h.periodService.ReopenPeriod(c.Request.Context(), scope.caller, scope.schoolID, c.Param("period_id"))
	if err != nil {
		respondWithError(c, err, "Failed to reopen fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

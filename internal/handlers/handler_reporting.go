package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/SscSPs/school_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// RegisterReportingRoutes registers report routes under a school group.
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/income-statement", h.getIncomeStatement)
		reports.GET("/balance-sheet", h.getBalanceSheet)
	}
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Debit and credit totals per account from posted, non-reversal entries. Omitted bounds are open.
// @Tags reports
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   startDate query string false "Start date (YYYY-MM-DD)"
// @Param   endDate query string false "End date (YYYY-MM-DD)"
// @Param   fiscalPeriodId query string false "Use the period's dates as the range"
// @Success 200 {object} domain.TrialBalanceReport
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 500 {object} map[string]string "Failed to generate trial balance"
// @Security BearerAuth
// @Router /schools/{school_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	rng, ok := bindReportRange(c)
	if !ok {
		return
	}
	report, err := h.reportingService.TrialBalance(c.Request.Context(), scope.caller, scope.schoolID, rng)
	if err != nil {
		respondWithError(c, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getIncomeStatement godoc
// @Summary Get the income statement
// @Description Revenue minus expenses over the range.
// @Tags reports
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   startDate query string false "Start date (YYYY-MM-DD)"
// @Param   endDate query string false "End date (YYYY-MM-DD)"
// @Param   fiscalPeriodId query string false "Use the period's dates as the range"
// @Success 200 {object} domain.IncomeStatementReport
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 500 {object} map[string]string "Failed to generate income statement"
// @Security BearerAuth
// @Router /schools/{school_id}/reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	rng, ok := bindReportRange(c)
	if !ok {
		return
	}
	report, err := h.reportingService.IncomeStatement(c.Request.Context(), scope.caller, scope.schoolID, rng)
	if err != nil {
		respondWithError(c, err, "Failed to generate income statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getBalanceSheet godoc
// @Summary Get the balance sheet
// @Description Assets, liabilities and equity as of a date, with net income folded into equity.
// @Tags reports
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Failed to generate balance sheet"
// @Security BearerAuth
// @Router /schools/{school_id}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	var params dto.BalanceSheetParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for BalanceSheet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf, err := params.AsOfDate(time.Now().UTC())
	if err != nil {
		respondWithError(c, err, "Failed to generate balance sheet")
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), scope.caller, scope.schoolID, asOf)
	if err != nil {
		respondWithError(c, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

func bindReportRange(c *gin.Context) (domain.ReportRange, bool) {
	var params dto.ReportRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind report range", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return domain.ReportRange{}, false
	}
	rng, err := params.ToReportRange()
	if err != nil {
		respondWithError(c, err, "Invalid report range")
		return rng, false
	}
	return rng, true
}

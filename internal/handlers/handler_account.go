package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/SscSPs/school_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService   portssvc.AccountSvcFacade
	reportingService portssvc.ReportingService
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, rs portssvc.ReportingService) *accountHandler {
	return &accountHandler{
		accountService:   as,
		reportingService: rs,
	}
}

// RegisterAccountRoutes registers routes related to accounts under a school group.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, reportingService portssvc.ReportingService) {
	h := newAccountHandler(accountService, reportingService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.POST("", h.createAccount)
		accounts.GET("/tree", h.getAccountTree)
		accounts.POST("/seed", h.seedDefaultAccounts)
		accounts.GET("/:account_id", h.getAccount)
		accounts.PUT("/:account_id", h.updateAccount)
		accounts.DELETE("/:account_id", h.deleteAccount)
		accounts.GET("/:account_id/ledger", h.getAccountLedger)
	}
}

// createAccount godoc
// @Summary Create an account
// @Description Adds an account to the school's chart of accounts. Level is derived from the parent.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input, duplicate code or unknown parent"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /schools/{school_id}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), scope.caller, scope.schoolID, req)
	if err != nil {
		respondWithError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   account_id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /schools/{school_id}/accounts/{account_id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	account, err := h.accountService.GetAccountByID(c.Request.Context(), scope.caller, scope.schoolID, c.Param("account_id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the school's accounts ordered by code, each with its parent and direct children.
// @Tags accounts
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   type query string false "Account type" Enums(ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE)
// @Param   isActive query bool false "Filter by active flag"
// @Param   parentId query string false "Filter by parent account; empty selects roots"
// @Success 200 {array} dto.AccountListItemResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /schools/{school_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	items, err := h.accountService.ListAccounts(c.Request.Context(), scope.caller, scope.schoolID, params.ToFilter())
	if err != nil {
		respondWithError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(items))
}

// getAccountTree godoc
// @Summary Get the chart of accounts as a tree
// @Description Returns the hierarchy of active accounts with rolled-up balances, siblings ordered by code.
// @Tags accounts
// @Produce  json
// @Param   school_id path string true "School ID"
// @Success 200 {array} domain.AccountNode
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Failed to build account tree"
// @Security BearerAuth
// @Router /schools/{school_id}/accounts/tree [get]
func (h *accountHandler) getAccountTree(c *gin.Context) {
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	tree, err := h.accountService.GetAccountTree(c.Request.Context(), scope.caller, scope.schoolID)
	if err != nil {
		respondWithError(c, err, "Failed to build account tree")
		return
	}
	c.JSON(http.StatusOK, tree)
}

// seedDefaultAccounts godoc
// @Summary Seed the default school chart
// @Description Creates the built-in chart of accounts. Codes that already exist are skipped.
// @Tags accounts
// @Produce  json
// @Param   school_id path string true "School ID"
// @Success 201 {array} dto.AccountResponse "Accounts created by this call"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Failed to seed accounts"
// @Security BearerAuth
// @Router /schools/{school_id}/accounts/seed [post]
func (h *accountHandler) seedDefaultAccounts(c *gin.Context) {
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	created, err := h.accountService.SeedDefaultAccounts(c.Request.Context(), scope.caller, scope.schoolID)
	if err != nil {
		respondWithError(c, err, "Failed to seed accounts")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponses(created))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates name, secondary name, description or active flag. Code, type and parent are immutable.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   account_id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to update account"
// @Security BearerAuth
// @Router /schools/{school_id}/accounts/{account_id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), scope.caller, scope.schoolID, c.Param("account_id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes an account with no children and no journal lines. System accounts cannot be deleted.
// @Tags accounts
// @Param   school_id path string true "School ID"
// @Param   account_id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Account has children, history or is a system account"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to delete account"
// @Security BearerAuth
// @Router /schools/{school_id}/accounts/{account_id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	if err := h.accountService.DeleteAccount(c.Request.Context(), scope.caller, scope.schoolID, c.Param("account_id")); err != nil {
		respondWithError(c, err, "Failed to delete account")
		return
	}
	c.Status(http.StatusNoContent)
}

// getAccountLedger godoc
// @Summary Get an account ledger
// @Description Lists the account's posted lines chronologically with an opening balance and running balances.
// @Tags accounts
// @Produce  json
// @Param   school_id path string true "School ID"
// @Param   account_id path string true "Account ID"
// @Param   startDate query string false "Start date (YYYY-MM-DD)"
// @Param   endDate query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(50)
// @Param   offset query int false "Lines to skip" default(0)
// @Success 200 {object} domain.AccountLedger
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build account ledger"
// @Security BearerAuth
// @Router /schools/{school_id}/accounts/{account_id}/ledger [get]
func (h *accountHandler) getAccountLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scope, ok := callerFromRequest(c)
	if !ok {
		return
	}
	var params dto.AccountLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for AccountLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	q, err := params.ToLedgerQuery()
	if err != nil {
		respondWithError(c, err, "Failed to build account ledger")
		return
	}

	ledger, err := h.reportingService.AccountLedger(c.Request.Context(), scope.caller, scope.schoolID, c.Param("account_id"), q)
	if err != nil {
		respondWithError(c, err, "Failed to build account ledger")
		return
	}
	c.JSON(http.StatusOK, ledger)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultCurrencyCode = "USD"

var (
	ErrSystemAccount       = fmt.Errorf("%w: system accounts cannot be modified or deleted", apperrors.ErrValidation)
	ErrAccountHasChildren  = fmt.Errorf("%w: account has child accounts; deactivate instead", apperrors.ErrValidation)
	ErrAccountHasHistory   = fmt.Errorf("%w: account has journal lines; deactivate instead", apperrors.ErrValidation)
	ErrAccountCodeConflict = fmt.Errorf("%w: account code already exists", apperrors.ErrDuplicate)
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo     portsrepo.AccountRepositoryFacade
	reportCache     portsrepo.ReportCache
	defaultCurrency string
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithDefaultCurrency sets the currency assigned to accounts created without one.
func WithDefaultCurrency(code string) AccountServiceOption {
	return func(s *accountService) {
		if code != "" {
			s.defaultCurrency = strings.ToUpper(code)
		}
	}
}

// WithAccountReportCache invalidates cached reports when the chart changes.
func WithAccountReportCache(cache portsrepo.ReportCache) AccountServiceOption {
	return func(s *accountService) {
		s.reportCache = cache
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		BaseService:     newBaseService(),
		accountRepo:     repo,
		defaultCurrency: defaultCurrencyCode,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// loadAccount fetches an account and applies the tenant guard to it.
func (s *accountService) loadAccount(ctx context.Context, caller domain.Caller, tenantID, accountID string) (*domain.Account, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, notFound("account")
		}
		s.LogError(ctx, err, "Failed to get account by ID", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if err := s.AuthorizeResource(ctx, caller, tenantID, account.TenantID, "account"); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, caller domain.Caller, tenantID string, accountID string) (*domain.Account, error) {
	return s.loadAccount(ctx, caller, tenantID, accountID)
}

func (s *accountService) ListAccounts(ctx context.Context, caller domain.Caller, tenantID string, filter domain.AccountFilter) ([]domain.AccountListItem, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	// Parent and children may fall outside the filter, so annotate from the whole chart.
	all := accounts
	if filter != (domain.AccountFilter{}) {
		all, err = s.accountRepo.ListAccounts(ctx, tenantID, domain.AccountFilter{})
		if err != nil {
			s.LogError(ctx, err, "Failed to load chart for annotations", slog.String("tenant_id", tenantID))
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
	}

	byID := make(map[string]domain.Account, len(all))
	children := make(map[string][]domain.AccountChildRef, len(all))
	for _, acc := range all {
		byID[acc.AccountID] = acc
		if acc.ParentAccountID != "" {
			children[acc.ParentAccountID] = append(children[acc.ParentAccountID], domain.AccountChildRef{
				AccountID:   acc.AccountID,
				Code:        acc.Code,
				Name:        acc.Name,
				AccountType: acc.AccountType,
				Balance:     acc.Balance,
			})
		}
	}

	items := make([]domain.AccountListItem, 0, len(accounts))
	for _, acc := range accounts {
		item := domain.AccountListItem{Account: acc, Children: children[acc.AccountID]}
		if item.Children == nil {
			item.Children = []domain.AccountChildRef{}
		}
		if parent, ok := byID[acc.ParentAccountID]; ok {
			item.Parent = &domain.AccountRef{AccountID: parent.AccountID, Code: parent.Code, Name: parent.Name}
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *accountService) GetAccountTree(ctx context.Context, caller domain.Caller, tenantID string) ([]*domain.AccountNode, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}
	active := true
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, domain.AccountFilter{IsActive: &active})
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for tree", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to build account tree: %w", err)
	}
	return domain.BuildAccountTree(accounts), nil
}

func (s *accountService) CreateAccount(ctx context.Context, caller domain.Caller, tenantID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: code and name are required", apperrors.ErrValidation)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type '%s'", apperrors.ErrValidation, req.AccountType)
	}

	if _, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code); err == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrAccountCodeConflict, code)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code", slog.String("code", code))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	level := 1
	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil || parent.TenantID != tenantID {
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				s.LogError(ctx, err, "Failed to get parent account", slog.String("parent_account_id", *req.ParentAccountID))
				return nil, fmt.Errorf("failed to create account: %w", err)
			}
			return nil, fmt.Errorf("%w: parent account %s not found in this school", apperrors.ErrValidation, *req.ParentAccountID)
		}
		level = parent.Level + 1
		parentID = parent.AccountID
	}

	currency := s.defaultCurrency
	if req.CurrencyCode != "" {
		currency = strings.ToUpper(req.CurrencyCode)
	}

	now := s.now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		TenantID:        tenantID,
		Code:            code,
		Name:            name,
		NameEn:          strings.TrimSpace(req.NameEn),
		AccountType:     req.AccountType,
		ParentAccountID: parentID,
		Level:           level,
		CurrencyCode:    currency,
		Description:     req.Description,
		IsActive:        true,
		IsSystem:        false,
		Balance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: '%s'", ErrAccountCodeConflict, code)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("code", code))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.InvalidateReports(ctx, s.reportCache, tenantID)
	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("tenant_id", tenantID))
	return &account, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, caller domain.Caller, tenantID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.loadAccount(ctx, caller, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsSystem {
		return nil, ErrSystemAccount
	}

	updated := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidation)
		}
		if name != account.Name {
			account.Name = name
			updated = true
		}
	}
	if req.NameEn != nil && *req.NameEn != account.NameEn {
		account.NameEn = *req.NameEn
		updated = true
	}
	if req.Description != nil && *req.Description != account.Description {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil && *req.IsActive != account.IsActive {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = s.now()
	account.LastUpdatedBy = caller.UserID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.InvalidateReports(ctx, s.reportCache, tenantID)
	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, caller domain.Caller, tenantID string, accountID string) error {
	account, err := s.loadAccount(ctx, caller, tenantID, accountID)
	if err != nil {
		return err
	}
	if account.IsSystem {
		return fmt.Errorf("%w; deactivate instead", ErrSystemAccount)
	}

	children, err := s.accountRepo.CountChildAccounts(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count child accounts", slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if children > 0 {
		return ErrAccountHasChildren
	}

	hasLines, err := s.accountRepo.HasJournalLines(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check journal lines", slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if hasLines {
		return ErrAccountHasHistory
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.InvalidateReports(ctx, s.reportCache, tenantID)
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("code", account.Code))
	return nil
}

func (s *accountService) SeedDefaultAccounts(ctx context.Context, caller domain.Caller, tenantID string) ([]domain.Account, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.ListAccounts(ctx, tenantID, domain.AccountFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to load chart before seeding", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to seed accounts: %w", err)
	}
	byCode := make(map[string]domain.Account, len(existing))
	for _, acc := range existing {
		byCode[acc.Code] = acc
	}

	now := s.now()
	created := make([]domain.Account, 0)
	for _, tpl := range defaultSchoolChart() {
		if _, ok := byCode[tpl.Code]; ok {
			continue
		}
		account := domain.Account{
			AccountID:    uuid.NewString(),
			TenantID:     tenantID,
			Code:         tpl.Code,
			Name:         tpl.Name,
			AccountType:  tpl.AccountType,
			Level:        1,
			CurrencyCode: s.defaultCurrency,
			Description:  tpl.Description,
			IsActive:     true,
			IsSystem:     true,
			Balance:      decimal.Zero,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     caller.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: caller.UserID,
			},
		}
		if parent, ok := byCode[tpl.ParentCode]; ok && tpl.ParentCode != "" {
			account.ParentAccountID = parent.AccountID
			account.Level = parent.Level + 1
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				continue
			}
			s.LogError(ctx, err, "Failed to seed account", slog.String("code", tpl.Code))
			return nil, fmt.Errorf("failed to seed accounts: %w", err)
		}
		byCode[account.Code] = account
		created = append(created, account)
	}

	if len(created) > 0 {
		s.InvalidateReports(ctx, s.reportCache, tenantID)
	}
	s.LogInfo(ctx, "Default chart of accounts seeded",
		slog.String("tenant_id", tenantID),
		slog.Int("created", len(created)))
	return created, nil
}

package services

import (
	"fmt"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
)

// TenantGuard scopes every account, entry and period access to the caller's school.
type TenantGuard struct{}

// Authorize allows access when the resource belongs to the caller's tenant or the caller
// is a super-tenant operator. The error never says whether the resource exists.
func (TenantGuard) Authorize(caller domain.Caller, resourceTenantID string) error {
	if caller.IsSuperTenantOperator() {
		return nil
	}
	if caller.TenantID == "" || resourceTenantID != caller.TenantID {
		return apperrors.ErrForbidden
	}
	return nil
}

func notFound(resource string) error {
	return fmt.Errorf("%w: %s not found", apperrors.ErrNotFound, resource)
}

package domain

// Role is the caller's role as asserted by the identity provider.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN" // super-tenant operator
	RoleAdmin      Role = "ADMIN"
	RoleAccountant Role = "ACCOUNTANT"
	RoleViewer     Role = "VIEWER"
)

// Caller identifies who is invoking a ledger operation and on behalf of which tenant (school).
type Caller struct {
	UserID   string
	TenantID string
	Role     Role
}

// IsSuperTenantOperator reports whether the caller may cross tenant boundaries.
func (c Caller) IsSuperTenantOperator() bool {
	return c.Role == RoleSuperAdmin
}

// CanReopenPeriods reports whether the caller holds the elevated role needed to reopen a closed period.
func (c Caller) CanReopenPeriods() bool {
	return c.IsSuperTenantOperator()
}

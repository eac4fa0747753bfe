package models

import "time"

// FiscalPeriod is a row of the fiscal_periods table.
type FiscalPeriod struct {
	FiscalPeriodID string     `db:"fiscal_period_id"`
	TenantID       string     `db:"tenant_id"`
	Name           string     `db:"name"`
	Description    *string    `db:"description"`
	StartDate      time.Time  `db:"start_date"`
	EndDate        time.Time  `db:"end_date"`
	Status         string     `db:"status"`
	ClosedAt       *time.Time `db:"closed_at"`
	ClosedBy       *string    `db:"closed_by"`
	AuditFields
}

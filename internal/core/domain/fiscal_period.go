package domain

import "time"

// PeriodStatus is the lifecycle state of a fiscal period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// FiscalPeriod is a tenant-scoped date range that gates postings.
type FiscalPeriod struct {
	FiscalPeriodID string       `json:"fiscalPeriodID"`
	TenantID       string       `json:"tenantID"`
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	StartDate      time.Time    `json:"startDate"`
	EndDate        time.Time    `json:"endDate"`
	Status         PeriodStatus `json:"status"`
	ClosedAt       *time.Time   `json:"closedAt,omitempty"`
	ClosedBy       *string      `json:"closedBy,omitempty"`
	AuditFields
}

// Contains reports whether date falls within the period, bounds inclusive.
func (p FiscalPeriod) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// Overlaps reports whether [start, end] intersects the period, bounds inclusive.
func (p FiscalPeriod) Overlaps(start, end time.Time) bool {
	return !DateOnly(start).After(DateOnly(p.EndDate)) && !DateOnly(end).Before(DateOnly(p.StartDate))
}

// IsOpen reports whether postings are allowed into the period.
func (p FiscalPeriod) IsOpen() bool {
	return p.Status == PeriodOpen
}

package mapping

import (
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/SscSPs/school_ledger/internal/models"
)

func ToModelFiscalPeriod(d domain.FiscalPeriod) models.FiscalPeriod {
	return models.FiscalPeriod{
		FiscalPeriodID: d.FiscalPeriodID,
		TenantID:       d.TenantID,
		Name:           d.Name,
		Description:    nullable(d.Description),
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		Status:         string(d.Status),
		ClosedAt:       d.ClosedAt,
		ClosedBy:       d.ClosedBy,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalPeriod normalises the DATE columns to midnight UTC.
func ToDomainFiscalPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		FiscalPeriodID: m.FiscalPeriodID,
		TenantID:       m.TenantID,
		Name:           m.Name,
		Description:    deref(m.Description),
		StartDate:      domain.DateOnly(m.StartDate),
		EndDate:        domain.DateOnly(m.EndDate),
		Status:         domain.PeriodStatus(m.Status),
		ClosedAt:       m.ClosedAt,
		ClosedBy:       m.ClosedBy,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

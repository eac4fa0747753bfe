package dto

import (
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
)

// CreateFiscalPeriodRequest defines the data needed to open a new fiscal period.
type CreateFiscalPeriodRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	StartDate   Date   `json:"startDate"`
	EndDate     Date   `json:"endDate"`
	Description string `json:"description"`
}

// FiscalPeriodResponse defines the data returned for a fiscal period.
type FiscalPeriodResponse struct {
	FiscalPeriodID string              `json:"fiscalPeriodID"`
	TenantID       string              `json:"tenantID"`
	Name           string              `json:"name"`
	Description    string              `json:"description,omitempty"`
	StartDate      Date                `json:"startDate"`
	EndDate        Date                `json:"endDate"`
	Status         domain.PeriodStatus `json:"status"`
	ClosedAt       *time.Time          `json:"closedAt,omitempty"`
	ClosedBy       *string             `json:"closedBy,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	CreatedBy      string              `json:"createdBy"`
	LastUpdatedAt  time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy  string              `json:"lastUpdatedBy"`
}

// ToFiscalPeriodResponse converts a domain.FiscalPeriod to its response DTO.
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		FiscalPeriodID: p.FiscalPeriodID,
		TenantID:       p.TenantID,
		Name:           p.Name,
		Description:    p.Description,
		StartDate:      Date{p.StartDate},
		EndDate:        Date{p.EndDate},
		Status:         p.Status,
		ClosedAt:       p.ClosedAt,
		ClosedBy:       p.ClosedBy,
		CreatedAt:      p.CreatedAt,
		CreatedBy:      p.CreatedBy,
		LastUpdatedAt:  p.LastUpdatedAt,
		LastUpdatedBy:  p.LastUpdatedBy,
	}
}

// ToFiscalPeriodResponses converts a slice of periods.
func ToFiscalPeriodResponses(periods []domain.FiscalPeriod) []FiscalPeriodResponse {
	res := make([]FiscalPeriodResponse, len(periods))
	for i := range periods {
		res[i] = ToFiscalPeriodResponse(&periods[i])
	}
	return res
}

package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
)

// ReportRangeParams are the query parameters shared by ranged reports.
type ReportRangeParams struct {
	StartDate      string `form:"startDate"`
	EndDate        string `form:"endDate"`
	FiscalPeriodID string `form:"fiscalPeriodId"`
}

// ToReportRange parses the optional bounds. A fiscal period id takes precedence over dates.
func (p ReportRangeParams) ToReportRange() (domain.ReportRange, error) {
	rng := domain.ReportRange{FiscalPeriodID: p.FiscalPeriodID}
	var err error
	if rng.StartDate, err = parseOptionalDate("startDate", p.StartDate); err != nil {
		return rng, err
	}
	if rng.EndDate, err = parseOptionalDate("endDate", p.EndDate); err != nil {
		return rng, err
	}
	return rng, nil
}

// BalanceSheetParams selects the as-of date; empty means today.
type BalanceSheetParams struct {
	AsOf string `form:"asOf"`
}

// AsOfDate returns the requested date, or today's UTC date when none was given.
func (p BalanceSheetParams) AsOfDate(now time.Time) (time.Time, error) {
	if p.AsOf == "" {
		return domain.DateOnly(now), nil
	}
	d, err := parseOptionalDate("asOf", p.AsOf)
	if err != nil {
		return time.Time{}, err
	}
	return *d, nil
}

// AccountLedgerParams are the query parameters of the account ledger.
type AccountLedgerParams struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Limit     int    `form:"limit,default=50" binding:"min=1,max=500"`
	Offset    int    `form:"offset,default=0" binding:"min=0"`
}

// ToLedgerQuery parses the params into a domain.LedgerQuery.
func (p AccountLedgerParams) ToLedgerQuery() (domain.LedgerQuery, error) {
	q := domain.LedgerQuery{Limit: p.Limit, Offset: p.Offset}
	var err error
	if q.StartDate, err = parseOptionalDate("startDate", p.StartDate); err != nil {
		return q, err
	}
	if q.EndDate, err = parseOptionalDate("endDate", p.EndDate); err != nil {
		return q, err
	}
	return q, nil
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, field, err)
	}
	return &d, nil
}

package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestTrialBalance_DateRange() {
	report := &domain.TrialBalanceReport{
		Rows:        []domain.TrialBalanceRow{},
		TotalDebit:  decimal.NewFromInt(500),
		TotalCredit: decimal.NewFromInt(500),
		IsBalanced:  true,
	}
	suite.reportingSvc.On("TrialBalance", anyCtx, suite.accountant, schoolA, mock.MatchedBy(func(r domain.ReportRange) bool {
		return r.StartDate != nil && r.EndDate != nil &&
			r.StartDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			r.EndDate.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	})).Return(report, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/schools/school-a/reports/trial-balance?startDate=2024-03-01&endDate=2024-03-31", nil, suite.accountant)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp domain.TrialBalanceReport
	suite.decode(w, &resp)
	suite.True(resp.IsBalanced)
	suite.True(resp.TotalDebit.Equal(decimal.NewFromInt(500)))
}

func (suite *HandlerTestSuite) TestTrialBalance_InvalidRange() {
	suite.reportingSvc.On("TrialBalance", anyCtx, suite.accountant, schoolA, mock.Anything).
		Return(nil, fmt.Errorf("%w: startDate must not be after endDate", apperrors.ErrValidation)).Once()

	w := suite.request(http.MethodGet, "/api/v1/schools/school-a/reports/trial-balance?startDate=2024-04-01&endDate=2024-03-01", nil, suite.accountant)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestIncomeStatement_FiscalPeriod() {
	suite.reportingSvc.On("IncomeStatement", anyCtx, suite.accountant, schoolA, domain.ReportRange{FiscalPeriodID: "period-1"}).
		Return(&domain.IncomeStatementReport{NetIncome: decimal.NewFromInt(-20)}, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/schools/school-a/reports/income-statement?fiscalPeriodId=period-1", nil, suite.accountant)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp domain.IncomeStatementReport
	suite.decode(w, &resp)
	suite.True(resp.NetIncome.Equal(decimal.NewFromInt(-20)))
}

func (suite *HandlerTestSuite) TestBalanceSheet_AsOf() {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	suite.reportingSvc.On("BalanceSheet", anyCtx, suite.accountant, schoolA, mock.MatchedBy(func(t time.Time) bool {
		return t.Equal(asOf)
	})).Return(&domain.BalanceSheetReport{AsOf: asOf, IsBalanced: true}, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/schools/school-a/reports/balance-sheet?asOf=2024-03-31", nil, suite.accountant)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestBalanceSheet_DefaultsToToday() {
	today := domain.DateOnly(time.Now().UTC())
	suite.reportingSvc.On("BalanceSheet", anyCtx, suite.accountant, schoolA, mock.MatchedBy(func(t time.Time) bool {
		// Tolerate a run that straddles midnight.
		return t.Equal(today) || t.Equal(today.AddDate(0, 0, 1))
	})).Return(&domain.BalanceSheetReport{AsOf: today}, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/schools/school-a/reports/balance-sheet", nil, suite.accountant)

	suite.Equal(http.StatusOK, w.Code)
}

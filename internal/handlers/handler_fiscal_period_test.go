package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

func samplePeriod(status domain.PeriodStatus) *domain.FiscalPeriod {
	return &domain.FiscalPeriod{
		FiscalPeriodID: "period-1",
		TenantID:       schoolA,
		Name:           "March 2024",
		StartDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:         status,
	}
}

func (suite *HandlerTestSuite) TestCreateFiscalPeriod() {
	suite.periodSvc.On("CreatePeriod", anyCtx, suite.accountant, schoolA, mock.MatchedBy(func(r dto.CreateFiscalPeriodRequest) bool {
		return r.Name == "March 2024" && r.EndDate.Day() == 31
	})).Return(samplePeriod(domain.PeriodOpen), nil).Once()

	w := suite.request(http.MethodPost, "/api/v1/schools/school-a/fiscal-periods",
		`{"name":"March 2024","startDate":"2024-03-01","endDate":"2024-03-31"}`, suite.accountant)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.FiscalPeriodResponse
	suite.decode(w, &resp)
	suite.Equal(domain.PeriodOpen, resp.Status)
	suite.Contains(w.Body.String(), `"endDate":"2024-03-31"`)
}

func (suite *HandlerTestSuite) TestCreateFiscalPeriod_BadDate() {
	w := suite.request(http.MethodPost, "/api/v1/schools/school-a/fiscal-periods",
		`{"name":"March 2024","startDate":"March 1","endDate":"2024-03-31"}`, suite.accountant)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCloseFiscalPeriod_DraftsBlock() {
	suite.periodSvc.On("ClosePeriod", anyCtx, suite.accountant, schoolA, "period-1").
		Return(nil, fmt.Errorf("%w: 2 DRAFT entries fall inside the period", apperrors.ErrInvalidState)).Once()

	w := suite.request(http.MethodPost, "/api/v1/schools/school-a/fiscal-periods/period-1/close", nil, suite.accountant)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorMessage(w), "DRAFT")
}

func (suite *HandlerTestSuite) TestReopenFiscalPeriod() {
	suite.periodSvc.On("ReopenPeriod", anyCtx, suite.accountant, schoolA, "period-1").
		Return(nil, fmt.Errorf("%w: reopening a fiscal period requires an elevated role", apperrors.ErrForbidden)).Once()
	suite.periodSvc.On("ReopenPeriod", anyCtx, suite.operator, schoolA, "period-1").
		Return(samplePeriod(domain.PeriodOpen), nil).Once()

	w := suite.request(http.MethodPost, "/api/v1/schools/school-a/fiscal-periods/period-1/reopen", nil, suite.accountant)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPost, "/api/v1/schools/school-a/fiscal-periods/period-1/reopen", nil, suite.operator)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestListFiscalPeriods() {
	suite.periodSvc.On("ListPeriods", anyCtx, suite.accountant, schoolA).
		Return([]domain.FiscalPeriod{*samplePeriod(domain.PeriodClosed)}, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/schools/school-a/fiscal-periods", nil, suite.accountant)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.FiscalPeriodResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp, 1)
	suite.Equal(domain.PeriodClosed, resp[0].Status)
}

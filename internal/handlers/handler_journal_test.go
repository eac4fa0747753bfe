package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func sampleEntry(status domain.JournalStatus) *domain.JournalEntry {
	amount := decimal.NewFromInt(500)
	return &domain.JournalEntry{
		JournalEntryID: "entry-1",
		TenantID:       schoolA,
		EntryNumber:    "JE-2024-000001",
		EntryDate:      time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Description:    "March tuition",
		ReferenceType:  domain.RefInvoice,
		FiscalPeriodID: "period-1",
		Status:         status,
		TotalDebit:     amount,
		TotalCredit:    amount,
		Lines: []domain.JournalEntryLine{
			{LineID: "l1", LineNumber: 1, AccountID: "ar", Debit: amount, Credit: decimal.Zero},
			{LineID: "l2", LineNumber: 2, AccountID: "rev", Debit: decimal.Zero, Credit: amount},
		},
	}
}

const createEntryBody = `{
	"entryDate": "2024-03-05",
	"description": "March tuition",
	"referenceType": "INVOICE",
	"lines": [
		{"accountID": "ar", "debit": "500.00", "credit": "0"},
		{"accountID": "rev", "debit": "0", "credit": "500.00"}
	]
}`

func (suite *HandlerTestSuite) TestCreateJournalEntry_Success() {
	suite.journalSvc.On("CreateJournalEntry", anyCtx, suite.accountant, schoolA, mock.MatchedBy(func(r dto.CreateJournalEntryRequest) bool {
		return len(r.Lines) == 2 &&
			r.Lines[0].Debit.Equal(decimal.NewFromInt(500)) &&
			r.EntryDate.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	})).Return(sampleEntry(domain.Draft), nil).Once()

	w := suite.request(http.MethodPost, "/api/v1/schools/school-a/journal-entries", createEntryBody, suite.accountant)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.JournalEntryResponse
	suite.decode(w, &resp)
	suite.Equal("JE-2024-000001", resp.EntryNumber)
	suite.Equal(domain.Draft, resp.Status)
	suite.Len(resp.Lines, 2)
	suite.Contains(w.Body.String(), `"entryDate":"2024-03-05"`)
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_NegativeAmountRejected() {
	body := `{
		"description": "bad",
		"referenceType": "MANUAL",
		"lines": [
			{"accountID": "ar", "debit": "-10", "credit": "0"},
			{"accountID": "rev", "debit": "0", "credit": "-10"}
		]
	}`

	w := suite.request(http.MethodPost, "/api/v1/schools/school-a/journal-entries", body, suite.accountant)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorMessage(w), "decimal_gte0")
	suite.journalSvc.AssertNotCalled(suite.T(), "CreateJournalEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_UnbalancedIsBadRequest() {
	suite.journalSvc.On("CreateJournalEntry", anyCtx, suite.accountant, schoolA, mock.Anything).
		Return(nil, fmt.Errorf("%w: debits 500.00 do not equal credits 400.00", apperrors.ErrValidation)).Once()

	w := suite.request(http.MethodPost, "/api/v1/schools/school-a/journal-entries", createEntryBody, suite.accountant)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorMessage(w), "do not equal")
}

func (suite *HandlerTestSuite) TestPostJournalEntry() {
	suite.journalSvc.On("PostJournalEntry", anyCtx, suite.accountant, schoolA, "entry-1").
		Return(sampleEntry(domain.Posted), nil).Once()
	suite.journalSvc.On("PostJournalEntry", anyCtx, suite.accountant, schoolA, "entry-2").
		Return(nil, fmt.Errorf("%w: only DRAFT entries can be posted", apperrors.ErrInvalidState)).Once()
	suite.journalSvc.On("PostJournalEntry", anyCtx, suite.accountant, schoolA, "entry-3").
		Return(nil, fmt.Errorf("%w: retry the request", apperrors.ErrConflict)).Once()

	w := suite.request(http.MethodPost, "/api/v1/schools/school-a/journal-entries/entry-1/post", nil, suite.accountant)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodPost, "/api/v1/schools/school-a/journal-entries/entry-2/post", nil, suite.accountant)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/v1/schools/school-a/journal-entries/entry-3/post", nil, suite.accountant)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestReverseJournalEntry() {
	reversal := sampleEntry(domain.Posted)
	reversal.JournalEntryID = "entry-9"
	original := "entry-1"
	reversal.ReversalOfEntryID = &original
	suite.journalSvc.On("ReverseJournalEntry", anyCtx, suite.accountant, schoolA, "entry-1", mock.MatchedBy(func(r dto.ReverseJournalEntryRequest) bool {
		return r.Reason == "duplicate entry" && r.ReversalDate == nil
	})).Return(reversal, nil).Once()

	w := suite.request(http.MethodPost, "/api/v1/schools/school-a/journal-entries/entry-1/reverse",
		`{"reason":"duplicate entry"}`, suite.accountant)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.JournalEntryResponse
	suite.decode(w, &resp)
	suite.Require().NotNil(resp.ReversalOfEntryID)
	suite.Equal("entry-1", *resp.ReversalOfEntryID)
}

func (suite *HandlerTestSuite) TestReverseJournalEntry_ReasonRequired() {
	w := suite.request(http.MethodPost, "/api/v1/schools/school-a/journal-entries/entry-1/reverse", `{}`, suite.accountant)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListJournalEntries_LimitBounds() {
	w := suite.request(http.MethodGet, "/api/v1/schools/school-a/journal-entries?limit=1000", nil, suite.accountant)
	suite.Equal(http.StatusBadRequest, w.Code)

	next := "token-2"
	suite.journalSvc.On("ListJournalEntries", anyCtx, suite.accountant, schoolA, mock.MatchedBy(func(p dto.ListJournalEntriesParams) bool {
		return p.Limit == 20 && p.Status == domain.Posted
	})).Return(&dto.ListJournalEntriesResponse{
		JournalEntries: []dto.JournalEntryResponse{dto.ToJournalEntryResponse(sampleEntry(domain.Posted))},
		NextToken:      &next,
	}, nil).Once()

	w = suite.request(http.MethodGet, "/api/v1/schools/school-a/journal-entries?status=POSTED", nil, suite.accountant)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListJournalEntriesResponse
	suite.decode(w, &resp)
	suite.Len(resp.JournalEntries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
}

func (suite *HandlerTestSuite) TestDeleteJournalEntry_PostedRejected() {
	suite.journalSvc.On("DeleteJournalEntry", anyCtx, suite.accountant, schoolA, "entry-1").
		Return(fmt.Errorf("%w: only DRAFT entries can be deleted", apperrors.ErrInvalidState)).Once()

	w := suite.request(http.MethodDelete, "/api/v1/schools/school-a/journal-entries/entry-1", nil, suite.accountant)

	suite.Equal(http.StatusBadRequest, w.Code)
}

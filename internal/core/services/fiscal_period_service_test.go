package services_test

import (
	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/SscSPs/school_ledger/internal/core/services"
	"github.com/SscSPs/school_ledger/internal/dto"
)

func (s *LedgerScenarioSuite) TestCreatePeriod_Validation() {
	_, err := s.svc.FiscalPeriod.CreatePeriod(s.ctx, s.admin, schoolA, dto.CreateFiscalPeriodRequest{
		Name: "Backwards", StartDate: day("2024-05-31"), EndDate: day("2024-05-01"),
	})
	s.ErrorIs(err, services.ErrPeriodInvalidDate)

	_, err = s.svc.FiscalPeriod.CreatePeriod(s.ctx, s.admin, schoolA, dto.CreateFiscalPeriodRequest{
		Name: "Overlap", StartDate: day("2024-03-31"), EndDate: day("2024-04-30"),
	})
	s.ErrorIs(err, services.ErrPeriodOverlap)

	april, err := s.svc.FiscalPeriod.CreatePeriod(s.ctx, s.admin, schoolA, dto.CreateFiscalPeriodRequest{
		Name: "April 2024", StartDate: day("2024-04-01"), EndDate: day("2024-04-30"),
	})
	s.Require().NoError(err)
	s.Equal(domain.PeriodOpen, april.Status)

	// Another school may use the same dates.
	_, err = s.svc.FiscalPeriod.CreatePeriod(s.ctx, s.outsider, schoolB, dto.CreateFiscalPeriodRequest{
		Name: "March 2024", StartDate: day("2024-03-01"), EndDate: day("2024-03-31"),
	})
	s.NoError(err)

	periods, err := s.svc.FiscalPeriod.ListPeriods(s.ctx, s.accountant, schoolA)
	s.Require().NoError(err)
	s.Require().Len(periods, 2)
	s.Equal("March 2024", periods[0].Name)
	s.Equal("April 2024", periods[1].Name)
}

func (s *LedgerScenarioSuite) TestClosePeriod_BlocksPostingUntilReopened() {
	draftReq := s.entryRequest("2024-03-15", "1100", "4100", "500")
	s.createAndPost("2024-03-14", "1100", "4100", "100")

	closed, err := s.svc.FiscalPeriod.ClosePeriod(s.ctx, s.admin, schoolA, s.march.FiscalPeriodID)
	s.Require().NoError(err)
	s.Equal(domain.PeriodClosed, closed.Status)
	s.Require().NotNil(closed.ClosedBy)
	s.Equal(s.admin.UserID, *closed.ClosedBy)
	s.NotNil(closed.ClosedAt)

	_, err = s.svc.Journal.CreateJournalEntry(s.ctx, s.accountant, schoolA, draftReq)
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.ErrorIs(err, services.ErrPeriodClosed)

	_, err = s.svc.FiscalPeriod.ClosePeriod(s.ctx, s.admin, schoolA, s.march.FiscalPeriodID)
	s.ErrorIs(err, services.ErrPeriodNotOpen)

	_, err = s.svc.FiscalPeriod.ReopenPeriod(s.ctx, s.admin, schoolA, s.march.FiscalPeriodID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	reopened, err := s.svc.FiscalPeriod.ReopenPeriod(s.ctx, s.operator, schoolA, s.march.FiscalPeriodID)
	s.Require().NoError(err)
	s.Equal(domain.PeriodOpen, reopened.Status)
	s.Nil(reopened.ClosedAt)
	s.Nil(reopened.ClosedBy)

	_, err = s.svc.Journal.CreateJournalEntry(s.ctx, s.accountant, schoolA, draftReq)
	s.NoError(err)

	_, err = s.svc.FiscalPeriod.ReopenPeriod(s.ctx, s.operator, schoolA, s.march.FiscalPeriodID)
	s.ErrorIs(err, services.ErrPeriodNotClosed)
}

func (s *LedgerScenarioSuite) TestClosePeriod_DraftsBlockClose() {
	draft, err := s.svc.Journal.CreateJournalEntry(s.ctx, s.accountant, schoolA, s.entryRequest("2024-03-15", "1100", "4100", "500"))
	s.Require().NoError(err)

	_, err = s.svc.FiscalPeriod.ClosePeriod(s.ctx, s.admin, schoolA, s.march.FiscalPeriodID)
	s.ErrorIs(err, services.ErrDraftsBlockClose)

	period, err := s.svc.FiscalPeriod.GetPeriod(s.ctx, s.admin, schoolA, s.march.FiscalPeriodID)
	s.Require().NoError(err)
	s.Equal(domain.PeriodOpen, period.Status)

	s.Require().NoError(s.svc.Journal.DeleteJournalEntry(s.ctx, s.accountant, schoolA, draft.JournalEntryID))
	_, err = s.svc.FiscalPeriod.ClosePeriod(s.ctx, s.admin, schoolA, s.march.FiscalPeriodID)
	s.NoError(err)
}

func (s *LedgerScenarioSuite) TestPeriodTenantBoundary() {
	_, err := s.svc.FiscalPeriod.GetPeriod(s.ctx, s.outsider, schoolB, s.march.FiscalPeriodID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.svc.FiscalPeriod.ClosePeriod(s.ctx, s.outsider, schoolA, s.march.FiscalPeriodID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.svc.FiscalPeriod.GetPeriod(s.ctx, s.admin, schoolA, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerScenarioSuite) TestPeriodTransitions_RunAtReadCommitted() {
	// Journal writes keep the default isolation.
	s.createAndPost("2024-03-14", "1100", "4100", "100")
	s.False(s.ledger.lastTxOptions().ReadCommitted)

	// Close and reopen count drafts after waiting on the period lock, so they need a fresh snapshot.
	_, err := s.svc.FiscalPeriod.ClosePeriod(s.ctx, s.admin, schoolA, s.march.FiscalPeriodID)
	s.Require().NoError(err)
	s.True(s.ledger.lastTxOptions().ReadCommitted)

	_, err = s.svc.FiscalPeriod.ReopenPeriod(s.ctx, s.operator, schoolA, s.march.FiscalPeriodID)
	s.Require().NoError(err)
	s.True(s.ledger.lastTxOptions().ReadCommitted)
}

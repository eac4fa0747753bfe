package accounting

import (
	"sort"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrentEarningsName labels the computed equity line on the balance sheet.
const CurrentEarningsName = "Current Earnings"

func sortActivity(activity []domain.AccountActivity) []domain.AccountActivity {
	sorted := make([]domain.AccountActivity, len(activity))
	copy(sorted, activity)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	return sorted
}

// BuildTrialBalance turns per-account activity into a trial balance.
// Inactive accounts are listed only when they carry activity.
func BuildTrialBalance(activity []domain.AccountActivity, rng domain.ReportRange) domain.TrialBalanceReport {
	report := domain.TrialBalanceReport{
		StartDate:   rng.StartDate,
		EndDate:     rng.EndDate,
		Rows:        make([]domain.TrialBalanceRow, 0, len(activity)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, a := range sortActivity(activity) {
		if !a.IsActive && a.Debit.IsZero() && a.Credit.IsZero() {
			continue
		}
		net, err := SignedAmount(a.Debit, a.Credit, a.AccountType)
		if err != nil {
			net = a.Debit.Sub(a.Credit)
		}
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:   a.AccountID,
			Code:        a.Code,
			AccountName: a.Name,
			AccountType: a.AccountType,
			TotalDebit:  a.Debit,
			TotalCredit: a.Credit,
			NetBalance:  net,
		})
		report.TotalDebit = report.TotalDebit.Add(a.Debit)
		report.TotalCredit = report.TotalCredit.Add(a.Credit)
	}
	report.IsBalanced = report.TotalDebit.Equal(report.TotalCredit)
	return report
}

// BuildIncomeStatement sums revenue (credit-normal) and expense (debit-normal) accounts.
func BuildIncomeStatement(activity []domain.AccountActivity, rng domain.ReportRange) domain.IncomeStatementReport {
	report := domain.IncomeStatementReport{
		StartDate:    rng.StartDate,
		EndDate:      rng.EndDate,
		Revenue:      []domain.AccountAmount{},
		Expenses:     []domain.AccountAmount{},
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, a := range sortActivity(activity) {
		switch a.AccountType {
		case domain.Revenue:
			net := a.Credit.Sub(a.Debit)
			if !a.IsActive && net.IsZero() {
				continue
			}
			report.Revenue = append(report.Revenue, domain.AccountAmount{AccountID: a.AccountID, Code: a.Code, Name: a.Name, NetAmount: net})
			report.TotalRevenue = report.TotalRevenue.Add(net)
		case domain.Expense:
			net := a.Debit.Sub(a.Credit)
			if !a.IsActive && net.IsZero() {
				continue
			}
			report.Expenses = append(report.Expenses, domain.AccountAmount{AccountID: a.AccountID, Code: a.Code, Name: a.Name, NetAmount: net})
			report.TotalExpense = report.TotalExpense.Add(net)
		}
	}
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpense)
	return report
}

// BuildBalanceSheet produces an as-of snapshot. Revenue and expense activity up to asOf
// is folded into equity as a single current earnings line so the sheet balances.
func BuildBalanceSheet(activity []domain.AccountActivity, asOf time.Time) domain.BalanceSheetReport {
	report := domain.BalanceSheetReport{
		AsOf:             asOf,
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	earnings := decimal.Zero
	for _, a := range sortActivity(activity) {
		var net decimal.Decimal
		switch a.AccountType {
		case domain.Asset:
			net = a.Debit.Sub(a.Credit)
		case domain.Liability, domain.Equity:
			net = a.Credit.Sub(a.Debit)
		case domain.Revenue:
			earnings = earnings.Add(a.Credit.Sub(a.Debit))
			continue
		case domain.Expense:
			earnings = earnings.Sub(a.Debit.Sub(a.Credit))
			continue
		default:
			continue
		}
		if !a.IsActive && net.IsZero() {
			continue
		}
		line := domain.AccountAmount{AccountID: a.AccountID, Code: a.Code, Name: a.Name, NetAmount: net}
		switch a.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, line)
			report.TotalAssets = report.TotalAssets.Add(net)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, line)
			report.TotalLiabilities = report.TotalLiabilities.Add(net)
		case domain.Equity:
			report.Equity = append(report.Equity, line)
			report.TotalEquity = report.TotalEquity.Add(net)
		}
	}
	report.Equity = append(report.Equity, domain.AccountAmount{Name: CurrentEarningsName, NetAmount: earnings})
	report.TotalEquity = report.TotalEquity.Add(earnings)
	report.IsBalanced = report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity))
	return report
}

// BuildAccountLedger applies the account's sign convention to a page of raw rows
// and threads the running balance through it.
func BuildAccountLedger(account domain.Account, page domain.LedgerPageRows, q domain.LedgerQuery) (domain.AccountLedger, error) {
	opening, err := SignedAmount(page.PriorDebit, page.PriorCredit, account.AccountType)
	if err != nil {
		return domain.AccountLedger{}, err
	}
	ledger := domain.AccountLedger{
		Account:        domain.AccountRef{AccountID: account.AccountID, Code: account.Code, Name: account.Name},
		AccountType:    account.AccountType,
		StartDate:      q.StartDate,
		EndDate:        q.EndDate,
		OpeningBalance: opening,
		Lines:          make([]domain.LedgerLine, 0, len(page.Rows)),
		Total:          page.Total,
		Limit:          q.Limit,
		Offset:         q.Offset,
	}
	running := opening
	for _, r := range page.Rows {
		delta, err := SignedAmount(r.Debit, r.Credit, account.AccountType)
		if err != nil {
			return domain.AccountLedger{}, err
		}
		running = running.Add(delta)
		ledger.Lines = append(ledger.Lines, domain.LedgerLine{
			JournalEntryID: r.JournalEntryID,
			EntryNumber:    r.EntryNumber,
			EntryDate:      r.EntryDate,
			Description:    r.Description,
			LineNumber:     r.LineNumber,
			Debit:          r.Debit,
			Credit:         r.Credit,
			RunningBalance: running,
		})
	}
	ledger.ClosingBalance = running
	return ledger, nil
}

package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrTooFewLines       = fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrValidation)
	ErrInvalidLineAmount = fmt.Errorf("%w: each line must have exactly one of debit or credit greater than zero", apperrors.ErrValidation)
	ErrNegativeAmount    = fmt.Errorf("%w: line amounts cannot be negative", apperrors.ErrValidation)
	ErrUnbalanced        = fmt.Errorf("%w: total debits must equal total credits", apperrors.ErrValidation)
	ErrAmountScale       = fmt.Errorf("%w: line amounts may have at most %d decimal places", apperrors.ErrValidation, AmountScale)
)

// AmountScale is the number of decimal places the ledger stores for an amount.
const AmountScale = 4

// SignedAmount returns the effect of a debit/credit pair on an account's balance.
// DEBIT to ASSET/EXPENSE -> Positive (+), CREDIT -> Negative (-).
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+), DEBIT -> Negative (-).
func SignedAmount(debit, credit decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// LineTotals sums the debit and credit columns.
func LineTotals(lines []domain.JournalEntryLine) (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// ValidateLines checks the structural rules of an entry's lines and returns its totals.
// Comparison is exact; no rounding is applied, so amounts finer than AmountScale are rejected
// rather than rounded by storage after the balance check.
func ValidateLines(lines []domain.JournalEntryLine) (decimal.Decimal, decimal.Decimal, error) {
	if len(lines) < 2 {
		return decimal.Zero, decimal.Zero, ErrTooFewLines
	}
	for i, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w (line %d)", ErrNegativeAmount, i+1)
		}
		if !l.Debit.Round(AmountScale).Equal(l.Debit) || !l.Credit.Round(AmountScale).Equal(l.Credit) {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w (line %d)", ErrAmountScale, i+1)
		}
		if l.Debit.IsPositive() == l.Credit.IsPositive() {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w (line %d)", ErrInvalidLineAmount, i+1)
		}
	}
	debit, credit := LineTotals(lines)
	if !debit.Equal(credit) {
		return debit, credit, fmt.Errorf("%w: debits %s, credits %s", ErrUnbalanced, debit.String(), credit.String())
	}
	return debit, credit, nil
}

// MirrorLines swaps debit and credit on every line, keeping account and order.
func MirrorLines(lines []domain.JournalEntryLine) []domain.JournalEntryLine {
	mirrored := make([]domain.JournalEntryLine, len(lines))
	for i, l := range lines {
		mirrored[i] = domain.JournalEntryLine{
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Description: l.Description,
			LineNumber:  l.LineNumber,
		}
	}
	return mirrored
}

// BalanceChanges computes the per-account balance delta posting the lines would cause.
func BalanceChanges(lines []domain.JournalEntryLine, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(accounts))
	for _, l := range lines {
		acc, ok := accounts[l.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, l.AccountID)
		}
		signed, err := SignedAmount(l.Debit, l.Credit, acc.AccountType)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", l.AccountID, err)
		}
		changes[l.AccountID] = changes[l.AccountID].Add(signed)
	}
	return changes, nil
}

// DistinctAccountIDs returns the sorted set of accounts referenced by lines.
// Locking accounts in this order keeps concurrent posts from deadlocking.
func DistinctAccountIDs(lines []domain.JournalEntryLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	sort.Strings(ids)
	return ids
}

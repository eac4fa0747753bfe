package repositories

import (
	"context"
)

// LedgerTx is the set of operations bound to one database transaction.
type LedgerTx interface {
	AccountTxOps
	PeriodTxOps
	JournalTxOps
}

// TxOptions tunes a single unit of work.
type TxOptions struct {
	// ReadCommitted gives each statement a fresh snapshot. Checks made after waiting on a
	// row lock then see rows committed by the transaction that held it.
	ReadCommitted bool
}

// TxOption sets a field of TxOptions.
type TxOption func(*TxOptions)

// ReadCommitted runs the unit of work at read committed instead of repeatable read.
func ReadCommitted() TxOption {
	return func(o *TxOptions) {
		o.ReadCommitted = true
	}
}

// ApplyTxOptions folds opts over the defaults.
func ApplyTxOptions(opts ...TxOption) TxOptions {
	var o TxOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// TransactionManager runs fn inside a single transaction. The transaction commits when fn
// returns nil and rolls back otherwise. A serialization failure surfaces as apperrors.ErrConflict.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error, opts ...TxOption) error
}

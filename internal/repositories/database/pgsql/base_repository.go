package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxTxAttempts bounds how often WithTx reruns fn after a serialization failure or deadlock.
const maxTxAttempts = 3

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
	db   querier // the pool, or the open transaction for repositories bound by WithTx
}

func newBaseRepository(pool *pgxpool.Pool) BaseRepository {
	return BaseRepository{Pool: pool, db: pool}
}

// txIsoLevel maps the port options onto a pgx isolation level. Repeatable read is the default.
func txIsoLevel(o portsrepo.TxOptions) pgx.TxIsoLevel {
	if o.ReadCommitted {
		return pgx.ReadCommitted
	}
	return pgx.RepeatableRead
}

// Begin starts a new transaction at the given isolation level
func (r *BaseRepository) Begin(ctx context.Context, iso pgx.TxIsoLevel) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: iso})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, "failed to commit transaction")
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// WithTx runs fn in a transaction whose repositories all share it. fn is rerun, up to
// maxTxAttempts times, when the database aborts the transaction for serialization or deadlock.
func (r *BaseRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error, opts ...portsrepo.TxOption) error {
	iso := txIsoLevel(portsrepo.ApplyTxOptions(opts...))
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = r.runTx(ctx, iso, fn)
		if !errors.Is(err, apperrors.ErrConflict) || ctx.Err() != nil {
			return err
		}
		slog.WarnContext(ctx, "Retrying ledger transaction after conflict",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
	}
	return err
}

func (r *BaseRepository) runTx(ctx context.Context, iso pgx.TxIsoLevel, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := r.Begin(ctx, iso)
	if err != nil {
		return err
	}
	// Ignored once the transaction is committed
	defer r.Rollback(ctx, tx)

	if err := fn(ctx, newLedgerTx(r.Pool, tx)); err != nil {
		return mapPgError(err, "ledger transaction failed")
	}
	return r.Commit(ctx, tx)
}

// ledgerTx binds every repository to one open transaction.
type ledgerTx struct {
	*PgxAccountRepository
	*PgxFiscalPeriodRepository
	*PgxJournalRepository
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func newLedgerTx(pool *pgxpool.Pool, tx pgx.Tx) *ledgerTx {
	base := BaseRepository{Pool: pool, db: tx}
	return &ledgerTx{
		PgxAccountRepository:      &PgxAccountRepository{BaseRepository: base},
		PgxFiscalPeriodRepository: &PgxFiscalPeriodRepository{BaseRepository: base},
		PgxJournalRepository:      &PgxJournalRepository{BaseRepository: base},
	}
}

// mapPgError translates driver errors into apperrors sentinels. Errors that already carry
// a sentinel pass through unchanged.
func mapPgError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23P01": // unique violation, exclusion violation
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, pgErr.ConstraintName)
		case "23503": // foreign key violation
			return fmt.Errorf("%w: referenced by other records (%s)", apperrors.ErrValidation, pgErr.ConstraintName)
		case "23514": // check violation
			return fmt.Errorf("%w: violates %s", apperrors.ErrValidation, pgErr.ConstraintName)
		case "40001", "40P01": // serialization failure, deadlock
			return fmt.Errorf("%w: concurrent update, please retry", apperrors.ErrConflict)
		}
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}

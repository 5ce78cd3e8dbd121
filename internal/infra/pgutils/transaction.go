package pgutils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const codeSerializationFailure = "40001"

var ErrSnapshotConflict = errors.New("snapshot read conflicted with a concurrent write, retry")

// WithReadOnlySnapshot runs fn inside a READ ONLY, REPEATABLE READ transaction,
// so every query fn issues sees the same point in time. The transaction is
// always rolled back; nothing is ever written.
func WithReadOnlySnapshot(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}

	//nolint:errcheck
	defer tx.Rollback()

	err = fn(tx)
	if err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("fn: %w: %w", ErrSnapshotConflict, err)
		}

		return fmt.Errorf("fn: %w", err)
	}

	return nil
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == codeSerializationFailure
}

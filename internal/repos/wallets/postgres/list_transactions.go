package wallets

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

// ListTransactions returns every wallet transaction whose occurred_at falls in
// rng. Rows come back in id order; callers that fold them must sort.
func (r *walletsRepo) ListTransactions(
	ctx context.Context,
	tx *sql.Tx,
	rng domain.DateRange,
	page pgutils.Page,
) ([]domain.Transaction, bool, error) {
	from, to := pgutils.NullTime(rng.From), pgutils.NullTime(rng.To)

	fetch := func(ctx context.Context, tx *sql.Tx, after int64, limit int) ([]domain.Transaction, int64, error) {
		rows, err := tx.QueryContext(ctx, `
			SELECT id, wallet_id, amount, source_type, occurred_at
			FROM wallet_transactions
			WHERE id > $1
			  AND ($2::timestamptz IS NULL OR occurred_at >= $2)
			  AND ($3::timestamptz IS NULL OR occurred_at <= $3)
			ORDER BY id
			LIMIT $4
		`, after, from, to, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("query transactions: %w", err)
		}
		//nolint:errcheck
		defer rows.Close()

		var (
			out  []domain.Transaction
			last int64
		)

		for rows.Next() {
			var (
				t          domain.Transaction
				amount     sql.NullInt64
				sourceType sql.NullString
				occurredAt sql.NullTime
			)

			err = rows.Scan(&t.ID, &t.WalletID, &amount, &sourceType, &occurredAt)
			if err != nil {
				return nil, 0, fmt.Errorf("scan transaction: %w", err)
			}

			if !amount.Valid {
				return nil, 0, domain.MissingField("wallet_transaction", t.ID, "amount")
			}

			if !occurredAt.Valid {
				return nil, 0, domain.MissingField("wallet_transaction", t.ID, "occurred_at")
			}

			t.Amount = amount.Int64
			t.Source = domain.ParseSourceType(sourceType.String)
			t.OccurredAt = occurredAt.Time

			out = append(out, t)
			last = t.ID
		}

		err = rows.Err()
		if err != nil {
			return nil, 0, fmt.Errorf("iterate transactions: %w", err)
		}

		return out, last, nil
	}

	txs, truncated, err := pgutils.Paginate(ctx, tx, page, fetch)
	if err != nil {
		return nil, false, fmt.Errorf("list transactions: %w", err)
	}

	return txs, truncated, nil
}

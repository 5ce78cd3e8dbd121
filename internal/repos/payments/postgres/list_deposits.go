package payments

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

func (r *paymentsRepo) ListPaidDeposits(
	ctx context.Context,
	tx *sql.Tx,
	rng domain.DateRange,
	page pgutils.Page,
) ([]domain.Deposit, bool, error) {
	from, to := pgutils.NullTime(rng.From), pgutils.NullTime(rng.To)

	fetch := func(ctx context.Context, tx *sql.Tx, after int64, limit int) ([]domain.Deposit, int64, error) {
		rows, err := tx.QueryContext(ctx, `
			SELECT id, user_id, amount, status, created_at
			FROM deposits
			WHERE id > $1
			  AND status = $2
			  AND ($3::timestamptz IS NULL OR created_at >= $3)
			  AND ($4::timestamptz IS NULL OR created_at <= $4)
			ORDER BY id
			LIMIT $5
		`, after, domain.DepositPaid, from, to, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("query deposits: %w", err)
		}
		//nolint:errcheck
		defer rows.Close()

		var (
			out  []domain.Deposit
			last int64
		)

		for rows.Next() {
			var p paymentRow

			err = rows.Scan(&p.id, &p.userID, &p.amount, &p.status, &p.createdAt)
			if err != nil {
				return nil, 0, fmt.Errorf("scan deposit: %w", err)
			}

			err = p.validate("deposit")
			if err != nil {
				return nil, 0, err
			}

			out = append(out, domain.Deposit{
				ID:        p.id,
				UserID:    p.userID.Int64,
				Amount:    p.amount.Int64,
				Status:    p.status,
				CreatedAt: p.createdAt.Time,
			})
			last = p.id
		}

		err = rows.Err()
		if err != nil {
			return nil, 0, fmt.Errorf("iterate deposits: %w", err)
		}

		return out, last, nil
	}

	ds, truncated, err := pgutils.Paginate(ctx, tx, page, fetch)
	if err != nil {
		return nil, false, fmt.Errorf("list paid deposits: %w", err)
	}

	return ds, truncated, nil
}

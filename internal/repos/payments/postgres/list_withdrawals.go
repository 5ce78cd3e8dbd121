package payments

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

func (r *paymentsRepo) ListSettledWithdrawals(
	ctx context.Context,
	tx *sql.Tx,
	rng domain.DateRange,
	page pgutils.Page,
) ([]domain.Withdrawal, bool, error) {
	from, to := pgutils.NullTime(rng.From), pgutils.NullTime(rng.To)

	fetch := func(ctx context.Context, tx *sql.Tx, after int64, limit int) ([]domain.Withdrawal, int64, error) {
		rows, err := tx.QueryContext(ctx, `
			SELECT id, user_id, amount, status, created_at
			FROM withdrawals
			WHERE id > $1
			  AND status IN ($2, $3)
			  AND ($4::timestamptz IS NULL OR created_at >= $4)
			  AND ($5::timestamptz IS NULL OR created_at <= $5)
			ORDER BY id
			LIMIT $6
		`, after, domain.WithdrawalApproved, domain.WithdrawalPaid, from, to, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("query withdrawals: %w", err)
		}
		//nolint:errcheck
		defer rows.Close()

		var (
			out  []domain.Withdrawal
			last int64
		)

		for rows.Next() {
			var p paymentRow

			err = rows.Scan(&p.id, &p.userID, &p.amount, &p.status, &p.createdAt)
			if err != nil {
				return nil, 0, fmt.Errorf("scan withdrawal: %w", err)
			}

			err = p.validate("withdrawal")
			if err != nil {
				return nil, 0, err
			}

			out = append(out, domain.Withdrawal{
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
			return nil, 0, fmt.Errorf("iterate withdrawals: %w", err)
		}

		return out, last, nil
	}

	ws, truncated, err := pgutils.Paginate(ctx, tx, page, fetch)
	if err != nil {
		return nil, false, fmt.Errorf("list settled withdrawals: %w", err)
	}

	return ws, truncated, nil
}

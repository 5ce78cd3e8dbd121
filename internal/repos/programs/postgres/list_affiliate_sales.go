package programs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

func (r *programsRepo) ListAffiliateSales(
	ctx context.Context,
	tx *sql.Tx,
	rng domain.DateRange,
	page pgutils.Page,
) ([]domain.AffiliateSale, bool, error) {
	from, to := pgutils.NullTime(rng.From), pgutils.NullTime(rng.To)

	fetch := func(ctx context.Context, tx *sql.Tx, after int64, limit int) ([]domain.AffiliateSale, int64, error) {
		rows, err := tx.QueryContext(ctx, `
			SELECT id, affiliate_id, buyer_id, commission_amount, created_at
			FROM affiliate_sales
			WHERE id > $1
			  AND ($2::timestamptz IS NULL OR created_at >= $2)
			  AND ($3::timestamptz IS NULL OR created_at <= $3)
			ORDER BY id
			LIMIT $4
		`, after, from, to, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("query affiliate sales: %w", err)
		}
		//nolint:errcheck
		defer rows.Close()

		var (
			out  []domain.AffiliateSale
			last int64
		)

		for rows.Next() {
			var (
				sale       domain.AffiliateSale
				buyerID    sql.NullInt64
				commission sql.NullInt64
			)

			err = rows.Scan(&sale.ID, &sale.AffiliateID, &buyerID, &commission, &sale.CreatedAt)
			if err != nil {
				return nil, 0, fmt.Errorf("scan affiliate sale: %w", err)
			}

			if !commission.Valid {
				return nil, 0, domain.MissingField("affiliate_sale", sale.ID, "commission_amount")
			}

			sale.BuyerID = buyerID.Int64
			sale.CommissionAmount = commission.Int64

			out = append(out, sale)
			last = sale.ID
		}

		err = rows.Err()
		if err != nil {
			return nil, 0, fmt.Errorf("iterate affiliate sales: %w", err)
		}

		return out, last, nil
	}

	sales, truncated, err := pgutils.Paginate(ctx, tx, page, fetch)
	if err != nil {
		return nil, false, fmt.Errorf("list affiliate sales: %w", err)
	}

	return sales, truncated, nil
}

package programs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

func (r *programsRepo) ListReferrals(
	ctx context.Context,
	tx *sql.Tx,
	rng domain.DateRange,
	page pgutils.Page,
) ([]domain.Referral, bool, error) {
	from, to := pgutils.NullTime(rng.From), pgutils.NullTime(rng.To)

	fetch := func(ctx context.Context, tx *sql.Tx, after int64, limit int) ([]domain.Referral, int64, error) {
		rows, err := tx.QueryContext(ctx, `
			SELECT id, referrer_id, referred_user_id, bonus_awarded, created_at
			FROM referrals
			WHERE id > $1
			  AND ($2::timestamptz IS NULL OR created_at >= $2)
			  AND ($3::timestamptz IS NULL OR created_at <= $3)
			ORDER BY id
			LIMIT $4
		`, after, from, to, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("query referrals: %w", err)
		}
		//nolint:errcheck
		defer rows.Close()

		var (
			out  []domain.Referral
			last int64
		)

		for rows.Next() {
			var (
				ref   domain.Referral
				bonus sql.NullInt64
			)

			err = rows.Scan(&ref.ID, &ref.ReferrerID, &ref.ReferredUserID, &bonus, &ref.CreatedAt)
			if err != nil {
				return nil, 0, fmt.Errorf("scan referral: %w", err)
			}

			if !bonus.Valid {
				return nil, 0, domain.MissingField("referral", ref.ID, "bonus_awarded")
			}

			ref.BonusAwarded = bonus.Int64

			out = append(out, ref)
			last = ref.ID
		}

		err = rows.Err()
		if err != nil {
			return nil, 0, fmt.Errorf("iterate referrals: %w", err)
		}

		return out, last, nil
	}

	refs, truncated, err := pgutils.Paginate(ctx, tx, page, fetch)
	if err != nil {
		return nil, false, fmt.Errorf("list referrals: %w", err)
	}

	return refs, truncated, nil
}

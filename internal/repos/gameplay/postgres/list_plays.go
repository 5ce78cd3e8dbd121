package gameplay

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

func (r *gameplayRepo) ListPlays(
	ctx context.Context,
	tx *sql.Tx,
	line domain.ProductLine,
	rng domain.DateRange,
	page pgutils.Page,
) ([]domain.Play, bool, error) {
	table, err := tableFor(line)
	if err != nil {
		return nil, false, err
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, price, prize_won, created_at
		FROM %s
		WHERE id > $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY id
		LIMIT $4
	`, table)

	from, to := pgutils.NullTime(rng.From), pgutils.NullTime(rng.To)

	fetch := func(ctx context.Context, tx *sql.Tx, after int64, limit int) ([]domain.Play, int64, error) {
		rows, err := tx.QueryContext(ctx, query, after, from, to, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("query %s: %w", table, err)
		}
		//nolint:errcheck
		defer rows.Close()

		var (
			out  []domain.Play
			last int64
		)

		for rows.Next() {
			var (
				id        int64
				userID    sql.NullInt64
				price     sql.NullInt64
				prizeWon  sql.NullInt64
				createdAt sql.NullTime
			)

			err = rows.Scan(&id, &userID, &price, &prizeWon, &createdAt)
			if err != nil {
				return nil, 0, fmt.Errorf("scan %s: %w", table, err)
			}

			switch {
			case !userID.Valid:
				return nil, 0, domain.MissingField(table, id, "user_id")
			case !price.Valid:
				return nil, 0, domain.MissingField(table, id, "price")
			case !createdAt.Valid:
				return nil, 0, domain.MissingField(table, id, "created_at")
			}

			out = append(out, domain.Play{
				ID:       id,
				Line:     line,
				UserID:   userID.Int64,
				Price:    price.Int64,
				PrizeWon: prizeWon.Int64, // NULL is no prize
				PlayedAt: createdAt.Time,
			})
			last = id
		}

		err = rows.Err()
		if err != nil {
			return nil, 0, fmt.Errorf("iterate %s: %w", table, err)
		}

		return out, last, nil
	}

	plays, truncated, err := pgutils.Paginate(ctx, tx, page, fetch)
	if err != nil {
		return nil, false, fmt.Errorf("list %s plays: %w", line, err)
	}

	return plays, truncated, nil
}

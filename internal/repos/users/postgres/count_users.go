package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

func (r *usersRepo) CountUsers(ctx context.Context, tx *sql.Tx, rng domain.DateRange) (int64, error) {
	var n int64

	err := tx.QueryRowContext(ctx, `
		SELECT count(*)
		FROM users
		WHERE ($1::timestamptz IS NULL OR created_at <= $1)
	`, pgutils.NullTime(rng.To)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return n, nil
}

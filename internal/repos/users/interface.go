package users

import (
	"context"
	"database/sql"

	"github.com/fastprodman/finrecon/internal/domain"
)

type Users interface {
	// CountUsers counts accounts registered by the end of rng (all accounts when
	// rng has no upper bound). Anyone active inside rng is part of that base.
	CountUsers(ctx context.Context, tx *sql.Tx, rng domain.DateRange) (int64, error)
}

package programs

import (
	"context"
	"database/sql"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

// Programs reads the referral and affiliate program payouts.
type Programs interface {
	ListReferrals(ctx context.Context, tx *sql.Tx, rng domain.DateRange, page pgutils.Page) ([]domain.Referral, bool, error)
	ListAffiliateSales(ctx context.Context, tx *sql.Tx, rng domain.DateRange, page pgutils.Page) ([]domain.AffiliateSale, bool, error)
}

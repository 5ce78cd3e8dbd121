package payments

import (
	"context"
	"database/sql"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

type Payments interface {
	// ListPaidDeposits returns deposits in status paid created inside rng.
	ListPaidDeposits(ctx context.Context, tx *sql.Tx, rng domain.DateRange, page pgutils.Page) ([]domain.Deposit, bool, error)
	// ListSettledWithdrawals returns withdrawals in status approved or paid created inside rng.
	ListSettledWithdrawals(ctx context.Context, tx *sql.Tx, rng domain.DateRange, page pgutils.Page) ([]domain.Withdrawal, bool, error)
}

package wallets

import (
	"context"
	"database/sql"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

// Wallets reads wallet balances and their transaction records. Every list
// reports truncated=true when it stopped at the page row cap.
type Wallets interface {
	ListWallets(ctx context.Context, tx *sql.Tx, page pgutils.Page) ([]domain.Wallet, bool, error)
	ListTransactions(ctx context.Context, tx *sql.Tx, rng domain.DateRange, page pgutils.Page) ([]domain.Transaction, bool, error)
}

package wallets

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

func (r *walletsRepo) ListWallets(ctx context.Context, tx *sql.Tx, page pgutils.Page) ([]domain.Wallet, bool, error) {
	ws, truncated, err := pgutils.Paginate(ctx, tx, page, fetchWallets)
	if err != nil {
		return nil, false, fmt.Errorf("list wallets: %w", err)
	}

	return ws, truncated, nil
}

func fetchWallets(ctx context.Context, tx *sql.Tx, after int64, limit int) ([]domain.Wallet, int64, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, user_id, balance
		FROM wallets
		WHERE id > $1
		ORDER BY id
		LIMIT $2
	`, after, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query wallets: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	var (
		out  []domain.Wallet
		last int64
	)

	for rows.Next() {
		var w domain.Wallet

		err = rows.Scan(&w.ID, &w.UserID, &w.Balance)
		if err != nil {
			return nil, 0, fmt.Errorf("scan wallet: %w", err)
		}

		out = append(out, w)
		last = w.ID
	}

	err = rows.Err()
	if err != nil {
		return nil, 0, fmt.Errorf("iterate wallets: %w", err)
	}

	return out, last, nil
}

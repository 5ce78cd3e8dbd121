package recon

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
	"github.com/fastprodman/finrecon/internal/repos/gameplay"
	pggameplay "github.com/fastprodman/finrecon/internal/repos/gameplay/postgres"
	"github.com/fastprodman/finrecon/internal/repos/payments"
	pgpayments "github.com/fastprodman/finrecon/internal/repos/payments/postgres"
	"github.com/fastprodman/finrecon/internal/repos/programs"
	pgprograms "github.com/fastprodman/finrecon/internal/repos/programs/postgres"
	"github.com/fastprodman/finrecon/internal/repos/users"
	pgusers "github.com/fastprodman/finrecon/internal/repos/users/postgres"
	"github.com/fastprodman/finrecon/internal/repos/wallets"
	pgwallets "github.com/fastprodman/finrecon/internal/repos/wallets/postgres"
)

var _ Source = (*PostgresSource)(nil)

type PostgresSource struct {
	db       *sql.DB
	page     pgutils.Page
	wallets  wallets.Wallets
	payments payments.Payments
	gameplay gameplay.Gameplay
	programs programs.Programs
	users    users.Users
}

func NewPostgresSource(db *sql.DB, page pgutils.Page) *PostgresSource {
	return &PostgresSource{
		db:       db,
		page:     page,
		wallets:  pgwallets.New(),
		payments: pgpayments.New(),
		gameplay: pggameplay.New(),
		programs: pgprograms.New(),
		users:    pgusers.New(),
	}
}

// Load reads every source table inside one read-only snapshot transaction.
func (s *PostgresSource) Load(ctx context.Context, rng domain.DateRange) (*domain.Dataset, error) {
	ds := &domain.Dataset{Range: rng}

	err := pgutils.WithReadOnlySnapshot(ctx, s.db, func(tx *sql.Tx) error {
		return s.load(ctx, tx, rng, ds)
	})
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	return ds, nil
}

//nolint:cyclop
func (s *PostgresSource) load(ctx context.Context, tx *sql.Tx, rng domain.DateRange, ds *domain.Dataset) error {
	var (
		truncated bool
		err       error
	)

	mark := func(table string) {
		if truncated {
			ds.TruncatedTables = append(ds.TruncatedTables, table)
		}
	}

	// Wallet balances are current state; the range filters only the evidence.
	ds.Wallets, truncated, err = s.wallets.ListWallets(ctx, tx, s.page)
	if err != nil {
		return err
	}

	mark("wallets")

	ds.Transactions, truncated, err = s.wallets.ListTransactions(ctx, tx, rng, s.page)
	if err != nil {
		return err
	}

	mark("wallet_transactions")

	ds.Deposits, truncated, err = s.payments.ListPaidDeposits(ctx, tx, rng, s.page)
	if err != nil {
		return err
	}

	mark("deposits")

	ds.Withdrawals, truncated, err = s.payments.ListSettledWithdrawals(ctx, tx, rng, s.page)
	if err != nil {
		return err
	}

	mark("withdrawals")

	for _, line := range domain.ProductLines {
		var plays []domain.Play

		plays, truncated, err = s.gameplay.ListPlays(ctx, tx, line, rng, s.page)
		if err != nil {
			return err
		}

		mark(string(line) + " plays")

		ds.Plays = append(ds.Plays, plays...)
	}

	ds.Referrals, truncated, err = s.programs.ListReferrals(ctx, tx, rng, s.page)
	if err != nil {
		return err
	}

	mark("referrals")

	ds.AffiliateSales, truncated, err = s.programs.ListAffiliateSales(ctx, tx, rng, s.page)
	if err != nil {
		return err
	}

	mark("affiliate_sales")

	ds.TotalUsers, err = s.users.CountUsers(ctx, tx, rng)
	if err != nil {
		return err
	}

	return nil
}

package recon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/logging"
	"github.com/fastprodman/finrecon/internal/infra/pgtestutil"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

var sourceSeed = []string{
	`INSERT INTO users (id, created_at) VALUES (1, '2025-01-01T00:00:00Z'), (2, '2025-01-02T00:00:00Z'), (3, '2025-01-03T00:00:00Z')`,
	`INSERT INTO wallets (id, user_id, balance) VALUES (1, 1, 10000), (2, 2, 5000), (3, 3, 0)`,
	`INSERT INTO wallet_transactions (id, wallet_id, amount, source_type, occurred_at) VALUES
		(1, 1, 10000, 'deposit',  '2025-01-05T00:00:00Z'),
		(2, 2, 8000,  'referral', '2025-01-05T00:00:00Z'),
		(3, 2, -3000, 'purchase', '2025-01-06T00:00:00Z')`,
	`INSERT INTO deposits (id, user_id, amount, status, created_at) VALUES
		(1, 1, 10000, 'paid',    '2025-01-05T00:00:00Z'),
		(2, 2, 5000,  'paid',    '2025-01-05T00:00:00Z'),
		(3, 1, 700,   'pending', '2025-01-05T00:00:00Z')`,
	`INSERT INTO withdrawals (id, user_id, amount, status, created_at) VALUES
		(1, 1, 1000, 'approved', '2025-01-07T00:00:00Z'),
		(2, 2, 500,  'rejected', '2025-01-07T00:00:00Z')`,
	`INSERT INTO scratch_plays (id, user_id, price, prize_won, created_at) VALUES
		(1, 2, 500, NULL, '2025-01-06T00:00:00Z'),
		(2, 2, 500, 2000, '2025-01-06T00:00:00Z')`,
	`INSERT INTO raffle_tickets (id, raffle_id, user_id, price, created_at) VALUES (1, 1, 1, 6000, '2025-01-06T00:00:00Z')`,
	`INSERT INTO referrals (id, referrer_id, referred_user_id, bonus_awarded, created_at) VALUES (1, 1, 2, 8000, '2025-01-02T00:00:00Z')`,
	`INSERT INTO affiliate_sales (id, affiliate_id, buyer_id, commission_amount, created_at) VALUES (1, 3, 2, 2000, '2025-01-06T00:00:00Z')`,
}

func TestPostgresSource_ComputeSnapshot(t *testing.T) {
	t.Parallel()

	db := pgtestutil.NewTestDB(t)
	pgtestutil.Exec(t, db, sourceSeed...)

	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	svc := New(NewPostgresSource(db, pgutils.Page{Size: 2}), WithClock(fixedClock(at)), WithLogger(logging.Discard()))

	snap, err := svc.ComputeSnapshot(t.Context(), domain.DateRange{})
	require.NoError(t, err)

	assert.Equal(t, Balances{Wallets: 3, Total: 15000, Principal: 10000, Bonus: 5000}, snap.Balances)
	assert.Equal(t, int64(14000), snap.Cash.RealCash)
	assert.Equal(t, int64(4000), snap.Cash.AvailableToOperator)
	assert.Equal(t, int64(7000), snap.Revenue.Revenue)
	assert.Equal(t, int64(10000), snap.ProgramCost.TotalProgramCost)
	assert.Equal(t, int64(3), snap.Counters.TotalUsers)
	assert.False(t, snap.Truncated)
	assert.Empty(t, snap.Warnings)
}

func TestPostgresSource_RangeAndRowCap(t *testing.T) {
	t.Parallel()

	db := pgtestutil.NewTestDB(t)
	pgtestutil.Exec(t, db, sourceSeed...)

	from := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	ds, err := NewPostgresSource(db, pgutils.Page{Size: 1, MaxRows: 2}).Load(t.Context(), domain.DateRange{From: &from})
	require.NoError(t, err)

	// wallet balances are current state whatever the range
	assert.Len(t, ds.Wallets, 2)
	assert.Len(t, ds.Transactions, 1)
	assert.Empty(t, ds.Deposits)
	assert.Len(t, ds.Withdrawals, 1)
	assert.Len(t, ds.Plays, 3)
	assert.Empty(t, ds.Referrals)
	assert.Len(t, ds.AffiliateSales, 1)
	// users registered before the range still form the base
	assert.Equal(t, int64(3), ds.TotalUsers)
	assert.Equal(t, []string{"wallets"}, ds.TruncatedTables)
}

func TestPostgresSource_ConversionCountsEarlierSignups(t *testing.T) {
	t.Parallel()

	db := pgtestutil.NewTestDB(t)
	pgtestutil.Exec(t, db, sourceSeed...)

	day := domain.NewDateRange(
		time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 5, 23, 59, 59, 0, time.UTC),
	)
	svc := New(NewPostgresSource(db, pgutils.Page{Size: 10}), WithLogger(logging.Discard()))

	snap, err := svc.ComputeSnapshot(t.Context(), day)
	require.NoError(t, err)

	// nobody signed up on the 5th but two existing users deposited
	assert.Equal(t, int64(3), snap.Counters.TotalUsers)
	assert.Equal(t, int64(2), snap.Counters.DepositingUsers)
	assert.Equal(t, "66.67", snap.Counters.ConversionRatePct.String())
}

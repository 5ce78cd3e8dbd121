package payments

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgtestutil"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

func beginTx(t *testing.T, db *sql.DB) *sql.Tx {
	t.Helper()

	tx, err := db.BeginTx(t.Context(), &sql.TxOptions{ReadOnly: true})
	require.NoError(t, err)

	t.Cleanup(func() { _ = tx.Rollback() })

	return tx
}

func TestPayments_ListPaidDeposits(t *testing.T) {
	t.Parallel()

	db := pgtestutil.NewTestDB(t)
	pgtestutil.Exec(t, db, `INSERT INTO deposits (id, user_id, amount, status, created_at) VALUES
		(1, 1, 5000,  'paid',    '2025-01-01T00:00:00Z'),
		(2, 1, 700,   'pending', '2025-01-02T00:00:00Z'),
		(3, 2, 10000, 'paid',    '2025-03-01T00:00:00Z')`)

	repo := New()

	got, truncated, err := repo.ListPaidDeposits(t.Context(), beginTx(t, db), domain.DateRange{}, pgutils.Page{})
	require.NoError(t, err)
	assert.False(t, truncated)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
	assert.Equal(t, domain.DepositPaid, got[1].Status)
	assert.Equal(t, int64(10000), got[1].Amount)

	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	got, _, err = repo.ListPaidDeposits(t.Context(), beginTx(t, db), domain.DateRange{To: &to}, pgutils.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(5000), got[0].Amount)
}

func TestPayments_ListSettledWithdrawals(t *testing.T) {
	t.Parallel()

	db := pgtestutil.NewTestDB(t)
	pgtestutil.Exec(t, db, `INSERT INTO withdrawals (id, user_id, amount, status) VALUES
		(1, 1, 1000, 'approved'),
		(2, 1, 500,  'rejected'),
		(3, 2, 200,  'paid'),
		(4, 2, 300,  'pending')`)

	got, truncated, err := New().ListSettledWithdrawals(t.Context(), beginTx(t, db), domain.DateRange{}, pgutils.Page{Size: 1})
	require.NoError(t, err)
	assert.False(t, truncated)
	require.Len(t, got, 2)
	assert.Equal(t, domain.WithdrawalApproved, got[0].Status)
	assert.Equal(t, domain.WithdrawalPaid, got[1].Status)
}

func TestPayments_RejectsNullAmount(t *testing.T) {
	t.Parallel()

	db := pgtestutil.NewTestDB(t)
	pgtestutil.Exec(t, db, `INSERT INTO deposits (id, user_id, amount, status) VALUES (9, 1, NULL, 'paid')`)

	_, _, err := New().ListPaidDeposits(t.Context(), beginTx(t, db), domain.DateRange{}, pgutils.Page{})
	require.ErrorIs(t, err, domain.ErrMissingField)
	assert.Contains(t, err.Error(), "deposit 9: amount")
}

package recon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/finrecon/internal/domain"
)

func sampleDataset() *domain.Dataset {
	return &domain.Dataset{
		Wallets: []domain.Wallet{
			{ID: 1, UserID: 1, Balance: 10000},
			{ID: 2, UserID: 2, Balance: 5000},
			{ID: 3, UserID: 3, Balance: 0},
		},
		Transactions: []domain.Transaction{
			{ID: 1, WalletID: 1, Amount: 10000, Source: domain.SourceDeposit, OccurredAt: t0},
			{ID: 2, WalletID: 2, Amount: 8000, Source: domain.SourceReferral, OccurredAt: t0},
			{ID: 3, WalletID: 2, Amount: -3000, Source: domain.SourcePurchase, OccurredAt: t0.Add(time.Hour)},
			{ID: 4, WalletID: 99, Amount: 700, Source: domain.SourceDeposit, OccurredAt: t0},
		},
		Deposits: []domain.Deposit{
			{ID: 1, UserID: 1, Amount: 10000, Status: domain.DepositPaid},
			{ID: 2, UserID: 2, Amount: 5000, Status: domain.DepositPaid},
			{ID: 3, UserID: 1, Amount: 700, Status: "pending"},
		},
		Withdrawals: []domain.Withdrawal{
			{ID: 1, UserID: 1, Amount: 1000, Status: domain.WithdrawalApproved},
			{ID: 2, UserID: 2, Amount: 500, Status: "rejected"},
		},
		Plays: []domain.Play{
			{ID: 1, Line: domain.LineRaffle, UserID: 1, Price: 6000},
			{ID: 1, Line: domain.LineScratch, UserID: 2, Price: 500},
			{ID: 2, Line: domain.LineScratch, UserID: 2, Price: 500, PrizeWon: 2000},
		},
		Referrals:       []domain.Referral{{ID: 1, ReferrerID: 1, ReferredUserID: 2, BonusAwarded: 8000}},
		AffiliateSales:  []domain.AffiliateSale{{ID: 1, AffiliateID: 3, BuyerID: 2, CommissionAmount: 2000}},
		TotalUsers:      3,
		TruncatedTables: []string{"deposits"},
	}
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 2, 9, 0, 0, 0, time.FixedZone("BRT", -3*3600))

	snap, err := Assemble(t.Context(), sampleDataset(), at, 4)
	require.NoError(t, err)

	assert.Equal(t, at.UTC(), snap.ComputedAt)
	assert.Equal(t, "all time", snap.RangeLabel)

	assert.Equal(t, Balances{Wallets: 3, Total: 15000, Principal: 10000, Bonus: 5000}, snap.Balances)

	assert.Equal(t, int64(15000), snap.Cash.TotalDeposits)
	assert.Equal(t, int64(1000), snap.Cash.TotalWithdrawals)
	assert.Equal(t, int64(14000), snap.Cash.RealCash)
	assert.Equal(t, int64(4000), snap.Cash.AvailableToOperator)

	assert.Equal(t, int64(7000), snap.Revenue.Revenue)
	assert.Equal(t, int64(10000), snap.ProgramCost.TotalProgramCost)

	assert.False(t, snap.Alerts.InsufficientCash)
	assert.True(t, snap.Alerts.BonusRatioHigh)
	assert.Equal(t, "33.33", snap.Alerts.BonusRatioPct.String())
	assert.False(t, snap.Alerts.RTPLow)

	assert.Equal(t, int64(3), snap.Counters.TotalUsers)
	assert.Equal(t, int64(2), snap.Counters.DepositingUsers)
	assert.Equal(t, "66.67", snap.Counters.ConversionRatePct.String())
	assert.Equal(t, int64(7500), snap.Counters.AverageDeposit)
	assert.Equal(t, int64(2333), snap.Counters.AverageTicket)
	assert.Equal(t, int64(2), snap.Counters.PayingPlayers)
	assert.Equal(t, int64(3500), snap.Counters.AverageSpendPerUser)

	assert.True(t, snap.Truncated)
	assert.Equal(t, []string{
		"deposits: row cap reached, sums are partial",
		"1 transactions reference unknown wallets and were skipped",
	}, snap.Warnings)
}

func TestAssemble_SameInputSameSnapshot(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)

	first, err := Assemble(t.Context(), sampleDataset(), at, 1)
	require.NoError(t, err)

	second, err := Assemble(t.Context(), sampleDataset(), at, 8)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssemble_EmptyDataset(t *testing.T) {
	t.Parallel()

	snap, err := Assemble(t.Context(), &domain.Dataset{}, t0, 0)
	require.NoError(t, err)

	assert.Zero(t, snap.Cash.RealCash)
	assert.Zero(t, snap.Cash.AvailableToOperator)
	assert.Zero(t, snap.Balances.Total)
	assert.False(t, snap.Alerts.Any())
	assert.False(t, snap.Truncated)
	assert.NotNil(t, snap.Warnings)
	assert.Empty(t, snap.Warnings)
	assert.NotNil(t, snap.NegativeBalanceWallets)
	assert.Empty(t, snap.NegativeBalanceWallets)
	assert.True(t, snap.Counters.ConversionRatePct.IsZero())
	assert.Len(t, snap.Revenue.Lines, len(domain.ProductLines))
}

func TestAssemble_NegativeBalanceWarns(t *testing.T) {
	t.Parallel()

	ds := &domain.Dataset{Wallets: []domain.Wallet{{ID: 7, Balance: -250}}}

	snap, err := Assemble(t.Context(), ds, t0, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(-250), snap.Balances.Principal)
	assert.Equal(t, []int64{7}, snap.NegativeBalanceWallets)
	assert.Equal(t, []string{"wallet 7 has a negative balance"}, snap.Warnings)
}

func TestAssemble_ConversionNeverExceedsHundred(t *testing.T) {
	t.Parallel()

	ds := &domain.Dataset{
		Deposits: []domain.Deposit{
			{ID: 1, UserID: 10, Amount: 100, Status: domain.DepositPaid},
			{ID: 2, UserID: 11, Amount: 100, Status: domain.DepositPaid},
			{ID: 3, UserID: 12, Amount: 100, Status: domain.DepositPaid},
		},
		TotalUsers: 1,
	}

	snap, err := Assemble(t.Context(), ds, t0, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(3), snap.Counters.DepositingUsers)
	assert.Equal(t, int64(1), snap.Counters.TotalUsers)
	assert.True(t, snap.Counters.ConversionRatePct.LessThanOrEqual(decimal.NewFromInt(100)),
		"conversion %s", snap.Counters.ConversionRatePct)
	assert.Equal(t, "100", snap.Counters.ConversionRatePct.String())
	assert.Contains(t, snap.Warnings, "3 depositing users exceed 1 registered users; conversion capped at 100%")
}

package recon

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/finrecon/internal/domain"
)

// Balances is the system-wide attribution summary.
type Balances struct {
	Wallets    int   `json:"wallets"`
	Total      int64 `json:"total"`
	Principal  int64 `json:"principal"`
	Bonus      int64 `json:"bonus"`
	Commission int64 `json:"commission"`
}

type Counters struct {
	TotalUsers          int64           `json:"total_users"`
	DepositingUsers     int64           `json:"depositing_users"`
	ConversionRatePct   decimal.Decimal `json:"conversion_rate_pct"`
	AverageDeposit      int64           `json:"average_deposit"`
	AverageTicket       int64           `json:"average_ticket"`
	PayingPlayers       int64           `json:"paying_players"`
	AverageSpendPerUser int64           `json:"average_spend_per_user"`
}

// Snapshot is one immutable result of a reconciliation run. A new run
// supersedes it; nothing mutates it.
type Snapshot struct {
	ComputedAt time.Time        `json:"computed_at"`
	Range      domain.DateRange `json:"range"`
	RangeLabel string           `json:"range_label"`

	Balances    Balances       `json:"balances"`
	Cash        CashReserve    `json:"cash"`
	Revenue     RevenueMargins `json:"revenue"`
	ProgramCost ProgramCost    `json:"program_cost"`
	Alerts      Alerts         `json:"alerts"`
	Counters    Counters       `json:"counters"`

	// Truncated is set when any source scan stopped at the row cap; every sum
	// in the snapshot may then be partial.
	Truncated bool `json:"truncated"`
	// NegativeBalanceWallets lists wallets whose stored balance is below
	// zero. Their whole balance is counted as principal, so Principal can
	// be negative while this is non-empty.
	NegativeBalanceWallets []int64  `json:"negative_balance_wallets"`
	Warnings               []string `json:"warnings"`
}

// Assemble runs every reconciliation step over ds. It is deterministic: the
// same dataset, worker count and computedAt always give an equal snapshot.
func Assemble(ctx context.Context, ds *domain.Dataset, computedAt time.Time, workers int) (Snapshot, error) {
	attr, err := AttributeWallets(ctx, ds.Wallets, ds.Transactions, workers)
	if err != nil {
		return Snapshot{}, fmt.Errorf("attribute wallets: %w", err)
	}

	cash := ReconcileCash(ds.Deposits, ds.Withdrawals, attr.Principal)
	margins := ComputeMargins(LinesFromPlays(ds.Plays))
	program := AggregateProgramCost(ds.Referrals, ds.AffiliateSales, margins.Revenue)

	scratch := margins.Line(domain.LineScratch)
	alerts := EvaluateAlerts(AlertInput{
		AvailableToOperator: cash.AvailableToOperator,
		Principal:           attr.Principal,
		Bonus:               attr.Bonus,
		Commission:          attr.Commission,
		ScratchRevenue:      scratch.Revenue,
		ScratchPayout:       scratch.Payout,
		ScratchPlays:        scratch.Plays,
	})

	snap := Snapshot{
		ComputedAt: computedAt.UTC(),
		Range:      ds.Range,
		RangeLabel: ds.Range.Label(),
		Balances: Balances{
			Wallets:    len(attr.Wallets),
			Total:      attr.Total(),
			Principal:  attr.Principal,
			Bonus:      attr.Bonus,
			Commission: attr.Commission,
		},
		Cash:        cash,
		Revenue:     margins,
		ProgramCost: program,
		Alerts:      alerts,
		Counters:    countUsers(ds, cash, margins),

		NegativeBalanceWallets: append([]int64{}, attr.NegativeBalances...),
		Warnings:               []string{},
	}

	for _, table := range ds.TruncatedTables {
		snap.Truncated = true
		snap.Warnings = append(snap.Warnings, fmt.Sprintf("%s: row cap reached, sums are partial", table))
	}

	if attr.OrphanTransactions > 0 {
		snap.Warnings = append(snap.Warnings,
			fmt.Sprintf("%d transactions reference unknown wallets and were skipped", attr.OrphanTransactions))
	}

	if snap.Counters.DepositingUsers > ds.TotalUsers {
		snap.Warnings = append(snap.Warnings, fmt.Sprintf(
			"%d depositing users exceed %d registered users; conversion capped at 100%%",
			snap.Counters.DepositingUsers, ds.TotalUsers))
	}

	for _, id := range attr.NegativeBalances {
		snap.Warnings = append(snap.Warnings, fmt.Sprintf("wallet %d has a negative balance", id))
	}

	return snap, nil
}

func countUsers(ds *domain.Dataset, cash CashReserve, margins RevenueMargins) Counters {
	depositors := make(map[int64]struct{})

	for _, d := range ds.Deposits {
		if d.Counts() {
			depositors[d.UserID] = struct{}{}
		}
	}

	players := make(map[int64]struct{})

	for _, p := range ds.Plays {
		if p.Price > 0 {
			players[p.UserID] = struct{}{}
		}
	}

	depositing := int64(len(depositors))
	paying := int64(len(players))

	// depositors are a subset of the registered base; a larger count means
	// users rows are missing, and the rate must not pass 100
	base := max(ds.TotalUsers, depositing)

	return Counters{
		TotalUsers:          ds.TotalUsers,
		DepositingUsers:     depositing,
		ConversionRatePct:   round(pct(depositing, base)),
		AverageDeposit:      avgMinor(cash.TotalDeposits, int64(cash.PaidDeposits)),
		AverageTicket:       avgMinor(margins.Revenue, margins.Plays),
		PayingPlayers:       paying,
		AverageSpendPerUser: avgMinor(margins.Revenue, paying),
	}
}

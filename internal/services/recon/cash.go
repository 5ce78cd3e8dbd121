package recon

import "github.com/fastprodman/finrecon/internal/domain"

// CashReserve compares real cash against what users could withdraw on demand.
type CashReserve struct {
	TotalDeposits       int64 `json:"total_deposits"`
	TotalWithdrawals    int64 `json:"total_withdrawals"`
	RealCash            int64 `json:"real_cash"`
	CommittedPrincipal  int64 `json:"committed_principal"`
	AvailableToOperator int64 `json:"available_to_operator"`

	PaidDeposits       int `json:"paid_deposits"`
	SettledWithdrawals int `json:"settled_withdrawals"`
}

// ReconcileCash sums paid deposits and approved/paid withdrawals; records in
// any other status are ignored.
func ReconcileCash(deposits []domain.Deposit, withdrawals []domain.Withdrawal, committedPrincipal int64) CashReserve {
	var cr CashReserve

	for _, d := range deposits {
		if !d.Counts() {
			continue
		}

		cr.TotalDeposits += d.Amount
		cr.PaidDeposits++
	}

	for _, w := range withdrawals {
		if !w.Counts() {
			continue
		}

		cr.TotalWithdrawals += w.Amount
		cr.SettledWithdrawals++
	}

	cr.RealCash = cr.TotalDeposits - cr.TotalWithdrawals
	cr.CommittedPrincipal = committedPrincipal
	cr.AvailableToOperator = cr.RealCash - committedPrincipal

	return cr
}

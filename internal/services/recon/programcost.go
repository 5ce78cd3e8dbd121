package recon

import (
	"github.com/shopspring/decimal"

	"github.com/fastprodman/finrecon/internal/domain"
)

// ProgramCost is what the referral and affiliate programs paid out.
type ProgramCost struct {
	ReferralCost       int64           `json:"referral_cost"`
	AffiliateCost      int64           `json:"affiliate_cost"`
	TotalProgramCost   int64           `json:"total_program_cost"`
	CostAsPctOfRevenue decimal.Decimal `json:"cost_as_pct_of_revenue"`
	Referrals          int             `json:"referrals"`
	AffiliateSales     int             `json:"affiliate_sales"`
}

// AggregateProgramCost sums referral bonuses and affiliate commissions and
// relates the total to revenue (zero percent when revenue is zero).
func AggregateProgramCost(referrals []domain.Referral, sales []domain.AffiliateSale, revenue int64) ProgramCost {
	var pc ProgramCost

	for _, r := range referrals {
		pc.ReferralCost += r.BonusAwarded
	}

	for _, s := range sales {
		pc.AffiliateCost += s.CommissionAmount
	}

	pc.Referrals = len(referrals)
	pc.AffiliateSales = len(sales)
	pc.TotalProgramCost = pc.ReferralCost + pc.AffiliateCost
	pc.CostAsPctOfRevenue = round(pct(pc.TotalProgramCost, revenue))

	return pc
}

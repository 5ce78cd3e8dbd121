package recon

import (
	"cmp"
	"slices"

	"github.com/fastprodman/finrecon/internal/domain"
)

// Attribution splits one wallet balance into funding categories.
// Principal + Bonus + Commission == Balance and every part is >= 0.
type Attribution struct {
	WalletID   int64 `json:"wallet_id"`
	Balance    int64 `json:"balance"`
	Principal  int64 `json:"principal"`
	Bonus      int64 `json:"bonus"`
	Commission int64 `json:"commission"`
}

type ledgerState struct {
	principal  int64
	bonus      int64
	commission int64
}

// Replay attributes balance to principal, bonus and commission from the wallet's
// transactions. The input slice is not modified; records are folded in
// chronological order (ties by ID) whatever order they arrive in.
func Replay(walletID, balance int64, txs []domain.Transaction) Attribution {
	sorted := slices.Clone(txs)
	slices.SortFunc(sorted, compareChronological)

	st := fold(sorted)

	return normalize(walletID, balance, st)
}

func compareChronological(a, b domain.Transaction) int {
	c := a.OccurredAt.Compare(b.OccurredAt)
	if c != 0 {
		return c
	}

	return cmp.Compare(a.ID, b.ID)
}

// fold applies txs in the given order.
func fold(txs []domain.Transaction) ledgerState {
	var st ledgerState

	for _, tx := range txs {
		switch {
		case tx.Amount > 0:
			st.credit(tx.Source, tx.Amount)
		case tx.Amount < 0:
			st.debit(tx.Source, -tx.Amount)
		}
	}

	return st
}

func (st *ledgerState) credit(src domain.SourceType, amount int64) {
	switch src {
	case domain.SourceReferral, domain.SourceAdminBonus:
		st.bonus += amount
	case domain.SourceAffiliateCommission:
		st.commission += amount
	default:
		st.principal += amount
	}
}

func (st *ledgerState) debit(src domain.SourceType, d int64) {
	take := min(st.bonus, d)
	st.bonus -= take

	// bonus_used only ever consumes bonus; the excess is dropped.
	if src == domain.SourceBonusUsed {
		return
	}

	st.principal = max(st.principal-(d-take), 0)
}

// normalize closes the fold against the authoritative balance.
func normalize(walletID, balance int64, st ledgerState) Attribution {
	ceiling := max(balance, 0)

	bonus := clamp(st.bonus, 0, ceiling)
	commission := clamp(st.commission, 0, ceiling-bonus)

	return Attribution{
		WalletID:   walletID,
		Balance:    balance,
		Principal:  balance - bonus - commission,
		Bonus:      bonus,
		Commission: commission,
	}
}

func clamp(v, lo, hi int64) int64 {
	return min(max(v, lo), hi)
}

// Package domain holds the typed source records read from the transaction store.
// All money values are minor units (cents).
package domain

import "time"

type SourceType string

const (
	SourceDeposit             SourceType = "deposit"
	SourcePurchase            SourceType = "purchase"
	SourcePrize               SourceType = "prize"
	SourceRefund              SourceType = "refund"
	SourceWithdrawal          SourceType = "withdrawal"
	SourceReferral            SourceType = "referral"
	SourceAdminBonus          SourceType = "admin_bonus"
	SourceAffiliateCommission SourceType = "affiliate_commission"
	SourceBonusUsed           SourceType = "bonus_used"
	SourceOther               SourceType = "other"
)

// ParseSourceType never fails: empty and unknown tags are SourceOther.
func ParseSourceType(raw string) SourceType {
	switch st := SourceType(raw); st {
	case SourceDeposit, SourcePurchase, SourcePrize, SourceRefund, SourceWithdrawal,
		SourceReferral, SourceAdminBonus, SourceAffiliateCommission, SourceBonusUsed:
		return st
	default:
		return SourceOther
	}
}

type ProductLine string

const (
	LineScratch ProductLine = "scratch"
	LineRaffle  ProductLine = "raffle"
)

// ProductLines lists every line the report always carries, in report order.
var ProductLines = []ProductLine{LineRaffle, LineScratch}

const (
	DepositPaid        = "paid"
	WithdrawalApproved = "approved"
	WithdrawalPaid     = "paid"
)

type Wallet struct {
	ID      int64
	UserID  int64
	Balance int64
}

type Transaction struct {
	ID         int64
	WalletID   int64
	Amount     int64 // credit > 0, debit < 0
	Source     SourceType
	OccurredAt time.Time
}

type Deposit struct {
	ID        int64
	UserID    int64
	Amount    int64
	Status    string
	CreatedAt time.Time
}

// Counts reports whether the deposit is a confirmed inbound payment.
func (d Deposit) Counts() bool { return d.Status == DepositPaid }

type Withdrawal struct {
	ID        int64
	UserID    int64
	Amount    int64
	Status    string
	CreatedAt time.Time
}

func (w Withdrawal) Counts() bool {
	return w.Status == WithdrawalApproved || w.Status == WithdrawalPaid
}

// Play is one scratch-card play or one raffle ticket purchase.
type Play struct {
	ID       int64
	Line     ProductLine
	UserID   int64
	Price    int64
	PrizeWon int64 // 0 when the play did not win cash
	PlayedAt time.Time
}

type Referral struct {
	ID             int64
	ReferrerID     int64
	ReferredUserID int64
	BonusAwarded   int64
	CreatedAt      time.Time
}

type AffiliateSale struct {
	ID               int64
	AffiliateID      int64
	BuyerID          int64
	CommissionAmount int64
	CreatedAt        time.Time
}

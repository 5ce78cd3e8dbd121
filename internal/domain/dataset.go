package domain

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("invalid date range")

// DateRange filters source records by timestamp. Both bounds are inclusive and
// optional; the zero value means all time.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

func NewDateRange(from, to time.Time) DateRange {
	return DateRange{From: &from, To: &to}
}

func (r DateRange) IsAllTime() bool { return r.From == nil && r.To == nil }

func (r DateRange) Validate() error {
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return ErrInvalidRange
	}

	return nil
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}

	if r.To != nil && t.After(*r.To) {
		return false
	}

	return true
}

// Label is a stable human-readable form, "all time" when unbounded.
func (r DateRange) Label() string {
	if r.IsAllTime() {
		return "all time"
	}

	from, to := "-inf", "+inf"
	if r.From != nil {
		from = r.From.UTC().Format(time.RFC3339)
	}

	if r.To != nil {
		to = r.To.UTC().Format(time.RFC3339)
	}

	return from + " .. " + to
}

// Dataset is a point-in-time read of every source table for one range.
type Dataset struct {
	Range          DateRange
	Wallets        []Wallet
	Transactions   []Transaction
	Deposits       []Deposit
	Withdrawals    []Withdrawal
	Plays          []Play
	Referrals      []Referral
	AffiliateSales []AffiliateSale
	TotalUsers     int64

	// TruncatedTables names every table whose scan stopped at the row cap.
	TruncatedTables []string
}

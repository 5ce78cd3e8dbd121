package payments

import (
	"database/sql"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/repos/payments"
)

var _ payments.Payments = (*paymentsRepo)(nil)

type paymentsRepo struct{}

func New() *paymentsRepo {
	return &paymentsRepo{}
}

// paymentRow is the shared shape of the deposits and withdrawals tables.
type paymentRow struct {
	id        int64
	userID    sql.NullInt64
	amount    sql.NullInt64
	status    string
	createdAt sql.NullTime
}

func (p paymentRow) validate(entity string) error {
	switch {
	case !p.userID.Valid:
		return domain.MissingField(entity, p.id, "user_id")
	case !p.amount.Valid:
		return domain.MissingField(entity, p.id, "amount")
	case !p.createdAt.Valid:
		return domain.MissingField(entity, p.id, "created_at")
	}

	return nil
}

package gameplay

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
)

var ErrUnknownLine = errors.New("unknown product line")

type Gameplay interface {
	// ListPlays returns the plays of one product line created inside rng.
	ListPlays(ctx context.Context, tx *sql.Tx, line domain.ProductLine, rng domain.DateRange, page pgutils.Page) ([]domain.Play, bool, error)
}

package gameplay

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/infra/pgtestutil"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
	"github.com/fastprodman/finrecon/internal/repos/gameplay"
)

func TestGameplay_ListPlays_TableDriven(t *testing.T) {
	t.Parallel()

	type tc struct {
		name        string
		line        domain.ProductLine
		wantRevenue int64
		wantPrizes  int64
		wantPlays   int
	}

	tests := []tc{
		{name: "scratch", line: domain.LineScratch, wantRevenue: 1000, wantPrizes: 2000, wantPlays: 2},
		{name: "raffle", line: domain.LineRaffle, wantRevenue: 6000, wantPrizes: 0, wantPlays: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := pgtestutil.NewTestDB(t)
			pgtestutil.Exec(t, db,
				`INSERT INTO scratch_plays (id, user_id, price, prize_won) VALUES (1, 2, 500, NULL), (2, 2, 500, 2000)`,
				`INSERT INTO raffle_tickets (id, raffle_id, user_id, price) VALUES (1, 10, 1, 6000)`,
			)

			tx, err := db.BeginTx(t.Context(), &sql.TxOptions{ReadOnly: true})
			require.NoError(t, err)

			defer func() { _ = tx.Rollback() }()

			plays, truncated, err := New().ListPlays(t.Context(), tx, tt.line, domain.DateRange{}, pgutils.Page{})
			require.NoError(t, err)
			assert.False(t, truncated)
			require.Len(t, plays, tt.wantPlays)

			var revenue, prizes int64

			for _, p := range plays {
				assert.Equal(t, tt.line, p.Line)

				revenue += p.Price
				prizes += p.PrizeWon
			}

			assert.Equal(t, tt.wantRevenue, revenue)
			assert.Equal(t, tt.wantPrizes, prizes)
		})
	}
}

func TestGameplay_UnknownLine(t *testing.T) {
	t.Parallel()

	_, _, err := New().ListPlays(t.Context(), nil, "bingo", domain.DateRange{}, pgutils.Page{})
	require.ErrorIs(t, err, gameplay.ErrUnknownLine)
}

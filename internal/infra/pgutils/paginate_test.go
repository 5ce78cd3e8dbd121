package pgutils

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyset fakes a table of ids 1..n.
func keyset(n int64, calls *int) FetchFunc[int64] {
	return func(_ context.Context, _ *sql.Tx, after int64, limit int) ([]int64, int64, error) {
		*calls++

		var rows []int64
		for id := after + 1; id <= n && len(rows) < limit; id++ {
			rows = append(rows, id)
		}

		if len(rows) == 0 {
			return nil, after, nil
		}

		return rows, rows[len(rows)-1], nil
	}
}

func TestPaginate_TableDriven(t *testing.T) {
	t.Parallel()

	type tc struct {
		name          string
		rows          int64
		page          Page
		wantLen       int
		wantTruncated bool
		wantCalls     int
	}

	tests := []tc{
		{name: "empty", rows: 0, page: Page{Size: 10}, wantLen: 0, wantCalls: 1},
		{name: "single_partial_page", rows: 7, page: Page{Size: 10}, wantLen: 7, wantCalls: 1},
		{name: "exact_page_needs_probe", rows: 10, page: Page{Size: 10}, wantLen: 10, wantCalls: 2},
		{name: "many_pages", rows: 25, page: Page{Size: 10}, wantLen: 25, wantCalls: 3},
		{name: "cap_not_reached", rows: 5, page: Page{Size: 2, MaxRows: 10}, wantLen: 5, wantCalls: 3},
		{name: "exactly_at_cap", rows: 6, page: Page{Size: 4, MaxRows: 6}, wantLen: 6, wantCalls: 2},
		{name: "over_cap", rows: 7, page: Page{Size: 4, MaxRows: 6}, wantLen: 6, wantTruncated: true, wantCalls: 2},
		{name: "default_size", rows: DefaultPageSize + 1, page: Page{}, wantLen: DefaultPageSize + 1, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			calls := 0

			got, truncated, err := Paginate(t.Context(), nil, tt.page, keyset(tt.rows, &calls))
			require.NoError(t, err)

			assert.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantTruncated, truncated)
			assert.Equal(t, tt.wantCalls, calls)

			for i, id := range got {
				require.Equal(t, int64(i+1), id)
			}
		})
	}
}

func TestPaginate_FetchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var fetch FetchFunc[int64] = func(context.Context, *sql.Tx, int64, int) ([]int64, int64, error) {
		return nil, 0, boom
	}

	_, _, err := Paginate(t.Context(), nil, Page{}, fetch)
	require.ErrorIs(t, err, boom)
}

func TestNullTime(t *testing.T) {
	t.Parallel()

	assert.False(t, NullTime(nil).Valid)

	at := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	nt := NullTime(&at)
	assert.True(t, nt.Valid)
	assert.Equal(t, at, nt.Time)
}
